package models

import "time"

type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
)

// Tournament is the persisted unit: tournament metadata plus its bracket
// document. Version increases on every bracket write and backs optimistic
// concurrency in the stores.
type Tournament struct {
	ID              string           `json:"id" db:"id"`
	Name            string           `json:"name" db:"name"`
	Format          FormatKind       `json:"format" db:"format"`
	MinParticipants int              `json:"min_participants" db:"min_participants"`
	Settings        FormatSettings   `json:"settings" db:"settings"`
	Status          TournamentStatus `json:"status" db:"status"`
	Bracket         *BracketDocument `json:"bracket,omitempty" db:"bracket"`
	Version         int64            `json:"version" db:"version"`
	CreatedAt       time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" db:"updated_at"`

	Registrations []Registration `json:"registrations,omitempty" db:"-"`
}

// Clone deep-copies the tournament including its bracket.
func (t *Tournament) Clone() *Tournament {
	if t == nil {
		return nil
	}
	c := *t
	c.Bracket = t.Bracket.Clone()
	if t.Registrations != nil {
		c.Registrations = make([]Registration, len(t.Registrations))
		copy(c.Registrations, t.Registrations)
	}
	return &c
}
