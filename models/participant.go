package models

import "time"

type ParticipantStatus string

const (
	ParticipantStatusPending   ParticipantStatus = "pending"
	ParticipantStatusConfirmed ParticipantStatus = "confirmed"
	ParticipantStatusWithdrawn ParticipantStatus = "withdrawn"
)

// Participant is a roster entry supplied to bracket generation. The order of
// a participant list defines seeding.
type Participant struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Registration is a participant's entry in a tournament roster, as kept by the
// roster store.
type Registration struct {
	TournamentID string            `json:"tournament_id" db:"tournament_id"`
	Participant  Participant       `json:"participant"`
	Status       ParticipantStatus `json:"status" db:"status"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// TournamentParticipant is the per-bracket record derived from a Participant.
// Only match completion changes it.
type TournamentParticipant struct {
	ID              string `json:"id"`
	DisplayName     string `json:"display_name"`
	Seed            int    `json:"seed"`
	Wins            int    `json:"wins"`
	Losses          int    `json:"losses"`
	Points          int    `json:"points"`
	Draws           int    `json:"draws"`
	Eliminated      bool   `json:"eliminated"`
	InLosersBracket bool   `json:"in_losers_bracket"`
}

// ParticipantRef points at a participant from a match slot.
type ParticipantRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (p TournamentParticipant) Ref() *ParticipantRef {
	return &ParticipantRef{ID: p.ID, DisplayName: p.DisplayName}
}
