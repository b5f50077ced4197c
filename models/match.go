package models

type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCompleted MatchStatus = "completed"
)

// MatchSlot is a single pairing inside a round. A nil player is either not yet
// determined or, in a round that can no longer receive players, a bye.
type MatchSlot struct {
	MatchID string          `json:"match_id"`
	Player1 *ParticipantRef `json:"player1"`
	Player2 *ParticipantRef `json:"player2"`
	Winner  *string         `json:"winner"`
	Status  MatchStatus     `json:"status"`
	// Bye is set when the match was resolved without a contest.
	Bye bool `json:"bye,omitempty"`
}

// MatchRef identifies a match to complete. RoundNumber is optional; when set
// it must agree with the round that holds the match.
type MatchRef struct {
	MatchID     string `json:"match_id"`
	RoundNumber int    `json:"round_number,omitempty"`
}

func (m *MatchSlot) IsCompleted() bool {
	return m.Status == MatchStatusCompleted
}

// PlayerCount reports how many of the two slots are filled.
func (m *MatchSlot) PlayerCount() int {
	n := 0
	if m.Player1 != nil {
		n++
	}
	if m.Player2 != nil {
		n++
	}
	return n
}

// HasPlayer reports whether the participant occupies either slot.
func (m *MatchSlot) HasPlayer(id string) bool {
	return (m.Player1 != nil && m.Player1.ID == id) || (m.Player2 != nil && m.Player2.ID == id)
}

// Opponent returns the other player of the match, or nil.
func (m *MatchSlot) Opponent(id string) *ParticipantRef {
	switch {
	case m.Player1 != nil && m.Player1.ID == id:
		return m.Player2
	case m.Player2 != nil && m.Player2.ID == id:
		return m.Player1
	}
	return nil
}

// Present returns the single seated player of a one-player match.
func (m *MatchSlot) Present() *ParticipantRef {
	if m.Player1 != nil {
		return m.Player1
	}
	return m.Player2
}

func (m *MatchSlot) clone() MatchSlot {
	c := *m
	if m.Player1 != nil {
		p := *m.Player1
		c.Player1 = &p
	}
	if m.Player2 != nil {
		p := *m.Player2
		c.Player2 = &p
	}
	if m.Winner != nil {
		w := *m.Winner
		c.Winner = &w
	}
	return c
}
