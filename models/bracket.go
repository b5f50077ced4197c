package models

type BracketSection string

const (
	SectionMain        BracketSection = "main"
	SectionWinners     BracketSection = "winners"
	SectionLosers      BracketSection = "losers"
	SectionGrandFinals BracketSection = "grand_finals"
)

// Round numbers are 1-based and sequential within a bracket section.
type Round struct {
	RoundNumber int            `json:"round_number"`
	Name        string         `json:"name"`
	Bracket     BracketSection `json:"bracket"`
	Matches     []MatchSlot    `json:"matches"`
}

// Completed reports whether every match in the round is resolved. An empty
// round counts as completed.
func (r *Round) Completed() bool {
	for i := range r.Matches {
		if !r.Matches[i].IsCompleted() {
			return false
		}
	}
	return true
}

// BracketDocument is the complete state of one tournament's bracket.
type BracketDocument struct {
	Rounds             []Round                 `json:"rounds"`
	Participants       []TournamentParticipant `json:"participants"`
	CurrentRound       int                     `json:"current_round"`
	TotalRounds        int                     `json:"total_rounds"`
	TournamentType     FormatKind              `json:"tournament_type"`
	TournamentComplete bool                    `json:"tournament_complete"`
	Winner             *TournamentParticipant  `json:"winner"`
	Settings           FormatSettings          `json:"settings"`
}

// Clone returns a deep copy that shares no memory with d.
func (d *BracketDocument) Clone() *BracketDocument {
	if d == nil {
		return nil
	}
	c := *d
	c.Rounds = make([]Round, len(d.Rounds))
	for i, r := range d.Rounds {
		nr := r
		nr.Matches = make([]MatchSlot, len(r.Matches))
		for j := range r.Matches {
			nr.Matches[j] = r.Matches[j].clone()
		}
		c.Rounds[i] = nr
	}
	c.Participants = make([]TournamentParticipant, len(d.Participants))
	copy(c.Participants, d.Participants)
	if d.Winner != nil {
		w := *d.Winner
		c.Winner = &w
	}
	return &c
}

// MatchLocation addresses a match by its indexes in Rounds.
type MatchLocation struct {
	RoundIndex int
	MatchIndex int
}

// Locate finds a match by id. ok is false when no match has that id.
func (d *BracketDocument) Locate(matchID string) (loc MatchLocation, ok bool) {
	for ri := range d.Rounds {
		for mi := range d.Rounds[ri].Matches {
			if d.Rounds[ri].Matches[mi].MatchID == matchID {
				return MatchLocation{RoundIndex: ri, MatchIndex: mi}, true
			}
		}
	}
	return MatchLocation{}, false
}

func (d *BracketDocument) Match(loc MatchLocation) *MatchSlot {
	return &d.Rounds[loc.RoundIndex].Matches[loc.MatchIndex]
}

// Participant returns a pointer into Participants for in-place updates.
func (d *BracketDocument) Participant(id string) *TournamentParticipant {
	for i := range d.Participants {
		if d.Participants[i].ID == id {
			return &d.Participants[i]
		}
	}
	return nil
}

// SectionRounds returns the indexes of the rounds in a section, in order.
func (d *BracketDocument) SectionRounds(section BracketSection) []int {
	var idx []int
	for i := range d.Rounds {
		if d.Rounds[i].Bracket == section {
			idx = append(idx, i)
		}
	}
	return idx
}

// RoundIndex returns the index of the given section round, or -1.
func (d *BracketDocument) RoundIndex(section BracketSection, number int) int {
	for i := range d.Rounds {
		if d.Rounds[i].Bracket == section && d.Rounds[i].RoundNumber == number {
			return i
		}
	}
	return -1
}

// MatchCount is the total number of match slots across all rounds.
func (d *BracketDocument) MatchCount() int {
	n := 0
	for i := range d.Rounds {
		n += len(d.Rounds[i].Matches)
	}
	return n
}

// RemainingParticipants lists participants that are not eliminated.
func (d *BracketDocument) RemainingParticipants() []TournamentParticipant {
	var out []TournamentParticipant
	for _, p := range d.Participants {
		if !p.Eliminated {
			out = append(out, p)
		}
	}
	return out
}
