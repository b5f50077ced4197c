package brackets

import (
	"fmt"
	"math/bits"
	"math/rand/v2"

	"github.com/Dosada05/tournament-brackets/models"
)

// TournamentFormat is implemented once per tournament format. Every method is
// a pure transformation: the input document is never modified and a failed
// call returns no document.
type TournamentFormat interface {
	Kind() models.FormatKind

	Generate(participants []models.Participant, minParticipants int) (*models.BracketDocument, error)

	Complete(doc *models.BracketDocument, ref models.MatchRef, winnerID string) (*models.BracketDocument, error)

	// AdvanceBye resolves a one-player match that can no longer receive an
	// opponent by advancing the present player with a nominal win.
	AdvanceBye(doc *models.BracketDocument, ref models.MatchRef) (*models.BracketDocument, error)
}

// byeRules tells whether a round can still receive players. A single-player
// match is a bye only once its round is closed.
type byeRules interface {
	roundClosed(doc *models.BracketDocument, roundIndex int) bool
}

type Option func(*options)

type options struct {
	rng *rand.Rand
}

// WithRand makes Swiss first-round shuffling reproducible.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

func (o *options) shuffle(n int, swap func(i, j int)) {
	if o.rng != nil {
		o.rng.Shuffle(n, swap)
		return
	}
	rand.Shuffle(n, swap)
}

// NewFormat returns the implementation for kind.
func NewFormat(kind models.FormatKind, settings models.FormatSettings, opts ...Option) (TournamentFormat, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	settings = settings.Normalize()

	switch kind {
	case models.FormatSingleElimination:
		return &SingleElimination{settings: settings}, nil
	case models.FormatDoubleElimination:
		return &DoubleElimination{settings: settings}, nil
	case models.FormatRoundRobin:
		return &RoundRobin{settings: settings}, nil
	case models.FormatSwiss:
		return &Swiss{settings: settings, opts: o}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, kind)
	}
}

func validateParticipants(participants []models.Participant, minParticipants int) error {
	if minParticipants < 2 {
		minParticipants = 2
	}
	if len(participants) < minParticipants {
		return fmt.Errorf("%w: not enough participants (found %d, min %d required)", ErrValidation, len(participants), minParticipants)
	}
	seen := make(map[string]struct{}, len(participants))
	for i, p := range participants {
		if p.ID == "" {
			return fmt.Errorf("%w: participant at position %d has no id", ErrValidation, i+1)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: duplicate participant id %q", ErrValidation, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

func newDocument(kind models.FormatKind, participants []models.Participant, settings models.FormatSettings) *models.BracketDocument {
	records := make([]models.TournamentParticipant, len(participants))
	for i, p := range participants {
		records[i] = models.TournamentParticipant{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Seed:        i + 1,
		}
	}
	return &models.BracketDocument{
		Rounds:         make([]models.Round, 0),
		Participants:   records,
		CurrentRound:   1,
		TournamentType: kind,
		Settings:       settings,
	}
}

// roundsFor is ceil(log2(n)) for n >= 1.
func roundsFor(n int) int {
	if n <= 1 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// pairConsecutive seats (0,1), (2,3), ... and gives an odd last entrant a nil
// opponent.
func pairConsecutive(records []models.TournamentParticipant, matchID func(i int) string) []models.MatchSlot {
	matches := make([]models.MatchSlot, 0, (len(records)+1)/2)
	for i := 0; i < len(records); i += 2 {
		m := models.MatchSlot{
			MatchID: matchID(len(matches)),
			Player1: records[i].Ref(),
			Status:  models.MatchStatusScheduled,
		}
		if i+1 < len(records) {
			m.Player2 = records[i+1].Ref()
		}
		matches = append(matches, m)
	}
	return matches
}

func emptyMatches(count int, matchID func(i int) string) []models.MatchSlot {
	matches := make([]models.MatchSlot, count)
	for i := range matches {
		matches[i] = models.MatchSlot{
			MatchID: matchID(i),
			Status:  models.MatchStatusScheduled,
		}
	}
	return matches
}

func eliminationRoundName(round, total int) string {
	switch total - round {
	case 0:
		return "Finals"
	case 1:
		return "Semifinals"
	case 2:
		return "Quarterfinals"
	default:
		return fmt.Sprintf("Round %d", round)
	}
}
