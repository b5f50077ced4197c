package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// GenerateBracketData builds a new bracket for the given format.
func GenerateBracketData(kind models.FormatKind, participants []models.Participant, minParticipants int, settings models.FormatSettings, opts ...Option) (*models.BracketDocument, error) {
	format, err := NewFormat(kind, settings, opts...)
	if err != nil {
		return nil, err
	}
	return format.Generate(participants, minParticipants)
}

// HandleMatchCompletion applies a result. kind must match the document's
// tournament type.
func HandleMatchCompletion(doc *models.BracketDocument, ref models.MatchRef, winnerID string, kind models.FormatKind) (*models.BracketDocument, error) {
	format, err := formatFor(doc, kind)
	if err != nil {
		return nil, err
	}
	return format.Complete(doc, ref, winnerID)
}

func AdvanceBye(doc *models.BracketDocument, ref models.MatchRef, kind models.FormatKind) (*models.BracketDocument, error) {
	format, err := formatFor(doc, kind)
	if err != nil {
		return nil, err
	}
	return format.AdvanceBye(doc, ref)
}

func formatOf(doc *models.BracketDocument) (TournamentFormat, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil bracket document", ErrValidation)
	}
	return formatFor(doc, doc.TournamentType)
}

func formatFor(doc *models.BracketDocument, kind models.FormatKind) (TournamentFormat, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: nil bracket document", ErrValidation)
	}
	if doc.TournamentType != kind {
		return nil, fmt.Errorf("%w: document is %q, requested %q", ErrUnsupportedFormat, doc.TournamentType, kind)
	}
	return NewFormat(kind, doc.Settings)
}

// ResolveByes advances every bye that can be resolved, repeating until none
// is left, and reports how many were advanced. The returned document is a new
// copy even when nothing changed.
func ResolveByes(doc *models.BracketDocument) (*models.BracketDocument, int, error) {
	format, err := formatOf(doc)
	if err != nil {
		return nil, 0, err
	}
	current := doc.Clone()
	advanced := 0
	for !current.TournamentComplete {
		ref, ok := nextBye(current, format.(byeRules))
		if !ok {
			break
		}
		next, err := format.AdvanceBye(current, ref)
		if err != nil {
			return nil, advanced, err
		}
		current = next
		advanced++
	}
	return current, advanced, nil
}

func nextBye(doc *models.BracketDocument, rules byeRules) (models.MatchRef, bool) {
	for ri := range doc.Rounds {
		for mi := range doc.Rounds[ri].Matches {
			m := &doc.Rounds[ri].Matches[mi]
			if !m.IsCompleted() && m.PlayerCount() == 1 && rules.roundClosed(doc, ri) {
				return models.MatchRef{MatchID: m.MatchID, RoundNumber: doc.Rounds[ri].RoundNumber}, true
			}
		}
	}
	return models.MatchRef{}, false
}

// PendingMatch is a match that needs action: either a contest between two
// seated players or a bye waiting to be advanced.
type PendingMatch struct {
	Bracket     models.BracketSection `json:"bracket"`
	RoundNumber int                   `json:"round_number"`
	RoundName   string                `json:"round_name"`
	Match       models.MatchSlot      `json:"match"`
	Bye         bool                  `json:"bye"`
}

// CurrentMatches lists what can be played or advanced right now, in document
// order.
func CurrentMatches(doc *models.BracketDocument) ([]PendingMatch, error) {
	format, err := formatOf(doc)
	if err != nil {
		return nil, err
	}
	rules := format.(byeRules)

	out := make([]PendingMatch, 0)
	if doc.TournamentComplete {
		return out, nil
	}
	snapshot := doc.Clone()
	for ri := range snapshot.Rounds {
		round := &snapshot.Rounds[ri]
		for mi := range round.Matches {
			m := &round.Matches[mi]
			if m.IsCompleted() {
				continue
			}
			pending := PendingMatch{
				Bracket:     round.Bracket,
				RoundNumber: round.RoundNumber,
				RoundName:   round.Name,
			}
			switch {
			case m.PlayerCount() == 2:
			case m.PlayerCount() == 1 && rules.roundClosed(snapshot, ri):
				pending.Bye = true
			default:
				continue
			}
			pending.Match = *m
			out = append(out, pending)
		}
	}
	return out, nil
}
