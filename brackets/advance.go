package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// prepare validates a completion request against doc and returns a private
// copy to mutate together with the match location.
func prepare(doc *models.BracketDocument, kind models.FormatKind, ref models.MatchRef) (*models.BracketDocument, models.MatchLocation, error) {
	if doc == nil {
		return nil, models.MatchLocation{}, fmt.Errorf("%w: nil bracket document", ErrValidation)
	}
	if doc.TournamentType != kind {
		return nil, models.MatchLocation{}, fmt.Errorf("%w: document is %q, handler is %q", ErrUnsupportedFormat, doc.TournamentType, kind)
	}
	if doc.TournamentComplete {
		return nil, models.MatchLocation{}, ErrTournamentComplete
	}
	loc, ok := doc.Locate(ref.MatchID)
	if !ok {
		return nil, models.MatchLocation{}, fmt.Errorf("%w: %q", ErrMatchNotFound, ref.MatchID)
	}
	if ref.RoundNumber != 0 && doc.Rounds[loc.RoundIndex].RoundNumber != ref.RoundNumber {
		return nil, models.MatchLocation{}, fmt.Errorf("%w: %q is not in round %d", ErrMatchNotFound, ref.MatchID, ref.RoundNumber)
	}
	if doc.Match(loc).IsCompleted() {
		return nil, models.MatchLocation{}, fmt.Errorf("%w: %q", ErrMatchAlreadyCompleted, ref.MatchID)
	}
	return doc.Clone(), loc, nil
}

// checkContest validates a reported result. An empty winnerID is a draw.
func checkContest(m *models.MatchSlot, winnerID string, allowDraw bool) error {
	if m.PlayerCount() < 2 {
		return fmt.Errorf("%w: %q", ErrMatchNotReady, m.MatchID)
	}
	if winnerID == "" {
		if allowDraw {
			return nil
		}
		return fmt.Errorf("%w: draws are not allowed in this format", ErrInvalidWinner)
	}
	if !m.HasPlayer(winnerID) {
		return fmt.Errorf("%w: %q in %q", ErrInvalidWinner, winnerID, m.MatchID)
	}
	return nil
}

func checkBye(doc *models.BracketDocument, rules byeRules, loc models.MatchLocation) error {
	m := doc.Match(loc)
	if m.PlayerCount() != 1 || !rules.roundClosed(doc, loc.RoundIndex) {
		return fmt.Errorf("%w: %q", ErrNotBye, m.MatchID)
	}
	return nil
}

func settle(m *models.MatchSlot, winnerID string) {
	if winnerID != "" {
		w := winnerID
		m.Winner = &w
	}
	m.Status = models.MatchStatusCompleted
}

// recordLoss counts a loss and eliminates the participant once the format's
// loss limit is reached.
func recordLoss(p *models.TournamentParticipant, lossLimit int) {
	p.Losses++
	if p.Losses >= lossLimit {
		p.Eliminated = true
	}
}

// placeFirstOpen seats a participant in the first open slot of the round:
// first match in round order, player1 before player2. When the round has no
// open slot and grow is set, a new match is appended.
func placeFirstOpen(round *models.Round, p *models.ParticipantRef, grow bool, matchID func(i int) string) error {
	for i := range round.Matches {
		m := &round.Matches[i]
		if m.IsCompleted() {
			continue
		}
		if m.Player1 == nil {
			m.Player1 = p
			return nil
		}
		if m.Player2 == nil {
			m.Player2 = p
			return nil
		}
	}
	if !grow {
		return fmt.Errorf("%w: %s round %d", errNoOpenSlot, round.Bracket, round.RoundNumber)
	}
	round.Matches = append(round.Matches, models.MatchSlot{
		MatchID: matchID(len(round.Matches)),
		Player1: p,
		Status:  models.MatchStatusScheduled,
	})
	return nil
}

func loserOf(m *models.MatchSlot, winnerID string) *models.ParticipantRef {
	return m.Opponent(winnerID)
}

func declareWinner(doc *models.BracketDocument, winnerID string) {
	doc.TournamentComplete = true
	if p := doc.Participant(winnerID); p != nil {
		w := *p
		doc.Winner = &w
	}
}

func copyRef(p *models.ParticipantRef) *models.ParticipantRef {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
