package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// Swiss pairs a shuffled roster in round 1 and pairs later rounds by
// standings once the previous round is fully played. Nobody is eliminated.
type Swiss struct {
	settings models.FormatSettings
	opts     *options
}

func (g *Swiss) Kind() models.FormatKind {
	return models.FormatSwiss
}

func swissMatchID(round int) func(i int) string {
	return func(i int) string {
		return fmt.Sprintf("R%dM%d", round, i+1)
	}
}

func (g *Swiss) Generate(participants []models.Participant, minParticipants int) (*models.BracketDocument, error) {
	if err := validateParticipants(participants, minParticipants); err != nil {
		return nil, err
	}
	doc := newDocument(g.Kind(), participants, g.settings)
	numRounds := roundsFor(len(participants))
	doc.TotalRounds = numRounds

	shuffled := make([]models.TournamentParticipant, len(doc.Participants))
	copy(shuffled, doc.Participants)
	g.opts.shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	doc.Rounds = append(doc.Rounds, models.Round{
		RoundNumber: 1,
		Name:        "Round 1",
		Bracket:     models.SectionMain,
		Matches:     pairConsecutive(shuffled, swissMatchID(1)),
	})
	for r := 2; r <= numRounds; r++ {
		doc.Rounds = append(doc.Rounds, models.Round{
			RoundNumber: r,
			Name:        fmt.Sprintf("Round %d", r),
			Bracket:     models.SectionMain,
			Matches:     []models.MatchSlot{},
		})
	}
	return doc, nil
}

// Complete records a win, or a draw when winnerID is empty.
func (g *Swiss) Complete(doc *models.BracketDocument, ref models.MatchRef, winnerID string) (*models.BracketDocument, error) {
	next, loc, err := prepare(doc, g.Kind(), ref)
	if err != nil {
		return nil, err
	}
	m := next.Match(loc)
	if err := checkContest(m, winnerID, true); err != nil {
		return nil, err
	}

	if winnerID == "" {
		for _, ref := range []*models.ParticipantRef{m.Player1, m.Player2} {
			p := next.Participant(ref.ID)
			p.Draws++
			p.Points += next.Settings.PointsForDraw
		}
		settle(m, "")
	} else {
		loser := loserOf(m, winnerID)
		settle(m, winnerID)
		w := next.Participant(winnerID)
		w.Wins++
		w.Points += next.Settings.PointsForWin
		next.Participant(loser.ID).Losses++
	}

	g.afterResult(next)
	return next, nil
}

func (g *Swiss) AdvanceBye(doc *models.BracketDocument, ref models.MatchRef) (*models.BracketDocument, error) {
	next, loc, err := prepare(doc, g.Kind(), ref)
	if err != nil {
		return nil, err
	}
	if err := checkBye(next, g, loc); err != nil {
		return nil, err
	}
	m := next.Match(loc)
	present := m.Present().ID
	settle(m, present)
	m.Bye = true
	p := next.Participant(present)
	p.Wins++
	p.Points += next.Settings.PointsForWin

	g.afterResult(next)
	return next, nil
}

func (g *Swiss) afterResult(doc *models.BracketDocument) {
	if !doc.Rounds[doc.CurrentRound-1].Completed() {
		return
	}
	doc.CurrentRound++
	if doc.CurrentRound > doc.TotalRounds {
		declareWinner(doc, Standings(doc)[0].ID)
		return
	}
	round := &doc.Rounds[doc.CurrentRound-1]
	round.Matches = pairSwissRound(doc, round.RoundNumber)
}

// Swiss rounds are seated in full when they are created.
func (g *Swiss) roundClosed(*models.BracketDocument, int) bool {
	return true
}

type pairKey struct {
	a, b string
}

func keyFor(a, b string) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// pairSwissRound builds the matches of a round from the current standings.
func pairSwissRound(doc *models.BracketDocument, round int) []models.MatchSlot {
	order := Standings(doc)
	met := make(map[pairKey]bool)
	hadBye := make(map[string]bool)
	for i := range doc.Rounds {
		for j := range doc.Rounds[i].Matches {
			m := &doc.Rounds[i].Matches[j]
			switch {
			case m.PlayerCount() == 2:
				met[keyFor(m.Player1.ID, m.Player2.ID)] = true
			case m.Bye:
				hadBye[m.Present().ID] = true
			}
		}
	}

	var byeRef *models.ParticipantRef
	if doc.Settings.SwissPairing != models.PairingStandings && len(order)%2 == 1 {
		pick := len(order) - 1
		for i := len(order) - 1; i >= 0; i-- {
			if !hadBye[order[i].ID] {
				pick = i
				break
			}
		}
		byeRef = order[pick].Ref()
		order = append(order[:pick:pick], order[pick+1:]...)
	}

	paired := make([]bool, len(order))
	matchID := swissMatchID(round)
	var matches []models.MatchSlot
	for i := range order {
		if paired[i] {
			continue
		}
		opponent := -1
		if doc.Settings.SwissPairing != models.PairingStandings {
			for j := i + 1; j < len(order); j++ {
				if !paired[j] && !met[keyFor(order[i].ID, order[j].ID)] {
					opponent = j
					break
				}
			}
		}
		if opponent < 0 {
			for j := i + 1; j < len(order); j++ {
				if !paired[j] {
					opponent = j
					break
				}
			}
		}
		paired[i] = true
		m := models.MatchSlot{
			MatchID: matchID(len(matches)),
			Player1: order[i].Ref(),
			Status:  models.MatchStatusScheduled,
		}
		if opponent >= 0 {
			paired[opponent] = true
			m.Player2 = order[opponent].Ref()
		}
		matches = append(matches, m)
	}
	if byeRef != nil {
		matches = append(matches, models.MatchSlot{
			MatchID: matchID(len(matches)),
			Player1: byeRef,
			Status:  models.MatchStatusScheduled,
		})
	}
	return matches
}
