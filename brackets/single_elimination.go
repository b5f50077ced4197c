package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// SingleElimination seeds round 1 in roster order and advances winners into
// the first open slot of the next round. One loss eliminates.
type SingleElimination struct {
	settings models.FormatSettings
}

func (g *SingleElimination) Kind() models.FormatKind {
	return models.FormatSingleElimination
}

func singleMatchID(round int) func(i int) string {
	return func(i int) string {
		return fmt.Sprintf("R%dM%d", round, i+1)
	}
}

func (g *SingleElimination) Generate(participants []models.Participant, minParticipants int) (*models.BracketDocument, error) {
	if err := validateParticipants(participants, minParticipants); err != nil {
		return nil, err
	}
	doc := newDocument(g.Kind(), participants, g.settings)
	numRounds := roundsFor(len(participants))
	doc.TotalRounds = numRounds

	first := pairConsecutive(doc.Participants, singleMatchID(1))
	doc.Rounds = append(doc.Rounds, models.Round{
		RoundNumber: 1,
		Name:        eliminationRoundName(1, numRounds),
		Bracket:     models.SectionMain,
		Matches:     first,
	})

	// ceil keeps a seat for an odd number of winners.
	prev := len(first)
	for r := 2; r <= numRounds; r++ {
		count := (prev + 1) / 2
		doc.Rounds = append(doc.Rounds, models.Round{
			RoundNumber: r,
			Name:        eliminationRoundName(r, numRounds),
			Bracket:     models.SectionMain,
			Matches:     emptyMatches(count, singleMatchID(r)),
		})
		prev = count
	}
	return doc, nil
}

func (g *SingleElimination) Complete(doc *models.BracketDocument, ref models.MatchRef, winnerID string) (*models.BracketDocument, error) {
	next, loc, err := prepare(doc, g.Kind(), ref)
	if err != nil {
		return nil, err
	}
	m := next.Match(loc)
	if err := checkContest(m, winnerID, false); err != nil {
		return nil, err
	}
	loser := loserOf(m, winnerID)
	settle(m, winnerID)

	next.Participant(winnerID).Wins++
	recordLoss(next.Participant(loser.ID), 1)

	if err := g.advance(next, loc, winnerID); err != nil {
		return nil, err
	}
	g.finish(next)
	return next, nil
}

func (g *SingleElimination) AdvanceBye(doc *models.BracketDocument, ref models.MatchRef) (*models.BracketDocument, error) {
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
	next.Participant(present).Wins++

	if err := g.advance(next, loc, present); err != nil {
		return nil, err
	}
	g.finish(next)
	return next, nil
}

func (g *SingleElimination) advance(doc *models.BracketDocument, loc models.MatchLocation, winnerID string) error {
	if loc.RoundIndex+1 >= len(doc.Rounds) {
		return nil
	}
	target := &doc.Rounds[loc.RoundIndex+1]
	return placeFirstOpen(target, doc.Participant(winnerID).Ref(), false, nil)
}

func (g *SingleElimination) finish(doc *models.BracketDocument) {
	for doc.CurrentRound < doc.TotalRounds && doc.Rounds[doc.CurrentRound-1].Completed() {
		doc.CurrentRound++
	}
	remaining := doc.RemainingParticipants()
	if len(remaining) == 1 {
		declareWinner(doc, remaining[0].ID)
	}
}

// roundClosed: a later round stops receiving players once the round before it
// is fully played.
func (g *SingleElimination) roundClosed(doc *models.BracketDocument, roundIndex int) bool {
	return roundIndex == 0 || doc.Rounds[roundIndex-1].Completed()
}
