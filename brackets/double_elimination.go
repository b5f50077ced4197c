package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

const (
	GrandFinalsMatch1 = "grand_finals_match1"
	GrandFinalsMatch2 = "grand_finals_match2"
)

// DoubleElimination keeps a winners bracket, a losers bracket and a grand
// finals section in one document. A participant is out after two losses.
//
// The losers bracket starts as empty rounds. Winners-round r drops its losers
// into losers-round 1 (r == 1) or 2(r-1), and every losers round fills its
// first open slot or appends a new match. The grand finals hold two
// pre-allocated matches; the second is only played when the losers champion
// wins the first.
type DoubleElimination struct {
	settings models.FormatSettings
}

func (g *DoubleElimination) Kind() models.FormatKind {
	return models.FormatDoubleElimination
}

func winnersMatchID(round int) func(i int) string {
	return func(i int) string {
		return fmt.Sprintf("WB_R%dM%d", round, i+1)
	}
}

func losersMatchID(round int) func(i int) string {
	return func(i int) string {
		return fmt.Sprintf("LB_R%dM%d", round, i+1)
	}
}

func (g *DoubleElimination) Generate(participants []models.Participant, minParticipants int) (*models.BracketDocument, error) {
	if err := validateParticipants(participants, minParticipants); err != nil {
		return nil, err
	}
	doc := newDocument(g.Kind(), participants, g.settings)

	winnersRounds := roundsFor(len(participants))
	losersRounds := (winnersRounds - 1) * 2
	doc.TotalRounds = winnersRounds + losersRounds + 1

	first := pairConsecutive(doc.Participants, winnersMatchID(1))
	doc.Rounds = append(doc.Rounds, models.Round{
		RoundNumber: 1,
		Name:        winnersRoundName(1, winnersRounds),
		Bracket:     models.SectionWinners,
		Matches:     first,
	})
	prev := len(first)
	for r := 2; r <= winnersRounds; r++ {
		count := (prev + 1) / 2
		doc.Rounds = append(doc.Rounds, models.Round{
			RoundNumber: r,
			Name:        winnersRoundName(r, winnersRounds),
			Bracket:     models.SectionWinners,
			Matches:     emptyMatches(count, winnersMatchID(r)),
		})
		prev = count
	}

	for k := 1; k <= losersRounds; k++ {
		name := fmt.Sprintf("Losers Round %d", k)
		if k == losersRounds {
			name = "Losers Finals"
		}
		doc.Rounds = append(doc.Rounds, models.Round{
			RoundNumber: k,
			Name:        name,
			Bracket:     models.SectionLosers,
			Matches:     []models.MatchSlot{},
		})
	}

	doc.Rounds = append(doc.Rounds, models.Round{
		RoundNumber: 1,
		Name:        "Grand Finals",
		Bracket:     models.SectionGrandFinals,
		Matches: []models.MatchSlot{
			{MatchID: GrandFinalsMatch1, Status: models.MatchStatusScheduled},
			{MatchID: GrandFinalsMatch2, Status: models.MatchStatusScheduled},
		},
	})
	return doc, nil
}

func winnersRoundName(round, total int) string {
	if round == total {
		return "Winners Finals"
	}
	return fmt.Sprintf("Winners Round %d", round)
}

func (g *DoubleElimination) Complete(doc *models.BracketDocument, ref models.MatchRef, winnerID string) (*models.BracketDocument, error) {
	next, loc, err := prepare(doc, g.Kind(), ref)
	if err != nil {
		return nil, err
	}
	m := next.Match(loc)
	if err := checkContest(m, winnerID, false); err != nil {
		return nil, err
	}
	loserID := loserOf(m, winnerID).ID

	switch next.Rounds[loc.RoundIndex].Bracket {
	case models.SectionWinners:
		err = g.completeWinners(next, loc, winnerID, loserID)
	case models.SectionLosers:
		err = g.completeLosers(next, loc, winnerID, loserID)
	case models.SectionGrandFinals:
		g.completeGrandFinals(next, loc, winnerID, loserID)
	default:
		err = fmt.Errorf("%w: round section %q", ErrUnsupportedFormat, next.Rounds[loc.RoundIndex].Bracket)
	}
	if err != nil {
		return nil, err
	}
	g.updateCurrentRound(next)
	return next, nil
}

func (g *DoubleElimination) AdvanceBye(doc *models.BracketDocument, ref models.MatchRef) (*models.BracketDocument, error) {
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

	round := next.Rounds[loc.RoundIndex]
	switch round.Bracket {
	case models.SectionWinners:
		err = g.advanceWinner(next, round.RoundNumber, present)
	case models.SectionLosers:
		err = g.advanceLosersWinner(next, round.RoundNumber, present)
	}
	if err != nil {
		return nil, err
	}
	g.updateCurrentRound(next)
	return next, nil
}

func (g *DoubleElimination) completeWinners(doc *models.BracketDocument, loc models.MatchLocation, winnerID, loserID string) error {
	round := doc.Rounds[loc.RoundIndex].RoundNumber
	settle(doc.Match(loc), winnerID)

	doc.Participant(winnerID).Wins++
	loser := doc.Participant(loserID)
	recordLoss(loser, 2)
	loser.InLosersBracket = true

	if err := g.advanceWinner(doc, round, winnerID); err != nil {
		return err
	}
	return g.dropToLosers(doc, round, loser.Ref())
}

func (g *DoubleElimination) completeLosers(doc *models.BracketDocument, loc models.MatchLocation, winnerID, loserID string) error {
	round := doc.Rounds[loc.RoundIndex].RoundNumber
	settle(doc.Match(loc), winnerID)

	doc.Participant(winnerID).Wins++
	recordLoss(doc.Participant(loserID), 2)

	return g.advanceLosersWinner(doc, round, winnerID)
}

func (g *DoubleElimination) completeGrandFinals(doc *models.BracketDocument, loc models.MatchLocation, winnerID, loserID string) {
	m := doc.Match(loc)
	fromLosers := m.Player2 != nil && m.Player2.ID == winnerID
	settle(m, winnerID)

	doc.Participant(winnerID).Wins++
	loser := doc.Participant(loserID)
	recordLoss(loser, 2)
	loser.InLosersBracket = true

	if m.MatchID == GrandFinalsMatch1 && fromLosers {
		// Bracket reset: the winners champion has now lost once too.
		gfIdx := loc.RoundIndex
		reset := g.grandFinal(doc, gfIdx, GrandFinalsMatch2)
		reset.Player1 = copyRef(m.Player1)
		reset.Player2 = copyRef(m.Player2)
		return
	}
	declareWinner(doc, winnerID)
}

func (g *DoubleElimination) advanceWinner(doc *models.BracketDocument, round int, winnerID string) error {
	ref := doc.Participant(winnerID).Ref()
	if idx := doc.RoundIndex(models.SectionWinners, round+1); idx >= 0 {
		return placeFirstOpen(&doc.Rounds[idx], ref, false, nil)
	}
	gf := g.grandFinal(doc, doc.RoundIndex(models.SectionGrandFinals, 1), GrandFinalsMatch1)
	gf.Player1 = ref
	return nil
}

func (g *DoubleElimination) advanceLosersWinner(doc *models.BracketDocument, round int, winnerID string) error {
	ref := doc.Participant(winnerID).Ref()
	if idx := doc.RoundIndex(models.SectionLosers, round+1); idx >= 0 {
		return placeFirstOpen(&doc.Rounds[idx], ref, true, losersMatchID(round+1))
	}
	gf := g.grandFinal(doc, doc.RoundIndex(models.SectionGrandFinals, 1), GrandFinalsMatch1)
	gf.Player2 = ref
	return nil
}

// dropToLosers routes a first-time loser from winners-round r. With no losers
// bracket at all (two entrants) the loser meets the champion directly.
func (g *DoubleElimination) dropToLosers(doc *models.BracketDocument, winnersRound int, loser *models.ParticipantRef) error {
	losersRounds := len(doc.SectionRounds(models.SectionLosers))
	if losersRounds == 0 {
		gf := g.grandFinal(doc, doc.RoundIndex(models.SectionGrandFinals, 1), GrandFinalsMatch1)
		gf.Player2 = loser
		return nil
	}
	entry := losersEntryRound(winnersRound)
	idx := doc.RoundIndex(models.SectionLosers, entry)
	if idx < 0 {
		return fmt.Errorf("%w: losers round %d", errNoOpenSlot, entry)
	}
	return placeFirstOpen(&doc.Rounds[idx], loser, true, losersMatchID(entry))
}

func losersEntryRound(winnersRound int) int {
	if winnersRound <= 1 {
		return 1
	}
	return 2 * (winnersRound - 1)
}

func (g *DoubleElimination) grandFinal(doc *models.BracketDocument, roundIndex int, matchID string) *models.MatchSlot {
	matches := doc.Rounds[roundIndex].Matches
	for i := range matches {
		if matches[i].MatchID == matchID {
			return &matches[i]
		}
	}
	return nil
}

// updateCurrentRound points at the first round, in document order, that
// still has an unresolved seated match.
func (g *DoubleElimination) updateCurrentRound(doc *models.BracketDocument) {
	if doc.TournamentComplete {
		doc.CurrentRound = doc.TotalRounds
		return
	}
	for i := range doc.Rounds {
		for j := range doc.Rounds[i].Matches {
			m := &doc.Rounds[i].Matches[j]
			if !m.IsCompleted() && m.PlayerCount() > 0 {
				doc.CurrentRound = i + 1
				return
			}
		}
	}
}

func (g *DoubleElimination) roundClosed(doc *models.BracketDocument, roundIndex int) bool {
	round := doc.Rounds[roundIndex]
	switch round.Bracket {
	case models.SectionWinners:
		if round.RoundNumber == 1 {
			return true
		}
		prev := doc.RoundIndex(models.SectionWinners, round.RoundNumber-1)
		return doc.Rounds[prev].Completed()
	case models.SectionLosers:
		for i := range doc.Rounds {
			r := &doc.Rounds[i]
			switch r.Bracket {
			case models.SectionLosers:
				if r.RoundNumber < round.RoundNumber && !r.Completed() {
					return false
				}
			case models.SectionWinners:
				if losersEntryRound(r.RoundNumber) <= round.RoundNumber && !r.Completed() {
					return false
				}
			}
		}
		return true
	default:
		return false
	}
}
