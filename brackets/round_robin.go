package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-brackets/models"
)

// RoundRobin plays every participant against every other participant once per
// leg. The whole schedule is generated up front.
type RoundRobin struct {
	settings models.FormatSettings
}

func (g *RoundRobin) Kind() models.FormatKind {
	return models.FormatRoundRobin
}

type pairing struct {
	a, b int
}

// Generate lays out pairings with the circle method by default, so nobody
// plays twice in one round. The sequential schedule slices the pairings in
// generation order instead and keeps the historical round count of n-1.
func (g *RoundRobin) Generate(participants []models.Participant, minParticipants int) (*models.BracketDocument, error) {
	if err := validateParticipants(participants, minParticipants); err != nil {
		return nil, err
	}
	doc := newDocument(g.Kind(), participants, g.settings)
	n := len(participants)

	var leg [][]pairing
	switch g.settings.RoundRobinSchedule {
	case models.ScheduleSequential:
		leg = sequentialSchedule(n)
	default:
		leg = circleSchedule(n)
	}

	schedule := make([][]pairing, 0, len(leg)*g.settings.Legs)
	schedule = append(schedule, leg...)
	if g.settings.Legs == 2 {
		for _, round := range leg {
			swapped := make([]pairing, len(round))
			for i, p := range round {
				swapped[i] = pairing{a: p.b, b: p.a}
			}
			schedule = append(schedule, swapped)
		}
	}

	for r, round := range schedule {
		number := r + 1
		matches := make([]models.MatchSlot, len(round))
		for i, p := range round {
			matches[i] = models.MatchSlot{
				MatchID: fmt.Sprintf("R%dM%d", number, i+1),
				Player1: doc.Participants[p.a].Ref(),
				Player2: doc.Participants[p.b].Ref(),
				Status:  models.MatchStatusScheduled,
			}
		}
		doc.Rounds = append(doc.Rounds, models.Round{
			RoundNumber: number,
			Name:        fmt.Sprintf("Round %d", number),
			Bracket:     models.SectionMain,
			Matches:     matches,
		})
	}
	doc.TotalRounds = len(doc.Rounds)
	return doc, nil
}

// circleSchedule fixes seat 0 and rotates the rest. For odd n a phantom seat
// is added and its pairing dropped, so one participant sits out each round.
func circleSchedule(n int) [][]pairing {
	seats := n
	if seats%2 == 1 {
		seats++
	}
	ring := make([]int, seats)
	for i := range ring {
		ring[i] = i
	}

	rounds := make([][]pairing, 0, seats-1)
	for r := 0; r < seats-1; r++ {
		round := make([]pairing, 0, seats/2)
		for i := 0; i < seats/2; i++ {
			a, b := ring[i], ring[seats-1-i]
			if a >= n || b >= n {
				continue
			}
			if a > b {
				a, b = b, a
			}
			round = append(round, pairing{a: a, b: b})
		}
		rounds = append(rounds, round)

		last := ring[seats-1]
		copy(ring[2:], ring[1:seats-1])
		ring[1] = last
	}
	return rounds
}

// sequentialSchedule generates every (i, j) pairing with i < j and slices
// them floor(n/2) per round over n-1 rounds. Pairings left over for odd n go
// to the last round.
func sequentialSchedule(n int) [][]pairing {
	var all []pairing
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			all = append(all, pairing{a: i, b: j})
		}
	}
	totalRounds := n - 1
	perRound := n / 2
	rounds := make([][]pairing, totalRounds)
	for r := 0; r < totalRounds; r++ {
		start := r * perRound
		end := start + perRound
		if r == totalRounds-1 {
			end = len(all)
		}
		rounds[r] = append([]pairing(nil), all[start:end]...)
	}
	return rounds
}

func (g *RoundRobin) Complete(doc *models.BracketDocument, ref models.MatchRef, winnerID string) (*models.BracketDocument, error) {
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

	w := next.Participant(winnerID)
	w.Wins++
	w.Points += next.Settings.PointsForWin
	next.Participant(loser.ID).Losses++

	for next.CurrentRound <= next.TotalRounds && next.Rounds[next.CurrentRound-1].Completed() {
		next.CurrentRound++
	}
	if next.CurrentRound > next.TotalRounds {
		declareWinner(next, Standings(next)[0].ID)
	}
	return next, nil
}

// AdvanceBye never applies: every round-robin match is seated at generation.
func (g *RoundRobin) AdvanceBye(doc *models.BracketDocument, ref models.MatchRef) (*models.BracketDocument, error) {
	if _, _, err := prepare(doc, g.Kind(), ref); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrNotBye, ref.MatchID)
}

func (g *RoundRobin) roundClosed(*models.BracketDocument, int) bool {
	return true
}
