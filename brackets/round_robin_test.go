package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateRoundRobin(t *testing.T, n int, settings models.FormatSettings) *models.BracketDocument {
	t.Helper()
	doc, err := GenerateBracketData(models.FormatRoundRobin, numberedRoster(n), 2, settings)
	require.NoError(t, err)
	return doc
}

// pairCounts counts how often each unordered pairing is scheduled.
func pairCounts(doc *models.BracketDocument) map[pairKey]int {
	counts := make(map[pairKey]int)
	for _, r := range doc.Rounds {
		for _, m := range r.Matches {
			counts[keyFor(m.Player1.ID, m.Player2.ID)]++
		}
	}
	return counts
}

func TestRoundRobin_CircleSchedule(t *testing.T) {
	for n := 2; n <= 12; n++ {
		doc := generateRoundRobin(t, n, models.DefaultFormatSettings())

		wantRounds := n - 1
		if n%2 == 1 {
			wantRounds = n
		}
		assert.Equal(t, wantRounds, doc.TotalRounds, "n=%d", n)
		assert.Equal(t, n*(n-1)/2, doc.MatchCount(), "n=%d", n)

		counts := pairCounts(doc)
		assert.Len(t, counts, n*(n-1)/2)
		for k, c := range counts {
			assert.Equal(t, 1, c, "n=%d pair %v", n, k)
		}

		for _, r := range doc.Rounds {
			assert.Len(t, r.Matches, n/2, "n=%d round %d", n, r.RoundNumber)
			seen := make(map[string]bool)
			for _, m := range r.Matches {
				for _, id := range []string{m.Player1.ID, m.Player2.ID} {
					assert.False(t, seen[id], "n=%d: %s plays twice in round %d", n, id, r.RoundNumber)
					seen[id] = true
				}
			}
		}
	}
}

func TestRoundRobin_SequentialSchedule(t *testing.T) {
	settings := models.DefaultFormatSettings()
	settings.RoundRobinSchedule = models.ScheduleSequential

	doc := generateRoundRobin(t, 4, settings)
	assert.Equal(t, 3, doc.TotalRounds)
	assert.Equal(t, 6, doc.MatchCount())
	// Generation order puts P1 in both first-round matches.
	first := doc.Rounds[0].Matches
	require.Len(t, first, 2)
	assert.Equal(t, "P1", first[0].Player1.ID)
	assert.Equal(t, "P2", first[0].Player2.ID)
	assert.Equal(t, "P1", first[1].Player1.ID)
	assert.Equal(t, "P3", first[1].Player2.ID)

	doc = generateRoundRobin(t, 5, settings)
	assert.Equal(t, 4, doc.TotalRounds)
	assert.Equal(t, 10, doc.MatchCount())
	assert.Len(t, doc.Rounds[3].Matches, 4, "leftover pairings land in the last round")
}

func TestRoundRobin_TwoLegs(t *testing.T) {
	settings := models.DefaultFormatSettings()
	settings.Legs = 2
	doc := generateRoundRobin(t, 4, settings)

	assert.Equal(t, 6, doc.TotalRounds)
	assert.Equal(t, 12, doc.MatchCount())
	for k, c := range pairCounts(doc) {
		assert.Equal(t, 2, c, "pair %v", k)
	}
	first, mirror := doc.Rounds[0].Matches[0], doc.Rounds[3].Matches[0]
	assert.Equal(t, first.Player1.ID, mirror.Player2.ID)
	assert.Equal(t, first.Player2.ID, mirror.Player1.ID)
}

func TestRoundRobin_PlayOut(t *testing.T) {
	settings := models.DefaultFormatSettings()
	settings.PointsForWin = 3
	doc := generateRoundRobin(t, 4, settings)

	doc = playOut(t, doc, betterSeed, nil)
	requireSingleWinner(t, doc)
	assert.Equal(t, "P1", doc.Winner.ID)
	assert.Equal(t, 3, doc.Winner.Wins)
	assert.Greater(t, doc.CurrentRound, doc.TotalRounds)

	for _, p := range doc.Participants {
		assert.Equal(t, 3, p.Wins+p.Losses)
		assert.Equal(t, 3*p.Wins, p.Points)
		assert.False(t, p.Eliminated)
	}

	standings := Standings(doc)
	var order []string
	for _, p := range standings {
		order = append(order, p.ID)
	}
	assert.Equal(t, []string{"P1", "P2", "P3", "P4"}, order)
}

func TestRoundRobin_TieGoesToBetterSeed(t *testing.T) {
	doc := generate(t, models.FormatRoundRobin, roster("A", "B", "C"))
	require.Equal(t, 3, doc.TotalRounds)

	// Circle method for three: B-C, A-C, A-B.
	assert.Equal(t, "B", match(t, doc, "R1M1").Player1.ID)
	assert.Equal(t, "C", match(t, doc, "R1M1").Player2.ID)

	doc = complete(t, doc, "R1M1", "B")
	assert.Equal(t, 2, doc.CurrentRound)
	doc = complete(t, doc, "R2M1", "C")
	doc = complete(t, doc, "R3M1", "A")

	requireSingleWinner(t, doc)
	assert.Equal(t, "A", doc.Winner.ID)
	for _, p := range doc.Participants {
		assert.Equal(t, 1, p.Wins)
	}
}

func TestRoundRobin_Rejections(t *testing.T) {
	doc := generate(t, models.FormatRoundRobin, roster("A", "B", "C", "D"))

	_, err := HandleMatchCompletion(doc, models.MatchRef{MatchID: "R1M1"}, "", doc.TournamentType)
	require.ErrorIs(t, err, ErrInvalidWinner)

	_, err = AdvanceBye(doc, models.MatchRef{MatchID: "R1M1"}, doc.TournamentType)
	require.ErrorIs(t, err, ErrNotBye)

	// Any match may be played out of round order.
	doc = complete(t, doc, "R3M1", "A")
	assert.Equal(t, 1, doc.CurrentRound)
}
