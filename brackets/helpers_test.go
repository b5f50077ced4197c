package brackets

import (
	"fmt"
	"testing"

	"github.com/Dosada05/tournament-brackets/models"
	"github.com/stretchr/testify/require"
)

func roster(ids ...string) []models.Participant {
	out := make([]models.Participant, len(ids))
	for i, id := range ids {
		out[i] = models.Participant{ID: id, DisplayName: "Player " + id}
	}
	return out
}

func numberedRoster(n int) []models.Participant {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("P%d", i+1)
	}
	return roster(ids...)
}

func generate(t *testing.T, kind models.FormatKind, participants []models.Participant, opts ...Option) *models.BracketDocument {
	t.Helper()
	doc, err := GenerateBracketData(kind, participants, 2, models.DefaultFormatSettings(), opts...)
	require.NoError(t, err)
	return doc
}

func complete(t *testing.T, doc *models.BracketDocument, matchID, winnerID string) *models.BracketDocument {
	t.Helper()
	next, err := HandleMatchCompletion(doc, models.MatchRef{MatchID: matchID}, winnerID, doc.TournamentType)
	require.NoError(t, err)
	return next
}

func advanceBye(t *testing.T, doc *models.BracketDocument, matchID string) *models.BracketDocument {
	t.Helper()
	next, err := AdvanceBye(doc, models.MatchRef{MatchID: matchID}, doc.TournamentType)
	require.NoError(t, err)
	return next
}

func match(t *testing.T, doc *models.BracketDocument, matchID string) *models.MatchSlot {
	t.Helper()
	loc, ok := doc.Locate(matchID)
	require.True(t, ok, "match %s not in document", matchID)
	return doc.Match(loc)
}

func playerID(p *models.ParticipantRef) string {
	if p == nil {
		return ""
	}
	return p.ID
}

// betterSeed picks the lower seed of the two players.
func betterSeed(doc *models.BracketDocument, m models.MatchSlot) string {
	a := doc.Participant(m.Player1.ID)
	b := doc.Participant(m.Player2.ID)
	if a.Seed < b.Seed {
		return a.ID
	}
	return b.ID
}

// playOut resolves byes and plays the first open contest until the bracket
// completes. check runs after every step.
func playOut(t *testing.T, doc *models.BracketDocument, pick func(*models.BracketDocument, models.MatchSlot) string, check func(*models.BracketDocument)) *models.BracketDocument {
	t.Helper()
	for steps := 0; !doc.TournamentComplete; steps++ {
		require.Less(t, steps, 5000, "bracket never finished")

		next, _, err := ResolveByes(doc)
		require.NoError(t, err)
		doc = next
		if check != nil {
			check(doc)
		}
		if doc.TournamentComplete {
			break
		}

		pending, err := CurrentMatches(doc)
		require.NoError(t, err)
		played := false
		for _, p := range pending {
			if p.Bye {
				continue
			}
			ref := models.MatchRef{MatchID: p.Match.MatchID, RoundNumber: p.RoundNumber}
			doc, err = HandleMatchCompletion(doc, ref, pick(doc, p.Match), doc.TournamentType)
			require.NoError(t, err)
			played = true
			break
		}
		require.True(t, played, "unfinished bracket has nothing to play")
		if check != nil {
			check(doc)
		}
	}
	return doc
}

func requireSingleWinner(t *testing.T, doc *models.BracketDocument) {
	t.Helper()
	require.True(t, doc.TournamentComplete)
	require.NotNil(t, doc.Winner)
	require.NotNil(t, doc.Participant(doc.Winner.ID), "winner must be a bracket participant")
}
