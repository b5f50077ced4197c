package brackets

import (
	"sort"

	"github.com/Dosada05/tournament-brackets/models"
)

// Standings returns the participant records ranked for the document's format.
// Every ordering ends on seed, so ties resolve the same way on every call.
//
//   - round robin: wins, points, seed
//   - swiss: points, wins, fewer losses, seed
//   - elimination: champion, then survivors, wins, fewer losses, seed
func Standings(doc *models.BracketDocument) []models.TournamentParticipant {
	out := make([]models.TournamentParticipant, len(doc.Participants))
	copy(out, doc.Participants)

	var less func(a, b *models.TournamentParticipant) bool
	switch doc.TournamentType {
	case models.FormatRoundRobin:
		less = func(a, b *models.TournamentParticipant) bool {
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			return a.Seed < b.Seed
		}
	case models.FormatSwiss:
		less = func(a, b *models.TournamentParticipant) bool {
			if a.Points != b.Points {
				return a.Points > b.Points
			}
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Losses != b.Losses {
				return a.Losses < b.Losses
			}
			return a.Seed < b.Seed
		}
	default:
		champion := ""
		if doc.Winner != nil {
			champion = doc.Winner.ID
		}
		less = func(a, b *models.TournamentParticipant) bool {
			if (a.ID == champion) != (b.ID == champion) {
				return a.ID == champion
			}
			if a.Eliminated != b.Eliminated {
				return !a.Eliminated
			}
			if a.Wins != b.Wins {
				return a.Wins > b.Wins
			}
			if a.Losses != b.Losses {
				return a.Losses < b.Losses
			}
			return a.Seed < b.Seed
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}
