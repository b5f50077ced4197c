package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"text/tabwriter"

	"github.com/Dosada05/tournament-brackets/brackets"
	"github.com/Dosada05/tournament-brackets/models"
	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:  "bracketsim",
		Usage: "generate and simulate tournament brackets",
		Commands: []*cli.Command{
			newGenerateCommand(),
			newSimulateCommand(),
		},
	}
}

func bracketFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    "single_elimination, double_elimination, round_robin or swiss",
			Required: true,
		},
		&cli.StringSliceFlag{
			Name:     "participants",
			Aliases:  []string{"p"},
			Usage:    "participant ids in seed order, comma separated",
			Required: true,
		},
		&cli.IntFlag{Name: "min", Value: 2, Usage: "minimum number of participants"},
		&cli.Uint64Flag{Name: "seed", Usage: "seed for Swiss first-round shuffling (0 picks a random seed)"},
		&cli.IntFlag{Name: "legs", Value: 1, Usage: "round robin legs (1 or 2)"},
		&cli.StringFlag{Name: "schedule", Value: string(models.ScheduleCircle), Usage: "round robin schedule: circle or sequential"},
		&cli.StringFlag{Name: "pairing", Value: string(models.PairingRematchAvoiding), Usage: "Swiss pairing: rematch_avoiding or standings"},
	}
}

func newGenerateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "print a freshly generated bracket as JSON",
		Flags: bracketFlags(),
		Action: func(c *cli.Context) error {
			doc, err := generateFromFlags(c)
			if err != nil {
				return err
			}
			return printJSON(c.App.Writer, doc)
		},
	}
}

func newSimulateCommand() *cli.Command {
	flags := append(bracketFlags(), &cli.BoolFlag{Name: "json", Usage: "print the final bracket instead of the standings table"})
	return &cli.Command{
		Name:  "simulate",
		Usage: "play a bracket to the end, the better seed wins every match",
		Flags: flags,
		Action: func(c *cli.Context) error {
			doc, err := generateFromFlags(c)
			if err != nil {
				return err
			}
			doc, played, err := simulate(doc)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(c.App.Writer, doc)
			}
			return printStandings(c.App.Writer, doc, played)
		},
	}
}

func generateFromFlags(c *cli.Context) (*models.BracketDocument, error) {
	kind, err := models.ParseFormatKind(c.String("format"))
	if err != nil {
		return nil, err
	}

	var participants []models.Participant
	for _, id := range c.StringSlice("participants") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		participants = append(participants, models.Participant{ID: id, DisplayName: id})
	}

	settings := models.DefaultFormatSettings()
	settings.Legs = c.Int("legs")
	settings.RoundRobinSchedule = models.RoundRobinSchedule(c.String("schedule"))
	settings.SwissPairing = models.SwissPairing(c.String("pairing"))

	seed := c.Uint64("seed")
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	return brackets.GenerateBracketData(kind, participants, c.Int("min"), settings, brackets.WithRand(rng))
}

// simulate resolves byes and lets the better seed win every contested match
// until the tournament completes. It returns the number of contested matches
// played.
func simulate(doc *models.BracketDocument) (*models.BracketDocument, int, error) {
	played := 0
	for !doc.TournamentComplete {
		next, _, err := brackets.ResolveByes(doc)
		if err != nil {
			return nil, played, err
		}
		doc = next
		if doc.TournamentComplete {
			break
		}

		pending, err := brackets.CurrentMatches(doc)
		if err != nil {
			return nil, played, err
		}
		var contest *brackets.PendingMatch
		for i := range pending {
			if !pending[i].Bye {
				contest = &pending[i]
				break
			}
		}
		if contest == nil {
			return nil, played, errors.New("bracket is stuck: no playable match and no winner")
		}

		m := contest.Match
		winner := m.Player1.ID
		if doc.Participant(m.Player2.ID).Seed < doc.Participant(m.Player1.ID).Seed {
			winner = m.Player2.ID
		}
		ref := models.MatchRef{MatchID: m.MatchID, RoundNumber: contest.RoundNumber}
		doc, err = brackets.HandleMatchCompletion(doc, ref, winner, doc.TournamentType)
		if err != nil {
			return nil, played, fmt.Errorf("failed to complete %s: %w", m.MatchID, err)
		}
		played++
	}
	return doc, played, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(v)
}

func printStandings(w io.Writer, doc *models.BracketDocument, played int) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tPARTICIPANT\tSEED\tW\tD\tL\tPTS")
	for i, p := range brackets.Standings(doc) {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n", i+1, p.DisplayName, p.Seed, p.Wins, p.Draws, p.Losses, p.Points)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	winner := "none"
	if doc.Winner != nil {
		winner = doc.Winner.DisplayName
	}
	_, err := fmt.Fprintf(w, "\n%s: %d matches played, winner %s\n", doc.TournamentType, played, winner)
	return err
}
