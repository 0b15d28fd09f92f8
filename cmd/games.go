package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/report"
)

var gamesCmd = &cobra.Command{
	Use:   "games <season.yaml>",
	Short: "Print every game's score and serve runs",
	Args:  cobra.ExactArgs(1),
	RunE:  runGames,
}

func runGames(cmd *cobra.Command, args []string) error {
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}
	for _, m := range s.Matches {
		printMatchGames(os.Stdout, m, s)
	}
	return nil
}

func printMatchGames(w io.Writer, m *aggregator.Match, s *aggregator.Season) {
	cHeader.Fprintf(w, "Match %d vs %s\n", m.Number, m.Opponent.Name)
	for _, g := range m.Games {
		if !g.Counted() {
			cMuted.Fprintf(w, "  Game %d: not counted\n", g.Record.Game)
			continue
		}
		fmt.Fprintf(w, "  Game %d: ", g.Record.Game)
		resultColor(g.Stats.Won).Fprintln(w, report.ResultLine(g.Stats))
		report.PrintServeRuns(w, g, s.Roster)
	}
	fmt.Fprint(w, "  Match: ")
	resultColor(m.Stats().Won).Fprintln(w, report.ResultLine(m.Stats()))
	fmt.Fprintln(w)
}
