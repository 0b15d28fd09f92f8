package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/report"
	"github.com/pable/volleystats/internal/stats"
)

var playerMatch int

var playerCmd = &cobra.Command{
	Use:   "player <season.yaml> <jersey>",
	Short: "Per-slot breakdown for one player",
	Long: `Show one player's plus/minus in each of the six court slots and their serving
numbers across the season, or a single match with --match.`,
	Args: cobra.ExactArgs(2),
	RunE: runPlayer,
}

func init() {
	playerCmd.Flags().IntVar(&playerMatch, "match", 0, "only count this match number")
}

func runPlayer(cmd *cobra.Command, args []string) error {
	jersey, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid jersey %q: %w", args[1], err)
	}
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}

	var gs *stats.GameStats
	if playerMatch == 0 {
		gs = s.Stats()
	} else {
		m, err := findMatch(s, playerMatch)
		if err != nil {
			return err
		}
		gs = m.Stats()
	}

	p, ok := gs.Players[jersey]
	if !ok {
		return fmt.Errorf("jersey %d never took the court", jersey)
	}
	report.PrintPlayerBreakdown(os.Stdout, p, s.Roster)
	return nil
}
