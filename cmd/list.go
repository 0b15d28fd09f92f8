package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list <season.yaml>",
	Short: "List every recorded game",
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}
	db, err := storage.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()
	if err := db.LoadSeason(s); err != nil {
		return fmt.Errorf("load storage: %w", err)
	}
	return printGameList(db)
}

func printGameList(db *storage.DB) error {
	games, err := db.ListGames()
	if err != nil {
		return fmt.Errorf("list games: %w", err)
	}
	if len(games) == 0 {
		fmt.Fprintln(os.Stdout, "No games recorded in this season.")
		return nil
	}

	cHeader.Fprintf(os.Stdout, "%5s  %-16s  %4s  %7s  %5s  %4s  %7s  %s\n",
		"MATCH", "OPPONENT", "GAME", "SCORE", "SERVE", "FULL", "COUNTED", "LINEUP")
	cMuted.Fprintf(os.Stdout, "%5s  %-16s  %4s  %7s  %5s  %4s  %7s  %s\n",
		"─────", "────────────────", "────", "───────", "─────", "────", "───────", "──────")
	for _, g := range games {
		score := "-"
		if g.Counted {
			score = fmt.Sprintf("%d-%d", g.TeamScore, g.OppScore)
		}
		fmt.Fprintf(os.Stdout, "%5d  %-16s  %4d  ", g.Match, g.Opponent, g.Game)
		if g.Counted {
			resultColor(g.Won).Fprintf(os.Stdout, "%7s", score)
		} else {
			fmt.Fprintf(os.Stdout, "%7s", score)
		}
		fmt.Fprintf(os.Stdout, "  %5s  %4s  %7s  %s\n", yesNo(g.ServeStart), yesNo(g.Full), yesNo(g.Counted), g.Lineup)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
