package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/report"
)

var allTimeCmd = &cobra.Command{
	Use:   "alltime <season.yaml> <season.yaml> [season.yaml...]",
	Short: "Merge several seasons into all-time totals",
	Long: `Aggregate each season file and merge them, in the order given, into one
all-time table. Player names come from the latest season that lists them.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAllTime,
}

func runAllTime(cmd *cobra.Command, args []string) error {
	seasons := make([]*aggregator.Season, 0, len(args))
	roster := &model.Roster{}
	for _, path := range args {
		s, err := loadSeason(path)
		if err != nil {
			return err
		}
		seasons = append(seasons, s)
	}
	for i := len(seasons) - 1; i >= 0; i-- {
		if seasons[i].Roster == nil {
			continue
		}
		for _, p := range seasons[i].Roster.Players {
			if !roster.Has(p.Jersey) {
				roster.Add(p)
			}
		}
	}

	total, err := aggregator.AllTime(seasons...)
	if err != nil {
		return fmt.Errorf("merge seasons: %w", err)
	}
	fmt.Fprintf(os.Stdout, "All-time across %d seasons  |  Games won: %d  |  Games lost: %d\n",
		len(seasons), total.TeamScore, total.OpponentScore)
	report.PrintStats(os.Stdout, total, roster)
	return nil
}
