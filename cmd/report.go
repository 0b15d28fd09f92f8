package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/report"
)

var reportMatch int

var reportCmd = &cobra.Command{
	Use:   "report <season.yaml>",
	Short: "Print the season report, or one match with --match",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().IntVar(&reportMatch, "match", 0, "only report this match number")
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}
	if reportMatch == 0 {
		report.PrintSeason(os.Stdout, s)
		return nil
	}
	m, err := findMatch(s, reportMatch)
	if err != nil {
		return err
	}
	report.PrintMatch(os.Stdout, m, s.Roster)
	return nil
}
