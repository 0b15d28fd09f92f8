package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/config"
	"github.com/pable/volleystats/internal/parser"
)

var (
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "volleystats",
	Short: "Volleyball rotation and serving stats",
	Long: `Replay recorded volleyball sets through the rotation and attribute every
point to the players on court, then report per-slot plus/minus and serving
numbers by game, match and season.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "volleystats.yaml", "path to config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(gamesCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(allTimeCmd)
	rootCmd.AddCommand(shellCmd)
}

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger = cfg.NewLogger()
	return nil
}

// loadSeason parses and aggregates the season descriptor at path.
func loadSeason(path string) (*aggregator.Season, error) {
	rec, err := parser.ParseSeason(path, cfg.Markers)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	logger.Debug("season parsed", "path", path, "matches", len(rec.Matches), "hash", rec.Hash[:12])

	s, err := aggregator.New(cfg.PartialGameCredit, logger).BuildSeason(rec)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", path, err)
	}
	return s, nil
}

// findMatch returns the match with the given number.
func findMatch(s *aggregator.Season, number int) (*aggregator.Match, error) {
	for _, m := range s.Matches {
		if m.Number == number {
			return m, nil
		}
	}
	return nil, fmt.Errorf("no match %d in season", number)
}
