package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/report"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <season.yaml>",
	Short: "Export season stats as JSON or an XLSX workbook",
	Long: `Write the season's per-player aggregates and game results to a file.

The format follows the --out extension (.json or .xlsx) unless --format is set.

Example:
  volleystats export fall.yaml --out fall.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "json or xlsx (default: from --out extension)")
	_ = exportCmd.MarkFlagRequired("out")
}

func runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(exportFormat)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(exportOut)), ".")
	}
	if format != "json" && format != "xlsx" {
		return fmt.Errorf("unsupported export format %q (want json or xlsx)", format)
	}

	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(exportOut)
	if err != nil {
		return fmt.Errorf("create %s: %w", exportOut, err)
	}
	defer f.Close()

	switch format {
	case "json":
		err = report.WriteJSON(f, s, time.Now())
	case "xlsx":
		err = report.WriteWorkbook(f, s)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", exportOut, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", exportOut, err)
	}
	logger.Info("export written", "path", exportOut, "format", format, "players", len(s.Stats().Players))
	fmt.Fprintf(os.Stdout, "Wrote %s\n", exportOut)
	return nil
}
