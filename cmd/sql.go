package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/volleystats/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <season.yaml> <query>",
	Short: "Run a raw SQL query against the season's computed stats",
	Long: `Load the season into an in-memory SQLite database and run an arbitrary query,
printing the results as a table. Nothing is written to disk.

Schema overview:
  players(jersey, name, gender, status)
  matches(match_number, opponent, games_won, games_lost)
  games(match_number, game_number, serve_start, full_set, counted,
    team_score, opp_score, won, lineup)
  player_game_stats(match_number, game_number, jersey,
    rb_for, rb_against, rf_for, rf_against, cf_for, cf_against,
    lf_for, lf_against, lb_for, lb_against, cb_for, cb_against,
    front_for, front_against, back_for, back_against,
    serves, serve_points, longest_run, games_played)
  serve_runs(match_number, game_number, jersey, turn, points)

Example:
  volleystats sql fall.yaml "SELECT jersey, SUM(serve_points) FROM player_game_stats GROUP BY jersey"`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	query := strings.Join(args[1:], " ")
	s, err := loadSeason(args[0])
	if err != nil {
		return err
	}
	db, err := storage.Open(":memory:")
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()
	if err := db.LoadSeason(s); err != nil {
		return fmt.Errorf("load db: %w", err)
	}
	return printQuery(os.Stdout, db, query)
}

func printQuery(w io.Writer, db *storage.DB, query string) error {
	cols, rows, err := db.QueryRaw(query)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "(no rows)")
		return nil
	}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	colsAny := make([]any, len(cols))
	for i, c := range cols {
		colsAny[i] = c
	}
	table.Header(colsAny...)

	for _, row := range rows {
		rowAny := make([]any, len(row))
		for i, v := range row {
			rowAny[i] = v
		}
		table.Append(rowAny...)
	}
	table.Render()
	fmt.Fprintf(w, "\n(%d rows)\n", len(rows))
	return nil
}
