package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/stats"
)

// SeasonExport is the JSON document written by WriteJSON.
type SeasonExport struct {
	Season      string         `json:"season"`
	SourceHash  string         `json:"source_hash"`
	GeneratedAt string         `json:"generated_at"`
	GamesWon    int            `json:"games_won"`
	GamesLost   int            `json:"games_lost"`
	Players     []PlayerExport `json:"players"`
	Matches     []MatchExport  `json:"matches"`
}

// MatchExport is one match within SeasonExport.
type MatchExport struct {
	Number   int          `json:"number"`
	Opponent string       `json:"opponent"`
	Won      int          `json:"games_won"`
	Lost     int          `json:"games_lost"`
	Games    []GameExport `json:"games"`
}

// GameExport is one set within MatchExport.
type GameExport struct {
	Number     int   `json:"number"`
	Lineup     []int `json:"lineup"`
	Counted    bool  `json:"counted"`
	Full       bool  `json:"full"`
	ServeStart bool  `json:"serve_start"`
	TeamScore  int   `json:"team_score,omitempty"`
	OppScore   int   `json:"opponent_score,omitempty"`
}

// PlayerExport is one player's season aggregate.
type PlayerExport struct {
	Jersey         int                  `json:"jersey"`
	Name           string               `json:"name,omitempty"`
	GamesPlayed    float64              `json:"games_played"`
	Serves         int                  `json:"serves"`
	ServePoints    int                  `json:"serve_points"`
	PointsPerServe float64              `json:"points_per_serve"`
	PointsPerGame  float64              `json:"points_per_game"`
	LongestRun     int                  `json:"longest_run"`
	ServeRuns      []int                `json:"serve_runs"`
	Slots          map[string]SlotStats `json:"slots"`
	FrontRow       SlotStats            `json:"front_row"`
	BackRow        SlotStats            `json:"back_row"`
	Total          SlotStats            `json:"total"`
}

// SlotStats is a plus/minus pair.
type SlotStats struct {
	For     int `json:"for"`
	Against int `json:"against"`
}

// BuildExport flattens a season into its export document.
func BuildExport(s *aggregator.Season, now time.Time) SeasonExport {
	ss := s.Stats()
	out := SeasonExport{
		Season:      s.Name,
		SourceHash:  s.Hash,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		GamesWon:    ss.TeamScore,
		GamesLost:   ss.OpponentScore,
	}
	for _, p := range ss.Ranked() {
		out.Players = append(out.Players, playerExport(p, s.Roster))
	}
	for _, m := range s.Matches {
		me := MatchExport{
			Number:   m.Number,
			Opponent: m.Opponent.Name,
			Won:      m.Stats().TeamScore,
			Lost:     m.Stats().OpponentScore,
		}
		for _, g := range m.Games {
			ge := GameExport{
				Number:     g.Record.Game,
				Lineup:     g.Record.Lineup[:],
				Counted:    g.Counted(),
				Full:       g.Record.Full,
				ServeStart: g.Record.ServeStart,
			}
			if g.Counted() {
				ge.TeamScore, ge.OppScore = g.Stats.TeamScore, g.Stats.OpponentScore
			}
			me.Games = append(me.Games, ge)
		}
		out.Matches = append(out.Matches, me)
	}
	return out
}

func playerExport(p *stats.PlayerStats, roster *model.Roster) PlayerExport {
	pe := PlayerExport{
		Jersey:         p.Jersey,
		Name:           roster.Name(p.Jersey),
		GamesPlayed:    p.GamesPlayed,
		Serves:         p.TotalServes,
		ServePoints:    p.TotalServePoints,
		PointsPerServe: p.PointsPerServe,
		PointsPerGame:  p.PointsPerGame,
		LongestRun:     p.LongestRun(),
		ServeRuns:      append([]int{}, p.ServeRuns...),
		Slots:          make(map[string]SlotStats, model.NumSlots),
		FrontRow:       SlotStats(p.FrontRow),
		BackRow:        SlotStats(p.BackRow),
		Total:          SlotStats(p.Total),
	}
	for _, s := range model.Slots {
		pe.Slots[s.String()] = SlotStats(*p.Slot(s))
	}
	return pe
}

// WriteJSON writes the season export as indented JSON.
func WriteJSON(w io.Writer, s *aggregator.Season, now time.Time) error {
	data, err := json.MarshalIndent(BuildExport(s, now), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// Workbook sheet names.
const (
	SheetPlayers   = "Players"
	SheetRotations = "Rotations"
	SheetGames     = "Games"
)

// WriteWorkbook writes the season as an XLSX workbook with one sheet each
// for serving, rotation plus/minus and game results.
func WriteWorkbook(w io.Writer, s *aggregator.Season) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetPlayers); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetRotations, SheetGames} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("new sheet %s: %w", name, err)
		}
	}

	ss := s.Stats()
	players := [][]any{{"Jersey", "Name", "Games", "Serves", "Serve points", "Points/serve", "Points/game", "Longest run"}}
	rotations := [][]any{{"Jersey", "Name"}}
	for _, sl := range model.Slots {
		rotations[0] = append(rotations[0], sl.String()+" +", sl.String()+" -")
	}
	rotations[0] = append(rotations[0], "Front +", "Front -", "Back +", "Back -", "Net")

	for _, p := range ss.Ranked() {
		name := s.Roster.Name(p.Jersey)
		players = append(players, []any{
			p.Jersey, name, p.GamesPlayed, p.TotalServes, p.TotalServePoints,
			p.PointsPerServe, p.PointsPerGame, p.LongestRun(),
		})
		row := []any{p.Jersey, name}
		for _, sl := range model.Slots {
			pm := p.Slot(sl)
			row = append(row, pm.For, pm.Against)
		}
		row = append(row, p.FrontRow.For, p.FrontRow.Against, p.BackRow.For, p.BackRow.Against, p.Total.Net())
		rotations = append(rotations, row)
	}

	games := [][]any{{"Match", "Opponent", "Game", "Result", "Team", "Opponent score", "Full", "Counted"}}
	for _, m := range s.Matches {
		for _, g := range m.Games {
			result, team, opp := "", "", ""
			if g.Counted() {
				result = "L"
				if g.Stats.Won {
					result = "W"
				}
				team, opp = strconv.Itoa(g.Stats.TeamScore), strconv.Itoa(g.Stats.OpponentScore)
			}
			games = append(games, []any{m.Number, m.Opponent.Name, g.Record.Game, result, team, opp, g.Record.Full, g.Record.Include})
		}
	}

	for sheet, rows := range map[string][][]any{SheetPlayers: players, SheetRotations: rotations, SheetGames: games} {
		if err := writeRows(f, sheet, rows); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for idx, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, idx+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, axis, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, idx+1, err)
		}
	}
	return nil
}
