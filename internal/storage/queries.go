package storage

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/model"
)

// GameRow is one row of the games table joined with its opponent.
type GameRow struct {
	Match      int
	Opponent   string
	Game       int
	ServeStart bool
	Full       bool
	Counted    bool
	TeamScore  int
	OppScore   int
	Won        bool
	Lineup     string
}

// PlayerTotals is a per-player sum over every counted game.
type PlayerTotals struct {
	Jersey      int
	Name        string
	Games       float64
	Serves      int
	ServePoints int
	For         int
	Against     int
}

// LoadSeason writes the roster, every match and every game's per-player
// stats in a single transaction.
func (db *DB) LoadSeason(s *aggregator.Season) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if s.Roster != nil {
		for _, p := range s.Roster.Players {
			if _, err := tx.Exec(`INSERT OR REPLACE INTO players(jersey, name, gender, status) VALUES (?, ?, ?, ?)`,
				p.Jersey, p.Name, p.Gender, p.Status); err != nil {
				return fmt.Errorf("insert player %d: %w", p.Jersey, err)
			}
		}
	}

	for _, m := range s.Matches {
		ms := m.Stats()
		if _, err := tx.Exec(`INSERT OR REPLACE INTO matches(match_number, opponent, games_won, games_lost) VALUES (?, ?, ?, ?)`,
			m.Number, m.Opponent.Name, ms.TeamScore, ms.OpponentScore); err != nil {
			return fmt.Errorf("insert match %d: %w", m.Number, err)
		}
		for _, g := range m.Games {
			if err := insertGame(tx, g); err != nil {
				return fmt.Errorf("match %d game %d: %w", m.Number, g.Record.Game, err)
			}
		}
	}
	return tx.Commit()
}

func insertGame(tx *sql.Tx, g *aggregator.Game) error {
	rec := g.Record
	var team, opp int
	var won bool
	if g.Counted() {
		team, opp, won = g.Stats.TeamScore, g.Stats.OpponentScore, g.Stats.Won
	}
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO games(match_number, game_number, serve_start, full_set, counted, team_score, opp_score, won, lineup)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Match, rec.Game, boolInt(rec.ServeStart), boolInt(rec.Full), boolInt(g.Counted()),
		team, opp, boolInt(won), lineupString(rec.Lineup),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	if !g.Counted() {
		return nil
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO player_game_stats(
			match_number, game_number, jersey,
			rb_for, rb_against, rf_for, rf_against, cf_for, cf_against,
			lf_for, lf_against, lb_for, lb_against, cb_for, cb_against,
			front_for, front_against, back_for, back_against,
			serves, serve_points, longest_run, games_played
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	runStmt, err := tx.Prepare(`INSERT OR REPLACE INTO serve_runs(match_number, game_number, jersey, turn, points) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer runStmt.Close()

	for _, n := range g.Stats.Jerseys() {
		p := g.Stats.Players[n]
		_, err = stmt.Exec(
			rec.Match, rec.Game, n,
			p.RB.For, p.RB.Against, p.RF.For, p.RF.Against, p.CF.For, p.CF.Against,
			p.LF.For, p.LF.Against, p.LB.For, p.LB.Against, p.CB.For, p.CB.Against,
			p.FrontRow.For, p.FrontRow.Against, p.BackRow.For, p.BackRow.Against,
			p.TotalServes, p.TotalServePoints, p.LongestRun(), p.GamesPlayed,
		)
		if err != nil {
			return fmt.Errorf("insert player_game_stats for %d: %w", n, err)
		}
		for turn, pts := range p.ServeRuns {
			if _, err := runStmt.Exec(rec.Match, rec.Game, n, turn+1, pts); err != nil {
				return fmt.Errorf("insert serve_runs for %d: %w", n, err)
			}
		}
	}
	return nil
}

// ListGames returns every stored game ordered by match then game.
func (db *DB) ListGames() ([]GameRow, error) {
	rows, err := db.conn.Query(`
		SELECT g.match_number, COALESCE(m.opponent, ''), g.game_number, g.serve_start, g.full_set,
		       g.counted, g.team_score, g.opp_score, g.won, g.lineup
		FROM games g LEFT JOIN matches m ON m.match_number = g.match_number
		ORDER BY g.match_number, g.game_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GameRow
	for rows.Next() {
		var r GameRow
		var serve, full, counted, won int
		if err := rows.Scan(&r.Match, &r.Opponent, &r.Game, &serve, &full, &counted,
			&r.TeamScore, &r.OppScore, &won, &r.Lineup); err != nil {
			return nil, err
		}
		r.ServeStart, r.Full, r.Counted, r.Won = serve == 1, full == 1, counted == 1, won == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// PlayerTotals sums per-game rows for every player, most serve points first.
func (db *DB) PlayerTotals() ([]PlayerTotals, error) {
	rows, err := db.conn.Query(`
		SELECT s.jersey, COALESCE(p.name, ''),
		       SUM(s.games_played), SUM(s.serves), SUM(s.serve_points),
		       SUM(s.front_for + s.back_for), SUM(s.front_against + s.back_against)
		FROM player_game_stats s LEFT JOIN players p ON p.jersey = s.jersey
		GROUP BY s.jersey
		ORDER BY SUM(s.serve_points) DESC, s.jersey`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PlayerTotals
	for rows.Next() {
		var t PlayerTotals
		if err := rows.Scan(&t.Jersey, &t.Name, &t.Games, &t.Serves, &t.ServePoints, &t.For, &t.Against); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query and returns column names and stringified rows.
func (db *DB) QueryRaw(query string) ([]string, [][]string, error) {
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			row[i] = cellString(v)
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}

func cellString(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func lineupString(l model.Lineup) string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
