package storage

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/volleystats/internal/aggregator"
	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/stats"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func events(t *testing.T, raw ...any) []model.Event {
	t.Helper()
	ev, err := model.ParseEvents(raw, model.DefaultMarkers, "test")
	require.NoError(t, err)
	return ev
}

func buildSeason(t *testing.T) *aggregator.Season {
	t.Helper()
	roster := &model.Roster{}
	roster.Add(model.Player{Name: "Lee", Jersey: 29})
	roster.Add(model.Player{Name: "Pooja", Jersey: 93})

	lineup := model.Lineup{29, 93, 38, 23, 9, 25}
	rec := &model.SeasonRecord{
		Name:   "Fall",
		Roster: roster,
		Matches: []model.MatchRecord{{
			Number:   1,
			Opponent: model.Opponent{Name: "Diggers"},
			Games: []model.GameRecord{
				{
					Match: 1, Game: 1, Lineup: lineup,
					TeamScores: events(t, "R", 1, 2, "R", 3),
					OppoScores: events(t, 1, "R", 2),
					ServeStart: true, Full: true, Include: true,
				},
				{
					Match: 1, Game: 2, Lineup: lineup,
					TeamScores: events(t, 1, "R"),
					OppoScores: events(t, "R", 1, "X"),
					Include:    false,
				},
			},
		}},
	}
	s, err := aggregator.New(stats.DefaultPartialGameCredit, nil).BuildSeason(rec)
	require.NoError(t, err)
	return s
}

func loadedDB(t *testing.T) *DB {
	t.Helper()
	db := openMemDB(t)
	require.NoError(t, db.LoadSeason(buildSeason(t)))
	return db
}

func TestLoadSeasonAndListGames(t *testing.T) {
	db := loadedDB(t)

	games, err := db.ListGames()
	require.NoError(t, err)
	require.Len(t, games, 2)

	g1 := games[0]
	require.Equal(t, "Diggers", g1.Opponent)
	require.Equal(t, 3, g1.TeamScore)
	require.Equal(t, 2, g1.OppScore)
	require.True(t, g1.Won)
	require.True(t, g1.Counted)
	require.Equal(t, "29,93,38,23,9,25", g1.Lineup)
	require.False(t, games[1].Counted, "excluded game should not be counted")
}

func TestPlayerTotals(t *testing.T) {
	db := loadedDB(t)

	totals, err := db.PlayerTotals()
	require.NoError(t, err)
	require.Len(t, totals, 6)

	// Only 93 scored on serve.
	require.Equal(t, 93, totals[0].Jersey)
	require.Equal(t, "Pooja", totals[0].Name)
	require.Equal(t, 1, totals[0].ServePoints)

	var lee *PlayerTotals
	for i := range totals {
		if totals[i].Jersey == 29 {
			lee = &totals[i]
		}
	}
	require.NotNil(t, lee)
	require.Equal(t, PlayerTotals{Jersey: 29, Name: "Lee", Games: 1, Serves: 1, For: 3, Against: 2}, *lee)
}

func TestQueryRaw(t *testing.T) {
	db := loadedDB(t)

	cols, rows, err := db.QueryRaw("SELECT jersey, rb_for, rb_against FROM player_game_stats WHERE jersey = 29")
	require.NoError(t, err)
	require.Equal(t, []string{"jersey", "rb_for", "rb_against"}, cols)
	require.Equal(t, [][]string{{"29", "1", "1"}}, rows)

	_, rows, err = db.QueryRaw("SELECT COUNT(*), SUM(points) FROM serve_runs")
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1"}, rows[0], "3 serve turns worth 1 point")

	_, _, err = db.QueryRaw("SELECT nope FROM nowhere")
	require.Error(t, err)
}
