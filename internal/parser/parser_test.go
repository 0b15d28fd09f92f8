package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pable/volleystats/internal/model"
)

const seasonYAML = `
season: Fall
roster:
  - {name: Lee, gender: m, status: full, jersey: 29}
  - {name: Pooja, gender: f, status: full, jersey: 93}
  - {name: Markus, gender: m, status: full, jersey: 38}
  - {name: Reba, gender: f, status: full, jersey: 23}
  - {name: Ian, gender: m, status: full, jersey: 9}
  - {name: Madysen, gender: f, status: full, jersey: 25}
  - {name: Paul, gender: m, status: sub, jersey: 44}
matches:
  - match: 1
    opponent: {name: Diggers}
    games:
      - game: 1
        lineup: [29, 93, 38, 23, 9, 25]
        serve: true
        full: true
        team_scores: [R, 1, 2, R, 3]
        oppo_scores: [1, r, 2]
      - game: 2
        lineup: [93, 38, 23, 9, 25, 44]
        serve: false
        full: false
        include: false
        team_scores: [1, R]
        oppo_scores: [R, 1, X]
`

func TestParse(t *testing.T) {
	rec, err := Parse([]byte(seasonYAML), nil)
	require.NoError(t, err)

	require.Equal(t, "Fall", rec.Name)
	require.Len(t, rec.Hash, 64)
	require.Len(t, rec.Roster.Players, 7)
	require.Equal(t, "Paul", rec.Roster.Name(44))

	require.Len(t, rec.Matches, 1)
	m := rec.Matches[0]
	require.Equal(t, 1, m.Number)
	require.Equal(t, "Diggers", m.Opponent.Name)
	require.Len(t, m.Games, 2)

	g1 := m.Games[0]
	require.Equal(t, model.Lineup{29, 93, 38, 23, 9, 25}, g1.Lineup)
	require.True(t, g1.ServeStart)
	require.True(t, g1.Full)
	require.True(t, g1.Include, "include defaults to true")
	require.Equal(t, []model.Event{
		model.MarkerEvent('R'), model.PointEvent(1), model.PointEvent(2), model.MarkerEvent('R'), model.PointEvent(3),
	}, g1.TeamScores)
	require.True(t, g1.OppoScores[1].IsMarker(), "markers are case-insensitive")

	g2 := m.Games[1]
	require.False(t, g2.Include)
	require.False(t, g2.Full)
	require.Equal(t, 1, g2.Match)
	require.True(t, g2.OppoScores[2].IsEndOfSet())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		lineup  bool
		scoring bool
	}{
		{
			name:   "short lineup",
			yaml:   "matches: [{games: [{lineup: [1, 2, 3], team_scores: [1], oppo_scores: [R]}]}]",
			lineup: true,
		},
		{
			name:   "duplicate jersey",
			yaml:   "matches: [{games: [{lineup: [1, 2, 3, 4, 5, 5], team_scores: [1], oppo_scores: [R]}]}]",
			lineup: true,
		},
		{
			name:   "jersey missing from roster",
			yaml:   "roster: [{name: A, jersey: 1}]\nmatches: [{games: [{lineup: [1, 2, 3, 4, 5, 6], team_scores: [1], oppo_scores: [R]}]}]",
			lineup: true,
		},
		{
			name:    "unknown token",
			yaml:    "matches: [{games: [{lineup: [1, 2, 3, 4, 5, 6], team_scores: [1, Q], oppo_scores: [R]}]}]",
			scoring: true,
		},
		{
			name:    "negative point",
			yaml:    "matches: [{games: [{lineup: [1, 2, 3, 4, 5, 6], team_scores: [-1], oppo_scores: [R]}]}]",
			scoring: true,
		},
		{
			name: "duplicate match",
			yaml: "matches: [{match: 1, games: []}, {match: 1, games: []}]",
		},
		{
			name: "duplicate game",
			yaml: "matches: [{games: [{game: 2, lineup: [1, 2, 3, 4, 5, 6], team_scores: [1], oppo_scores: [R]}, {game: 2, lineup: [1, 2, 3, 4, 5, 6], team_scores: [1], oppo_scores: [R]}]}]",
		},
		{
			name: "unknown field",
			yaml: "matches: [{games: [{lineup: [1, 2, 3, 4, 5, 6], serves: true}]}]",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), nil)
			require.Error(t, err)

			var le *model.InvalidLineupError
			require.Equal(t, tt.lineup, errors.As(err, &le), "lineup error: %v", err)
			var se *model.ScoreSequenceError
			require.Equal(t, tt.scoring, errors.As(err, &se), "sequence error: %v", err)
		})
	}
}

func TestParse_CustomMarkers(t *testing.T) {
	data := "matches: [{games: [{lineup: [1, 2, 3, 4, 5, 6], serve: true, team_scores: [1, S], oppo_scores: [1, S]}]}]"

	_, err := Parse([]byte(data), nil)
	require.Error(t, err)

	rec, err := Parse([]byte(data), []string{"S"})
	require.NoError(t, err)
	require.True(t, rec.Matches[0].Games[0].TeamScores[1].IsMarker())
}

func TestParseSeason_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "season.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seasonYAML), 0o644))

	rec, err := ParseSeason(path, model.DefaultMarkers)
	require.NoError(t, err)
	require.Equal(t, 1, rec.Matches[0].Games[0].Game)

	_, err = ParseSeason(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
