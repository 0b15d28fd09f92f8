package aggregator

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/rotation"
	"github.com/pable/volleystats/internal/stats"
)

// Game is one recorded set and, when it counts toward stats, its aggregate.
type Game struct {
	Record model.GameRecord
	Stats  *stats.GameStats // nil when Record.Include is false
}

// Counted reports whether the game contributes to match totals.
func (g *Game) Counted() bool { return g.Stats != nil }

// Match is every set against one opponent, merged in play order.
type Match struct {
	Number   int
	Opponent model.Opponent
	Games    []*Game

	stats *stats.GameStats
}

// Stats returns the merged aggregate of every counted game.
func (m *Match) Stats() *stats.GameStats { return m.stats }

// Season is every match of the season, merged in play order.
type Season struct {
	Name    string
	Hash    string
	Roster  *model.Roster
	Matches []*Match

	stats *stats.GameStats
}

// Stats returns the merged aggregate of every match.
func (s *Season) Stats() *stats.GameStats { return s.stats }

// Aggregator builds containers from loaded records.
type Aggregator struct {
	engine *rotation.Engine
	credit float64
	logger *slog.Logger
}

// New returns an Aggregator that counts partial sets with partialCredit.
func New(partialCredit float64, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Aggregator{
		engine: rotation.New(partialCredit, logger),
		credit: partialCredit,
		logger: logger,
	}
}

// NewMatch returns an empty match container.
func (a *Aggregator) NewMatch(number int, opp model.Opponent) *Match {
	return &Match{
		Number:   number,
		Opponent: opp,
		stats:    stats.Empty(model.TierMatch, a.credit),
	}
}

// AddGame simulates rec and folds it into the match. On error the match is
// left as it was.
func (a *Aggregator) AddGame(m *Match, rec model.GameRecord) (*Game, error) {
	g := &Game{Record: rec}
	if !rec.Include {
		a.logger.Debug("game excluded from stats", "match", rec.Match, "game", rec.Game)
		m.Games = append(m.Games, g)
		return g, nil
	}

	gs, err := a.engine.Simulate(rec)
	if err != nil {
		return nil, err
	}
	merged, err := stats.Combine(m.stats, gs)
	if err != nil {
		return nil, fmt.Errorf("merge game %d into match %d: %w", rec.Game, m.Number, err)
	}
	g.Stats = gs
	m.Games = append(m.Games, g)
	m.stats = merged
	return g, nil
}

// NewSeason returns an empty season container.
func (a *Aggregator) NewSeason(name string, roster *model.Roster) *Season {
	return &Season{
		Name:   name,
		Roster: roster,
		stats:  stats.Empty(model.TierSeason, a.credit),
	}
}

// AddMatch folds a finished match into the season.
func (a *Aggregator) AddMatch(s *Season, m *Match) error {
	merged, err := stats.Combine(s.stats, m.stats)
	if err != nil {
		return fmt.Errorf("merge match %d into season: %w", m.Number, err)
	}
	s.Matches = append(s.Matches, m)
	s.stats = merged
	return nil
}

// BuildMatch simulates every game of a match record.
func (a *Aggregator) BuildMatch(rec model.MatchRecord) (*Match, error) {
	m := a.NewMatch(rec.Number, rec.Opponent)
	for _, g := range rec.Games {
		if _, err := a.AddGame(m, g); err != nil {
			return nil, fmt.Errorf("match %d: %w", rec.Number, err)
		}
	}
	a.logger.Info("match aggregated",
		"match", m.Number, "opponent", m.Opponent.Name,
		"games", len(m.Games), "won", m.stats.TeamScore, "lost", m.stats.OpponentScore)
	return m, nil
}

// BuildSeason simulates and merges a whole season record.
func (a *Aggregator) BuildSeason(rec *model.SeasonRecord) (*Season, error) {
	s := a.NewSeason(rec.Name, rec.Roster)
	s.Hash = rec.Hash
	for _, mr := range rec.Matches {
		m, err := a.BuildMatch(mr)
		if err != nil {
			return nil, err
		}
		if err := a.AddMatch(s, m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AllTime merges several seasons into one all-time aggregate.
func AllTime(seasons ...*Season) (*stats.GameStats, error) {
	if len(seasons) < 2 {
		return nil, fmt.Errorf("all-time totals need at least two seasons, got %d", len(seasons))
	}
	acc, err := stats.Combine(seasons[0].stats, seasons[1].stats)
	if err != nil {
		return nil, err
	}
	for _, s := range seasons[2:] {
		if acc, err = stats.Combine(acc, s.stats); err != nil {
			return nil, err
		}
	}
	return acc, nil
}
