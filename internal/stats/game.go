// Package stats holds the per-player and per-team aggregates built from
// attributed points, and the rules for merging them into match, season and
// all-time totals.
package stats

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pable/volleystats/internal/model"
)

// DefaultPartialGameCredit is the games-played credit for a set that was not
// played to the end.
const DefaultPartialGameCredit = 0.6

// ErrNotFinalized is returned when merging an aggregate whose game was never finished.
var ErrNotFinalized = errors.New("stats: aggregate not finalized")

// GameStats is the aggregate for one game, or for several merged together.
type GameStats struct {
	TeamScore     int
	OpponentScore int
	Won           bool
	Tier          model.Tier
	Players       map[int]*PlayerStats

	partialCredit float64
	valid         bool
}

// NewGameStats returns an empty single-game aggregate for the given lineup.
func NewGameStats(lineup model.Lineup, partialCredit float64) *GameStats {
	g := &GameStats{
		Tier:          model.TierGame,
		Players:       make(map[int]*PlayerStats, model.NumSlots),
		partialCredit: partialCredit,
	}
	for _, n := range lineup {
		g.Players[n] = newPlayerStats(n)
	}
	return g
}

// Empty returns a valid aggregate with no players and a 0-0 score. Merging it
// with a same-level aggregate is how the containers start their fold.
func Empty(tier model.Tier, partialCredit float64) *GameStats {
	return &GameStats{
		Tier:          tier,
		Players:       make(map[int]*PlayerStats),
		partialCredit: partialCredit,
		valid:         true,
	}
}

// Valid reports whether the aggregate is complete and safe to merge or report.
func (g *GameStats) Valid() bool { return g.valid }

// PartialCredit is the games-played credit used for partial sets.
func (g *GameStats) PartialCredit() float64 { return g.partialCredit }

// AddFinalScore records the final score of the game.
func (g *GameStats) AddFinalScore(team, opponent int) {
	g.TeamScore = team
	g.OpponentScore = opponent
	g.Won = team > opponent
}

// AddScoreRun credits one run of points to every player on court.
//
// court is the arrangement when the run started. For points against, every
// point is credited to court. For points for, unless beg is set, the first
// point is a side-out won in court; the team then rotates and the rest of the
// run is credited to the new arrangement, whose server gets the serve run.
// A beg run (the opening run of a game the team served first) has no side-out.
func (g *GameStats) AddScoreRun(court model.Lineup, points []int, side model.Side, beg bool) error {
	if g.valid {
		return fmt.Errorf("stats: score run added after game finished")
	}
	for _, n := range court {
		if _, ok := g.Players[n]; !ok {
			return &AttributionConsistencyError{Jersey: n, Reason: "player on court but not in lineup"}
		}
	}

	if side == model.SideAgainst {
		g.credit(court, side, len(points))
		return nil
	}

	served := points
	if !beg {
		if len(points) == 0 {
			return &AttributionConsistencyError{Jersey: NoJersey, Reason: "side-out run without a point"}
		}
		g.credit(court, side, 1)
		court = court.Forward()
		served = points[1:]
	}
	g.credit(court, side, len(served))

	server := g.Players[court[model.SlotRB]]
	server.ServeRuns = append(server.ServeRuns, len(served))
	server.ServedScores = append(server.ServedScores, served...)
	server.TotalServes++
	return nil
}

func (g *GameStats) credit(court model.Lineup, side model.Side, n int) {
	if n == 0 {
		return
	}
	for _, s := range model.Slots {
		g.Players[court.At(s)].Slot(s).inc(side, n)
	}
}

// FinishGame closes a single game: totals serve points, credits a full or
// partial game to everyone in the lineup, and derives rates.
func (g *GameStats) FinishGame(full bool) error {
	if g.valid {
		return fmt.Errorf("stats: game already finished")
	}
	if g.Tier != model.TierGame {
		return fmt.Errorf("stats: FinishGame on %s aggregate", g.Tier)
	}
	for _, p := range g.Players {
		runTotal := 0
		for _, r := range p.ServeRuns {
			runTotal += r
		}
		if runTotal != len(p.ServedScores) {
			return &AttributionConsistencyError{
				Jersey: p.Jersey,
				Reason: fmt.Sprintf("serve runs sum to %d but %d points were served", runTotal, len(p.ServedScores)),
			}
		}
		p.TotalServePoints = len(p.ServedScores)
		p.sumRows()
		if full {
			p.FullGames++
		} else {
			p.PartialGames++
		}
		if err := p.ComputeRates(g.partialCredit); err != nil {
			return err
		}
	}
	g.valid = true
	return nil
}

// Jerseys returns the player numbers in ascending order.
func (g *GameStats) Jerseys() []int {
	out := make([]int, 0, len(g.Players))
	for n := range g.Players {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Ranked returns the players sorted by points per game, best first, jersey
// number breaking ties.
func (g *GameStats) Ranked() []*PlayerStats {
	out := make([]*PlayerStats, 0, len(g.Players))
	for _, n := range g.Jerseys() {
		out = append(out, g.Players[n])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PointsPerGame > out[j].PointsPerGame
	})
	return out
}
