// Package rotation replays a recorded set rally by rally to work out who stood
// in which court slot when every point was won or lost.
package rotation

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/pable/volleystats/internal/model"
	"github.com/pable/volleystats/internal/stats"
)

const (
	sideTeam     = "team"
	sideOpponent = "opponent"
)

// Engine attributes the points of a GameRecord to players and slots.
type Engine struct {
	PartialGameCredit float64
	Logger            *slog.Logger
}

// New returns an Engine using the given partial-game credit.
func New(partialCredit float64, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{PartialGameCredit: partialCredit, Logger: logger}
}

// run is a maximal stretch of points won by one side before a marker.
type run []int

// Simulate validates rec and returns its finished single-game aggregate.
// Nothing is attributed unless the whole record validates.
func (e *Engine) Simulate(rec model.GameRecord) (*stats.GameStats, error) {
	teamRuns, err := splitRuns(rec.TeamScores, sideTeam)
	if err != nil {
		return nil, err
	}
	oppRuns, err := splitRuns(rec.OppoScores, sideOpponent)
	if err != nil {
		return nil, err
	}
	if err := checkHoles(teamRuns, sideTeam, rec.ServeStart); err != nil {
		return nil, err
	}
	if err := checkHoles(oppRuns, sideOpponent, !rec.ServeStart); err != nil {
		return nil, err
	}
	if err := checkAlternation(len(teamRuns), len(oppRuns), rec.ServeStart); err != nil {
		return nil, err
	}
	if err := checkBreaks(rec, teamRuns, oppRuns); err != nil {
		return nil, err
	}

	teamPoints, oppPoints := model.Points(rec.TeamScores), model.Points(rec.OppoScores)
	gs := stats.NewGameStats(rec.Lineup, e.PartialGameCredit)
	gs.AddFinalScore(teamPoints, oppPoints)

	start := startingCourt(rec.Lineup, rec.ServeStart)

	court := start
	sideOuts := 0
	for i, r := range teamRuns {
		beg := i == 0 && rec.ServeStart
		if err := gs.AddScoreRun(court, r, model.SideFor, beg); err != nil {
			return nil, fmt.Errorf("game %d.%d: %w", rec.Match, rec.Game, err)
		}
		if !beg {
			court = court.Forward()
			sideOuts++
		}
	}

	court = start
	for _, r := range oppRuns {
		if err := gs.AddScoreRun(court, r, model.SideAgainst, false); err != nil {
			return nil, fmt.Errorf("game %d.%d: %w", rec.Match, rec.Game, err)
		}
		court = court.Forward()
	}

	if err := gs.FinishGame(rec.Full); err != nil {
		return nil, fmt.Errorf("game %d.%d: %w", rec.Match, rec.Game, err)
	}
	if err := checkAttribution(gs, teamPoints, oppPoints, sideOuts); err != nil {
		return nil, fmt.Errorf("game %d.%d: %w", rec.Match, rec.Game, err)
	}

	e.Logger.Debug("game simulated",
		"match", rec.Match, "game", rec.Game,
		"team", teamPoints, "opponent", oppPoints,
		"team_runs", len(teamRuns), "opponent_runs", len(oppRuns),
		"full", rec.Full)
	return gs, nil
}

// startingCourt is the arrangement when the first rally is played. A team that
// receives first is one rotation behind its lineup: winning the side-out
// rotates lineup[0] into the server slot.
func startingCourt(lineup model.Lineup, serveStart bool) model.Lineup {
	if serveStart {
		return lineup
	}
	return lineup.Back()
}

// splitRuns cuts a sequence at its markers and checks the running totals.
func splitRuns(events []model.Event, side string) ([]run, error) {
	var (
		runs []run
		cur  []int
		want = 1
	)
	for i, ev := range events {
		if ev.IsMarker() {
			runs = append(runs, cur)
			cur = nil
			if ev.IsEndOfSet() && i != len(events)-1 {
				return nil, &model.ScoreSequenceError{Side: side, Index: i, Reason: "end-of-set marker before the last entry"}
			}
			continue
		}
		if ev.Point != want {
			return nil, &model.ScoreSequenceError{
				Side:   side,
				Index:  i,
				Reason: fmt.Sprintf("expected running total %d, got %d", want, ev.Point),
			}
		}
		cur = append(cur, ev.Point)
		want++
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	return runs, nil
}

// checkHoles rejects empty runs. Only the opening run of the side that served
// first may be empty: that side lost the first rally on its own serve.
func checkHoles(runs []run, side string, servedFirst bool) error {
	for i, r := range runs {
		if len(r) > 0 {
			continue
		}
		if i == 0 && servedFirst {
			continue
		}
		return &model.ScoreSequenceError{
			Side:   side,
			Index:  -1,
			Reason: fmt.Sprintf("run %d has no points: the rally that gave %s the serve is missing", i+1, side),
		}
	}
	return nil
}

// checkAlternation makes sure service changed hands the way the runs say: the
// side that served first has as many runs as the other side, or one more.
func checkAlternation(teamRuns, oppRuns int, serveStart bool) error {
	first, second := teamRuns, oppRuns
	if !serveStart {
		first, second = oppRuns, teamRuns
	}
	if d := first - second; d != 0 && d != 1 {
		return &model.ScoreSequenceError{
			Side:   sideTeam,
			Index:  -1,
			Reason: fmt.Sprintf("%d team runs cannot alternate with %d opponent runs", teamRuns, oppRuns),
		}
	}
	return nil
}

// checkBreaks matches every lost serve against the rally it gave away. Each
// run marker on one side must pair with a side-out run of the other side. The
// marker may only be missing when the sequence stops mid-run and the other
// side's side-out closed the set.
func checkBreaks(rec model.GameRecord, teamRuns, oppRuns []run) error {
	teamLast := len(teamRuns) > len(oppRuns) || (!rec.ServeStart && len(teamRuns) == len(oppRuns))
	if err := matchBreaks(rec.TeamScores, sideTeam, sideOuts(oppRuns, !rec.ServeStart), sideOpponent, !teamLast); err != nil {
		return err
	}
	return matchBreaks(rec.OppoScores, sideOpponent, sideOuts(teamRuns, rec.ServeStart), sideTeam, teamLast)
}

func matchBreaks(events []model.Event, side string, otherSideOuts int, other string, otherClosed bool) error {
	marked := 0
	for _, ev := range events {
		if ev.IsMarker() && !ev.IsEndOfSet() {
			marked++
		}
	}
	if marked == otherSideOuts {
		return nil
	}
	open := len(events) > 0 && !events[len(events)-1].IsMarker()
	if marked == otherSideOuts-1 && open && otherClosed {
		return nil
	}
	return &model.ScoreSequenceError{
		Side:   side,
		Index:  -1,
		Reason: fmt.Sprintf("%d lost serves marked but %s won %d side-outs", marked, other, otherSideOuts),
	}
}

// sideOuts counts the runs that began by winning the other side's serve.
func sideOuts(runs []run, servedFirst bool) int {
	if servedFirst && len(runs) > 0 {
		return len(runs) - 1
	}
	return len(runs)
}

// checkAttribution re-derives the point totals from the finished aggregate.
func checkAttribution(gs *stats.GameStats, teamPoints, oppPoints, sideOuts int) error {
	for _, s := range model.Slots {
		var pm stats.PlusMinus
		for _, p := range gs.Players {
			pm = pm.Add(*p.Slot(s))
		}
		if pm.For != teamPoints || pm.Against != oppPoints {
			return &stats.AttributionConsistencyError{
				Jersey: stats.NoJersey,
				Reason: fmt.Sprintf("slot %s credited %d-%d, score is %d-%d", s, pm.For, pm.Against, teamPoints, oppPoints),
			}
		}
	}
	served := 0
	for _, p := range gs.Players {
		for _, r := range p.ServeRuns {
			served += r
		}
	}
	if served+sideOuts != teamPoints {
		return &stats.AttributionConsistencyError{
			Jersey: stats.NoJersey,
			Reason: fmt.Sprintf("%d served points and %d side-outs do not add up to %d", served, sideOuts, teamPoints),
		}
	}
	return nil
}
