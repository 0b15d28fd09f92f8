package stats

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/pable/volleystats/internal/model"
)

// makeGame builds a finished single-game aggregate: the team serves first and
// wins forPts on the opening serve, then the opponent wins againstPts.
func makeGame(t *testing.T, lineup model.Lineup, forPts, againstPts int, full bool) *GameStats {
	t.Helper()
	g := NewGameStats(lineup, DefaultPartialGameCredit)
	var team, opp []int
	for i := 1; i <= forPts; i++ {
		team = append(team, i)
	}
	for i := 1; i <= againstPts; i++ {
		opp = append(opp, i)
	}
	require.NoError(t, g.AddScoreRun(lineup, team, model.SideFor, true))
	require.NoError(t, g.AddScoreRun(lineup, opp, model.SideAgainst, false))
	g.AddFinalScore(forPts, againstPts)
	require.NoError(t, g.FinishGame(full))
	return g
}

var (
	lineupA = model.Lineup{29, 93, 38, 23, 9, 25}
	lineupB = model.Lineup{3, 45, 25, 29, 0, 30}
	lineupC = model.Lineup{45, 0, 9, 93, 38, 23}
)

func mustCombine(t *testing.T, a, b *GameStats) *GameStats {
	t.Helper()
	out, err := Combine(a, b)
	require.NoError(t, err)
	return out
}

func TestAddFinalScore(t *testing.T) {
	g := NewGameStats(lineupA, DefaultPartialGameCredit)
	g.AddFinalScore(25, 23)
	require.True(t, g.Won)
	g.AddFinalScore(20, 25)
	require.False(t, g.Won)
}

func TestAddScoreRun_SideOut(t *testing.T) {
	g := NewGameStats(lineupA, DefaultPartialGameCredit)
	require.NoError(t, g.AddScoreRun(lineupA, []int{4, 5, 6}, model.SideFor, false))

	// Point 4 is the side-out in lineupA; 93 then serves 5 and 6.
	require.Equal(t, PlusMinus{For: 1}, g.Players[29].RB)
	require.Equal(t, PlusMinus{For: 2}, g.Players[29].CB)
	require.Equal(t, PlusMinus{For: 1}, g.Players[93].RF)
	require.Equal(t, PlusMinus{For: 2}, g.Players[93].RB)
	require.Equal(t, []int{2}, g.Players[93].ServeRuns)
	require.Equal(t, []int{5, 6}, g.Players[93].ServedScores)
	require.Zero(t, g.Players[29].TotalServes)

	var ae *AttributionConsistencyError
	err := g.AddScoreRun(lineupA, nil, model.SideFor, false)
	require.True(t, errors.As(err, &ae))
	require.Equal(t, NoJersey, ae.Jersey)
	require.Equal(t, "attribution inconsistent: side-out run without a point", ae.Error())
}

func TestComputeRates_JerseyZero(t *testing.T) {
	p := &PlayerStats{Jersey: 0, TotalServePoints: 3}
	err := p.ComputeRates(DefaultPartialGameCredit)
	var ae *AttributionConsistencyError
	require.True(t, errors.As(err, &ae))
	require.Zero(t, ae.Jersey)
	require.Contains(t, ae.Error(), "for #0:")
}

func TestAddScoreRun_UnknownPlayer(t *testing.T) {
	g := NewGameStats(lineupA, DefaultPartialGameCredit)
	err := g.AddScoreRun(lineupB, []int{1}, model.SideAgainst, false)
	var ae *AttributionConsistencyError
	require.True(t, errors.As(err, &ae))
}

func TestFinishGame(t *testing.T) {
	g := makeGame(t, lineupA, 3, 1, true)
	require.True(t, g.Valid())

	p := g.Players[29]
	require.Equal(t, 3, p.TotalServePoints)
	require.Equal(t, 1, p.TotalServes)
	require.InDelta(t, 3.0, p.PointsPerServe, 1e-9)
	require.InDelta(t, 3.0, p.PointsPerGame, 1e-9)

	// Never served: rates are zero, not an error.
	q := g.Players[93]
	require.Zero(t, q.TotalServes)
	require.Zero(t, q.PointsPerServe)
	require.Zero(t, q.PointsPerGame)
	require.InDelta(t, 1.0, q.GamesPlayed, 1e-9)

	require.Error(t, g.FinishGame(true), "finishing twice")
	require.Error(t, g.AddScoreRun(lineupA, []int{4}, model.SideFor, true), "adding after finish")
}

func TestFinishGame_Partial(t *testing.T) {
	g := makeGame(t, lineupA, 3, 1, false)
	p := g.Players[29]
	require.Equal(t, 1, p.PartialGames)
	require.InDelta(t, DefaultPartialGameCredit, p.GamesPlayed, 1e-9)
	require.InDelta(t, 3/DefaultPartialGameCredit, p.PointsPerGame, 1e-9)

	g2 := NewGameStats(lineupA, 0.5)
	require.NoError(t, g2.AddScoreRun(lineupA, []int{1}, model.SideFor, true))
	require.NoError(t, g2.FinishGame(false))
	require.InDelta(t, 2.0, g2.Players[29].PointsPerGame, 1e-9)
}

func TestComputeRates_Idempotent(t *testing.T) {
	g := makeGame(t, lineupA, 5, 2, false)
	p := g.Players[29]
	ppg, pps := p.PointsPerGame, p.PointsPerServe

	require.NoError(t, p.ComputeRates(DefaultPartialGameCredit))
	require.NoError(t, p.ComputeRates(DefaultPartialGameCredit))
	require.Equal(t, ppg, p.PointsPerGame)
	require.Equal(t, pps, p.PointsPerServe)
}

func TestComputeRates_InconsistentTotals(t *testing.T) {
	p := &PlayerStats{Jersey: 7, TotalServePoints: 3}
	err := p.ComputeRates(DefaultPartialGameCredit)
	var ae *AttributionConsistencyError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, 7, ae.Jersey)
}

func TestCombine_GameGame(t *testing.T) {
	won := makeGame(t, lineupA, 25, 20, true)
	lost := makeGame(t, lineupB, 18, 25, true)

	m := mustCombine(t, won, lost)
	require.Equal(t, model.TierMatch, m.Tier)
	require.Equal(t, 1, m.TeamScore)
	require.Equal(t, 1, m.OpponentScore)
	require.False(t, m.Won)
	require.True(t, m.Valid())

	// 29 and 25 played both games, in different slots.
	p29 := m.Players[29]
	require.Equal(t, 2, p29.FullGames)
	require.Equal(t, PlusMinus{For: 25, Against: 20}, p29.RB)
	require.Equal(t, PlusMinus{For: 18, Against: 25}, p29.LF)
	require.Equal(t, PlusMinus{For: 43, Against: 45}, p29.Total)
	require.Equal(t, []int{25}, p29.ServeRuns)
	require.InDelta(t, 12.5, p29.PointsPerGame, 1e-9)

	// 3 only played the second game; absent means zero.
	p3 := m.Players[3]
	require.Equal(t, 1, p3.FullGames)
	require.Equal(t, []int{18}, p3.ServeRuns)

	// Inputs are untouched.
	require.Equal(t, model.TierGame, won.Tier)
	require.Equal(t, 1, won.Players[29].FullGames)

	// GAME+GAME is commutative.
	require.Empty(t, cmp.Diff(m, mustCombine(t, lost, won), cmp.AllowUnexported(GameStats{})))
}

func TestCombine_Associative(t *testing.T) {
	a := makeGame(t, lineupA, 25, 20, true)
	b := makeGame(t, lineupB, 18, 25, true)
	c := makeGame(t, lineupC, 9, 15, false)

	left := mustCombine(t, mustCombine(t, a, b), c)
	right := mustCombine(t, a, mustCombine(t, b, c))

	require.Equal(t, model.TierMatch, left.Tier)
	require.Equal(t, 1, left.TeamScore)
	require.Equal(t, 2, left.OpponentScore)
	if diff := cmp.Diff(left, right, cmp.AllowUnexported(GameStats{})); diff != "" {
		t.Fatalf("(a+b)+c != a+(b+c) (-left +right):\n%s", diff)
	}
}

func TestCombine_MatchGameOrderMatters(t *testing.T) {
	m := mustCombine(t, makeGame(t, lineupA, 25, 20, true), makeGame(t, lineupA, 25, 22, true))
	g := makeGame(t, lineupA, 14, 25, true)

	mg := mustCombine(t, m, g)
	gm := mustCombine(t, g, m)

	require.Equal(t, model.TierMatch, mg.Tier)
	require.Equal(t, 2, mg.TeamScore)
	require.Equal(t, 1, mg.OpponentScore)
	require.Equal(t, mg.TeamScore, gm.TeamScore)
	require.Equal(t, mg.Players[29].Total, gm.Players[29].Total)

	// The serve history keeps play order, so the merge is not symmetric.
	require.Equal(t, []int{25, 25, 14}, mg.Players[29].ServeRuns)
	require.Equal(t, []int{14, 25, 25}, gm.Players[29].ServeRuns)
	require.NotEmpty(t, cmp.Diff(mg, gm, cmp.AllowUnexported(GameStats{})))
}

func TestCombine_Tiers(t *testing.T) {
	g := func() *GameStats { return makeGame(t, lineupA, 25, 20, true) }
	match := mustCombine(t, g(), g())
	season := mustCombine(t, match, mustCombine(t, g(), g()))
	require.Equal(t, model.TierSeason, season.Tier)
	require.Equal(t, 4, season.TeamScore)

	season2 := mustCombine(t, season, match)
	require.Equal(t, model.TierSeason, season2.Tier)
	require.Equal(t, 6, season2.TeamScore)

	allTime := mustCombine(t, season, season2)
	require.Equal(t, model.TierAllTime, allTime.Tier)
	require.Equal(t, 10, allTime.TeamScore)
	require.Equal(t, model.TierAllTime, mustCombine(t, allTime, season).Tier)

	bad := []struct{ a, b *GameStats }{
		{g(), season},
		{season, g()},
		{allTime, allTime},
		{match, allTime},
		{match, season},
		{allTime, g()},
	}
	for _, tt := range bad {
		_, err := Combine(tt.a, tt.b)
		var mt *MergeTypeError
		require.True(t, errors.As(err, &mt), "%s+%s", tt.a.Tier, tt.b.Tier)
	}
}

func TestCombine_EmptyIsIdentity(t *testing.T) {
	a := makeGame(t, lineupA, 25, 20, true)
	b := makeGame(t, lineupB, 18, 25, true)

	direct := mustCombine(t, a, b)
	folded := mustCombine(t, mustCombine(t, Empty(model.TierMatch, DefaultPartialGameCredit), a), b)
	require.Empty(t, cmp.Diff(direct, folded, cmp.AllowUnexported(GameStats{})))
}

func TestCombine_Rejects(t *testing.T) {
	unfinished := NewGameStats(lineupA, DefaultPartialGameCredit)
	_, err := Combine(makeGame(t, lineupA, 1, 0, true), unfinished)
	require.ErrorIs(t, err, ErrNotFinalized)

	other := NewGameStats(lineupA, 0.5)
	require.NoError(t, other.FinishGame(true))
	_, err = Combine(makeGame(t, lineupA, 1, 0, true), other)
	require.ErrorIs(t, err, ErrCreditMismatch)
}

func TestRanked(t *testing.T) {
	m := mustCombine(t, makeGame(t, lineupA, 5, 2, true), makeGame(t, lineupB, 9, 2, true))
	ranked := m.Ranked()
	require.Equal(t, 3, ranked[0].Jersey)
	require.Equal(t, 29, ranked[1].Jersey)
	require.Len(t, ranked, len(m.Jerseys()))
}
