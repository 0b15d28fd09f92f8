package stats

import (
	"fmt"

	"github.com/pable/volleystats/internal/model"
)

// PlusMinus is a pair of point counters: points won and points lost.
type PlusMinus struct {
	For     int
	Against int
}

// Add returns the element-wise sum.
func (p PlusMinus) Add(o PlusMinus) PlusMinus {
	return PlusMinus{For: p.For + o.For, Against: p.Against + o.Against}
}

// Net is For minus Against.
func (p PlusMinus) Net() int { return p.For - p.Against }

func (p *PlusMinus) inc(side model.Side, n int) {
	if side == model.SideFor {
		p.For += n
	} else {
		p.Against += n
	}
}

// PlayerStats accumulates one player's numbers over a game, match or season.
type PlayerStats struct {
	Jersey int

	// Plus/minus by the slot the player stood in when the point ended.
	RB, RF, CF, LF, LB, CB PlusMinus

	// Derived from the slot pairs by sumRows.
	FrontRow PlusMinus
	BackRow  PlusMinus
	Total    PlusMinus

	ServeRuns    []int // points won per service turn, in play order
	ServedScores []int // team score values reached on this player's serve
	TotalServes  int

	TotalServePoints int

	// Games played split so partial credit can be applied exactly.
	FullGames    int
	PartialGames int

	// Derived by ComputeRates.
	GamesPlayed    float64
	PointsPerGame  float64
	PointsPerServe float64
}

func newPlayerStats(jersey int) *PlayerStats {
	return &PlayerStats{Jersey: jersey}
}

// Slot returns the plus/minus pair for a court slot.
func (p *PlayerStats) Slot(s model.Slot) *PlusMinus {
	switch s {
	case model.SlotRB:
		return &p.RB
	case model.SlotRF:
		return &p.RF
	case model.SlotCF:
		return &p.CF
	case model.SlotLF:
		return &p.LF
	case model.SlotLB:
		return &p.LB
	case model.SlotCB:
		return &p.CB
	}
	panic(fmt.Sprintf("stats: unknown slot %d", s))
}

// LongestRun is the best single service turn, 0 if the player never served.
func (p *PlayerStats) LongestRun() int {
	best := 0
	for _, r := range p.ServeRuns {
		if r > best {
			best = r
		}
	}
	return best
}

func (p *PlayerStats) sumRows() {
	p.FrontRow = p.RF.Add(p.CF).Add(p.LF)
	p.BackRow = p.RB.Add(p.LB).Add(p.CB)
	p.Total = p.FrontRow.Add(p.BackRow)
}

// ComputeRates derives GamesPlayed, PointsPerGame and PointsPerServe from the
// accumulated totals. It only reads the totals, so calling it again gives the
// same result.
func (p *PlayerStats) ComputeRates(partialCredit float64) error {
	p.GamesPlayed = float64(p.FullGames) + float64(p.PartialGames)*partialCredit

	ppg, err := ratio(float64(p.TotalServePoints), p.GamesPlayed)
	if err != nil {
		return &AttributionConsistencyError{Jersey: p.Jersey, Reason: "serve points without games played"}
	}
	pps, err := ratio(float64(p.TotalServePoints), float64(p.TotalServes))
	if err != nil {
		return &AttributionConsistencyError{Jersey: p.Jersey, Reason: "serve points without serves"}
	}
	p.PointsPerGame, p.PointsPerServe = ppg, pps
	return nil
}

// ratio divides with 0/0 = 0; a non-zero numerator over zero is an error.
func ratio(num, den float64) (float64, error) {
	if den == 0 {
		if num != 0 {
			return 0, fmt.Errorf("%v / 0", num)
		}
		return 0, nil
	}
	return num / den, nil
}

// mergePlayer returns a new PlayerStats holding a + b. Either side may be nil.
func mergePlayer(jersey int, a, b *PlayerStats) *PlayerStats {
	out := newPlayerStats(jersey)
	for _, src := range []*PlayerStats{a, b} {
		if src == nil {
			continue
		}
		for _, s := range model.Slots {
			*out.Slot(s) = out.Slot(s).Add(*src.Slot(s))
		}
		out.ServeRuns = append(out.ServeRuns, src.ServeRuns...)
		out.ServedScores = append(out.ServedScores, src.ServedScores...)
		out.TotalServes += src.TotalServes
		out.TotalServePoints += src.TotalServePoints
		out.FullGames += src.FullGames
		out.PartialGames += src.PartialGames
	}
	out.sumRows()
	return out
}
