package stats

import (
	"errors"
	"fmt"

	"github.com/pable/volleystats/internal/model"
)

// ErrCreditMismatch is returned when merging aggregates that count partial games differently.
var ErrCreditMismatch = errors.New("stats: partial game credit differs between aggregates")

// MergeTypeError means two aggregates sit at tiers that cannot be merged.
type MergeTypeError struct {
	Left, Right model.Tier
}

func (e *MergeTypeError) Error() string {
	return fmt.Sprintf("stats: cannot merge %s with %s", e.Left, e.Right)
}

// AttributionConsistencyError means the attributed numbers contradict each
// other. It always points at a bug in attribution, never at user input.
type AttributionConsistencyError struct {
	Jersey int // NoJersey when not tied to one player
	Reason string
}

// NoJersey marks an AttributionConsistencyError that is not tied to one
// player. Jersey 0 is a real number.
const NoJersey = -1

func (e *AttributionConsistencyError) Error() string {
	if e.Jersey == NoJersey {
		return "attribution inconsistent: " + e.Reason
	}
	return fmt.Sprintf("attribution inconsistent for #%d: %s", e.Jersey, e.Reason)
}

// Combine merges two finished aggregates into a new one a level up. Neither
// input is modified. Player stats are summed field by field; list fields are
// concatenated a first, so operand order shows in ServeRuns and ServedScores.
func Combine(a, b *GameStats) (*GameStats, error) {
	if !a.valid || !b.valid {
		return nil, ErrNotFinalized
	}
	if a.partialCredit != b.partialCredit {
		return nil, ErrCreditMismatch
	}
	tier, err := combinedTier(a.Tier, b.Tier)
	if err != nil {
		return nil, err
	}

	out := &GameStats{
		Tier:          tier,
		Players:       make(map[int]*PlayerStats, len(a.Players)+len(b.Players)),
		partialCredit: a.partialCredit,
	}
	out.TeamScore, out.OpponentScore = combinedScore(a, b)
	out.Won = out.TeamScore > out.OpponentScore

	for n := range a.Players {
		out.Players[n] = nil
	}
	for n := range b.Players {
		out.Players[n] = nil
	}
	for n := range out.Players {
		p := mergePlayer(n, a.Players[n], b.Players[n])
		if err := p.ComputeRates(out.partialCredit); err != nil {
			return nil, err
		}
		out.Players[n] = p
	}
	out.valid = true
	return out, nil
}

func combinedTier(l, r model.Tier) (model.Tier, error) {
	switch {
	case l == model.TierGame && r == model.TierGame,
		l == model.TierMatch && r == model.TierGame,
		l == model.TierGame && r == model.TierMatch:
		return model.TierMatch, nil
	case l == model.TierMatch && r == model.TierMatch,
		l == model.TierSeason && r == model.TierMatch:
		return model.TierSeason, nil
	case l == model.TierSeason && r == model.TierSeason,
		l == model.TierAllTime && r == model.TierSeason,
		l == model.TierSeason && r == model.TierAllTime:
		return model.TierAllTime, nil
	}
	return 0, &MergeTypeError{Left: l, Right: r}
}

// combinedScore counts a game as one win or loss; higher tiers already hold
// game (or match) counts and are summed.
func combinedScore(a, b *GameStats) (team, opp int) {
	for _, s := range []*GameStats{a, b} {
		if s.Tier == model.TierGame {
			if s.Won {
				team++
			} else {
				opp++
			}
			continue
		}
		team += s.TeamScore
		opp += s.OpponentScore
	}
	return team, opp
}
