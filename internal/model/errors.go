package model

import "fmt"

// InvalidLineupError means a lineup is not six distinct roster jerseys.
type InvalidLineupError struct {
	Jerseys []int
	Reason  string
}

func (e *InvalidLineupError) Error() string {
	return fmt.Sprintf("invalid lineup %v: %s", e.Jerseys, e.Reason)
}

// ScoreSequenceError means a score sequence cannot be attributed: a bad token,
// a running total that skips or repeats, or a hole in the rally order.
type ScoreSequenceError struct {
	Side   string // "team" or "opponent"
	Index  int    // position in the sequence, -1 when the whole sequence is at fault
	Reason string
}

func (e *ScoreSequenceError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s scores: %s", e.Side, e.Reason)
	}
	return fmt.Sprintf("%s scores[%d]: %s", e.Side, e.Index, e.Reason)
}
