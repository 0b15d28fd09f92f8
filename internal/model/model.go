package model

import (
	"fmt"
	"strings"
)

// Slot is one of the six court positions, in serve order.
type Slot int

const (
	SlotRB Slot = iota // right back, the server
	SlotRF
	SlotCF
	SlotLF
	SlotLB
	SlotCB
)

// NumSlots is the number of players on court.
const NumSlots = 6

// Slots lists every slot in serve order.
var Slots = [NumSlots]Slot{SlotRB, SlotRF, SlotCF, SlotLF, SlotLB, SlotCB}

func (s Slot) String() string {
	switch s {
	case SlotRB:
		return "RB"
	case SlotRF:
		return "RF"
	case SlotCF:
		return "CF"
	case SlotLF:
		return "LF"
	case SlotLB:
		return "LB"
	case SlotCB:
		return "CB"
	default:
		return "?"
	}
}

// IsFront reports whether the slot is at the net.
func (s Slot) IsFront() bool {
	return s == SlotRF || s == SlotCF || s == SlotLF
}

// Side says which counter of a plus/minus pair a point lands in.
type Side int

const (
	SideFor Side = iota
	SideAgainst
)

func (s Side) String() string {
	if s == SideFor {
		return "for"
	}
	return "against"
}

// Tier is the aggregation level of a stats object.
type Tier int

const (
	TierGame Tier = iota
	TierMatch
	TierSeason
	TierAllTime
)

func (t Tier) String() string {
	switch t {
	case TierGame:
		return "GAME"
	case TierMatch:
		return "MATCH"
	case TierSeason:
		return "SEASON"
	case TierAllTime:
		return "ALL_TIME"
	default:
		return "?"
	}
}

// Lineup is the on-court assignment of jersey numbers, index 0 serving.
type Lineup [NumSlots]int

// Forward returns the lineup after one rotation: the player in RF becomes the server.
func (l Lineup) Forward() Lineup {
	var out Lineup
	for i := range l {
		out[i] = l[(i+1)%NumSlots]
	}
	return out
}

// Back undoes Forward.
func (l Lineup) Back() Lineup {
	var out Lineup
	for i := range l {
		out[i] = l[(i+NumSlots-1)%NumSlots]
	}
	return out
}

// At returns the jersey number in the given slot.
func (l Lineup) At(s Slot) int { return l[s] }

// Contains reports whether jersey is on court.
func (l Lineup) Contains(jersey int) bool {
	for _, n := range l {
		if n == jersey {
			return true
		}
	}
	return false
}

// NewLineup validates raw jersey numbers and returns a Lineup.
// When roster is non-nil every jersey must belong to it.
func NewLineup(nums []int, roster *Roster) (Lineup, error) {
	var l Lineup
	if len(nums) != NumSlots {
		return l, &InvalidLineupError{Jerseys: nums, Reason: fmt.Sprintf("need %d players, got %d", NumSlots, len(nums))}
	}
	seen := make(map[int]struct{}, NumSlots)
	for i, n := range nums {
		if n < 0 {
			return l, &InvalidLineupError{Jerseys: nums, Reason: fmt.Sprintf("negative jersey %d", n)}
		}
		if _, dup := seen[n]; dup {
			return l, &InvalidLineupError{Jerseys: nums, Reason: fmt.Sprintf("jersey %d listed twice", n)}
		}
		if roster != nil && !roster.Has(n) {
			return l, &InvalidLineupError{Jerseys: nums, Reason: fmt.Sprintf("jersey %d not on roster", n)}
		}
		seen[n] = struct{}{}
		l[i] = n
	}
	return l, nil
}

// Event is one entry of a score sequence: a point (running total) or a marker.
type Event struct {
	Point int  // > 0 for a point
	Mark  rune // non-zero for a marker, upper-cased
}

// IsMarker reports whether the event ends a run.
func (e Event) IsMarker() bool { return e.Mark != 0 }

// IsEndOfSet reports whether the marker also closes the set.
func (e Event) IsEndOfSet() bool { return e.Mark == 'X' }

func (e Event) String() string {
	if e.IsMarker() {
		return string(e.Mark)
	}
	return fmt.Sprintf("%d", e.Point)
}

// PointEvent builds a point event.
func PointEvent(n int) Event { return Event{Point: n} }

// MarkerEvent builds a marker event.
func MarkerEvent(r rune) Event { return Event{Mark: []rune(strings.ToUpper(string(r)))[0]} }

// DefaultMarkers are the tokens accepted as run breaks.
var DefaultMarkers = []string{"R", "X"}

// ParseEvent converts one raw token (an int or a marker string) into an Event.
// Markers are matched case-insensitively against markers.
func ParseEvent(raw any, markers []string) (Event, error) {
	switch v := raw.(type) {
	case int:
		if v <= 0 {
			return Event{}, fmt.Errorf("point %d is not positive", v)
		}
		return PointEvent(v), nil
	case string:
		for _, m := range markers {
			if strings.EqualFold(v, m) && len([]rune(v)) == 1 {
				return MarkerEvent([]rune(v)[0]), nil
			}
		}
		return Event{}, fmt.Errorf("unknown token %q", v)
	default:
		return Event{}, fmt.Errorf("unknown token %v (%T)", raw, raw)
	}
}

// ParseEvents converts a raw token sequence. side names the sequence in errors.
func ParseEvents(raw []any, markers []string, side string) ([]Event, error) {
	events := make([]Event, 0, len(raw))
	for i, r := range raw {
		e, err := ParseEvent(r, markers)
		if err != nil {
			return nil, &ScoreSequenceError{Side: side, Index: i, Reason: err.Error()}
		}
		events = append(events, e)
	}
	return events, nil
}

// Points counts the point events in a sequence.
func Points(events []Event) int {
	n := 0
	for _, e := range events {
		if !e.IsMarker() {
			n++
		}
	}
	return n
}

// GameRecord is one hand-recorded set. It is not modified after loading.
type GameRecord struct {
	Match      int
	Game       int
	Lineup     Lineup
	TeamScores []Event
	OppoScores []Event
	ServeStart bool // our team served first
	Full       bool // the set was played to the end
	Include    bool // counts toward stats
}

// Opponent describes the other team in a match.
type Opponent struct {
	Name string
}

// MatchRecord is every set played against one opponent.
type MatchRecord struct {
	Number   int
	Opponent Opponent
	Games    []GameRecord
}

// SeasonRecord is the whole loaded descriptor.
type SeasonRecord struct {
	Name    string
	Hash    string // SHA-256 of the descriptor file
	Roster  *Roster
	Matches []MatchRecord
}

// Player is one roster entry.
type Player struct {
	Name   string
	Gender string // "f" or "m"
	Status string // "full" or "sub"
	Jersey int
}

// Roster holds the team's players in insertion order.
type Roster struct {
	Players []Player
}

// Add appends a player to the roster.
func (r *Roster) Add(p Player) {
	r.Players = append(r.Players, p)
}

// Has reports whether a jersey number is on the roster.
func (r *Roster) Has(jersey int) bool {
	_, ok := r.lookup(jersey)
	return ok
}

// Name returns the player's name, or "" for an unknown jersey.
func (r *Roster) Name(jersey int) string {
	p, _ := r.lookup(jersey)
	return p.Name
}

func (r *Roster) lookup(jersey int) (Player, bool) {
	if r == nil {
		return Player{}, false
	}
	for _, p := range r.Players {
		if p.Jersey == jersey {
			return p, true
		}
	}
	return Player{}, false
}
