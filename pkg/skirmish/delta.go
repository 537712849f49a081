package skirmish

import (
	"sort"
	"time"
)

// Delta is the structural diff between two consecutive states. Replaying the
// full delta history over the initial state reproduces the final state.
type Delta struct {
	AddedOrModified []Unit
	Removed         []int
	Timestamp       time.Time
}

// Empty reports whether the delta carries no change.
func (d Delta) Empty() bool {
	return len(d.AddedOrModified) == 0 && len(d.Removed) == 0
}

// Diff computes the delta from prev to next. A unit is listed in
// AddedOrModified iff it is new or any of its fields changed; ids absent
// from next are listed in Removed in ascending order.
func Diff(prev, next *GameState, ts time.Time) Delta {
	before := make(map[int]Unit, len(prev.Units))
	for _, u := range prev.Units {
		before[u.ID] = u
	}

	d := Delta{Timestamp: ts}
	after := make(map[int]bool, len(next.Units))
	for _, u := range next.Units {
		after[u.ID] = true
		if old, ok := before[u.ID]; !ok || old != u {
			d.AddedOrModified = append(d.AddedOrModified, u)
		}
	}
	for id := range before {
		if !after[id] {
			d.Removed = append(d.Removed, id)
		}
	}
	sort.Ints(d.Removed)
	return d
}

// ApplyDelta replays a delta on top of a state and returns the result. Used
// by replay consumers and by tests checking the delta history law.
func ApplyDelta(gs *GameState, d Delta) *GameState {
	next := gs.Clone()
	for _, u := range d.AddedOrModified {
		if existing := next.UnitByID(u.ID); existing != nil {
			*existing = u
		} else {
			next.Units = append(next.Units, u)
		}
	}
	if len(d.Removed) > 0 {
		gone := make(map[int]bool, len(d.Removed))
		for _, id := range d.Removed {
			gone[id] = true
		}
		kept := next.Units[:0]
		for _, u := range next.Units {
			if !gone[u.ID] {
				kept = append(kept, u)
			}
		}
		next.Units = kept
	}
	return next
}
