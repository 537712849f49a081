package skirmish

import (
	"testing"
	"time"
)

func TestDiff(t *testing.T) {
	ts := time.Unix(1700000000, 0)
	prev := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitBase, Position: Position{0, 0}},
		{ID: 2, Owner: "player-1", Kind: UnitPawn, Position: Position{1, 0}},
		{ID: 3, Kind: UnitFood, Position: Position{2, 0}},
	}}
	next := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitBase, Position: Position{0, 0}},
		{ID: 2, Owner: "player-1", Kind: UnitPawn, Position: Position{2, 0}},
		{ID: 4, Owner: "player-1", Kind: UnitPawn, Position: Position{0, 0}},
	}}

	d := Diff(prev, next, ts)
	if d.Timestamp != ts {
		t.Errorf("timestamp = %v, want %v", d.Timestamp, ts)
	}
	if len(d.AddedOrModified) != 2 {
		t.Fatalf("AddedOrModified = %+v, want moved pawn and new pawn", d.AddedOrModified)
	}
	if d.AddedOrModified[0].ID != 2 || d.AddedOrModified[1].ID != 4 {
		t.Errorf("AddedOrModified ids = %d, %d", d.AddedOrModified[0].ID, d.AddedOrModified[1].ID)
	}
	if len(d.Removed) != 1 || d.Removed[0] != 3 {
		t.Errorf("Removed = %v, want [3]", d.Removed)
	}
}

func TestDiffIdenticalStatesIsEmpty(t *testing.T) {
	gs := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitPawn, Position: Position{1, 1}},
	}}
	if d := Diff(gs, gs.Clone(), time.Now()); !d.Empty() {
		t.Errorf("diff of identical states = %+v, want empty", d)
	}
}

func TestDiffRemovedSorted(t *testing.T) {
	prev := &GameState{Units: []Unit{
		{ID: 9, Kind: UnitFood, Position: Position{0, 0}},
		{ID: 3, Kind: UnitFood, Position: Position{1, 0}},
		{ID: 6, Kind: UnitFood, Position: Position{2, 0}},
	}}
	d := Diff(prev, &GameState{}, time.Now())
	if len(d.Removed) != 3 || d.Removed[0] != 3 || d.Removed[1] != 6 || d.Removed[2] != 9 {
		t.Errorf("Removed = %v, want ascending [3 6 9]", d.Removed)
	}
}

func TestApplyDeltaDoesNotMutateInput(t *testing.T) {
	gs := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitPawn, Position: Position{1, 1}},
	}}
	d := Delta{
		AddedOrModified: []Unit{{ID: 1, Owner: "player-1", Kind: UnitPawn, Position: Position{2, 2}}},
		Removed:         []int{},
	}
	next := ApplyDelta(gs, d)
	if gs.Units[0].Position != (Position{1, 1}) {
		t.Error("ApplyDelta mutated its input")
	}
	if next.Units[0].Position != (Position{2, 2}) {
		t.Errorf("unit at %+v, want (2,2)", next.Units[0].Position)
	}
}
