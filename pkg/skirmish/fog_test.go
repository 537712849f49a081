package skirmish

import "testing"

func TestVisibleTo(t *testing.T) {
	gs := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitBase, Position: Position{0, 0}},
		{ID: 2, Owner: "player-1", Kind: UnitPawn, Position: Position{4, 4}},
		{ID: 3, Owner: "player-2", Kind: UnitPawn, Position: Position{7, 7}},  // within 3 of the pawn
		{ID: 4, Owner: "player-2", Kind: UnitBase, Position: Position{15, 15}}, // far away
		{ID: 5, Kind: UnitFood, Position: Position{2, 2}},                     // near the base
		{ID: 6, Kind: UnitFood, Position: Position{10, 0}},                    // out of range of everything
	}}

	visible := VisibleTo(gs, "player-1")
	want := map[int]bool{1: true, 2: true, 3: true, 5: true}
	if len(visible.Units) != len(want) {
		t.Fatalf("visible units = %+v, want ids 1,2,3,5", visible.Units)
	}
	for _, u := range visible.Units {
		if !want[u.ID] {
			t.Errorf("unit %d should be hidden", u.ID)
		}
	}
}

func TestVisibleToBoundaryIsInclusive(t *testing.T) {
	gs := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-1", Kind: UnitPawn, Position: Position{0, 0}},
		{ID: 2, Owner: "player-2", Kind: UnitPawn, Position: Position{3, 3}}, // exactly FogRadius away
		{ID: 3, Owner: "player-2", Kind: UnitPawn, Position: Position{4, 4}}, // one past
	}}
	visible := VisibleTo(gs, "player-1")
	if len(visible.Units) != 2 {
		t.Fatalf("visible units = %+v, want own pawn plus the one at distance 3", visible.Units)
	}
}

func TestVisibleToWithNoUnitsSeesNothing(t *testing.T) {
	gs := &GameState{Units: []Unit{
		{ID: 1, Owner: "player-2", Kind: UnitBase, Position: Position{0, 0}},
		{ID: 2, Kind: UnitFood, Position: Position{1, 1}},
	}}
	if visible := VisibleTo(gs, "player-1"); len(visible.Units) != 0 {
		t.Errorf("visible units = %+v, want none", visible.Units)
	}
}
