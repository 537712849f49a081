package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

func openLayout() skirmish.MapLayout {
	return skirmish.MapLayout{Dimension: skirmish.Dimension{Width: 8, Height: 8}}
}

func TestStrategyByName(t *testing.T) {
	assert.Equal(t, "random", StrategyByName("random").Name())
	assert.Equal(t, "greedy", StrategyByName("greedy").Name())
	assert.Equal(t, "greedy", StrategyByName("anything-else").Name())
}

func TestGreedyMovesTowardNearestFood(t *testing.T) {
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 3, Y: 3}},
		{ID: 2, Kind: skirmish.UnitFood, Position: skirmish.Position{X: 5, Y: 3}},
		{ID: 3, Kind: skirmish.UnitFood, Position: skirmish.Position{X: 0, Y: 7}},
	}}

	actions := GreedyStrategy{}.Act(openLayout(), gs, "player-1")
	require.Len(t, actions, 1)
	assert.Equal(t, 1, actions[0].UnitID)
	assert.Equal(t, skirmish.East, actions[0].Direction)
}

func TestGreedyFallsBackToEnemyBase(t *testing.T) {
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 1, Y: 1}},
		{ID: 2, Owner: "player-1", Kind: skirmish.UnitBase, Position: skirmish.Position{X: 0, Y: 0}},
		{ID: 3, Owner: "player-2", Kind: skirmish.UnitBase, Position: skirmish.Position{X: 7, Y: 7}},
	}}

	actions := GreedyStrategy{}.Act(openLayout(), gs, "player-1")
	require.Len(t, actions, 1)
	assert.Equal(t, skirmish.SouthEast, actions[0].Direction)
}

func TestGreedyRoutesAroundWalls(t *testing.T) {
	layout := skirmish.MapLayout{
		Dimension: skirmish.Dimension{Width: 8, Height: 8},
		Walls:     []skirmish.Position{{X: 4, Y: 3}},
	}
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 3, Y: 3}},
		{ID: 2, Kind: skirmish.UnitFood, Position: skirmish.Position{X: 6, Y: 3}},
	}}

	actions := GreedyStrategy{}.Act(layout, gs, "player-1")
	require.Len(t, actions, 1)
	// The straight east step is blocked; a diagonal still closes distance.
	assert.Contains(t, []skirmish.Direction{skirmish.NorthEast, skirmish.SouthEast}, actions[0].Direction)
}

func TestGreedyHoldsWithNoTarget(t *testing.T) {
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 3, Y: 3}},
		{ID: 2, Owner: "player-1", Kind: skirmish.UnitBase, Position: skirmish.Position{X: 0, Y: 0}},
	}}
	assert.Empty(t, GreedyStrategy{}.Act(openLayout(), gs, "player-1"))
}

func TestGreedyIgnoresForeignPawns(t *testing.T) {
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-2", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 3, Y: 3}},
		{ID: 2, Kind: skirmish.UnitFood, Position: skirmish.Position{X: 5, Y: 3}},
	}}
	assert.Empty(t, GreedyStrategy{}.Act(openLayout(), gs, "player-1"))
}

func TestRandomPicksOnlyLegalMoves(t *testing.T) {
	// Box a pawn in so a single move remains.
	layout := skirmish.MapLayout{
		Dimension: skirmish.Dimension{Width: 3, Height: 3},
		Walls:     []skirmish.Position{{X: 1, Y: 0}, {X: 0, Y: 1}},
	}
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 0, Y: 0}},
	}}

	for i := 0; i < 20; i++ {
		actions := RandomStrategy{}.Act(layout, gs, "player-1")
		require.Len(t, actions, 1)
		assert.Equal(t, skirmish.SouthEast, actions[0].Direction)
	}
}

func TestRandomHoldsWhenFullyBoxedIn(t *testing.T) {
	layout := skirmish.MapLayout{
		Dimension: skirmish.Dimension{Width: 3, Height: 3},
		Walls: []skirmish.Position{
			{X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1},
		},
	}
	gs := &skirmish.GameState{Units: []skirmish.Unit{
		{ID: 1, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 0, Y: 0}},
		{ID: 2, Owner: "player-1", Kind: skirmish.UnitPawn, Position: skirmish.Position{X: 2, Y: 2}},
	}}

	// The corner pawn has no legal step; only the free pawn acts.
	actions := RandomStrategy{}.Act(layout, gs, "player-1")
	require.Len(t, actions, 1)
	assert.Equal(t, 2, actions[0].UnitID)
}
