// Package bot implements a simple websocket player client: it consumes
// NEXT_TURN snapshots and answers with action batches picked by a strategy.
package bot

import (
	"math/rand"
	"sort"

	"github.com/osharon-scottlogic/sl-hackathon-2026-sub000/pkg/skirmish"
)

// Strategy picks an action batch from a turn snapshot.
type Strategy interface {
	Name() string
	Act(layout skirmish.MapLayout, gs *skirmish.GameState, playerID string) []*skirmish.Action
}

// StrategyByName returns the named strategy, defaulting to greedy.
func StrategyByName(name string) Strategy {
	switch name {
	case "random":
		return RandomStrategy{}
	default:
		return GreedyStrategy{}
	}
}

// GreedyStrategy walks every pawn toward the nearest food, or toward the
// enemy base when no food is visible.
type GreedyStrategy struct{}

func (GreedyStrategy) Name() string { return "greedy" }

// Act computes one move per pawn. Pawns with no reachable step hold by
// omitting their action.
func (GreedyStrategy) Act(layout skirmish.MapLayout, gs *skirmish.GameState, playerID string) []*skirmish.Action {
	walls := layout.WallSet()

	var foods []skirmish.Position
	var enemyBase *skirmish.Position
	for _, u := range gs.Units {
		switch {
		case u.Kind == skirmish.UnitFood:
			foods = append(foods, u.Position)
		case u.Kind == skirmish.UnitBase && u.Owner != playerID:
			p := u.Position
			enemyBase = &p
		}
	}

	var actions []*skirmish.Action
	for _, u := range gs.Units {
		if u.Kind != skirmish.UnitPawn || u.Owner != playerID {
			continue
		}
		target, ok := nearestTarget(u.Position, foods, enemyBase)
		if !ok {
			continue
		}
		if dir, ok := stepToward(u.Position, target, layout.Dimension, walls); ok {
			actions = append(actions, &skirmish.Action{UnitID: u.ID, Direction: dir})
		}
	}
	return actions
}

// nearestTarget prefers the closest food, falling back to the enemy base.
func nearestTarget(from skirmish.Position, foods []skirmish.Position, enemyBase *skirmish.Position) (skirmish.Position, bool) {
	if len(foods) > 0 {
		sort.Slice(foods, func(i, j int) bool {
			return from.ChebyshevDistance(foods[i]) < from.ChebyshevDistance(foods[j])
		})
		return foods[0], true
	}
	if enemyBase != nil {
		return *enemyBase, true
	}
	return skirmish.Position{}, false
}

// stepToward returns the direction that brings from closest to target,
// preferring the straight-line step and falling back to any passable
// neighbor that reduces the distance.
func stepToward(from, target skirmish.Position, dim skirmish.Dimension, walls map[skirmish.Position]bool) (skirmish.Direction, bool) {
	best := skirmish.Direction("")
	bestDist := from.ChebyshevDistance(target)
	for _, d := range []skirmish.Direction{
		skirmish.North, skirmish.NorthEast, skirmish.East, skirmish.SouthEast,
		skirmish.South, skirmish.SouthWest, skirmish.West, skirmish.NorthWest,
	} {
		off, _ := d.Offset()
		next := from.Add(off)
		if !dim.Contains(next) || walls[next] {
			continue
		}
		if dist := next.ChebyshevDistance(target); dist < bestDist {
			best = d
			bestDist = dist
		}
	}
	return best, best != ""
}

// RandomStrategy moves every pawn in a uniformly random legal direction.
// Useful as a sparring partner when testing the greedy bot.
type RandomStrategy struct{}

func (RandomStrategy) Name() string { return "random" }

func (RandomStrategy) Act(layout skirmish.MapLayout, gs *skirmish.GameState, playerID string) []*skirmish.Action {
	walls := layout.WallSet()
	var actions []*skirmish.Action
	for _, u := range gs.Units {
		if u.Kind != skirmish.UnitPawn || u.Owner != playerID {
			continue
		}
		var legal []skirmish.Direction
		for _, d := range []skirmish.Direction{
			skirmish.North, skirmish.NorthEast, skirmish.East, skirmish.SouthEast,
			skirmish.South, skirmish.SouthWest, skirmish.West, skirmish.NorthWest,
		} {
			off, _ := d.Offset()
			next := u.Position.Add(off)
			if layout.Dimension.Contains(next) && !walls[next] {
				legal = append(legal, d)
			}
		}
		if len(legal) == 0 {
			continue
		}
		actions = append(actions, &skirmish.Action{UnitID: u.ID, Direction: legal[rand.Intn(len(legal))]})
	}
	return actions
}
