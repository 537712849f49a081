package skirmish

import (
	"fmt"
	"math/rand"
	"time"
)

// Engine owns the game rules. It is created once per game, seeded for
// reproducible matches, and driven exclusively by the turn orchestrator: all
// calls must come from a single goroutine.
type Engine struct {
	settings Settings
	players  []string
	walls    map[Position]bool
	nextID   int
	rng      *rand.Rand
	now      func() time.Time
}

// NewEngine creates an engine with the given random seed. A zero seed picks
// a time-based one.
func NewEngine(seed int64) *Engine {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		rng: rand.New(rand.NewSource(seed)),
		now: func() time.Time { return time.Now().UTC() },
	}
}

// nextUnitID returns a fresh id, unique for the lifetime of the game.
func (e *Engine) nextUnitID() int {
	e.nextID++
	return e.nextID
}

// Init places the starting units for the seated players and returns the
// initial state: one base per seat at its configured location, one pawn next
// to each base, and one food-spawn roll.
func (e *Engine) Init(settings Settings, players []string) (*GameState, error) {
	if len(players) == 0 || len(players) > 2 {
		return nil, fmt.Errorf("need 1 or 2 players, got %d", len(players))
	}
	if len(settings.BaseLocations) < len(players) {
		return nil, fmt.Errorf("map has %d base locations for %d players", len(settings.BaseLocations), len(players))
	}

	e.settings = settings
	e.players = append([]string(nil), players...)
	e.walls = settings.Layout().WallSet()

	gs := &GameState{StartAt: e.now()}
	for i, player := range players {
		basePos := settings.BaseLocations[i]
		if !e.passable(basePos) {
			return nil, fmt.Errorf("base location %v for %s is blocked", basePos, player)
		}
		gs.Units = append(gs.Units, Unit{ID: e.nextUnitID(), Owner: player, Kind: UnitBase, Position: basePos})

		pawnPos, ok := e.pawnStart(basePos)
		if !ok {
			return nil, fmt.Errorf("no free cell next to base %v for %s", basePos, player)
		}
		gs.Units = append(gs.Units, Unit{ID: e.nextUnitID(), Owner: player, Kind: UnitPawn, Position: pawnPos})
	}

	e.rollFood(gs)
	return gs, nil
}

// pawnStart returns the first passable neighbor of the base in the
// documented order E, S, W, N, NE, SE, SW, NW.
func (e *Engine) pawnStart(base Position) (Position, bool) {
	for _, d := range pawnPlacementOrder {
		off, _ := d.Offset()
		p := base.Add(off)
		if e.passable(p) {
			return p, true
		}
	}
	return Position{}, false
}

// passable reports whether a cell is in bounds and not a wall.
func (e *Engine) passable(p Position) bool {
	return e.settings.Dimension.Contains(p) && !e.walls[p]
}

// Apply validates and applies one player's action batch, returning the new
// state and the structural delta. On a validation failure it returns the
// input state unchanged and a *BatchError; the caller must not advance the
// turn.
func (e *Engine) Apply(gs *GameState, playerID string, actions []*Action) (*GameState, Delta, error) {
	if diags := ValidateActions(gs, playerID, actions); len(diags) > 0 {
		return gs, Delta{}, &BatchError{Diagnostics: diags}
	}

	next := gs.Clone()
	for _, a := range actions {
		unit := next.UnitByID(a.UnitID)
		off, _ := a.Direction.Offset()
		dest := unit.Position.Add(off)
		// Walls and the playfield edge are silent no-ops, not errors.
		if e.passable(dest) {
			unit.Position = dest
		}
	}

	e.resolveCollisions(next, playerID)
	e.rollFood(next)

	return next, Diff(gs, next, e.now()), nil
}

// resolveCollisions applies the collision table to every contested cell once
// all tentative positions are known, then materializes reinforcement pawns
// earned from consumed food.
func (e *Engine) resolveCollisions(gs *GameState, playerID string) {
	cells := make(map[Position][]int)
	for i, u := range gs.Units {
		cells[u.Position] = append(cells[u.Position], i)
	}

	removed := make(map[int]bool)
	reinforcements := 0
	for _, idxs := range cells {
		if len(idxs) < 2 {
			continue
		}

		var base *Unit
		var pawns, foods []*Unit
		for _, i := range idxs {
			u := &gs.Units[i]
			switch u.Kind {
			case UnitBase:
				base = u
			case UnitPawn:
				pawns = append(pawns, u)
			case UnitFood:
				foods = append(foods, u)
			}
		}

		// Base under attack: the base falls together with every enemy pawn
		// on its cell. The base owner's own pawns survive.
		if base != nil {
			attacked := false
			for _, p := range pawns {
				if p.Owner != base.Owner {
					attacked = true
					removed[p.ID] = true
				}
			}
			if attacked {
				removed[base.ID] = true
			}
			continue
		}

		// Pawns of two owners annihilate each other. A food on the same
		// cell stays uneaten.
		if distinctOwners(pawns) >= 2 {
			for _, p := range pawns {
				removed[p.ID] = true
			}
			continue
		}

		// A single owner's pawns eating food: every food on the cell is
		// consumed and queues one reinforcement, credited only when the
		// owner is the acting player.
		if len(pawns) > 0 && len(foods) > 0 {
			for _, f := range foods {
				removed[f.ID] = true
			}
			if pawns[0].Owner == playerID {
				reinforcements += len(foods)
			}
		}
	}

	if len(removed) > 0 {
		kept := gs.Units[:0]
		for _, u := range gs.Units {
			if !removed[u.ID] {
				kept = append(kept, u)
			}
		}
		gs.Units = kept
	}

	if reinforcements > 0 {
		base := gs.BaseOf(playerID)
		if base == nil {
			return // no surviving base, nowhere to spawn
		}
		at := base.Position
		for i := 0; i < reinforcements; i++ {
			gs.Units = append(gs.Units, Unit{ID: e.nextUnitID(), Owner: playerID, Kind: UnitPawn, Position: at})
		}
	}
}

func distinctOwners(pawns []*Unit) int {
	owners := make(map[string]bool, 2)
	for _, p := range pawns {
		owners[p.Owner] = true
	}
	return len(owners)
}

// rollFood runs the once-per-half-turn food spawn roll. A draw at or below
// FoodScarcity spawns nothing; otherwise a random free cell gets a new food.
func (e *Engine) rollFood(gs *GameState) {
	if e.rng.Float64() <= e.settings.FoodScarcity {
		return
	}
	dim := e.settings.Dimension
	attempts := 2 * dim.Width * dim.Height
	for i := 0; i < attempts; i++ {
		p := Position{X: e.rng.Intn(dim.Width), Y: e.rng.Intn(dim.Height)}
		if e.walls[p] || gs.Occupied(p) {
			continue
		}
		gs.Units = append(gs.Units, Unit{ID: e.nextUnitID(), Kind: UnitFood, Position: p})
		return
	}
}

// Terminated reports whether the game is over on the given state: an empty
// board, a missing base in a two-player game, or any seated player with no
// pawns left.
func (e *Engine) Terminated(gs *GameState) bool {
	if len(gs.Units) == 0 {
		return true
	}
	if len(e.players) >= 2 && len(gs.BaseOwners()) < 2 {
		return true
	}
	for _, p := range e.players {
		if gs.PawnCount(p) == 0 {
			return true
		}
	}
	return false
}

// Winner returns the winning player for a terminated state. The second
// return is false for a draw. A sole surviving base wins outright. With
// both bases standing, the player with pawns wins; when a mutual kill
// leaves both players pawnless, the player whose half-turn caused it wins.
func (e *Engine) Winner(gs *GameState, actingPlayer string) (string, bool) {
	if len(e.players) < 2 {
		return "", false
	}
	withBase := gs.BaseOwners()
	if len(withBase) == 1 {
		return withBase[0], true
	}
	if len(withBase) == 0 {
		return "", false
	}

	var withPawns []string
	for _, p := range e.players {
		if gs.PawnCount(p) > 0 {
			withPawns = append(withPawns, p)
		}
	}
	switch len(withPawns) {
	case 1:
		return withPawns[0], true
	case 0:
		return actingPlayer, true
	}
	return "", false
}

// Settings returns the settings the engine was initialized with.
func (e *Engine) Settings() Settings {
	return e.settings
}

// Players returns the seat order the engine was initialized with.
func (e *Engine) Players() []string {
	return append([]string(nil), e.players...)
}
