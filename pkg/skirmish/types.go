// Package skirmish implements the rules of the grid skirmish game: a
// two-player, turn-based fight on a rectangular grid where pawns move,
// collide, eat food and try to raze the enemy base.
//
// The package is pure with respect to game state: every transition takes a
// state and returns a new one, leaving the input untouched. The only mutable
// things an Engine carries are its unit-id counter and its random source.
package skirmish

import "time"

// Position is a cell on the grid. The origin is the top-left corner and y
// grows downward.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the position offset by p2.
func (p Position) Add(p2 Position) Position {
	return Position{X: p.X + p2.X, Y: p.Y + p2.Y}
}

// ChebyshevDistance returns the king-move distance between two positions.
func (p Position) ChebyshevDistance(p2 Position) int {
	dx := p.X - p2.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - p2.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// Dimension is the playfield size. Valid cells are [0,Width) x [0,Height).
type Dimension struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Contains reports whether the position lies inside the playfield.
func (d Dimension) Contains(p Position) bool {
	return p.X >= 0 && p.X < d.Width && p.Y >= 0 && p.Y < d.Height
}

// MapLayout is the immutable geometry of a game: the playfield dimension and
// the set of impassable wall cells.
type MapLayout struct {
	Dimension Dimension  `json:"dimension"`
	Walls     []Position `json:"walls"`
}

// WallSet returns the walls as a lookup set.
func (m MapLayout) WallSet() map[Position]bool {
	set := make(map[Position]bool, len(m.Walls))
	for _, w := range m.Walls {
		set[w] = true
	}
	return set
}

// Settings configures a single game.
type Settings struct {
	Dimension     Dimension
	Walls         []Position
	BaseLocations []Position // one candidate base cell per seat, in seat order
	TurnTimeLimit time.Duration
	FoodScarcity  float64 // in [0,1]; 1 means food never spawns
	FogOfWar      bool
}

// Layout returns the map geometry portion of the settings.
func (s Settings) Layout() MapLayout {
	return MapLayout{Dimension: s.Dimension, Walls: s.Walls}
}

// UnitKind discriminates the three unit types.
type UnitKind string

const (
	UnitBase UnitKind = "BASE"
	UnitPawn UnitKind = "PAWN"
	UnitFood UnitKind = "FOOD"
)

// Unit is a single piece on the board. Owner is empty for FOOD.
type Unit struct {
	ID       int
	Owner    string
	Kind     UnitKind
	Position Position
}

// Direction is one of the eight king-move directions.
type Direction string

const (
	North     Direction = "N"
	NorthEast Direction = "NE"
	East      Direction = "E"
	SouthEast Direction = "SE"
	South     Direction = "S"
	SouthWest Direction = "SW"
	West      Direction = "W"
	NorthWest Direction = "NW"
)

var directionOffsets = map[Direction]Position{
	North:     {0, -1},
	NorthEast: {1, -1},
	East:      {1, 0},
	SouthEast: {1, 1},
	South:     {0, 1},
	SouthWest: {-1, 1},
	West:      {-1, 0},
	NorthWest: {-1, -1},
}

// pawnPlacementOrder is the deterministic neighbor order used when the
// default pawn cell next to a base is blocked. Clients mirroring the initial
// placement must use the same order.
var pawnPlacementOrder = []Direction{East, South, West, North, NorthEast, SouthEast, SouthWest, NorthWest}

// Valid reports whether d is one of the eight directions.
func (d Direction) Valid() bool {
	_, ok := directionOffsets[d]
	return ok
}

// Offset returns the grid offset for the direction. The second return is
// false for an unknown direction.
func (d Direction) Offset() (Position, bool) {
	off, ok := directionOffsets[d]
	return off, ok
}

// Action orders one pawn to move one cell in a direction.
type Action struct {
	UnitID    int
	Direction Direction
}

// GameState is a snapshot of every unit on the board. Consumers must treat
// it as immutable; transitions return fresh states.
type GameState struct {
	Units   []Unit
	StartAt time.Time
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	units := make([]Unit, len(gs.Units))
	copy(units, gs.Units)
	return &GameState{Units: units, StartAt: gs.StartAt}
}

// UnitByID returns a pointer to the unit with the given id, or nil.
func (gs *GameState) UnitByID(id int) *Unit {
	for i := range gs.Units {
		if gs.Units[i].ID == id {
			return &gs.Units[i]
		}
	}
	return nil
}

// UnitsOf returns all units belonging to the given player.
func (gs *GameState) UnitsOf(owner string) []Unit {
	var units []Unit
	for _, u := range gs.Units {
		if u.Owner == owner {
			units = append(units, u)
		}
	}
	return units
}

// PawnCount returns the number of pawns belonging to the given player.
func (gs *GameState) PawnCount(owner string) int {
	count := 0
	for _, u := range gs.Units {
		if u.Kind == UnitPawn && u.Owner == owner {
			count++
		}
	}
	return count
}

// BaseOf returns the player's base, or nil if it was destroyed.
func (gs *GameState) BaseOf(owner string) *Unit {
	for i := range gs.Units {
		if gs.Units[i].Kind == UnitBase && gs.Units[i].Owner == owner {
			return &gs.Units[i]
		}
	}
	return nil
}

// BaseOwners returns the distinct owners that still have a base, in board
// order.
func (gs *GameState) BaseOwners() []string {
	var owners []string
	for _, u := range gs.Units {
		if u.Kind != UnitBase {
			continue
		}
		seen := false
		for _, o := range owners {
			if o == u.Owner {
				seen = true
				break
			}
		}
		if !seen {
			owners = append(owners, u.Owner)
		}
	}
	return owners
}

// Occupied reports whether any unit sits on the given cell.
func (gs *GameState) Occupied(p Position) bool {
	for _, u := range gs.Units {
		if u.Position == p {
			return true
		}
	}
	return false
}
