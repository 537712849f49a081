package skirmish

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Arena is a map description parsed from the line-oriented arena text
// format. The core consumes only Layout and BaseLocations; pawn and food
// positions are kept for tooling and tests.
type Arena struct {
	Layout        MapLayout
	BaseLocations []Position         // ordered by seat number
	PawnStarts    map[int][]Position // seat number (1-based) -> pawn cells
	FoodStarts    []Position
}

// ParseArena reads the arena text format: rows of whitespace-separated cell
// tokens, one of "." (empty), "#" (wall), "bN" (base of seat N), "pN" (pawn
// of seat N) or "f" (food). Rows must be rectangular.
func ParseArena(text string) (*Arena, error) {
	var rows [][]string
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		rows = append(rows, fields)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("arena: empty map")
	}

	width := len(rows[0])
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("arena: row %d has %d cells, expected %d", y, len(row), width)
		}
	}

	a := &Arena{
		Layout:     MapLayout{Dimension: Dimension{Width: width, Height: len(rows)}},
		PawnStarts: make(map[int][]Position),
	}
	bases := make(map[int]Position)
	maxSeat := 0
	for y, row := range rows {
		for x, cell := range row {
			pos := Position{X: x, Y: y}
			switch {
			case cell == ".":
			case cell == "#":
				a.Layout.Walls = append(a.Layout.Walls, pos)
			case cell == "f":
				a.FoodStarts = append(a.FoodStarts, pos)
			case strings.HasPrefix(cell, "b"):
				seat, err := parseSeat(cell)
				if err != nil {
					return nil, fmt.Errorf("arena: cell (%d,%d): %w", x, y, err)
				}
				if _, dup := bases[seat]; dup {
					return nil, fmt.Errorf("arena: duplicate base for seat %d", seat)
				}
				bases[seat] = pos
				if seat > maxSeat {
					maxSeat = seat
				}
			case strings.HasPrefix(cell, "p"):
				seat, err := parseSeat(cell)
				if err != nil {
					return nil, fmt.Errorf("arena: cell (%d,%d): %w", x, y, err)
				}
				a.PawnStarts[seat] = append(a.PawnStarts[seat], pos)
			default:
				return nil, fmt.Errorf("arena: unknown cell %q at (%d,%d)", cell, x, y)
			}
		}
	}

	for seat := 1; seat <= maxSeat; seat++ {
		pos, ok := bases[seat]
		if !ok {
			return nil, fmt.Errorf("arena: base seats are not contiguous, missing b%d", seat)
		}
		a.BaseLocations = append(a.BaseLocations, pos)
	}
	return a, nil
}

func parseSeat(cell string) (int, error) {
	n, err := strconv.Atoi(cell[1:])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad seat number in %q", cell)
	}
	return n, nil
}

// Encode renders the arena back to its text form with single-space
// separated cells. Parse and Encode round-trip.
func (a *Arena) Encode() string {
	dim := a.Layout.Dimension
	grid := make([][]string, dim.Height)
	for y := range grid {
		grid[y] = make([]string, dim.Width)
		for x := range grid[y] {
			grid[y][x] = "."
		}
	}
	for _, w := range a.Layout.Walls {
		grid[w.Y][w.X] = "#"
	}
	for _, f := range a.FoodStarts {
		grid[f.Y][f.X] = "f"
	}
	for seat, positions := range a.PawnStarts {
		for _, p := range positions {
			grid[p.Y][p.X] = "p" + strconv.Itoa(seat)
		}
	}
	for i, b := range a.BaseLocations {
		grid[b.Y][b.X] = "b" + strconv.Itoa(i+1)
	}

	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.Join(row, " "))
	}
	return b.String()
}

// Settings builds game settings from the arena plus runtime knobs.
func (a *Arena) Settings(turnTimeLimit time.Duration, foodScarcity float64, fogOfWar bool) Settings {
	return Settings{
		Dimension:     a.Layout.Dimension,
		Walls:         a.Layout.Walls,
		BaseLocations: a.BaseLocations,
		TurnTimeLimit: turnTimeLimit,
		FoodScarcity:  foodScarcity,
		FogOfWar:      fogOfWar,
	}
}
