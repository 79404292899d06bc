package domain

import (
	"fmt"
	"sort"
)

// Size is the fixed board dimension.
const Size = 8

// Position is a (row, column) cell coordinate.
type Position struct {
	Row int
	Col int
}

// Pos is shorthand for Position{Row: r, Col: c}.
func Pos(r, c int) Position { return Position{Row: r, Col: c} }

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

func (p Position) add(d Position) Position {
	return Position{Row: p.Row + d.Row, Col: p.Col + d.Col}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// directions are the 8 unit steps around a cell.
var directions = [8]Position{
	{1, 1}, {1, 0}, {-1, 0}, {-1, 1},
	{1, -1}, {-1, -1}, {0, 1}, {0, -1},
}

// PositionSet is an unordered set of positions.
type PositionSet map[Position]struct{}

func (s PositionSet) Add(p Position) { s[p] = struct{}{} }

func (s PositionSet) Has(p Position) bool {
	_, ok := s[p]
	return ok
}

func (s PositionSet) Len() int { return len(s) }

// Sorted returns the members in row-major order.
func (s PositionSet) Sorted() []Position {
	out := make([]Position, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sortPositions(out)
	return out
}

func sortPositions(ps []Position) {
	sort.Slice(ps, func(i, j int) bool {
		if ps[i].Row != ps[j].Row {
			return ps[i].Row < ps[j].Row
		}
		return ps[i].Col < ps[j].Col
	})
}
