package domain

// Board is the 8x8 grid; nil cells are empty.
type Board [Size][Size]*Disc

// Cell is a value snapshot of one board square. Owner None means empty.
type Cell struct {
	Kind  Kind
	Owner Side
}

// Empty reports whether the snapshot is of an empty square.
func (c Cell) Empty() bool { return c.Owner == None }

// Grid is a value snapshot of the whole board.
type Grid [Size][Size]Cell

// At returns the disc at p or nil.
func (b *Board) At(p Position) *Disc { return b[p.Row][p.Col] }

// Place puts d at p.
func (b *Board) Place(p Position, d *Disc) { b[p.Row][p.Col] = d }

// Clear empties p.
func (b *Board) Clear(p Position) { b[p.Row][p.Col] = nil }

// Count returns the number of discs owned by s.
func (b *Board) Count(s Side) int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if d := b[r][c]; d != nil && d.Owner() == s {
				n++
			}
		}
	}
	return n
}

// Occupied returns the number of non-empty cells.
func (b *Board) Occupied() int {
	n := 0
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if b[r][c] != nil {
				n++
			}
		}
	}
	return n
}

// Grid returns a value copy of the board.
func (b *Board) Grid() Grid {
	var g Grid
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if d := b[r][c]; d != nil {
				g[r][c] = Cell{Kind: d.Kind(), Owner: d.Owner()}
			}
		}
	}
	return g
}

func (b *Board) clone() Board {
	var out Board
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			if d := b[r][c]; d != nil {
				cp := *d
				out[r][c] = &cp
			}
		}
	}
	return out
}
