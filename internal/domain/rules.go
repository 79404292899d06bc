package domain

// LegalMoves returns every empty cell where side would capture at least one
// disc, in row-major order.
func (b *Board) LegalMoves(side Side) []Position {
	var out []Position
	for r := 0; r < Size; r++ {
		for c := 0; c < Size; c++ {
			p := Position{Row: r, Col: c}
			if b.At(p) == nil && b.capturesAny(p, side) {
				out = append(out, p)
			}
		}
	}
	return out
}

// IsLegal reports whether side may place a disc at p.
func (b *Board) IsLegal(p Position, side Side) bool {
	if !p.InBounds() || b.At(p) != nil {
		return false
	}
	return b.capturesAny(p, side)
}

func (b *Board) capturesAny(p Position, side Side) bool {
	for _, dir := range directions {
		if b.capturingRay(p, dir, side) {
			return true
		}
	}
	return false
}

// capturingRay walks from p along dir. Opponent Immune discs are skipped
// without counting as a captured opponent.
func (b *Board) capturingRay(p, dir Position, side Side) bool {
	sawOpponent := false
	for q := p.add(dir); q.InBounds(); q = q.add(dir) {
		d := b.At(q)
		switch {
		case d == nil:
			return false
		case d.Owner() == side:
			return sawOpponent
		case d.Kind() != Immune:
			sawOpponent = true
		}
	}
	return false
}

// Flips returns every cell that changes owner if side places a disc at p,
// including cells reached by Volatile chain reactions. The board is not
// modified.
func (b *Board) Flips(p Position, side Side) PositionSet {
	return b.flips(p, side, directions[:])
}

func (b *Board) flips(p Position, side Side, dirs []Position) PositionSet {
	out := make(PositionSet)
	run := make([]Position, 0, Size)
	for _, dir := range dirs {
		run = run[:0]
		closed := false
		for q := p.add(dir); q.InBounds(); q = q.add(dir) {
			d := b.At(q)
			if d == nil {
				break
			}
			if d.Owner() == side {
				closed = true
				break
			}
			run = append(run, q)
		}
		if closed {
			b.recordFlips(run, side, out)
		}
	}
	return out
}

func (b *Board) recordFlips(run []Position, side Side, out PositionSet) {
	for _, q := range run {
		if out.Has(q) {
			continue
		}
		d := b.At(q)
		if d.Kind() == Immune {
			continue
		}
		out.Add(q)
		if d.Kind() == Volatile {
			b.detonate(q, side, out)
		}
	}
}

// detonate captures the enemy neighbours of a captured Volatile disc and
// keeps going through any Volatile discs it captures. A cell already in out
// is never revisited.
func (b *Board) detonate(origin Position, side Side, out PositionSet) {
	pending := []Position{origin}
	for len(pending) > 0 {
		bomb := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		for _, dir := range directions {
			n := bomb.add(dir)
			if !n.InBounds() || out.Has(n) {
				continue
			}
			d := b.At(n)
			if d == nil || d.Owner() == side || d.Kind() == Immune {
				continue
			}
			out.Add(n)
			if d.Kind() == Volatile {
				pending = append(pending, n)
			}
		}
	}
}
