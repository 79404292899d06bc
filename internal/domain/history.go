package domain

// Move records one applied placement.
type Move struct {
	Disc     Cell
	Position Position
	Captured []Position
}

// History is the LIFO stack of applied moves.
type History struct {
	moves []Move
}

func (h *History) Push(m Move) { h.moves = append(h.moves, m) }

// Pop removes and returns the last move.
func (h *History) Pop() (Move, bool) {
	if len(h.moves) == 0 {
		return Move{}, false
	}
	m := h.moves[len(h.moves)-1]
	h.moves = h.moves[:len(h.moves)-1]
	return m, true
}

func (h *History) Len() int { return len(h.moves) }

func (h *History) Clear() { h.moves = h.moves[:0] }

// Moves returns a copy of the recorded moves, oldest first.
func (h *History) Moves() []Move {
	out := make([]Move, len(h.moves))
	for i, m := range h.moves {
		m.Captured = append([]Position(nil), m.Captured...)
		out[i] = m
	}
	return out
}
