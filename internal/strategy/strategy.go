// Package strategy holds the automated players. Strategies only read the
// game; the caller applies the chosen move.
package strategy

import (
	"math/rand"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

// Choice is a move picked by a strategy.
type Choice struct {
	Position domain.Position
	Kind     domain.Kind
}

// Strategy picks a move for the side to move. ok is false when there is no
// legal move.
type Strategy interface {
	Choose(g *domain.Game) (c Choice, ok bool)
}

// Greedy takes the move that captures the most discs, always with a plain
// disc. Ties go to the highest column, then the highest row.
type Greedy struct{}

func (Greedy) Choose(g *domain.Game) (Choice, bool) {
	var (
		best  domain.Position
		most  = -1
		found bool
	)
	for _, p := range g.LegalMoves() {
		n := g.CaptureCount(p)
		if n > most || (n == most && later(p, best)) {
			best, most, found = p, n, true
		}
	}
	return Choice{Position: best, Kind: domain.Plain}, found
}

func later(a, b domain.Position) bool {
	if a.Col != b.Col {
		return a.Col > b.Col
	}
	return a.Row > b.Row
}

// Random picks a uniformly random legal move and a random disc kind among
// the kinds the player still has.
type Random struct {
	rng *rand.Rand
}

// NewRandom returns a Random strategy drawing from rng.
func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (r *Random) Choose(g *domain.Game) (Choice, bool) {
	moves := g.LegalMoves()
	if len(moves) == 0 {
		return Choice{}, false
	}
	p := moves[r.rng.Intn(len(moves))]
	kinds := make([]domain.Kind, 0, 3)
	for _, k := range []domain.Kind{domain.Plain, domain.Volatile, domain.Immune} {
		if g.Current().Has(k) {
			kinds = append(kinds, k)
		}
	}
	return Choice{Position: p, Kind: kinds[r.rng.Intn(len(kinds))]}, true
}
