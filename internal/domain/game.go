package domain

import (
	"errors"
	"fmt"
)

// Errors returned by engine operations.
var (
	ErrIllegalMove   = errors.New("illegal move")
	ErrNoAllowance   = errors.New("no discs of that kind left")
	ErrGameOver      = errors.New("game over")
	ErrUndoDisabled  = errors.New("undo requires two human players")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Game is one match between two players. It is not safe for concurrent use.
type Game struct {
	board   Board
	players [2]*Player
	turn    Side
	history History
	over    bool
	winner  Side
}

// New returns a game in its starting position with first to move.
func New(first, second *Player) *Game {
	first.Side = First
	second.Side = Second
	g := &Game{players: [2]*Player{first, second}}
	g.Reset()
	return g
}

// Reset clears the board, places the four centre discs, refills both
// allowances, clears the history and gives the move to First. Win tallies
// are kept.
func (g *Game) Reset() {
	g.board = Board{}
	g.board.Place(Pos(3, 3), NewDisc(Plain, First))
	g.board.Place(Pos(3, 4), NewDisc(Plain, Second))
	g.board.Place(Pos(4, 3), NewDisc(Plain, Second))
	g.board.Place(Pos(4, 4), NewDisc(Plain, First))
	for _, p := range g.players {
		p.refill()
	}
	g.history.Clear()
	g.turn = First
	g.over = false
	g.winner = None
}

// Turn returns the side to move.
func (g *Game) Turn() Side { return g.turn }

// Current returns the player to move.
func (g *Game) Current() *Player { return g.Player(g.turn) }

// Player returns the player seated on s.
func (g *Game) Player(s Side) *Player {
	if s == Second {
		return g.players[1]
	}
	return g.players[0]
}

// At returns a snapshot of the cell at p.
func (g *Game) At(p Position) Cell {
	if d := g.board.At(p); d != nil {
		return Cell{Kind: d.Kind(), Owner: d.Owner()}
	}
	return Cell{}
}

func (g *Game) Grid() Grid { return g.board.Grid() }

// Score returns the disc counts of First and Second.
func (g *Game) Score() (int, int) {
	return g.board.Count(First), g.board.Count(Second)
}

// LegalMoves returns the legal moves of the side to move.
func (g *Game) LegalMoves() []Position { return g.board.LegalMoves(g.turn) }

func (g *Game) LegalMovesFor(s Side) []Position { return g.board.LegalMoves(s) }

// Flips previews the cells the side to move would capture at p.
func (g *Game) Flips(p Position) PositionSet {
	if !p.InBounds() || g.board.At(p) != nil {
		return PositionSet{}
	}
	return g.board.Flips(p, g.turn)
}

// CaptureCount is len(Flips(p)).
func (g *Game) CaptureCount(p Position) int { return g.Flips(p).Len() }

// History returns the applied moves, oldest first.
func (g *Game) History() []Move { return g.history.Moves() }

func (g *Game) MoveCount() int { return g.history.Len() }

// Play places a disc of kind k for the side to move. The board is left
// untouched when an error is returned.
func (g *Game) Play(p Position, k Kind) error {
	if g.IsOver() {
		return ErrGameOver
	}
	side := g.turn
	if !g.board.IsLegal(p, side) {
		return ErrIllegalMove
	}
	pl := g.Current()
	if !pl.Has(k) {
		return ErrNoAllowance
	}
	pl.consume(k)
	g.board.Place(p, NewDisc(k, side))

	captured := g.board.Flips(p, side).Sorted()
	for _, q := range captured {
		d := g.board.At(q)
		if d == nil {
			panic(fmt.Sprintf("domain: capture of empty cell %v", q))
		}
		d.SetOwner(side)
	}
	g.history.Push(Move{Disc: Cell{Kind: k, Owner: side}, Position: p, Captured: captured})
	g.turn = side.Opponent()
	return nil
}

// Undo reverts the last move. It is only available when both players are
// human.
func (g *Game) Undo() error {
	if !g.players[0].Human || !g.players[1].Human {
		return ErrUndoDisabled
	}
	m, ok := g.history.Pop()
	if !ok {
		return ErrNothingToUndo
	}
	if g.over {
		if g.winner != None {
			g.Player(g.winner).Wins--
		}
		g.over = false
		g.winner = None
	}
	g.Player(m.Disc.Owner).restore(m.Disc.Kind)
	g.board.Clear(m.Position)
	// The turn already passed to the opponent, who owned every captured cell
	// before the move; restore ownership before handing the turn back.
	for _, q := range m.Captured {
		d := g.board.At(q)
		if d == nil {
			panic(fmt.Sprintf("domain: undo of empty cell %v", q))
		}
		d.SetOwner(g.turn)
	}
	g.turn = g.turn.Opponent()
	return nil
}

// IsOver reports whether the side to move has no legal move. Only the side
// to move is consulted: a stuck player ends the game even when the opponent
// could still move. The winner is tallied once, on the first call that
// observes the end.
func (g *Game) IsOver() bool {
	if g.over {
		return true
	}
	if len(g.board.LegalMoves(g.turn)) > 0 {
		return false
	}
	g.over = true
	first, second := g.Score()
	switch {
	case first > second:
		g.winner = First
	case second > first:
		g.winner = Second
	}
	if g.winner != None {
		g.Player(g.winner).Wins++
	}
	return true
}

// Winner returns the recorded winner, None while the game is running or on
// a tie.
func (g *Game) Winner() Side { return g.winner }

// Clone returns a deep copy, including copies of both players.
func (g *Game) Clone() *Game {
	cp := &Game{
		board:  g.board.clone(),
		turn:   g.turn,
		over:   g.over,
		winner: g.winner,
	}
	for i, p := range g.players {
		pc := *p
		cp.players[i] = &pc
	}
	cp.history.moves = g.history.Moves()
	return cp
}
