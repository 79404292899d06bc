package domain

// Allowance is the number of special discs a player may place per game.
type Allowance struct {
	Volatile int
	Immune   int
}

// DefaultAllowance is three Volatile and two Immune discs.
var DefaultAllowance = Allowance{Volatile: 3, Immune: 2}

// Player holds per-seat state the engine reads and adjusts.
type Player struct {
	Side  Side
	Human bool
	Wins  int

	full      Allowance
	remaining Allowance
}

// NewPlayer returns a player with a full allowance.
func NewPlayer(side Side, human bool, a Allowance) *Player {
	return &Player{Side: side, Human: human, full: a, remaining: a}
}

// Remaining returns how many special discs are left.
func (p *Player) Remaining() Allowance { return p.remaining }

// Has reports whether the player can place a disc of kind k.
func (p *Player) Has(k Kind) bool {
	switch k {
	case Volatile:
		return p.remaining.Volatile > 0
	case Immune:
		return p.remaining.Immune > 0
	default:
		return true
	}
}

func (p *Player) consume(k Kind) {
	switch k {
	case Volatile:
		p.remaining.Volatile--
	case Immune:
		p.remaining.Immune--
	}
}

func (p *Player) restore(k Kind) {
	switch k {
	case Volatile:
		p.remaining.Volatile++
	case Immune:
		p.remaining.Immune++
	}
}

func (p *Player) refill() { p.remaining = p.full }
