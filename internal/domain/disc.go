package domain

import "errors"

// Side identifies the owner of a disc.
type Side uint8

const (
	None Side = iota
	First
	Second
)

// Opponent returns the other side; None has no opponent.
func (s Side) Opponent() Side {
	switch s {
	case First:
		return Second
	case Second:
		return First
	default:
		return None
	}
}

func (s Side) String() string {
	switch s {
	case First:
		return "first"
	case Second:
		return "second"
	default:
		return "none"
	}
}

// Kind is the closed set of disc variants.
type Kind uint8

const (
	// Plain is an ordinary disc.
	Plain Kind = iota
	// Volatile explodes when captured, capturing adjacent enemy discs.
	Volatile
	// Immune can never be captured.
	Immune
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown disc kind")

func (k Kind) String() string {
	switch k {
	case Volatile:
		return "volatile"
	case Immune:
		return "immune"
	default:
		return "plain"
	}
}

// Symbol is the glyph used when rendering a disc of this kind.
func (k Kind) Symbol() string {
	switch k {
	case Volatile:
		return "💣"
	case Immune:
		return "⭕"
	default:
		return "⬤"
	}
}

// ParseKind accepts the String form of a kind; empty input means Plain.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "", "plain":
		return Plain, nil
	case "volatile", "bomb":
		return Volatile, nil
	case "immune", "unflippable":
		return Immune, nil
	}
	return Plain, ErrUnknownKind
}

// Disc is a piece on the board.
type Disc struct {
	kind  Kind
	owner Side
}

// NewDisc returns a disc of kind k owned by owner.
func NewDisc(k Kind, owner Side) *Disc {
	return &Disc{kind: k, owner: owner}
}

func (d *Disc) Kind() Kind { return d.kind }
func (d *Disc) Owner() Side { return d.owner }

// SetOwner reassigns the disc. Immune discs keep their owner.
func (d *Disc) SetOwner(s Side) {
	if d.kind == Immune {
		return
	}
	d.owner = s
}
