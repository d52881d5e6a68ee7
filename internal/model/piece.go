package model

import (
	"fmt"
	"math"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (p PieceType) symbol() rune {
	switch p {
	case King:
		return 'K'
	case Queen:
		return 'Q'
	case Rook:
		return 'R'
	case Bishop:
		return 'B'
	case Knight:
		return 'N'
	case Pawn:
		return 'P'
	}
	return '?'
}

func (p PieceType) value() int {
	switch p {
	case King:
		return math.MaxInt32
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop, Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

// Valid reports whether p is one of the six piece kinds.
func (p PieceType) Valid() bool {
	switch p {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

// Owner identifies the player controlling a piece: +1 for white, -1 for black.
type Owner int

const (
	White Owner = 1
	Black Owner = -1
)

func (o Owner) Valid() bool {
	return o == White || o == Black
}

func (o Owner) String() string {
	switch o {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return fmt.Sprintf("owner(%d)", int(o))
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) onBoard() bool {
	return p.X >= 0 && p.X < boardSize && p.Y >= 0 && p.Y < boardSize
}

// Piece has a fixed kind and owner. Its position is only ever changed by
// the Board that holds it.
type Piece struct {
	kind  PieceType
	owner Owner
	pos   Position
}

// PieceState is the wire and storage form of a piece.
type PieceState struct {
	Type     PieceType `json:"type"`
	Owner    Owner     `json:"owner"`
	Symbol   string    `json:"symbol"`
	Value    int       `json:"value"`
	Position Position  `json:"position"`
}

func NewPiece(kind PieceType, owner Owner, x, y int) *Piece {
	return &Piece{kind: kind, owner: owner, pos: Position{X: x, Y: y}}
}

func (p *Piece) Type() PieceType    { return p.kind }
func (p *Piece) Owner() Owner       { return p.owner }
func (p *Piece) Value() int         { return p.kind.value() }
func (p *Piece) Symbol() rune       { return p.kind.symbol() }
func (p *Piece) Position() Position { return p.pos }
func (p *Piece) X() int             { return p.pos.X }
func (p *Piece) Y() int             { return p.pos.Y }

// CanMove reports whether the piece's movement shape allows it to reach
// (targetX, targetY) from where it stands. Occupancy is not considered.
func (p *Piece) CanMove(targetX, targetY int) bool {
	return canMove(p.kind, p.owner, p.pos, Position{X: targetX, Y: targetY})
}

func (p *Piece) State() PieceState {
	return PieceState{
		Type:     p.kind,
		Owner:    p.owner,
		Symbol:   string(p.Symbol()),
		Value:    p.Value(),
		Position: p.pos,
	}
}

func (p *Piece) String() string {
	return fmt.Sprintf("%s %s at (%d, %d)", p.owner, p.kind, p.pos.X, p.pos.Y)
}
