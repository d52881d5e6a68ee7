package model

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const boardSize = 8

var backRank = [boardSize]PieceType{Rook, Knight, Bishop, King, Queen, Bishop, Knight, Rook}

// Board is an 8x8 grid indexed as squares[y][x]. It is not safe for
// concurrent use; Game serialises access to its board.
type Board struct {
	squares [boardSize][boardSize]*Piece
	out     io.Writer
}

type BoardState struct {
	Pieces []PieceState `json:"pieces"`
	Rows   []string     `json:"rows"`
}

// NewBoard returns a board set up in the standard starting layout.
func NewBoard() *Board {
	b := NewEmptyBoard()
	b.initializeBoard()
	return b
}

func NewEmptyBoard() *Board {
	return &Board{out: os.Stdout}
}

// NewBoardFromState rebuilds a board from a piece snapshot.
func NewBoardFromState(pieces []PieceState) (*Board, error) {
	b := NewEmptyBoard()
	for _, ps := range pieces {
		if err := b.Place(NewPiece(ps.Type, ps.Owner, ps.Position.X, ps.Position.Y)); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (b *Board) initializeBoard() {
	for x, kind := range backRank {
		b.squares[0][x] = NewPiece(kind, White, x, 0)
		b.squares[1][x] = NewPiece(Pawn, White, x, 1)
		b.squares[boardSize-2][x] = NewPiece(Pawn, Black, x, boardSize-2)
		b.squares[boardSize-1][x] = NewPiece(kind, Black, x, boardSize-1)
	}
}

// SetOutput sets where capture notices and PrintBoard write. Nil discards.
func (b *Board) SetOutput(w io.Writer) {
	if w == nil {
		w = io.Discard
	}
	b.out = w
}

// Place puts p on the square its position names.
func (b *Board) Place(p *Piece) error {
	if p == nil {
		return ErrInvalidPiece
	}
	if !p.kind.Valid() || !p.owner.Valid() {
		return fmt.Errorf("%w: %q owned by %s", ErrInvalidPiece, p.kind, p.owner)
	}
	if !p.pos.onBoard() {
		return fmt.Errorf("%w: (%d, %d)", ErrOutOfBounds, p.pos.X, p.pos.Y)
	}
	if b.squares[p.pos.Y][p.pos.X] != nil {
		return fmt.Errorf("%w: (%d, %d)", ErrSquareTaken, p.pos.X, p.pos.Y)
	}
	b.squares[p.pos.Y][p.pos.X] = p
	return nil
}

// PieceAt returns the piece on (x, y), or nil when the square is empty or
// off the board.
func (b *Board) PieceAt(x, y int) *Piece {
	if !(Position{X: x, Y: y}).onBoard() {
		return nil
	}
	return b.squares[y][x]
}

// IsPathClear reports whether every square strictly between start and
// target is empty. Knights always have a clear path. The walk follows the
// sign of each delta, so start and target must share a line or diagonal;
// otherwise the walk runs off the board and the path counts as blocked.
func (b *Board) IsPathClear(startX, startY, targetX, targetY int) bool {
	if p := b.PieceAt(startX, startY); p != nil && p.kind == Knight {
		return true
	}

	stepX := sign(targetX - startX)
	stepY := sign(targetY - startY)
	cur := Position{X: startX + stepX, Y: startY + stepY}
	for cur.X != targetX || cur.Y != targetY {
		if !cur.onBoard() || b.squares[cur.Y][cur.X] != nil {
			return false
		}
		cur = Position{X: cur.X + stepX, Y: cur.Y + stepY}
	}
	return true
}

// Move validates and applies a move. The returned piece is the captured
// opponent, or nil. On error the board is unchanged.
func (b *Board) Move(startX, startY, targetX, targetY int) (*Piece, error) {
	from := Position{X: startX, Y: startY}
	to := Position{X: targetX, Y: targetY}

	if !from.onBoard() {
		return nil, fmt.Errorf("%w: start (%d, %d)", ErrOutOfBounds, startX, startY)
	}
	piece := b.squares[from.Y][from.X]
	if piece == nil {
		return nil, ErrNoPiece
	}
	if !to.onBoard() {
		return nil, fmt.Errorf("%w: target (%d, %d)", ErrOutOfBounds, targetX, targetY)
	}
	if !piece.CanMove(targetX, targetY) {
		return nil, ErrIllegalMove
	}
	if !b.IsPathClear(startX, startY, targetX, targetY) {
		return nil, ErrPathBlocked
	}

	captured := b.squares[to.Y][to.X]
	if captured != nil {
		if captured.owner == piece.owner {
			return nil, ErrOwnPiece
		}
		fmt.Fprintf(b.out, "Piece captured: %c\n", captured.Symbol())
	}

	b.squares[to.Y][to.X] = piece
	b.squares[from.Y][from.X] = nil
	piece.pos = to
	return captured, nil
}

// MovePiece is Move with every rejection reported as false.
func (b *Board) MovePiece(startX, startY, targetX, targetY int) bool {
	_, err := b.Move(startX, startY, targetX, targetY)
	return err == nil
}

// PiecesInPlay returns a copy of every piece on the board, scanning files
// then ranks.
func (b *Board) PiecesInPlay() []Piece {
	pieces := make([]Piece, 0, 2*2*boardSize)
	for x := 0; x < boardSize; x++ {
		for y := 0; y < boardSize; y++ {
			if p := b.squares[y][x]; p != nil {
				pieces = append(pieces, *p)
			}
		}
	}
	return pieces
}

// Rows renders each rank as space separated symbols, "." for empty squares.
func (b *Board) Rows() []string {
	rows := make([]string, 0, boardSize)
	var sb strings.Builder
	for y := 0; y < boardSize; y++ {
		sb.Reset()
		for x := 0; x < boardSize; x++ {
			if p := b.squares[y][x]; p != nil {
				sb.WriteRune(p.Symbol())
			} else {
				sb.WriteByte('.')
			}
			sb.WriteByte(' ')
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func (b *Board) String() string {
	return strings.Join(b.Rows(), "\n") + "\n"
}

func (b *Board) PrintBoard() {
	io.WriteString(b.out, b.String())
}

func (b *Board) State() BoardState {
	pieces := b.PiecesInPlay()
	states := make([]PieceState, 0, len(pieces))
	for i := range pieces {
		states = append(states, pieces[i].State())
	}
	return BoardState{Pieces: states, Rows: b.Rows()}
}
