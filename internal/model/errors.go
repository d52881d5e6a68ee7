package model

import "errors"

// Move rejections. Board.MovePiece collapses all of them into false.
var (
	ErrOutOfBounds = errors.New("square out of bounds")
	ErrNoPiece     = errors.New("no piece at start square")
	ErrIllegalMove = errors.New("piece cannot move that way")
	ErrPathBlocked = errors.New("path is blocked")
	ErrOwnPiece    = errors.New("target square holds own piece")
)

var (
	ErrGameFull     = errors.New("game is full")
	ErrNotInGame    = errors.New("player not in game")
	ErrInvalidPiece = errors.New("invalid piece")
	ErrSquareTaken  = errors.New("square already occupied")
	ErrQueueShort   = errors.New("not enough players in queue")
	ErrAlreadyQueue = errors.New("player already in queue")
)
