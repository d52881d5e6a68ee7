package model

func canMove(kind PieceType, owner Owner, from, to Position) bool {
	switch kind {
	case Pawn:
		return canMovePawn(owner, from, to)
	case Knight:
		return canMoveKnight(from, to)
	case Bishop:
		return canMoveBishop(from, to)
	case Rook:
		return canMoveRook(from, to)
	case Queen:
		return canMoveQueen(from, to)
	case King:
		return canMoveKing(from, to)
	default:
		return false
	}
}

// pawnStartRank is the rank a pawn of the given owner starts on.
func pawnStartRank(owner Owner) int {
	if owner == White {
		return 1
	}
	return boardSize - 2
}

// A pawn on its start rank may only advance two squares straight ahead.
// Diagonal steps are shape-legal whether or not the target holds a piece.
func canMovePawn(owner Owner, from, to Position) bool {
	forward := int(owner)
	dx := abs(to.X - from.X)
	dy := to.Y - from.Y

	switch dx {
	case 0:
		if from.Y == pawnStartRank(owner) {
			return dy == 2*forward
		}
		return dy == forward
	case 1:
		return dy == forward
	default:
		return false
	}
}

// The zero displacement passes, matching the other predicates.
func canMoveKnight(from, to Position) bool {
	dx := abs(to.X - from.X)
	dy := abs(to.Y - from.Y)
	return (dx == 1 && dy == 2) || (dx == 2 && dy == 1) || (dx == 0 && dy == 0)
}

func canMoveBishop(from, to Position) bool {
	return abs(to.X-from.X) == abs(to.Y-from.Y)
}

func canMoveRook(from, to Position) bool {
	return from.X == to.X || from.Y == to.Y
}

func canMoveQueen(from, to Position) bool {
	return canMoveRook(from, to) || canMoveBishop(from, to)
}

func canMoveKing(from, to Position) bool {
	return abs(to.X-from.X) <= 1 && abs(to.Y-from.Y) <= 1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
