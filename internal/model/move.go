package model

// WSMove is a move request as sent by clients.
type WSMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MoveResult reports the outcome of a move that the board accepted.
type MoveResult struct {
	Move     SimpleMove  `json:"move"`
	Piece    PieceState  `json:"piece"`
	Captured *PieceState `json:"captured"`
}

// MatchFoundEvent is sent to each matched player once the matchmaker has
// paired them into a game.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  PlayerColor `json:"color"`
}

const (
	MatchmakingIdle    = "idle"
	MatchmakingQueued  = "queued"
	MatchmakingMatched = "matched"
)

// MatchmakingStatus answers a player polling for their matchmaking result.
type MatchmakingStatus struct {
	Status string      `json:"status"`
	GameID string      `json:"gameId,omitempty"`
	Color  PlayerColor `json:"color,omitempty"`
}
