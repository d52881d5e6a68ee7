package model

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/benbeisheim/simplechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	// websocket connections allow a single concurrent writer
	sendMu sync.Mutex
}

// Game owns one board and the players and observers attached to it. The
// game mutex covers every read and write of the board, so a move's checks
// and its mutation happen as one step.
type Game struct {
	ID          string
	mu          sync.Mutex
	saveMu      sync.Mutex
	board       *Board
	players     Players
	sound       string
	lastMove    *SimpleMove
	lastCapture *PieceState
	createdAt   time.Time
	updatedAt   time.Time
	connections *GameConnections
}

type Players struct {
	White ClientPlayer `json:"white"`
	Black ClientPlayer `json:"black"`
}

type GameState struct {
	ID          string      `json:"id"`
	Sound       string      `json:"sound"`
	Board       BoardState  `json:"boardState"`
	Players     Players     `json:"players"`
	LastMove    *SimpleMove `json:"lastMove"`
	LastCapture *PieceState `json:"lastCapture"`
}

// GameRecord is the persisted form of a game.
type GameRecord struct {
	ID        string       `json:"id"`
	White     string       `json:"white"`
	Black     string       `json:"black"`
	Pieces    []PieceState `json:"pieces"`
	LastMove  *SimpleMove  `json:"lastMove"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func NewGame(id string) *Game {
	now := time.Now()
	return newGame(id, NewBoard(), now)
}

func newGame(id string, board *Board, createdAt time.Time) *Game {
	// capture notices surface through GameState, not stdout
	board.SetOutput(io.Discard)
	return &Game{
		ID:          id,
		board:       board,
		players:     newPlayers(),
		createdAt:   createdAt,
		updatedAt:   createdAt,
		connections: NewGameConnections(),
	}
}

// RestoreGame rebuilds a game from its persisted record.
func RestoreGame(rec GameRecord) (*Game, error) {
	board, err := NewBoardFromState(rec.Pieces)
	if err != nil {
		return nil, fmt.Errorf("restore game %s: %w", rec.ID, err)
	}
	g := newGame(rec.ID, board, rec.CreatedAt)
	if rec.White != "" {
		g.players.White.ID = rec.White
	}
	if rec.Black != "" {
		g.players.Black.ID = rec.Black
	}
	g.lastMove = rec.LastMove
	g.updatedAt = rec.UpdatedAt
	return g, nil
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

func newPlayers() Players {
	return Players{
		White: ClientPlayer{Color: string(PlayerColorWhite)},
		Black: ClientPlayer{Color: string(PlayerColorBlack)},
	}
}

// AddPlayer seats playerID, white first. A player already seated gets their
// existing color back.
func (g *Game) AddPlayer(playerID string) (PlayerColor, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if playerID != "" {
		if g.players.White.ID == playerID {
			return PlayerColorWhite, nil
		}
		if g.players.Black.ID == playerID {
			return PlayerColorBlack, nil
		}
	}

	if g.players.White.ID == "" {
		g.players.White.ID = playerID
		g.updatedAt = time.Now()
		return PlayerColorWhite, nil
	}
	if g.players.Black.ID == "" {
		g.players.Black.ID = playerID
		g.updatedAt = time.Now()
		return PlayerColorBlack, nil
	}
	return "", ErrGameFull
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.stateLocked()
}

func (g *Game) stateLocked() GameState {
	return GameState{
		ID:          g.ID,
		Sound:       g.sound,
		Board:       g.board.State(),
		Players:     g.players,
		LastMove:    g.lastMove,
		LastCapture: g.lastCapture,
	}
}

// Save hands the current record to save. Saves of one game run one at a
// time and each takes its record after acquiring the lock, so the last save
// to finish carries the newest state.
func (g *Game) Save(save func(GameRecord) error) error {
	g.saveMu.Lock()
	defer g.saveMu.Unlock()
	return save(g.Record())
}

// Record snapshots the game for storage.
func (g *Game) Record() GameRecord {
	g.mu.Lock()
	defer g.mu.Unlock()

	return GameRecord{
		ID:        g.ID,
		White:     g.players.White.ID,
		Black:     g.players.Black.ID,
		Pieces:    g.board.State().Pieces,
		LastMove:  g.lastMove,
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
	}
}

func (g *Game) PiecesInPlay() []PieceState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.State().Pieces
}

func (g *Game) Render() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.String()
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.isPlayerInGame(playerID)
}

func (g *Game) isPlayerInGame(playerID string) bool {
	if g.players.White.ID != "" && g.players.White.ID == playerID {
		return true
	}
	if g.players.Black.ID != "" && g.players.Black.ID == playerID {
		return true
	}
	return false
}

func (g *Game) canSpectate() bool {
	return g.players.White.ID == "" || g.players.Black.ID == ""
}

// MakeMove applies a move for a seated player. There is no turn order:
// either player may move any piece.
func (g *Game) MakeMove(playerID string, move WSMove) (MoveResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.isPlayerInGame(playerID) {
		return MoveResult{}, ErrNotInGame
	}

	captured, err := g.board.Move(move.From.X, move.From.Y, move.To.X, move.To.Y)
	if err != nil {
		return MoveResult{}, err
	}

	result := MoveResult{
		Move:  SimpleMove{From: move.From, To: move.To},
		Piece: g.board.PieceAt(move.To.X, move.To.Y).State(),
	}
	g.sound = "move"
	g.lastCapture = nil
	if captured != nil {
		cs := captured.State()
		result.Captured = &cs
		g.lastCapture = &cs
		g.sound = "capture"
		log.Infof("game %s: piece captured: %s", g.ID, cs.Symbol)
	}
	g.lastMove = &result.Move
	g.updatedAt = time.Now()

	go g.broadcastState()

	return result, nil
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrNotInGame
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// keep the healthy connection, reject the duplicate
		g.connections.mu.Unlock()
		conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(
				websocket.CloseNormalClosure,
				"Connection already exists",
			),
		)
		conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection %p for player %s", g.ID, conn, playerID)

	go g.broadcastState()
	return nil
}

// UnregisterConnection drops playerID's connection if conn is still the
// current one.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		log.Infof("game %s: unregistering connection %p for player %s", g.ID, conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// Send writes msg to one connection, serialised with broadcasts.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()
	return conn.WriteJSON(msg)
}

// broadcastState sends every connection the state as it is once the send
// lock is held. Broadcasts may run in any order, but the last one always
// carries the newest state.
func (g *Game) broadcastState() {
	g.connections.sendMu.Lock()
	defer g.connections.sendMu.Unlock()

	g.mu.Lock()
	state := g.stateLocked()
	g.mu.Unlock()

	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.RLock()
	activeConnections := make(map[string]Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	for playerID, conn := range activeConnections {
		if err := conn.WriteJSON(ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
