// service/game_manager.go
package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/benbeisheim/simplechess-backend/internal/storage"
	"github.com/benbeisheim/simplechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// GameStore persists games between restarts.
type GameStore interface {
	SaveGame(rec model.GameRecord) error
	LoadGame(id string) (model.GameRecord, error)
}

type GameManager struct {
	games            map[string]*model.Game
	queue            *model.Queue
	matchingChannels map[string]chan string
	matches          map[string]model.MatchFoundEvent // playerID -> last match
	store            GameStore
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

// NewGameManager starts a manager whose matchmaker pairs queued players
// every interval. store may be nil, in which case games live in memory only.
func NewGameManager(store GameStore, interval time.Duration) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*model.Game),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		matches:          make(map[string]model.MatchFoundEvent),
		store:            store,
		done:             make(chan struct{}),
	}

	if interval > 0 {
		go gm.processMatchmaking(interval)
	}

	return gm
}

// Close stops the matchmaker.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	log.Debugf("registering matchmaking channel for player %s", playerID)

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		// remove first so nothing new is written, then close
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}

	gm.matchingChannels[playerID] = ch
	return nil
}

// UnregisterMatchmakingChannel forgets the channel without closing it; the
// caller that created it owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
	}
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			for gm.matchNextPair() {
			}
		}
	}
}

// matchNextPair pairs the two longest-waiting players into a new game and
// reports whether a pair was made.
func (gm *GameManager) matchNextPair() bool {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	player1, player2, err := gm.queue.GetNextPair()
	if err != nil {
		return false
	}

	gameID := uuid.New().String()
	game := model.NewGame(gameID)

	p1Color, err := game.AddPlayer(player1.ID)
	if err != nil {
		log.Errorf("matchmaking: add player %s: %v", player1.ID, err)
		return true
	}
	p2Color, err := game.AddPlayer(player2.ID)
	if err != nil {
		log.Errorf("matchmaking: add player %s: %v", player2.ID, err)
		return true
	}
	gm.games[gameID] = game
	gm.persist(game)

	event1 := model.MatchFoundEvent{GameID: gameID, Color: p1Color}
	event2 := model.MatchFoundEvent{GameID: gameID, Color: p2Color}
	// kept for players who queued over REST and poll for the result
	gm.matches[player1.ID] = event1
	gm.matches[player2.ID] = event2

	sendEventAndCleanup := func(playerID string, event model.MatchFoundEvent) bool {
		ch, ok := gm.matchingChannels[playerID]
		if !ok {
			return false
		}
		select {
		case ch <- mustJSON(event):
			log.Infof("sent match found event to player %s", playerID)
			delete(gm.matchingChannels, playerID)
			close(ch)
			return true
		default:
			log.Warnf("matchmaking channel full for player %s", playerID)
			return false
		}
	}

	sentBoth := sendEventAndCleanup(player1.ID, event1)
	sentBoth = sendEventAndCleanup(player2.ID, event2) && sentBoth
	if !sentBoth {
		log.Infof("game %s: not every matched player is listening, status is available by polling", gameID)
	}
	return true
}

// Helper function for JSON marshaling
func mustJSON(v interface{}) string {
	bytes, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(bytes)
}

// persist saves the game if a store is configured. Failures are logged; the
// in-memory game stays authoritative.
func (gm *GameManager) persist(game *model.Game) {
	if gm.store == nil {
		return
	}
	if err := game.Save(gm.store.SaveGame); err != nil {
		log.Errorf("game %s: persist: %v", game.ID, err)
	}
}

func (gm *GameManager) CreateGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return ErrGameExists
	}

	game := model.NewGame(gameID)
	gm.games[gameID] = game
	gm.persist(game)
	return nil
}

// GetGame returns a live game, loading it from the store on first access.
func (gm *GameManager) GetGame(gameID string) (*model.Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.store == nil {
		return nil, ErrGameNotFound
	}

	rec, err := gm.store.LoadGame(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load game %s: %w", gameID, err)
	}
	restored, err := model.RestoreGame(rec)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// another caller may have loaded it meanwhile
	if game, exists := gm.games[gameID]; exists {
		return game, nil
	}
	gm.games[gameID] = restored
	log.Infof("game %s: restored from storage", gameID)
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.PlayerColor, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.PlayerColor(""), err
	}

	color, err := game.AddPlayer(playerID)
	if err != nil {
		return color, err
	}
	gm.persist(game)
	return color, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	// forget the previous result before queueing, so a pairing made right
	// after AddPlayer is not erased
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(model.Player{ID: playerID}); err != nil {
		return err
	}
	log.Infof("player %s joined matchmaking, %d waiting", playerID, gm.queue.Size())
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchmakingStatus reports whether playerID is waiting in the queue or has
// been matched since they last joined it.
func (gm *GameManager) MatchmakingStatus(playerID string) model.MatchmakingStatus {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	if gm.queue.Contains(playerID) {
		return model.MatchmakingStatus{Status: model.MatchmakingQueued}
	}
	if ev, ok := gm.matches[playerID]; ok {
		return model.MatchmakingStatus{Status: model.MatchmakingMatched, GameID: ev.GameID, Color: ev.Color}
	}
	return model.MatchmakingStatus{Status: model.MatchmakingIdle}
}

func (gm *GameManager) GetGameState(gameID string) (model.GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move model.WSMove) (model.MoveResult, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.MoveResult{}, err
	}

	result, err := game.MakeMove(playerID, move)
	if err != nil {
		return model.MoveResult{}, err
	}
	gm.persist(game)
	return result, nil
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}

	game.UnregisterConnection(playerID, conn)
}

// Send writes msg to a connection attached to gameID.
func (gm *GameManager) Send(gameID string, conn *websocket.Conn, msg ws.Message) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Send(conn, msg)
}
