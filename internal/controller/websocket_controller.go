package controller

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/benbeisheim/simplechess-backend/internal/service"
	"github.com/benbeisheim/simplechess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID := c.Locals("playerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("game %s: failed to register connection for %s: %v", gameID, playerID, err)
		c.Close()
		return
	}

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read error: %v", gameID, err)
			break
		}

		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, c, fmt.Errorf("parse error: %w", err))
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, c, msg); err != nil {
			wsc.sendError(gameID, c, err)
		}
	}

	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, c *websocket.Conn, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		result, err := wsc.gameService.HandleMove(gameID, playerID, move)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeMoveResult, result)
		if err != nil {
			return err
		}
		return wsc.gameService.Send(gameID, c, reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, err error) {
	msg, mErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if mErr != nil {
		log.Errorf("marshal error message: %v", mErr)
		return
	}
	if sErr := wsc.gameService.Send(gameID, c, msg); sErr != nil {
		log.Warnf("game %s: send error message: %v", gameID, sErr)
	}
}

// HandleMatchmaking queues the player and holds the connection open until
// a match is found or the client goes away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID := c.Locals("playerID").(string)
	defer c.Close()

	events := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, events); err != nil {
		log.Warnf("matchmaking: register %s: %v", playerID, err)
		return
	}
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, events)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrAlreadyQueue) {
		log.Warnf("matchmaking: join %s: %v", playerID, err)
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-events:
		if !ok {
			// replaced by a newer matchmaking connection
			return
		}
		if err := c.WriteJSON(ws.Message{
			Type:    ws.MessageTypeMatchFound,
			Payload: json.RawMessage(event),
		}); err != nil {
			log.Warnf("matchmaking: notify %s: %v", playerID, err)
		}
	case <-gone:
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}
