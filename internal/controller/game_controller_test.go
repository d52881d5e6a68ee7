package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/simplechess-backend/internal/middleware"
	"github.com/benbeisheim/simplechess-backend/internal/model"
	"github.com/benbeisheim/simplechess-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	gm := service.NewGameManager(nil, 0)
	t.Cleanup(gm.Close)

	app := fiber.New()
	NewGameController(service.NewGameService(gm)).Register(app.Group("/api/game", middleware.EnsurePlayerID()))
	return app
}

func do(t *testing.T, app *fiber.App, method, target, player, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, body := do(t, app, http.MethodPost, "/api/game/create", "alice", "")
	if status != http.StatusOK {
		t.Fatalf("create: status %d: %s", status, body)
	}
	var created struct {
		GameID string `json:"game_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	return created.GameID
}

type moveResponse struct {
	Moved  bool             `json:"moved"`
	Reason string           `json:"reason"`
	Result model.MoveResult `json:"result"`
	State  model.GameState  `json:"state"`
}

func TestGameLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)

	for _, p := range []struct{ player, color string }{{"alice", "white"}, {"bob", "black"}} {
		status, body := do(t, app, http.MethodPost, "/api/game/join/"+id, p.player, "")
		if status != http.StatusOK || !strings.Contains(string(body), `"color":"`+p.color+`"`) {
			t.Fatalf("join %s: %d %s", p.player, status, body)
		}
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/join/"+id, "carol", ""); status != http.StatusConflict {
		t.Errorf("third join: status %d, want 409", status)
	}

	status, body := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":{"x":1,"y":1},"to":{"x":1,"y":3}}`)
	if status != http.StatusOK {
		t.Fatalf("move: %d %s", status, body)
	}
	var mr moveResponse
	if err := json.Unmarshal(body, &mr); err != nil {
		t.Fatalf("decode move: %v", err)
	}
	if !mr.Moved || mr.Result.Piece.Type != model.Pawn {
		t.Fatalf("move response = %+v", mr)
	}
	if mr.State.Board.Rows[3] != ". P . . . . . . " {
		t.Errorf("row 3 = %q", mr.State.Board.Rows[3])
	}

	status, body = do(t, app, http.MethodPost, "/api/game/"+id+"/move", "bob", `{"from":{"x":2,"y":7},"to":{"x":4,"y":5}}`)
	if status != http.StatusOK {
		t.Fatalf("blocked move: %d %s", status, body)
	}
	mr = moveResponse{}
	json.Unmarshal(body, &mr)
	if mr.Moved || mr.Reason != model.ErrPathBlocked.Error() {
		t.Errorf("blocked bishop response = moved %v reason %q", mr.Moved, mr.Reason)
	}

	status, body = do(t, app, http.MethodGet, "/api/game/"+id+"/pieces", "alice", "")
	if status != http.StatusOK || !strings.Contains(string(body), `"count":32`) {
		t.Errorf("pieces: %d %s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/game/"+id+"/board", "alice", "")
	if status != http.StatusOK || !strings.HasPrefix(string(body), "R N B K Q B N R \nP . P P") {
		t.Errorf("board: %d\n%s", status, body)
	}

	status, body = do(t, app, http.MethodGet, "/api/game/"+id, "alice", "")
	var state model.GameState
	if status != http.StatusOK || json.Unmarshal(body, &state) != nil || state.LastMove == nil {
		t.Errorf("state: %d %s", status, body)
	}
}

func TestMoveErrors(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)
	do(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "")

	tests := []struct {
		name       string
		target     string
		player     string
		body       string
		wantStatus int
	}{
		{"unknown game", "/api/game/nope/move", "alice", `{"from":{"x":1,"y":1},"to":{"x":1,"y":3}}`, http.StatusNotFound},
		{"not seated", "/api/game/" + id + "/move", "mallory", `{"from":{"x":1,"y":1},"to":{"x":1,"y":3}}`, http.StatusForbidden},
		{"bad body", "/api/game/" + id + "/move", "alice", `{"from":`, http.StatusBadRequest},
		{"no player id", "/api/game/" + id + "/move", "", `{"from":{"x":1,"y":1},"to":{"x":1,"y":3}}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, http.MethodPost, tt.target, tt.player, tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", status, tt.wantStatus, body)
			}
		})
	}

	status, body := do(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":{"x":0,"y":0},"to":{"x":0,"y":9}}`)
	var mr moveResponse
	json.Unmarshal(body, &mr)
	if status != http.StatusOK || mr.Moved || mr.Reason == "" {
		t.Errorf("off-board move: %d %+v", status, mr)
	}
}

func TestGetUnknownGame(t *testing.T) {
	app := newTestApp(t)

	for _, target := range []string{"/api/game/nope", "/api/game/nope/pieces", "/api/game/nope/board"} {
		if status, body := do(t, app, http.MethodGet, target, "alice", ""); status != http.StatusNotFound {
			t.Errorf("%s: status %d: %s", target, status, body)
		}
	}
}

func TestMatchmakingRoutes(t *testing.T) {
	app := newTestApp(t)

	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", ""); status != http.StatusOK {
		t.Fatalf("join: %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", ""); status != http.StatusConflict {
		t.Errorf("second join: %d, want 409", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", ""); status != http.StatusOK {
		t.Errorf("leave: %d", status)
	}
	if status, _ := do(t, app, http.MethodPost, "/api/game/matchmaking/leave", "alice", ""); status != http.StatusNotFound {
		t.Errorf("second leave: %d, want 404", status)
	}
}

func TestMatchmakingStatusRoute(t *testing.T) {
	gm := service.NewGameManager(nil, 10*time.Millisecond)
	t.Cleanup(gm.Close)
	app := fiber.New()
	NewGameController(service.NewGameService(gm)).Register(app.Group("/api/game", middleware.EnsurePlayerID()))

	status := func(player string) model.MatchmakingStatus {
		t.Helper()
		code, body := do(t, app, http.MethodGet, "/api/game/matchmaking/status", player, "")
		if code != http.StatusOK {
			t.Fatalf("status: %d: %s", code, body)
		}
		var st model.MatchmakingStatus
		if err := json.Unmarshal(body, &st); err != nil {
			t.Fatalf("decode status: %v", err)
		}
		return st
	}

	if st := status("alice"); st.Status != model.MatchmakingIdle {
		t.Errorf("idle: %+v", st)
	}
	do(t, app, http.MethodPost, "/api/game/matchmaking/join", "alice", "")
	do(t, app, http.MethodPost, "/api/game/matchmaking/join", "bob", "")

	deadline := time.Now().Add(2 * time.Second)
	st := status("alice")
	for st.Status != model.MatchmakingMatched && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
		st = status("alice")
	}
	if st.Status != model.MatchmakingMatched || st.Color != model.PlayerColorWhite {
		t.Fatalf("alice never matched: %+v", st)
	}

	code, body := do(t, app, http.MethodGet, "/api/game/"+st.GameID, "alice", "")
	if code != http.StatusOK {
		t.Fatalf("matched game: %d: %s", code, body)
	}
	var state model.GameState
	if err := json.Unmarshal(body, &state); err != nil {
		t.Fatal(err)
	}
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("players = %+v", state.Players)
	}
}
