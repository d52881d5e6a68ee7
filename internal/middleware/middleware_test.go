package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp() *fiber.App {
	app := fiber.New()
	app.Use("/ws", EnsurePlayerID(), WebSocketUpgrade())
	app.Get("/ws", func(c *fiber.Ctx) error { return c.SendString("upgraded") })
	app.Get("/api/whoami", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})
	return app
}

func TestEnsurePlayerID(t *testing.T) {
	app := newApp()

	tests := []struct {
		name       string
		target     string
		header     string
		wantStatus int
		wantBody   string
	}{
		{name: "header", target: "/api/whoami", header: "alice", wantStatus: http.StatusOK, wantBody: "alice"},
		{name: "query", target: "/api/whoami?playerId=bob", wantStatus: http.StatusOK, wantBody: "bob"},
		{name: "header wins over query", target: "/api/whoami?playerId=bob", header: "alice", wantStatus: http.StatusOK, wantBody: "alice"},
		{name: "missing", target: "/api/whoami", wantStatus: http.StatusUnauthorized},
		{name: "blank header falls back to query", target: "/api/whoami?playerId=bob", header: "   ", wantStatus: http.StatusOK, wantBody: "bob"},
		{name: "surrounding spaces trimmed", target: "/api/whoami", header: " alice ", wantStatus: http.StatusOK, wantBody: "alice"},
		{name: "too long", target: "/api/whoami", header: strings.Repeat("x", maxPlayerIDLength+1), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}

func TestWebSocketUpgradeRejectsPlainRequests(t *testing.T) {
	app := newApp()

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("X-Player-ID", "alice")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUpgradeRequired)
	}
}
