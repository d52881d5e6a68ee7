package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade ensures that requests to WebSocket endpoints are valid
// WebSocket connection attempts from an identified player. It must run after
// EnsurePlayerID.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			log.Debugf("%s: rejected non-upgrade request", c.Path())
			return fiber.ErrUpgradeRequired
		}

		playerID, _ := c.Locals("playerID").(string)
		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		log.Debugf("%s: upgrading connection for player %s", c.Path(), playerID)
		return c.Next()
	}
}
