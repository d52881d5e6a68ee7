package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const maxPlayerIDLength = 64

// EnsurePlayerID stores the caller's player id in c.Locals("playerID"),
// reading the X-Player-ID header or the playerId query parameter.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if id := c.Locals("playerID"); id != nil {
			log.Debugf("%s %s: player id already set: %v", c.Method(), c.Path(), id)
			return c.Next()
		}

		source := "header"
		playerID := strings.TrimSpace(c.Get("X-Player-ID"))
		if playerID == "" {
			source = "query"
			playerID = strings.TrimSpace(c.Query("playerId"))
		}

		if playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		}
		if len(playerID) > maxPlayerIDLength {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player ID is too long",
			})
		}

		log.Debugf("%s %s: player %s from %s", c.Method(), c.Path(), playerID, source)
		c.Locals("playerID", playerID)
		return c.Next()
	}
}
