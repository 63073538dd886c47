package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

const maxPlayerIDLen = 64

// EnsurePlayerID stores the caller's player ID in c.Locals("playerID"),
// taken from the X-Player-ID header or the playerId query parameter. The
// websocket client cannot set headers, hence the query fallback.
func EnsurePlayerID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Locals("playerID") != nil {
			return c.Next()
		}

		playerID := strings.TrimSpace(c.Get("X-Player-ID"))
		if playerID == "" {
			playerID = strings.TrimSpace(c.Query("playerId"))
		}

		switch {
		case playerID == "":
			log.Debugf("%s %s: no player id", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Player ID is required. Please ensure client is properly initialized.",
			})
		case len(playerID) > maxPlayerIDLen:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "player ID is too long",
			})
		}

		c.Locals("playerID", playerID)
		return c.Next()
	}
}
