package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GameLookup reports whether a game can be watched; a non-nil error turns
// the upgrade away with 404.
type GameLookup func(gameID string) error

// WebSocketUpgrade admits only websocket handshakes for an existing game
// from an identified player, and hands both IDs to the connection handler.
func WebSocketUpgrade(lookup GameLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		playerID, ok := c.Locals("playerID").(string)
		if !ok || playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}
		if lookup != nil {
			if err := lookup(gameID); err != nil {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
		}

		// Only locals survive into the upgraded connection.
		c.Locals("wsGameID", gameID)
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}
