package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// GameSocketUpgrade guards /ws/game/:gameId. It rejects plain HTTP requests
// and carries the game and player ids across the upgrade in Locals
// "wsGameID" and "wsPlayerID".
func GameSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := upgradingPlayer(c)
		if err != nil {
			return err
		}

		gameID := c.Params("gameId")
		if gameID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "game ID is required",
			})
		}

		// The socket handler runs after this request's buffers are recycled
		c.Locals("wsGameID", utils.CopyString(gameID))
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}

// MatchmakingSocketUpgrade guards /ws/matchmaking, which is bound to a player
// but not yet to any game.
func MatchmakingSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		playerID, err := upgradingPlayer(c)
		if err != nil {
			return err
		}
		c.Locals("wsPlayerID", playerID)
		return c.Next()
	}
}

func upgradingPlayer(c *fiber.Ctx) (string, error) {
	if !websocket.IsWebSocketUpgrade(c) {
		return "", fiber.ErrUpgradeRequired
	}
	// Set by EnsurePlayerID
	playerID, _ := c.Locals("playerID").(string)
	if playerID == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "player ID is required")
	}
	return playerID, nil
}
