package controller

import (
	"strings"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	// Layout is a board layout string; empty means the standard start.
	Layout string `json:"layout"`
	// ToMove is "white" or "black".
	ToMove string `json:"toMove"`
}

type moveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion"`
}

func (r moveRequest) toMove() (model.Move, error) {
	from, err := model.ParsePosition(r.From)
	if err != nil {
		return model.Move{}, err
	}
	to, err := model.ParsePosition(r.To)
	if err != nil {
		return model.Move{}, err
	}
	move := model.Move{From: from, To: to}
	if r.Promotion != "" {
		if move.Promotion, err = model.ParsePromotion(r.Promotion); err != nil {
			return model.Move{}, err
		}
	}
	return move, nil
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	side := "w"
	switch model.Color(req.ToMove) {
	case "", model.White:
	case model.Black:
		side = "b"
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "toMove must be white or black",
		})
	}

	// A layout may carry its own side field; toMove only fills in a bare one.
	boardString := req.Layout
	switch fields := strings.Fields(boardString); {
	case len(fields) == 1:
		boardString = fields[0] + " " + side
	case len(fields) > 1 && req.ToMove != "":
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "layout already names the side to move; omit toMove",
		})
	}

	gameID, err := gc.gameService.CreateGame(boardString)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(gameState)
}

func (gc *GameController) AvailableMoves(c *fiber.Ctx) error {
	square := c.Params("square")
	moves, err := gc.gameService.AvailableMoves(c.Params("gameId"), square)
	if err != nil {
		return sendError(c, err)
	}

	return c.JSON(fiber.Map{
		"square": square,
		"moves":  moves.Strings(),
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	move, err := req.toMove()
	if err != nil {
		return sendError(c, err)
	}

	gameID := c.Params("gameId")
	if err := gc.gameService.HandleMove(gameID, playerID(c), move); err != nil {
		return sendError(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) Resign(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	if err := gc.gameService.Resign(gameID, playerID(c)); err != nil {
		return sendError(c, err)
	}

	gameState, err := gc.gameService.GetGameState(gameID)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) OfferDraw(c *fiber.Ctx) error {
	drawn, err := gc.gameService.OfferDraw(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}

	message := "Draw offered"
	if drawn {
		message = "Draw agreed"
	}
	return c.JSON(fiber.Map{
		"message": message,
		"drawn":   drawn,
	})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Failed to join matchmaking",
		})
	}

	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	removed := gc.gameService.LeaveMatchmaking(playerID(c))
	return c.JSON(fiber.Map{
		"removed": removed,
	})
}

// MatchStatus lets a player queued over REST learn the game it was seated in.
func (gc *GameController) MatchStatus(c *fiber.Ctx) error {
	event, ok := gc.gameService.MatchFor(playerID(c))
	if !ok {
		return c.JSON(fiber.Map{
			"matched": false,
		})
	}
	return c.JSON(fiber.Map{
		"matched": true,
		"gameId":  event.GameID,
		"color":   event.Color,
	})
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	gameRoutes := router.Group("/game")
	gameRoutes.Post("/matchmaking/join", gc.JoinMatchmaking)
	gameRoutes.Post("/matchmaking/leave", gc.LeaveMatchmaking)
	gameRoutes.Get("/matchmaking/match", gc.MatchStatus)
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Get("/:gameId/moves/:square", gc.AvailableMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/resign", gc.Resign)
	gameRoutes.Post("/:gameId/draw", gc.OfferDraw)
}
