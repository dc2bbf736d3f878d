package service

import (
	"fmt"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame hosts a new game. An empty boardString starts from the standard
// position; otherwise it is a layout string with an optional side to move.
func (gs *GameService) CreateGame(boardString string) (string, error) {
	board := model.NewBoard()
	if boardString != "" {
		parsed, err := model.ParseBoard(boardString)
		if err != nil {
			return "", err
		}
		board = parsed
	}

	gameID := uuid.New().String()
	if err := gs.gameManager.CreateGame(gameID, board); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}

	return gameID, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

// MatchFor reports the game a matchmaking player was seated in, once.
func (gs *GameService) MatchFor(playerID string) (MatchFoundEvent, bool) {
	return gs.gameManager.MatchFor(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return game.GetState(), nil
}

// AvailableMoves returns the legal destinations from square in gameID.
func (gs *GameService) AvailableMoves(gameID string, square string) (model.SquareSet, error) {
	pos, err := model.ParsePosition(square)
	if err != nil {
		return 0, err
	}
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return 0, err
	}
	return game.AvailableMoves(pos), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.Move) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.MakeMove(playerID, move)
}

func (gs *GameService) Resign(gameID string, playerID string) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.Resign(playerID)
}

// OfferDraw offers or accepts a draw, reporting whether the game is now drawn.
func (gs *GameService) OfferDraw(gameID string, playerID string) (bool, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return false, err
	}
	return game.OfferDraw(playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendTo writes a message to one player's websocket in gameID.
func (gs *GameService) SendTo(gameID string, playerID string, msg ws.Message) error {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.SendTo(playerID, msg)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan string) error {
	return gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID)
}
