package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// matchmakingTimeout bounds how long a matchmaking socket waits for a pairing.
const matchmakingTimeout = 5 * time.Minute

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
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Printf("Failed to register connection: %v", err)
		c.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("parse error: %v", err)
			wsc.sendError(gameID, playerID, "malformed message")
			continue
		}

		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Printf("handle error: %v", err)
			wsc.sendError(gameID, playerID, err.Error())
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var req moveRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		move, err := req.toMove()
		if err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)

	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)

	case ws.MessageTypeDrawOffer:
		_, err := wsc.gameService.OfferDraw(gameID, playerID)
		return err

	case ws.MessageTypeAvailableMoves:
		var req ws.AvailableMovesRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return err
		}
		moves, err := wsc.gameService.AvailableMoves(gameID, req.Square)
		if err != nil {
			return err
		}
		reply, err := ws.NewMessage(ws.MessageTypeAvailableMoves, ws.AvailableMovesResponse{
			Square: req.Square,
			Moves:  moves.Strings(),
		})
		if err != nil {
			return err
		}
		return wsc.gameService.SendTo(gameID, playerID, reply)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(gameID, playerID, errorMsg string) {
	msg, err := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: errorMsg})
	if err != nil {
		return
	}
	if err := wsc.gameService.SendTo(gameID, playerID, msg); err != nil {
		log.Printf("Failed to send error to player %s: %v", playerID, err)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a game
// is found, then sends the match event and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals("wsPlayerID").(string)
	defer c.Close()

	ch := make(chan string, 1)
	if err := wsc.gameService.RegisterMatchmakingChannel(playerID, ch); err != nil {
		log.Printf("Failed to register matchmaking channel: %v", err)
		return
	}
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil {
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		msg, _ := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
		c.WriteJSON(msg)
		return
	}

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte(event)); err != nil {
			log.Printf("Failed to send match event to player %s: %v", playerID, err)
		}
	case <-time.After(matchmakingTimeout):
		wsc.gameService.UnregisterMatchmakingChannel(playerID)
		wsc.gameService.LeaveMatchmaking(playerID)
	}
}
