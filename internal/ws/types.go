package ws

import (
	"encoding/json"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove           MessageType = "move"
	MessageTypeGameState      MessageType = "gameState"
	MessageTypeDrawOffer      MessageType = "drawOffer"
	MessageTypeResign         MessageType = "resign"
	MessageTypeAvailableMoves MessageType = "availableMoves"
	MessageTypeError          MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AvailableMovesRequest asks for the legal destinations from Square.
type AvailableMovesRequest struct {
	Square string `json:"square"`
}

type AvailableMovesResponse struct {
	Square string   `json:"square"`
	Moves  []string `json:"moves"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a Message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}
