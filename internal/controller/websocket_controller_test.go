package controller

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
)

func TestHandleMessage(t *testing.T) {
	gm := service.NewGameManager(time.Hour)
	t.Cleanup(gm.Shutdown)
	gs := service.NewGameService(gm)
	wsc := NewWebSocketController(gs)

	gameID, err := gs.CreateGame("")
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"alice", "bob"} {
		if _, err := gs.JoinGame(gameID, id); err != nil {
			t.Fatalf("join %s: %v", id, err)
		}
	}

	// Steps share one game and run in order.
	steps := []struct {
		name     string
		playerID string
		msgType  ws.MessageType
		payload  string
		wantErr  bool
		wantIs   error
	}{
		{"available moves", "alice", ws.MessageTypeAvailableMoves, `{"square":"g1"}`, false, nil},
		{"available moves for spectator", "carol", ws.MessageTypeAvailableMoves, `{"square":"b1"}`, false, nil},
		{"available moves bad square", "alice", ws.MessageTypeAvailableMoves, `{"square":"z9"}`, true, model.ErrParse},
		{"available moves bad payload", "alice", ws.MessageTypeAvailableMoves, `[1,2]`, true, nil},
		{"move bad payload", "alice", ws.MessageTypeMove, `{"from":`, true, nil},
		{"move bad square", "alice", ws.MessageTypeMove, `{"from":"e9","to":"e4"}`, true, model.ErrParse},
		{"move bad promotion", "alice", ws.MessageTypeMove, `{"from":"e2","to":"e4","promotion":"k"}`, true, model.ErrParse},
		{"move illegal", "alice", ws.MessageTypeMove, `{"from":"e2","to":"e5"}`, true, model.ErrIllegalMove},
		{"move not in game", "carol", ws.MessageTypeMove, `{"from":"e2","to":"e4"}`, true, model.ErrNotInGame},
		{"move", "alice", ws.MessageTypeMove, `{"from":"e2","to":"e4"}`, false, nil},
		{"move out of turn", "alice", ws.MessageTypeMove, `{"from":"d2","to":"d4"}`, true, model.ErrNotYourTurn},
		{"draw offer", "alice", ws.MessageTypeDrawOffer, `{}`, false, nil},
		{"draw offer not in game", "carol", ws.MessageTypeDrawOffer, `{}`, true, model.ErrNotInGame},
		{"resign out of turn", "alice", ws.MessageTypeResign, `{}`, true, model.ErrNotYourTurn},
		{"unknown type", "alice", ws.MessageType("chat"), `{"text":"gg"}`, true, nil},
		{"resign", "bob", ws.MessageTypeResign, `{}`, false, nil},
		{"draw offer after resign", "alice", ws.MessageTypeDrawOffer, `{}`, true, model.ErrGameOver},
		{"move after resign", "alice", ws.MessageTypeMove, `{"from":"d2","to":"d4"}`, true, nil},
	}

	for _, tt := range steps {
		msg := ws.Message{Type: tt.msgType, Payload: json.RawMessage(tt.payload)}
		err := wsc.handleMessage(gameID, tt.playerID, msg)
		switch {
		case !tt.wantErr && err != nil:
			t.Fatalf("%s: unexpected error %v", tt.name, err)
		case tt.wantErr && err == nil:
			t.Fatalf("%s: expected error", tt.name)
		case tt.wantIs != nil && !errors.Is(err, tt.wantIs):
			t.Fatalf("%s: error = %v, want %v", tt.name, err, tt.wantIs)
		}
	}

	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != model.Resigned(model.White) {
		t.Errorf("status = %v, want white wins by resignation", state.Status)
	}
	if state.LastMove == nil || state.LastMove.From.String() != "e2" || state.LastMove.To.String() != "e4" {
		t.Errorf("last move = %+v, want e2e4", state.LastMove)
	}
	if state.DrawOffer != nil {
		t.Errorf("draw offer survived resignation: %+v", state.DrawOffer)
	}
}

func TestHandleMessageUnknownGame(t *testing.T) {
	gm := service.NewGameManager(time.Hour)
	t.Cleanup(gm.Shutdown)
	wsc := NewWebSocketController(service.NewGameService(gm))

	for _, msgType := range []ws.MessageType{
		ws.MessageTypeMove,
		ws.MessageTypeResign,
		ws.MessageTypeDrawOffer,
		ws.MessageTypeAvailableMoves,
	} {
		msg := ws.Message{Type: msgType, Payload: json.RawMessage(`{"from":"e2","to":"e4","square":"e2"}`)}
		if err := wsc.handleMessage("missing", "alice", msg); err == nil {
			t.Errorf("%s on unknown game: expected error", msgType)
		}
	}
}
