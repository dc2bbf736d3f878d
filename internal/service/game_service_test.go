package service

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	gm := NewGameManager(10 * time.Millisecond)
	t.Cleanup(gm.Shutdown)
	return NewGameService(gm)
}

func TestCreateGame(t *testing.T) {
	gs := newTestService(t)

	gameID, err := gs.CreateGame("")
	if err != nil {
		t.Fatal(err)
	}
	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Board.Layout != model.StartingLayout || state.ToMove != model.White {
		t.Errorf("default game = %s to move %s", state.Board.Layout, state.ToMove)
	}

	gameID, err = gs.CreateGame("1k4r1/3r4/8/8/8/8/4r2K/8 b")
	if err != nil {
		t.Fatal(err)
	}
	state, err = gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.ToMove != model.Black {
		t.Errorf("ToMove = %s, want black", state.ToMove)
	}

	if _, err := gs.CreateGame("not a board"); !errors.Is(err, model.ErrParse) {
		t.Errorf("bad layout error = %v, want ErrParse", err)
	}
}

func TestGameNotFound(t *testing.T) {
	gs := newTestService(t)
	if _, err := gs.GetGameState("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGameState error = %v, want ErrGameNotFound", err)
	}
	if err := gs.HandleMove("missing", "p1", model.Move{}); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("HandleMove error = %v, want ErrGameNotFound", err)
	}
	if _, err := gs.AvailableMoves("missing", "e2"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("AvailableMoves error = %v, want ErrGameNotFound", err)
	}
}

func TestCreateGameTwice(t *testing.T) {
	gm := NewGameManager(time.Hour)
	defer gm.Shutdown()
	if err := gm.CreateGame("fixed", model.NewBoard()); err != nil {
		t.Fatal(err)
	}
	if err := gm.CreateGame("fixed", model.NewBoard()); !errors.Is(err, ErrGameExists) {
		t.Errorf("duplicate CreateGame error = %v, want ErrGameExists", err)
	}
}

func TestPlayThroughService(t *testing.T) {
	gs := newTestService(t)
	gameID, err := gs.CreateGame("")
	if err != nil {
		t.Fatal(err)
	}
	if c, err := gs.JoinGame(gameID, "alice"); err != nil || c != model.White {
		t.Fatalf("JoinGame(alice) = %v, %v", c, err)
	}
	if c, err := gs.JoinGame(gameID, "bob"); err != nil || c != model.Black {
		t.Fatalf("JoinGame(bob) = %v, %v", c, err)
	}

	moves, err := gs.AvailableMoves(gameID, "e2")
	if err != nil {
		t.Fatal(err)
	}
	if got := moves.Strings(); len(got) != 2 || got[0] != "e3" || got[1] != "e4" {
		t.Errorf("e2 moves = %v", got)
	}
	if _, err := gs.AvailableMoves(gameID, "z9"); !errors.Is(err, model.ErrParse) {
		t.Errorf("bad square error = %v, want ErrParse", err)
	}

	move, err := model.ParseMove("e2e4")
	if err != nil {
		t.Fatal(err)
	}
	if err := gs.HandleMove(gameID, "alice", move); err != nil {
		t.Fatal(err)
	}
	if err := gs.HandleMove(gameID, "alice", move); !errors.Is(err, model.ErrNotYourTurn) {
		t.Errorf("second white move error = %v, want ErrNotYourTurn", err)
	}
	if err := gs.Resign(gameID, "bob"); err != nil {
		t.Fatal(err)
	}
	state, err := gs.GetGameState(gameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Status != model.Resigned(model.White) {
		t.Errorf("Status = %v, want white by resignation", state.Status)
	}
}

func TestMatchmaking(t *testing.T) {
	gs := newTestService(t)

	channels := map[string]chan string{
		"alice": make(chan string, 1),
		"bob":   make(chan string, 1),
	}
	for id, ch := range channels {
		if err := gs.RegisterMatchmakingChannel(id, ch); err != nil {
			t.Fatal(err)
		}
	}
	if err := gs.JoinMatchmaking("alice"); err != nil {
		t.Fatal(err)
	}
	if err := gs.JoinMatchmaking("alice"); err == nil {
		t.Error("joining twice should fail")
	}
	if err := gs.JoinMatchmaking("bob"); err != nil {
		t.Fatal(err)
	}

	events := make(map[string]MatchFoundEvent)
	for id, ch := range channels {
		select {
		case payload := <-ch:
			var event MatchFoundEvent
			if err := json.Unmarshal([]byte(payload), &event); err != nil {
				t.Fatal(err)
			}
			events[id] = event
		case <-time.After(2 * time.Second):
			t.Fatalf("no match event for %s", id)
		}
	}

	if events["alice"].GameID == "" || events["alice"].GameID != events["bob"].GameID {
		t.Fatalf("players matched into different games: %+v", events)
	}
	if events["alice"].Color != model.White || events["bob"].Color != model.Black {
		t.Errorf("colors = %s/%s, want white/black", events["alice"].Color, events["bob"].Color)
	}
	state, err := gs.GetGameState(events["alice"].GameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Errorf("players = %+v", state.Players)
	}
}

func TestLeaveMatchmaking(t *testing.T) {
	gs := newTestService(t)
	if err := gs.JoinMatchmaking("alice"); err != nil {
		t.Fatal(err)
	}
	if !gs.LeaveMatchmaking("alice") {
		t.Error("LeaveMatchmaking = false, want true")
	}
	if gs.LeaveMatchmaking("alice") {
		t.Error("second LeaveMatchmaking = true, want false")
	}
}

func waitForMatch(t *testing.T, gs *GameService, playerID string) MatchFoundEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if event, ok := gs.MatchFor(playerID); ok {
			return event
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("no held match for %s", playerID)
	return MatchFoundEvent{}
}

func TestMatchmakingWithoutChannel(t *testing.T) {
	gs := newTestService(t)

	ch := make(chan string, 1)
	if err := gs.RegisterMatchmakingChannel("alice", ch); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"alice", "bob"} {
		if err := gs.JoinMatchmaking(id); err != nil {
			t.Fatal(err)
		}
	}

	bob := waitForMatch(t, gs, "bob")
	var alice MatchFoundEvent
	select {
	case payload := <-ch:
		if err := json.Unmarshal([]byte(payload), &alice); err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no match event for alice")
	}
	if alice.GameID != bob.GameID || bob.Color != model.Black {
		t.Errorf("alice %+v, bob %+v", alice, bob)
	}
	if _, ok := gs.MatchFor("alice"); ok {
		t.Error("match delivered over the channel was also held")
	}
	if _, ok := gs.MatchFor("bob"); ok {
		t.Error("held match reported twice")
	}

	state, err := gs.GetGameState(bob.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if state.Players.Black.ID != "bob" {
		t.Errorf("black = %q, want bob", state.Players.Black.ID)
	}
}

func TestRequeueDropsHeldMatch(t *testing.T) {
	gs := newTestService(t)
	for _, id := range []string{"carol", "dave"} {
		if err := gs.JoinMatchmaking(id); err != nil {
			t.Fatal(err)
		}
	}
	// both held matches are stored together
	waitForMatch(t, gs, "dave")

	if err := gs.JoinMatchmaking("carol"); err != nil {
		t.Fatal(err)
	}
	if event, ok := gs.MatchFor("carol"); ok {
		t.Errorf("requeued player still holds %+v", event)
	}
	if !gs.LeaveMatchmaking("carol") {
		t.Error("carol should be back in the queue")
	}
}
