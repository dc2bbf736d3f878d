package model

import (
	"errors"
	"testing"
)

func seatedGame(t *testing.T, layout string) *Game {
	t.Helper()
	g := NewGame("game-1", mustBoard(t, layout))
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Fatalf("AddPlayer(alice) = %v, %v", c, err)
	}
	if c, err := g.AddPlayer("bob"); err != nil || c != Black {
		t.Fatalf("AddPlayer(bob) = %v, %v", c, err)
	}
	return g
}

func TestGameAddPlayer(t *testing.T) {
	g := seatedGame(t, StartingLayout)
	if c, err := g.AddPlayer("alice"); err != nil || c != White {
		t.Errorf("rejoin = %v, %v; want White", c, err)
	}
	if _, err := g.AddPlayer("carol"); !errors.Is(err, ErrGameFull) {
		t.Errorf("third player error = %v, want ErrGameFull", err)
	}
	if !g.IsPlayerInGame("bob") || g.IsPlayerInGame("carol") {
		t.Error("IsPlayerInGame gave the wrong answer")
	}
}

func TestGameMakeMoveTurnOwnership(t *testing.T) {
	g := seatedGame(t, StartingLayout)
	e2e4 := Move{From: MustPosition("e2"), To: MustPosition("e4")}

	if err := g.MakeMove("bob", e2e4); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("black moving first error = %v, want ErrNotYourTurn", err)
	}
	if err := g.MakeMove("carol", e2e4); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger moving error = %v, want ErrNotInGame", err)
	}
	if err := g.MakeMove("alice", e2e4); err != nil {
		t.Fatal(err)
	}

	state := g.GetState()
	if state.ToMove != Black || state.Sound != "move" {
		t.Errorf("ToMove/Sound = %s/%s", state.ToMove, state.Sound)
	}
	if state.LastMove == nil || state.LastMove.From != MustPosition("e2") {
		t.Errorf("LastMove = %+v", state.LastMove)
	}
	if state.Board.Layout != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR" {
		t.Errorf("Layout = %s", state.Board.Layout)
	}
	if state.Version == 0 {
		t.Error("a move should bump the version")
	}
}

func TestGameCapturesAndCheck(t *testing.T) {
	g := seatedGame(t, StartingLayout)
	for _, step := range []struct {
		player string
		move   string
	}{
		{"alice", "e2e4"},
		{"bob", "d7d5"},
		{"alice", "e4d5"},
		{"bob", "d8d5"},
		{"alice", "b1c3"},
		{"bob", "d5e5"},
	} {
		if err := g.MakeMove(step.player, mustMove(t, step.move)); err != nil {
			t.Fatalf("%s %s: %v", step.player, step.move, err)
		}
	}

	state := g.GetState()
	if state.CapturedPieces.WhitePoints != 1 || state.CapturedPieces.BlackPoints != 1 {
		t.Errorf("points = %d/%d, want 1/1", state.CapturedPieces.WhitePoints, state.CapturedPieces.BlackPoints)
	}
	if len(state.CapturedPieces.White) != 1 || state.CapturedPieces.White[0] != (Piece{Type: Pawn, Color: Black}) {
		t.Errorf("white captured %v", state.CapturedPieces.White)
	}
	if !state.IsCheck || state.Sound != "check" {
		t.Errorf("IsCheck/Sound = %v/%s, want true/check", state.IsCheck, state.Sound)
	}
}

func TestGameResign(t *testing.T) {
	g := seatedGame(t, StartingLayout)
	if err := g.Resign("bob"); !errors.Is(err, ErrNotYourTurn) {
		t.Errorf("resign off turn error = %v, want ErrNotYourTurn", err)
	}
	if err := g.Resign("alice"); err != nil {
		t.Fatal(err)
	}
	state := g.GetState()
	if state.Status != Resigned(Black) || state.StatusText != "Black won by resignation" {
		t.Errorf("Status = %v (%s)", state.Status, state.StatusText)
	}
	if err := g.MakeMove("alice", mustMove(t, "e2e4")); !errors.Is(err, ErrGameOver) {
		t.Errorf("move after resign error = %v, want ErrGameOver", err)
	}
}

func TestGameDrawOffer(t *testing.T) {
	g := seatedGame(t, StartingLayout)

	drawn, err := g.OfferDraw("alice")
	if err != nil || drawn {
		t.Fatalf("first offer = %v, %v", drawn, err)
	}
	if state := g.GetState(); state.DrawOffer == nil || state.DrawOffer.OfferedBy != White {
		t.Fatalf("DrawOffer = %+v", state.DrawOffer)
	}

	// Repeating one's own offer does not accept it.
	if drawn, err := g.OfferDraw("alice"); err != nil || drawn {
		t.Fatalf("repeated offer = %v, %v", drawn, err)
	}

	// A move withdraws the offer.
	if err := g.MakeMove("alice", mustMove(t, "e2e4")); err != nil {
		t.Fatal(err)
	}
	if state := g.GetState(); state.DrawOffer != nil {
		t.Fatalf("offer should be withdrawn by a move, got %+v", state.DrawOffer)
	}

	if _, err := g.OfferDraw("bob"); err != nil {
		t.Fatal(err)
	}
	drawn, err = g.OfferDraw("alice")
	if err != nil || !drawn {
		t.Fatalf("accepting offer = %v, %v", drawn, err)
	}
	if state := g.GetState(); state.Status != DrawAgreed {
		t.Errorf("Status = %v, want DrawAgreed", state.Status)
	}
	if _, err := g.OfferDraw("bob"); !errors.Is(err, ErrGameOver) {
		t.Errorf("offer after draw error = %v, want ErrGameOver", err)
	}
	if _, err := g.OfferDraw("carol"); !errors.Is(err, ErrNotInGame) {
		t.Errorf("stranger offer error = %v, want ErrNotInGame", err)
	}
}

func TestGameAvailableMoves(t *testing.T) {
	g := seatedGame(t, StartingLayout)
	if got := g.AvailableMoves(MustPosition("g1")); got != squares("f3", "h3") {
		t.Errorf("g1 moves = %v", got.Strings())
	}
}
