package model

import "testing"

func perft(b Board, depth int) int {
	if depth == 0 {
		return 1
	}
	moves := AllLegalMoves(b)
	if depth == 1 {
		return len(moves)
	}
	nodes := 0
	for _, m := range moves {
		next := b
		Apply(&next, m)
		nodes += perft(next, depth-1)
	}
	return nodes
}

func TestPerft(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		depths []int
	}{
		{"initial position", StartingLayout, []int{20, 400, 8902}},
		{"kiwipete", "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R", []int{48, 2039}},
		{"rook endgame with en passant pins", "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8", []int{14, 191, 2812}},
		{"promotions", "n1n5/PPPk4/8/8/8/8/4Kppp/5N1N b", []int{24, 496}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustBoard(t, tt.layout)
			for i, want := range tt.depths {
				if got := perft(b, i+1); got != want {
					t.Fatalf("perft depth%d: got %d want %d", i+1, got, want)
				}
			}
		})
	}
}
