package model

import (
	"sort"
	"testing"
)

func mustBoard(t *testing.T, s string) Board {
	t.Helper()
	b, err := ParseBoard(s)
	if err != nil {
		t.Fatalf("ParseBoard(%q): %v", s, err)
	}
	return b
}

func squares(names ...string) SquareSet {
	var s SquareSet
	for _, name := range names {
		s.Add(MustPosition(name))
	}
	return s
}

func withEnPassant(b Board, target string) Board {
	b.enPassant = MustPosition(target)
	b.hasEnPassant = true
	return b
}

func sorted(s []string) []string {
	out := append([]string(nil), s...)
	sort.Strings(out)
	return out
}
