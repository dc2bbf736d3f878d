package model

import (
	"encoding/json"
	"math/bits"
	"strings"
)

// SquareSet is a set of board squares stored as a 64-bit map, bit i holding
// the square with index rank*8+file.
type SquareSet uint64

func (s SquareSet) Has(p Position) bool {
	return s&(1<<uint(p.index())) != 0
}

func (s *SquareSet) Add(p Position) {
	*s |= 1 << uint(p.index())
}

func (s *SquareSet) Remove(p Position) {
	*s &^= 1 << uint(p.index())
}

func (s SquareSet) IsEmpty() bool {
	return s == 0
}

func (s SquareSet) Len() int {
	return bits.OnesCount64(uint64(s))
}

// Positions lists the members from a1 upward, rank by rank.
func (s SquareSet) Positions() []Position {
	positions := make([]Position, 0, s.Len())
	for rest := uint64(s); rest != 0; rest &= rest - 1 {
		positions = append(positions, positionFromIndex(bits.TrailingZeros64(rest)))
	}
	return positions
}

func (s SquareSet) Strings() []string {
	out := make([]string, 0, s.Len())
	for _, p := range s.Positions() {
		out = append(out, p.String())
	}
	return out
}

// String draws the set as an 8x8 grid of 0s and 1s, rank 8 on top.
func (s SquareSet) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		sb.WriteByte('\n')
		sb.WriteByte(byte('1' + rank))
		for file := 0; file < 8; file++ {
			if s.Has(Position{File: file, Rank: rank}) {
				sb.WriteString(" 1")
			} else {
				sb.WriteString(" 0")
			}
		}
	}
	sb.WriteString("\n  a b c d e f g h")
	return sb.String()
}

func (s SquareSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func SquareSetOf(positions ...Position) SquareSet {
	var s SquareSet
	for _, p := range positions {
		s.Add(p)
	}
	return s
}
