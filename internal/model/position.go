package model

import (
	"encoding/json"
	"fmt"
)

// Position identifies a square. File 0 is the a-file and Rank 0 is the first
// rank, so "a1" is Position{0, 0} and "h8" is Position{7, 7}.
type Position struct {
	File int
	Rank int
}

func ParsePosition(s string) (Position, error) {
	if len(s) != 2 {
		return Position{}, fmt.Errorf("%w: square %q must be two characters", ErrParse, s)
	}
	file, rank := s[0], s[1]
	if file < 'a' || file > 'h' {
		return Position{}, fmt.Errorf("%w: square %q has file outside a-h", ErrParse, s)
	}
	if rank < '1' || rank > '8' {
		return Position{}, fmt.Errorf("%w: square %q has rank outside 1-8", ErrParse, s)
	}
	return Position{File: int(file - 'a'), Rank: int(rank - '1')}, nil
}

// MustPosition is ParsePosition for literals known to be valid.
func MustPosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'a'+p.File, p.Rank+1)
}

// Offset steps df files and dr ranks away, reporting false when the result
// leaves the board.
func (p Position) Offset(df, dr int) (Position, bool) {
	target := Position{File: p.File + df, Rank: p.Rank + dr}
	return target, boundaryCheck(target)
}

func (p Position) index() int {
	return p.Rank*8 + p.File
}

func positionFromIndex(i int) Position {
	return Position{File: i % 8, Rank: i / 8}
}

func boundaryCheck(p Position) bool {
	return p.File >= 0 && p.File < 8 && p.Rank >= 0 && p.Rank < 8
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePosition(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
