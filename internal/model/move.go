package model

import (
	"fmt"
	"strings"
)

// Move is a request to move the piece on From to To. Promotion names the
// piece a pawn becomes on its final rank and is empty otherwise.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// ParseMove reads coordinate notation: "e2e4", or "e7e8=Q" for a promotion.
func ParseMove(s string) (Move, error) {
	s = strings.TrimSpace(s)
	if len(s) != 4 && len(s) != 6 {
		return Move{}, fmt.Errorf("%w: move %q must look like e2e4 or e7e8=Q", ErrParse, s)
	}
	from, err := ParsePosition(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := ParsePosition(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := Move{From: from, To: to}
	if len(s) == 6 {
		if s[4] != '=' {
			return Move{}, fmt.Errorf("%w: move %q must separate the promotion with '='", ErrParse, s)
		}
		if m.Promotion, err = ParsePromotion(s[5:]); err != nil {
			return Move{}, err
		}
	}
	return m, nil
}

func (m Move) String() string {
	if m.Promotion == "" {
		return m.From.String() + m.To.String()
	}
	return m.From.String() + m.To.String() + "=" + m.Promotion.getPieceNotation()
}
