package model

import (
	"fmt"
	"strings"
)

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// Value is the conventional material value; the king has none.
func (t PieceType) Value() int {
	switch t {
	case Pawn:
		return 1
	case Knight, Bishop:
		return 3
	case Rook:
		return 5
	case Queen:
		return 9
	}
	return 0
}

func (t PieceType) getPieceNotation() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

// IsPromotion reports whether a pawn may promote to t.
func (t PieceType) IsPromotion() bool {
	return t == Knight || t == Bishop || t == Rook || t == Queen
}

// ParsePromotion accepts a single piece letter (n, b, r, q in either case) or
// a full piece type name.
func ParsePromotion(s string) (PieceType, error) {
	switch strings.ToLower(s) {
	case "n", string(Knight):
		return Knight, nil
	case "b", string(Bishop):
		return Bishop, nil
	case "r", string(Rook):
		return Rook, nil
	case "q", string(Queen):
		return Queen, nil
	}
	return "", fmt.Errorf("%w: %q is not a promotion piece", ErrParse, s)
}

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Other() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the rank direction pawns of c advance in.
func (c Color) forward() int {
	if c == White {
		return 1
	}
	return -1
}

func (c Color) homeRank() int {
	if c == White {
		return 0
	}
	return 7
}

func (c Color) pawnRank() int {
	if c == White {
		return 1
	}
	return 6
}

func (c Color) promotionRank() int {
	if c == White {
		return 7
	}
	return 0
}

func (c Color) String() string {
	if c == White {
		return "White"
	}
	return "Black"
}

// Piece is an immutable value. The zero Piece means "no piece".
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

func (p Piece) IsZero() bool {
	return p.Type == ""
}

// Char is the FEN letter, uppercase for white.
func (p Piece) Char() string {
	c := p.Type.getPieceNotation()
	if p.Color == Black {
		return strings.ToLower(c)
	}
	return c
}

var unicodeSymbols = map[Piece]string{
	{King, White}: "♔", {Queen, White}: "♕", {Rook, White}: "♖",
	{Bishop, White}: "♗", {Knight, White}: "♘", {Pawn, White}: "♙",
	{King, Black}: "♚", {Queen, Black}: "♛", {Rook, Black}: "♜",
	{Bishop, Black}: "♝", {Knight, Black}: "♞", {Pawn, Black}: "♟",
}

func (p Piece) Symbol() string {
	return unicodeSymbols[p]
}

func (p Piece) String() string {
	return p.Char()
}

func PieceFromChar(r rune) (Piece, bool) {
	color := White
	if r >= 'a' && r <= 'z' {
		color = Black
		r -= 'a' - 'A'
	}
	var t PieceType
	switch r {
	case 'K':
		t = King
	case 'Q':
		t = Queen
	case 'R':
		t = Rook
	case 'B':
		t = Bishop
	case 'N':
		t = Knight
	case 'P':
		t = Pawn
	default:
		return Piece{}, false
	}
	return Piece{Type: t, Color: color}, true
}
