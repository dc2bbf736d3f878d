package model

import (
	"fmt"
	"strings"
)

// StartingLayout is the layout field of the standard starting position.
const StartingLayout = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// CastlingRights holds the four castling flags. A flag only ever goes from
// true to false.
type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func (r CastlingRights) Has(c Color, kingside bool) bool {
	switch {
	case c == White && kingside:
		return r.WhiteKingside
	case c == White:
		return r.WhiteQueenside
	case kingside:
		return r.BlackKingside
	default:
		return r.BlackQueenside
	}
}

func (r *CastlingRights) clear(c Color, kingside bool) {
	switch {
	case c == White && kingside:
		r.WhiteKingside = false
	case c == White:
		r.WhiteQueenside = false
	case kingside:
		r.BlackKingside = false
	default:
		r.BlackQueenside = false
	}
}

// String uses the FEN castling field format ("KQkq", "-" when none remain).
func (r CastlingRights) String() string {
	var sb strings.Builder
	if r.WhiteKingside {
		sb.WriteByte('K')
	}
	if r.WhiteQueenside {
		sb.WriteByte('Q')
	}
	if r.BlackKingside {
		sb.WriteByte('k')
	}
	if r.BlackQueenside {
		sb.WriteByte('q')
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

// Board is the full position state. It is a plain value: assigning a Board
// copies every square, which is how scratch boards are made.
type Board struct {
	squares      [8][8]Piece // [rank][file]
	toMove       Color
	castling     CastlingRights
	enPassant    Position
	hasEnPassant bool
}

// BoardState is the JSON view of a board sent to clients. Rows run from rank
// 8 down to rank 1, matching how the board is drawn.
type BoardState struct {
	Board             [][]*Piece     `json:"board"`
	Layout            string         `json:"layout"`
	ToMove            Color          `json:"toMove"`
	Castling          CastlingRights `json:"castling"`
	EnPassantTarget   *Position      `json:"enPassantTarget"`
	WhiteKingPosition Position       `json:"whiteKingPosition"`
	BlackKingPosition Position       `json:"blackKingPosition"`
}

func NewBoard() Board {
	b, err := ParseBoard(StartingLayout)
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBoard builds a board from a layout string such as
// "1k4r1/3r4/8/8/8/8/4r2K/8". An optional second field, "w" or "b", names the
// side to move; white moves otherwise. Castling rights are granted where king
// and rook still stand on their home squares.
func ParseBoard(s string) (Board, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 2 {
		return Board{}, fmt.Errorf("%w: board string %q must be a layout and an optional side to move", ErrParse, s)
	}

	b := Board{toMove: White}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return Board{}, fmt.Errorf("%w: layout has %d ranks, want 8", ErrParse, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for _, r := range row {
			if r >= '1' && r <= '8' {
				file += int(r - '0')
				continue
			}
			piece, ok := PieceFromChar(r)
			if !ok {
				return Board{}, fmt.Errorf("%w: unknown piece letter %q on rank %d", ErrParse, r, rank+1)
			}
			if file > 7 {
				return Board{}, fmt.Errorf("%w: rank %d has more than 8 files", ErrParse, rank+1)
			}
			b.squares[rank][file] = piece
			file++
		}
		if file != 8 {
			return Board{}, fmt.Errorf("%w: rank %d describes %d files, want 8", ErrParse, rank+1, file)
		}
	}

	if len(fields) == 2 {
		switch fields[1] {
		case "w":
			b.toMove = White
		case "b":
			b.toMove = Black
		default:
			return Board{}, fmt.Errorf("%w: side to move %q must be w or b", ErrParse, fields[1])
		}
	}

	for _, c := range []Color{White, Black} {
		if n := b.count(Piece{Type: King, Color: c}); n != 1 {
			return Board{}, fmt.Errorf("%w: %s has %d kings, want 1", ErrParse, c, n)
		}
	}
	b.castling = b.inferCastlingRights()
	return b, nil
}

func (b *Board) count(piece Piece) int {
	n := 0
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if b.squares[rank][file] == piece {
				n++
			}
		}
	}
	return n
}

func (b *Board) inferCastlingRights() CastlingRights {
	var rights CastlingRights
	for _, c := range []Color{White, Black} {
		rank := c.homeRank()
		if b.squares[rank][4] != (Piece{Type: King, Color: c}) {
			continue
		}
		rook := Piece{Type: Rook, Color: c}
		if b.squares[rank][7] == rook {
			setRight(&rights, c, true)
		}
		if b.squares[rank][0] == rook {
			setRight(&rights, c, false)
		}
	}
	return rights
}

func setRight(r *CastlingRights, c Color, kingside bool) {
	switch {
	case c == White && kingside:
		r.WhiteKingside = true
	case c == White:
		r.WhiteQueenside = true
	case kingside:
		r.BlackKingside = true
	default:
		r.BlackQueenside = true
	}
}

func (b *Board) PieceAt(p Position) (Piece, bool) {
	piece := b.squares[p.Rank][p.File]
	return piece, !piece.IsZero()
}

func (b *Board) at(p Position) Piece {
	return b.squares[p.Rank][p.File]
}

func (b *Board) set(p Position, piece Piece) {
	b.squares[p.Rank][p.File] = piece
}

func (b *Board) clear(p Position) {
	b.squares[p.Rank][p.File] = Piece{}
}

func (b *Board) ToMove() Color {
	return b.toMove
}

func (b *Board) CastlingRights() CastlingRights {
	return b.castling
}

func (b *Board) EnPassantTarget() (Position, bool) {
	return b.enPassant, b.hasEnPassant
}

// KingPosition finds c's king. Every board built by ParseBoard and advanced by
// Apply has one.
func (b *Board) KingPosition(c Color) Position {
	king := Piece{Type: King, Color: c}
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if b.squares[rank][file] == king {
				return Position{File: file, Rank: rank}
			}
		}
	}
	return Position{File: -1, Rank: -1}
}

// Layout prints the layout field that ParseBoard reads.
func (b *Board) Layout() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := b.squares[rank][file]
			if piece.IsZero() {
				empty++
				continue
			}
			if empty > 0 {
				fmt.Fprintf(&sb, "%d", empty)
				empty = 0
			}
			sb.WriteString(piece.Char())
		}
		if empty > 0 {
			fmt.Fprintf(&sb, "%d", empty)
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}
	return sb.String()
}

// String draws the board with rank 8 on top, blank squares as spaces.
func (b *Board) String() string {
	return b.draw(Piece.Char)
}

// Pretty is String with unicode chess glyphs in place of letters.
func (b *Board) Pretty() string {
	return b.draw(Piece.Symbol)
}

func (b *Board) draw(glyph func(Piece) string) string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "\n%d", rank+1)
		for file := 0; file < 8; file++ {
			piece := b.squares[rank][file]
			if piece.IsZero() {
				sb.WriteString("  ")
			} else {
				sb.WriteString(" " + glyph(piece))
			}
		}
	}
	sb.WriteString("\n  a b c d e f g h")
	return sb.String()
}

func (b *Board) State() BoardState {
	state := BoardState{
		Board:             make([][]*Piece, 0, 8),
		Layout:            b.Layout(),
		ToMove:            b.toMove,
		Castling:          b.castling,
		WhiteKingPosition: b.KingPosition(White),
		BlackKingPosition: b.KingPosition(Black),
	}
	for rank := 7; rank >= 0; rank-- {
		row := make([]*Piece, 8)
		for file := 0; file < 8; file++ {
			if piece := b.squares[rank][file]; !piece.IsZero() {
				row[file] = &piece
			}
		}
		state.Board = append(state.Board, row)
	}
	if b.hasEnPassant {
		target := b.enPassant
		state.EnPassantTarget = &target
	}
	return state
}
