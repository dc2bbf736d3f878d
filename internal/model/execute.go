package model

// CastleRookMove records the rook relocation that accompanies castling.
type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// MoveResult describes what Apply did to the board.
type MoveResult struct {
	Piece          Piece           `json:"piece"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	CapturedPiece  *Piece          `json:"capturedPiece"`
	CapturedAt     *Position       `json:"capturedAt"`
	CastleRookMove *CastleRookMove `json:"castleRookMove"`
	Promotion      PieceType       `json:"promotion,omitempty"`
}

// Apply performs m on b without checking legality: the caller must have
// validated m against LegalMoves. A promoting move with no promotion piece
// promotes to a queen.
func Apply(b *Board, m Move) MoveResult {
	piece := b.at(m.From)
	mover := piece.Color
	result := MoveResult{Piece: piece, From: m.From, To: m.To}

	if captured, ok := b.PieceAt(m.To); ok {
		result.CapturedPiece = &captured
		at := m.To
		result.CapturedAt = &at
	}

	switch piece.Type {
	case Pawn:
		if result.CapturedPiece == nil && isEnPassantCapture(b, piece, m.To) {
			victimAt := Position{File: m.To.File, Rank: m.From.Rank}
			victim := b.at(victimAt)
			result.CapturedPiece = &victim
			result.CapturedAt = &victimAt
			b.clear(victimAt)
		}
		if m.To.Rank == mover.promotionRank() {
			promotion := m.Promotion
			if !promotion.IsPromotion() {
				promotion = Queen
			}
			result.Promotion = promotion
			piece = Piece{Type: promotion, Color: mover}
		}
	case King:
		if side, ok := castleSideFor(piece, m.From, m.To); ok {
			rank := mover.homeRank()
			rookFrom := Position{File: side.rookFile, Rank: rank}
			rookTo := Position{File: side.rookTo, Rank: rank}
			b.set(rookTo, b.at(rookFrom))
			b.clear(rookFrom)
			result.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
		}
	}

	b.clear(m.From)
	b.set(m.To, piece)

	updateCastlingRights(b, result)
	updateEnPassantTarget(b, result)
	b.toMove = mover.Other()
	return result
}

// updateCastlingRights drops rights for a king that moved, for a rook leaving
// its corner, and for any corner that was captured into.
func updateCastlingRights(b *Board, result MoveResult) {
	if result.Piece.Type == King {
		b.castling.clear(result.Piece.Color, true)
		b.castling.clear(result.Piece.Color, false)
	}
	for _, p := range []Position{result.From, result.To} {
		for _, c := range []Color{White, Black} {
			rank := c.homeRank()
			if p == (Position{File: 7, Rank: rank}) {
				b.castling.clear(c, true)
			}
			if p == (Position{File: 0, Rank: rank}) {
				b.castling.clear(c, false)
			}
		}
	}
}

func updateEnPassantTarget(b *Board, result MoveResult) {
	b.hasEnPassant = false
	b.enPassant = Position{}
	if result.Piece.Type != Pawn {
		return
	}
	switch result.To.Rank - result.From.Rank {
	case 2, -2:
		b.enPassant = Position{File: result.From.File, Rank: (result.From.Rank + result.To.Rank) / 2}
		b.hasEnPassant = true
	}
}
