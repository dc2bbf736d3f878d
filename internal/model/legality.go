package model

// LegalMoves filters Candidates down to the destinations that do not leave the
// mover's own king attacked. Each destination is tried on its own scratch copy
// of b, so castling rook moves and en passant removals are accounted for.
func LegalMoves(b Board, p Position) SquareSet {
	piece, ok := b.PieceAt(p)
	if !ok {
		return 0
	}
	legal := Candidates(b, p)
	for _, to := range legal.Positions() {
		if leavesKingAttacked(b, piece.Color, Move{From: p, To: to}) {
			legal.Remove(to)
		}
	}
	return legal
}

func leavesKingAttacked(b Board, mover Color, m Move) bool {
	scratch := b
	Apply(&scratch, m)
	return InCheck(scratch, mover)
}

// HasLegalMove reports whether the side to move has any legal move at all.
func HasLegalMove(b Board) bool {
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := b.squares[rank][file]
			if piece.IsZero() || piece.Color != b.toMove {
				continue
			}
			if !LegalMoves(b, Position{File: file, Rank: rank}).IsEmpty() {
				return true
			}
		}
	}
	return false
}

// AllLegalMoves lists every legal move for the side to move. Promoting pawn
// moves appear once per promotion piece.
func AllLegalMoves(b Board) []Move {
	var moves []Move
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := b.squares[rank][file]
			if piece.IsZero() || piece.Color != b.toMove {
				continue
			}
			from := Position{File: file, Rank: rank}
			for _, to := range LegalMoves(b, from).Positions() {
				if !IsPromotion(b, from, to) {
					moves = append(moves, Move{From: from, To: to})
					continue
				}
				for _, promotion := range []PieceType{Queen, Rook, Bishop, Knight} {
					moves = append(moves, Move{From: from, To: to, Promotion: promotion})
				}
			}
		}
	}
	return moves
}
