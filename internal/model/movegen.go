package model

// Candidates returns the squares the piece on p could move to under its own
// movement rule, ignoring whether its king would be left attacked. An empty
// square yields an empty set.
func Candidates(b Board, p Position) SquareSet {
	piece, ok := b.PieceAt(p)
	if !ok {
		return 0
	}
	switch piece.Type {
	case Pawn:
		return pawnCandidates(&b, piece, p)
	case Knight:
		return stepTargets(p, knightDirs) &^ occupiedBy(&b, piece.Color)
	case Bishop:
		return rayTargets(&b, p, bishopDirs) &^ occupiedBy(&b, piece.Color)
	case Rook:
		return rayTargets(&b, p, rookDirs) &^ occupiedBy(&b, piece.Color)
	case Queen:
		return rayTargets(&b, p, queenDirs) &^ occupiedBy(&b, piece.Color)
	case King:
		return (stepTargets(p, kingDirs) &^ occupiedBy(&b, piece.Color)) | castlingCandidates(&b, piece, p)
	}
	return 0
}

func occupiedBy(b *Board, c Color) SquareSet {
	var occupied SquareSet
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			if piece := b.squares[rank][file]; !piece.IsZero() && piece.Color == c {
				occupied.Add(Position{File: file, Rank: rank})
			}
		}
	}
	return occupied
}

func pawnCandidates(b *Board, piece Piece, from Position) SquareSet {
	var moves SquareSet
	dir := piece.Color.forward()

	// Check move forward 1
	if one, ok := from.Offset(0, dir); ok && b.at(one).IsZero() {
		moves.Add(one)
		// Check move forward 2 from the starting rank
		if from.Rank == piece.Color.pawnRank() {
			if two, ok := from.Offset(0, 2*dir); ok && b.at(two).IsZero() {
				moves.Add(two)
			}
		}
	}

	// Captures, including onto the en passant target
	for _, df := range []int{-1, 1} {
		target, ok := from.Offset(df, dir)
		if !ok {
			continue
		}
		if victim, occupied := b.PieceAt(target); occupied {
			if victim.Color != piece.Color {
				moves.Add(target)
			}
			continue
		}
		if isEnPassantCapture(b, piece, target) {
			moves.Add(target)
		}
	}
	return moves
}

// isEnPassantCapture reports whether a pawn landing on the empty square target
// captures en passant. The target must sit on the rank the opponent's pawn
// skipped, so only the side facing the double step can use it.
func isEnPassantCapture(b *Board, pawn Piece, target Position) bool {
	ep, ok := b.EnPassantTarget()
	if !ok || ep != target {
		return false
	}
	return target.Rank == pawn.Color.Other().pawnRank()+pawn.Color.Other().forward()
}

type castleSide struct {
	kingside bool
	rookFile int
	kingTo   int
	rookTo   int
	between  []int // files that must be empty
	path     []int // files the king stands on, passes or lands on
}

var castleSides = []castleSide{
	{kingside: true, rookFile: 7, kingTo: 6, rookTo: 5, between: []int{5, 6}, path: []int{4, 5, 6}},
	{kingside: false, rookFile: 0, kingTo: 2, rookTo: 3, between: []int{1, 2, 3}, path: []int{4, 3, 2}},
}

func castlingCandidates(b *Board, king Piece, from Position) SquareSet {
	var moves SquareSet
	rank := king.Color.homeRank()
	if from != (Position{File: 4, Rank: rank}) {
		return moves
	}
	var enemyAttacks SquareSet
	computed := false
	for _, side := range castleSides {
		if !b.castling.Has(king.Color, side.kingside) {
			continue
		}
		if b.squares[rank][side.rookFile] != (Piece{Type: Rook, Color: king.Color}) {
			continue
		}
		if !filesEmpty(b, rank, side.between) {
			continue
		}
		if !computed {
			enemyAttacks = Attacks(*b, king.Color.Other())
			computed = true
		}
		safe := true
		for _, file := range side.path {
			if enemyAttacks.Has(Position{File: file, Rank: rank}) {
				safe = false
				break
			}
		}
		if safe {
			moves.Add(Position{File: side.kingTo, Rank: rank})
		}
	}
	return moves
}

func filesEmpty(b *Board, rank int, files []int) bool {
	for _, file := range files {
		if !b.squares[rank][file].IsZero() {
			return false
		}
	}
	return true
}

// castleSideFor returns the castling side a king move from -> to performs, if
// any.
func castleSideFor(king Piece, from, to Position) (castleSide, bool) {
	rank := king.Color.homeRank()
	if king.Type != King || from != (Position{File: 4, Rank: rank}) || to.Rank != rank {
		return castleSide{}, false
	}
	for _, side := range castleSides {
		if to.File == side.kingTo {
			return side, true
		}
	}
	return castleSide{}, false
}

// IsPromotion reports whether moving the piece on from to to is a pawn
// reaching its final rank.
func IsPromotion(b Board, from, to Position) bool {
	piece, ok := b.PieceAt(from)
	return ok && piece.Type == Pawn && to.Rank == piece.Color.promotionRank()
}
