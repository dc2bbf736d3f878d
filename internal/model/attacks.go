package model

type direction struct {
	df, dr int
}

var (
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs  = append(append([]direction{}, rookDirs...), bishopDirs...)
	knightDirs = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingDirs   = queenDirs
)

// Attacks returns every square side could capture on if it were side's turn.
// Pawns attack only their two diagonals and the king attacks all neighbours
// whether or not stepping there would be safe.
func Attacks(b Board, side Color) SquareSet {
	var attacked SquareSet
	for rank := 0; rank < 8; rank++ {
		for file := 0; file < 8; file++ {
			piece := b.squares[rank][file]
			if piece.IsZero() || piece.Color != side {
				continue
			}
			attacked |= pieceAttacks(&b, piece, Position{File: file, Rank: rank})
		}
	}
	return attacked
}

func pieceAttacks(b *Board, piece Piece, from Position) SquareSet {
	switch piece.Type {
	case Pawn:
		var attacked SquareSet
		for _, df := range []int{-1, 1} {
			if target, ok := from.Offset(df, piece.Color.forward()); ok {
				attacked.Add(target)
			}
		}
		return attacked
	case Knight:
		return stepTargets(from, knightDirs)
	case King:
		return stepTargets(from, kingDirs)
	case Bishop:
		return rayTargets(b, from, bishopDirs)
	case Rook:
		return rayTargets(b, from, rookDirs)
	case Queen:
		return rayTargets(b, from, queenDirs)
	}
	return 0
}

func stepTargets(from Position, dirs []direction) SquareSet {
	var targets SquareSet
	for _, dir := range dirs {
		if target, ok := from.Offset(dir.df, dir.dr); ok {
			targets.Add(target)
		}
	}
	return targets
}

// rayTargets walks each direction up to and including the first occupied
// square.
func rayTargets(b *Board, from Position, dirs []direction) SquareSet {
	var targets SquareSet
	for _, dir := range dirs {
		target, ok := from.Offset(dir.df, dir.dr)
		for ok {
			targets.Add(target)
			if _, occupied := b.PieceAt(target); occupied {
				break
			}
			target, ok = target.Offset(dir.df, dir.dr)
		}
	}
	return targets
}

func IsAttacked(b Board, attacker Color, p Position) bool {
	return Attacks(b, attacker).Has(p)
}

// InCheck reports whether c's king is attacked.
func InCheck(b Board, c Color) bool {
	return IsAttacked(b, c.Other(), b.KingPosition(c))
}
