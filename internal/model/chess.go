package model

import "fmt"

// ChessGame enforces the rules for one game. It owns its Board exclusively and
// does no locking: callers sharing a ChessGame must serialize access.
type ChessGame struct {
	board  Board
	status GameStatus
}

// NewChessGame starts a game from b. If the side to move already has no legal
// move the game starts out as checkmate or stalemate.
func NewChessGame(b Board) *ChessGame {
	g := &ChessGame{board: b, status: InProgress}
	g.updateStatus()
	return g
}

func (g *ChessGame) Status() GameStatus {
	return g.status
}

// Board returns a copy of the current position.
func (g *ChessGame) Board() Board {
	return g.board
}

func (g *ChessGame) ToMove() Color {
	return g.board.toMove
}

func (g *ChessGame) InCheck() bool {
	return InCheck(g.board, g.board.toMove)
}

// AvailableMoves returns the legal destinations for the piece on p. It is
// empty for an off-board or empty square, a piece of the side not to move,
// or a finished game.
func (g *ChessGame) AvailableMoves(p Position) SquareSet {
	if !boundaryCheck(p) || g.status.IsOver() {
		return 0
	}
	piece, ok := g.board.PieceAt(p)
	if !ok || piece.Color != g.board.toMove {
		return 0
	}
	return LegalMoves(g.board, p)
}

// DoMove validates and plays m. On error the game is unchanged.
func (g *ChessGame) DoMove(m Move) (MoveResult, error) {
	if err := g.validate(m); err != nil {
		return MoveResult{}, err
	}
	result := Apply(&g.board, m)
	g.updateStatus()
	return result, nil
}

func (g *ChessGame) validate(m Move) error {
	if g.status.IsOver() {
		return fmt.Errorf("move %s: %w (%s)", m, ErrGameOver, g.status)
	}
	if !boundaryCheck(m.From) || !boundaryCheck(m.To) {
		return fmt.Errorf("move %s: %w: square off the board", m, ErrIllegalMove)
	}
	piece, ok := g.board.PieceAt(m.From)
	if !ok {
		return fmt.Errorf("move %s: %w: no piece on %s", m, ErrIllegalMove, m.From)
	}
	if piece.Color != g.board.toMove {
		return fmt.Errorf("move %s: %w: it is %s's turn", m, ErrIllegalMove, g.board.toMove)
	}
	if !LegalMoves(g.board, m.From).Has(m.To) {
		return fmt.Errorf("move %s: %w", m, ErrIllegalMove)
	}
	if IsPromotion(g.board, m.From, m.To) {
		if !m.Promotion.IsPromotion() {
			return fmt.Errorf("move %s: %w: promotion to knight, bishop, rook or queen required", m, ErrPromotionMismatch)
		}
	} else if m.Promotion != "" {
		return fmt.Errorf("move %s: %w: not a promoting move", m, ErrPromotionMismatch)
	}
	return nil
}

// Resign ends the game in favour of the side not to move.
func (g *ChessGame) Resign() error {
	if g.status.IsOver() {
		return fmt.Errorf("resign: %w (%s)", ErrGameOver, g.status)
	}
	g.status = Resigned(g.board.toMove.Other())
	return nil
}

// Draw ends the game by agreement.
func (g *ChessGame) Draw() error {
	if g.status.IsOver() {
		return fmt.Errorf("draw: %w (%s)", ErrGameOver, g.status)
	}
	g.status = DrawAgreed
	return nil
}

func (g *ChessGame) updateStatus() {
	if HasLegalMove(g.board) {
		g.status = InProgress
		return
	}
	if g.InCheck() {
		g.status = Checkmate(g.board.toMove.Other())
	} else {
		g.status = Stalemate
	}
}
