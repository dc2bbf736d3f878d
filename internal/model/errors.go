package model

import "errors"

var (
	ErrParse             = errors.New("parse error")
	ErrGameOver          = errors.New("game has already ended")
	ErrIllegalMove       = errors.New("illegal move")
	ErrPromotionMismatch = errors.New("promotion mismatch")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrNotInGame         = errors.New("player not in game")
	ErrGameFull          = errors.New("game is full")
)
