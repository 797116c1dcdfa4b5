package apperror

import "errors"

var (
	ErrGameFinished     = errors.New("game is already finished")
	ErrGameIsNotStarted = errors.New("game is not started")
	ErrNotYourTurn      = errors.New("it's not your turn")
	ErrCellOccupied     = errors.New("cell is already occupied")
	ErrGameNotFound     = errors.New("game not found")

	ErrStrategyNotFound = errors.New("strategy not found")
	ErrCorruptStrategy  = errors.New("strategy artifact is corrupt")
)
