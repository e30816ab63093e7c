package errors

import "errors"

var (
	ErrInvalidMove      = errors.New("move is out of bounds or the cell is already occupied")
	ErrOutOfBounds      = errors.New("coordinate is outside the board")
	ErrNoLegalMoves     = errors.New("no legal moves available")
	ErrGameNotFound     = errors.New("game not found")
	ErrGameFinished     = errors.New("game is already finished")
	ErrNotYourTurn      = errors.New("it is not this player's turn")
	ErrCreateGameFailed = errors.New("create game failed")
	ErrInternal         = errors.New("internal error")
)
