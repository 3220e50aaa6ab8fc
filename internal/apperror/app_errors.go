package apperror

import "errors"

var (
	ErrGameFinished   = errors.New("game is already finished")
	ErrNotYourTurn    = errors.New("it's not your turn")
	ErrIllegalMove    = errors.New("illegal move")
	ErrNoActiveGame   = errors.New("no active game")
	ErrGameInProgress = errors.New("game already in progress")
)
