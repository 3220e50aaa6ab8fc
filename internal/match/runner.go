package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

const DefaultMaxIllegalRetries = 3

var (
	ErrTooManyIllegalMoves = errors.New("agent produced too many illegal moves in a row")
	ErrMissingAgent        = errors.New("both sides need an agent")
)

// Observer is called after every accepted move.
type Observer func(game *gomoku.Game, move entity.Move)

// Result of a finished match. Winner is Empty on a draw.
type Result struct {
	Black  string        `json:"black"`
	White  string        `json:"white"`
	Winner entity.Stone  `json:"winner"`
	Draw   bool          `json:"draw"`
	Moves  []entity.Move `json:"moves"`
}

// Outcome - BLACK, WHITE or DRAW.
func (that Result) Outcome() string {
	switch that.Winner {
	case entity.Black:
		return "BLACK"
	case entity.White:
		return "WHITE"
	default:
		return "DRAW"
	}
}

// IllegalMoveError tells which side gave up the match by exceeding the retry budget.
type IllegalMoveError struct {
	Stone entity.Stone
	Agent string
	Count int
}

func (that *IllegalMoveError) Error() string {
	return fmt.Sprintf("%s: %s (%s) %d times", ErrTooManyIllegalMoves, that.Agent, that.Stone.Name(), that.Count)
}

func (that *IllegalMoveError) Unwrap() error {
	return ErrTooManyIllegalMoves
}

// Runner plays agent against agent until the game is over.
type Runner struct {
	logger            *slog.Logger
	boardSize         int
	maxIllegalRetries int
	observer          Observer
}

func NewRunner(logger *slog.Logger, boardSize, maxIllegalRetries int) *Runner {
	if maxIllegalRetries <= 0 {
		maxIllegalRetries = DefaultMaxIllegalRetries
	}

	return &Runner{
		logger:            logger,
		boardSize:         boardSize,
		maxIllegalRetries: maxIllegalRetries,
	}
}

// WithObserver returns a copy of the runner reporting every accepted move.
func (that *Runner) WithObserver(observer Observer) *Runner {
	clone := *that
	clone.observer = observer

	return &clone
}

// Play runs one match. Agent errors (including ErrNoLegalMoves) end the match
// with an error; the process keeps going.
func (that *Runner) Play(ctx context.Context, black, white gomoku.Agent) (Result, error) {
	if black == nil || white == nil {
		return Result{}, ErrMissingAgent
	}

	log := that.logger.With("method", "Play", "black", black.Name(), "white", white.Name())

	game := gomoku.NewGame(entity.NewBoard(that.boardSize), black, white)
	illegalStreak := 0

	for !game.IsOver() {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("match interrupted: %w", err)
		}

		stone := game.ToMove()
		agent := game.AgentForTurn()

		applied, err := game.MaybeAIMove(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("match aborted: %w", err)
		}

		if !applied {
			illegalStreak++
			log.Debug("illegal move rejected", "stone", stone.Name(), "streak", illegalStreak)

			if illegalStreak >= that.maxIllegalRetries {
				return Result{}, &IllegalMoveError{Stone: stone, Agent: agent.Name(), Count: illegalStreak}
			}

			continue
		}

		illegalStreak = 0

		if that.observer != nil {
			moves := game.Moves()
			that.observer(game, moves[len(moves)-1])
		}
	}

	result := Result{
		Black:  black.Name(),
		White:  white.Name(),
		Winner: game.Winner(),
		Draw:   game.IsDraw(),
		Moves:  game.Moves(),
	}

	log.Debug("match finished", "outcome", result.Outcome(), "moves", len(result.Moves))

	return result, nil
}
