package gomoku

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var ErrIllegalMove = errors.New("illegal move")

// Agent picks a move for the given colour. The board it receives is a copy;
// the controller validates whatever comes back.
type Agent interface {
	Name() string
	SelectMove(ctx context.Context, board *entity.Board, stone entity.Stone) (entity.Move, error)
}

// Game drives one match: it owns the board, tracks the colour to move and
// optionally holds an agent per colour. A nil agent means the side is played
// from outside, through Step.
type Game struct {
	board  *entity.Board
	black  Agent
	white  Agent
	toMove entity.Stone
	moves  []entity.Move
}

// NewGame starts a match on board with Black to move.
func NewGame(board *entity.Board, black, white Agent) *Game {
	return &Game{
		board:  board,
		black:  black,
		white:  white,
		toMove: entity.Black,
		moves:  make([]entity.Move, 0, board.Size()*board.Size()),
	}
}

// Replay rebuilds a game of the given size from its move history.
func Replay(size int, moves []entity.Move, black, white Agent) (*Game, error) {
	game := NewGame(entity.NewBoard(size), black, white)

	for i, move := range moves {
		if !game.Step(move) {
			return nil, fmt.Errorf("%w: move %d %s", ErrIllegalMove, i, move)
		}
	}

	return game, nil
}

// Step plays move for the side to move. It returns false, leaving the game
// untouched, when the game is over or the move is illegal.
func (that *Game) Step(move entity.Move) bool {
	if that.IsOver() {
		return false
	}

	if !that.board.Place(move, that.toMove) {
		return false
	}

	that.moves = append(that.moves, move)
	that.toMove = that.toMove.Opponent()

	return true
}

func (that *Game) Winner() entity.Stone {
	return Winner(that.board.Grid())
}

func (that *Game) IsDraw() bool {
	return IsDraw(that.board.Grid())
}

func (that *Game) IsOver() bool {
	return IsTerminal(that.board.Grid())
}

func (that *Game) ToMove() entity.Stone {
	return that.toMove
}

// AgentForTurn returns nil when the side to move is driven externally.
func (that *Game) AgentForTurn() Agent {
	if that.toMove == entity.Black {
		return that.black
	}

	return that.white
}

// MaybeAIMove asks the agent of the side to move for a move and applies it.
// It reports whether a move was applied; an illegal proposal is not retried.
func (that *Game) MaybeAIMove(ctx context.Context) (bool, error) {
	if that.IsOver() {
		return false, nil
	}

	agent := that.AgentForTurn()
	if agent == nil {
		return false, nil
	}

	move, err := agent.SelectMove(ctx, that.board.Clone(), that.toMove)
	if err != nil {
		return false, fmt.Errorf("agent %s failed to select move: %w", agent.Name(), err)
	}

	return that.Step(move), nil
}

// Board returns a copy of the live board.
func (that *Game) Board() *entity.Board {
	return that.board.Clone()
}

func (that *Game) Grid() entity.Grid {
	return that.board.Grid()
}

// Moves returns the applied moves in order.
func (that *Game) Moves() []entity.Move {
	moves := make([]entity.Move, len(that.moves))
	copy(moves, that.moves)

	return moves
}
