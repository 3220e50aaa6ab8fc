package agent

import (
	"context"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

const GreedyName = "greedy"

// Greedy looks one ply ahead: it wins if it can, otherwise blocks the
// opponent's immediate win, otherwise plays closest to the centre.
type Greedy struct{}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (that *Greedy) Name() string {
	return GreedyName
}

func (that *Greedy) SelectMove(_ context.Context, board *entity.Board, stone entity.Stone) (entity.Move, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return entity.Move{}, ErrNoLegalMoves
	}

	if move, ok := winningMove(board, moves, stone); ok {
		return move, nil
	}

	if move, ok := winningMove(board, moves, stone.Opponent()); ok {
		return move, nil
	}

	return closestToCenter(board.Size(), moves), nil
}

// winningMove returns the first move, in board order, that gives stone five in a row.
func winningMove(board *entity.Board, moves []entity.Move, stone entity.Stone) (entity.Move, bool) {
	for _, move := range moves {
		hypothetical := board.Clone()
		hypothetical.Place(move, stone)

		if gomoku.Winner(hypothetical.Grid()) == stone {
			return move, true
		}
	}

	return entity.Move{}, false
}

// closestToCenter ranks by Manhattan distance, then row, then column. moves
// arrive in row-major order, so keeping the first minimum applies the tie-break.
func closestToCenter(size int, moves []entity.Move) entity.Move {
	center := size / 2

	best := moves[0]
	bestDistance := distance(best, center)

	for _, move := range moves[1:] {
		if d := distance(move, center); d < bestDistance {
			best, bestDistance = move, d
		}
	}

	return best
}

func distance(move entity.Move, center int) int {
	return abs(move.Row-center) + abs(move.Col-center)
}

func abs(value int) int {
	if value < 0 {
		return -value
	}

	return value
}
