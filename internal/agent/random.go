package agent

import (
	"context"
	"math/rand"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const RandomName = "random"

// Random picks uniformly among the legal moves.
type Random struct {
	rnd *rand.Rand
}

func NewRandom(seed int64) *Random {
	return &Random{
		rnd: rand.New(rand.NewSource(seed)), //nolint: gosec // move choice, not security
	}
}

func (that *Random) Name() string {
	return RandomName
}

func (that *Random) SelectMove(_ context.Context, board *entity.Board, _ entity.Stone) (entity.Move, error) {
	moves := board.LegalMoves()
	if len(moves) == 0 {
		return entity.Move{}, ErrNoLegalMoves
	}

	return moves[that.rnd.Intn(len(moves))], nil
}
