package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/agent"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

var ErrNotEnoughAgents = errors.New("tournament needs at least two agents")

// Standing - tournament record of one entrant.
type Standing struct {
	Name   string `json:"name"`
	Wins   int    `json:"wins"`
	Losses int    `json:"losses"`
	Draws  int    `json:"draws"`
}

// Tournament plays every pair of entrants gamesPerPair times, swapping colours
// on every other game. An agent that exhausts its illegal move budget
// resigns the game.
func (that *Runner) Tournament(ctx context.Context, names []string, gamesPerPair int, seed int64) ([]Standing, error) {
	if len(names) < 2 {
		return nil, ErrNotEnoughAgents
	}

	if gamesPerPair <= 0 {
		return nil, ErrInvalidGames
	}

	for _, name := range names {
		if !agent.Automated(name) {
			return nil, fmt.Errorf("%w: %s", ErrManualAgent, name)
		}
	}

	log := that.logger.With("method", "Tournament", "entrants", len(names), "games_per_pair", gamesPerPair)

	standings := make([]Standing, len(names))
	for i, name := range names {
		standings[i].Name = name
	}

	played := 0
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			for g := 0; g < gamesPerPair; g++ {
				blackIdx, whiteIdx := i, j
				if g%2 == 1 {
					blackIdx, whiteIdx = j, i
				}

				gameSeed := seed + int64(played)*seedStride
				played++

				winner, err := that.playPairing(ctx, names[blackIdx], names[whiteIdx], gameSeed)
				if err != nil {
					return nil, err
				}

				switch winner {
				case entity.Black:
					standings[blackIdx].Wins++
					standings[whiteIdx].Losses++
				case entity.White:
					standings[whiteIdx].Wins++
					standings[blackIdx].Losses++
				default:
					standings[blackIdx].Draws++
					standings[whiteIdx].Draws++
				}
			}
		}
	}

	log.Info("tournament complete", "games", played)

	return standings, nil
}

// playPairing returns the winning colour, Empty for a draw.
func (that *Runner) playPairing(ctx context.Context, blackName, whiteName string, seed int64) (entity.Stone, error) {
	black, err := agent.New(blackName, agent.Options{Seed: agent.SeedFrom(seed)})
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to create black agent: %w", err)
	}

	white, err := agent.New(whiteName, agent.Options{Seed: agent.SeedFrom(seed + 1)})
	if err != nil {
		return entity.Empty, fmt.Errorf("failed to create white agent: %w", err)
	}

	result, err := that.Play(ctx, black, white)

	var illegal *IllegalMoveError
	if errors.As(err, &illegal) {
		return illegal.Stone.Opponent(), nil
	}

	if err != nil {
		return entity.Empty, fmt.Errorf("%s vs %s: %w", blackName, whiteName, err)
	}

	return result.Winner, nil
}
