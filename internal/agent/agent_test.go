package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardWith(t *testing.T, size int, stones map[entity.Move]entity.Stone) *entity.Board {
	t.Helper()

	board := entity.NewBoard(size)
	for move, stone := range stones {
		require.True(t, board.Place(move, stone))
	}

	return board
}

func fullBoard(t *testing.T, size int) *entity.Board {
	t.Helper()

	board := entity.NewBoard(size)
	stone := entity.Black
	for _, move := range board.LegalMoves() {
		require.True(t, board.Place(move, stone))
		stone = stone.Opponent()
	}

	return board
}

func TestRandom_SelectMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Returns a legal move", func(t *testing.T) {
		board := boardWith(t, 3, map[entity.Move]entity.Stone{
			{Row: 0, Col: 0}: entity.Black,
			{Row: 1, Col: 1}: entity.White,
		})
		agent := NewRandom(42)

		for i := 0; i < 20; i++ {
			move, err := agent.SelectMove(ctx, board, entity.Black)
			require.NoError(t, err)
			assert.True(t, board.IsEmpty(move))
		}
	})

	t.Run("Same seed gives the same sequence", func(t *testing.T) {
		board := entity.NewBoard(15)
		first, second := NewRandom(7), NewRandom(7)

		for i := 0; i < 10; i++ {
			a, err := first.SelectMove(ctx, board, entity.Black)
			require.NoError(t, err)
			b, err := second.SelectMove(ctx, board, entity.Black)
			require.NoError(t, err)

			assert.Equal(t, a, b)
		}
	})

	t.Run("Full board is an error", func(t *testing.T) {
		_, err := NewRandom(1).SelectMove(ctx, fullBoard(t, 2), entity.Black)

		require.ErrorIs(t, err, ErrNoLegalMoves)
	})
}

func TestGreedy_SelectMove(t *testing.T) {
	ctx := context.Background()
	agent := NewGreedy()

	t.Run("Takes an immediate win", func(t *testing.T) {
		// Given: Black has four in a row with both ends open and White threatens too
		board := boardWith(t, 15, map[entity.Move]entity.Stone{
			{Row: 7, Col: 3}: entity.Black, {Row: 7, Col: 4}: entity.Black,
			{Row: 7, Col: 5}: entity.Black, {Row: 7, Col: 6}: entity.Black,
			{Row: 0, Col: 0}: entity.White, {Row: 1, Col: 0}: entity.White,
			{Row: 2, Col: 0}: entity.White, {Row: 3, Col: 0}: entity.White,
		})

		// When: Black asks for a move
		move, err := agent.SelectMove(ctx, board, entity.Black)

		// Then: the first winning cell in row-major order is chosen
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 7, Col: 2}, move)
	})

	t.Run("Blocks the opponent's win", func(t *testing.T) {
		// Given: White has four in a column, closed at the top
		board := boardWith(t, 15, map[entity.Move]entity.Stone{
			{Row: 0, Col: 5}: entity.White, {Row: 1, Col: 5}: entity.White,
			{Row: 2, Col: 5}: entity.White, {Row: 3, Col: 5}: entity.White,
			{Row: 7, Col: 7}: entity.Black,
		})

		move, err := agent.SelectMove(ctx, board, entity.Black)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 4, Col: 5}, move)
	})

	t.Run("Opens in the centre", func(t *testing.T) {
		move, err := agent.SelectMove(ctx, entity.NewBoard(15), entity.Black)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 7, Col: 7}, move)
	})

	t.Run("Breaks distance ties by row then column", func(t *testing.T) {
		board := boardWith(t, 15, map[entity.Move]entity.Stone{
			{Row: 7, Col: 7}: entity.Black,
		})

		move, err := agent.SelectMove(ctx, board, entity.White)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 6, Col: 7}, move)
	})

	t.Run("Uses size/2 as the centre on even boards", func(t *testing.T) {
		move, err := agent.SelectMove(ctx, entity.NewBoard(6), entity.Black)

		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 3, Col: 3}, move)
	})

	t.Run("Full board is an error", func(t *testing.T) {
		_, err := agent.SelectMove(ctx, fullBoard(t, 3), entity.Black)

		require.ErrorIs(t, err, ErrNoLegalMoves)
	})
}

func TestManual_SelectMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Skips bad lines until a legal move is read", func(t *testing.T) {
		// Given: input with every kind of mistake before a valid move
		board := boardWith(t, 15, map[entity.Move]entity.Stone{
			{Row: 7, Col: 7}: entity.Black,
		})
		input := strings.NewReader("\n7\na b\n20 1\n7 7\n3,4\n")
		var out bytes.Buffer
		agent := NewManual(input, &out, "> ")

		// When: a move is requested
		move, err := agent.SelectMove(ctx, board, entity.White)

		// Then: the first legal entry is returned and every mistake got a hint
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 3, Col: 4}, move)

		output := out.String()
		assert.Equal(t, 6, strings.Count(output, "> "))
		assert.Contains(t, output, "Empty input. Example: 7 7")
		assert.Contains(t, output, "Please enter exactly two integers")
		assert.Contains(t, output, "Invalid integers")
		assert.Contains(t, output, "Out of bounds. Valid range: 0..14")
		assert.Contains(t, output, "That cell is occupied")
	})

	t.Run("End of input is an error", func(t *testing.T) {
		agent := NewManual(strings.NewReader("oops\n"), nil, "")

		_, err := agent.SelectMove(ctx, entity.NewBoard(15), entity.Black)

		require.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("Canceled context stops reading", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		agent := NewManual(strings.NewReader("1 1\n"), nil, "")

		_, err := agent.SelectMove(canceled, entity.NewBoard(15), entity.Black)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRegistry(t *testing.T) {
	t.Run("Lists agents sorted", func(t *testing.T) {
		assert.Equal(t, []string{GreedyName, ManualName, RandomName}, Names())
	})

	t.Run("Names are case-insensitive", func(t *testing.T) {
		agent, err := New("  GrEeDy ", Options{})

		require.NoError(t, err)
		assert.Equal(t, GreedyName, agent.Name())
	})

	t.Run("Seeded random agents are reproducible", func(t *testing.T) {
		first, err := New(RandomName, Options{Seed: SeedFrom(3)})
		require.NoError(t, err)
		second, err := New(RandomName, Options{Seed: SeedFrom(3)})
		require.NoError(t, err)

		board := entity.NewBoard(15)
		a, err := first.SelectMove(context.Background(), board, entity.Black)
		require.NoError(t, err)
		b, err := second.SelectMove(context.Background(), board, entity.Black)
		require.NoError(t, err)

		assert.Equal(t, a, b)
	})

	t.Run("Unknown agent lists the options", func(t *testing.T) {
		_, err := New("alphazero", Options{})

		require.ErrorIs(t, err, ErrUnknownAgent)
		assert.Contains(t, err.Error(), "greedy, human, random")
	})

	t.Run("Only the manual agent needs input", func(t *testing.T) {
		assert.True(t, Automated(RandomName))
		assert.True(t, Automated("Greedy"))
		assert.False(t, Automated("HUMAN"))
	})

	t.Run("Known only accepts registered names", func(t *testing.T) {
		assert.True(t, Known("RANDOM"))
		assert.True(t, Known(ManualName))
		assert.False(t, Known("alphabeta"))
		assert.False(t, Known(""))
	})

	t.Run("Duplicate registration panics", func(t *testing.T) {
		assert.Panics(t, func() {
			mustRegister(RandomName, registry[RandomName])
		})
	})
}
