package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

const (
	ManualName = "human"

	DefaultPrompt = "Enter move as: row col (0-indexed): "
)

var ErrNoInput = errors.New("no input available for manual agent")

// Manual reads moves typed as "row col" or "row,col". Malformed, out of
// bounds and occupied entries are answered with a hint and a new prompt; they
// never reach the caller.
type Manual struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func NewManual(in io.Reader, out io.Writer, prompt string) *Manual {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	if out == nil {
		out = io.Discard
	}

	return &Manual{
		scanner: bufio.NewScanner(in),
		out:     out,
		prompt:  prompt,
	}
}

func (that *Manual) Name() string {
	return ManualName
}

// SelectMove blocks until a legal move is read. ctx is checked between lines;
// a read already in progress is not interrupted.
func (that *Manual) SelectMove(ctx context.Context, board *entity.Board, _ entity.Stone) (entity.Move, error) {
	if len(board.LegalMoves()) == 0 {
		return entity.Move{}, ErrNoLegalMoves
	}

	for {
		if err := ctx.Err(); err != nil {
			return entity.Move{}, fmt.Errorf("manual input canceled: %w", err)
		}

		fmt.Fprint(that.out, that.prompt)

		if !that.scanner.Scan() {
			if err := that.scanner.Err(); err != nil {
				return entity.Move{}, fmt.Errorf("%w: %w", ErrNoInput, err)
			}

			return entity.Move{}, ErrNoInput
		}

		move, hint := parseMove(that.scanner.Text(), board)
		if hint != "" {
			fmt.Fprintln(that.out, hint)
			continue
		}

		return move, nil
	}
}

// parseMove returns a hint for the user when the line is not a legal move.
func parseMove(raw string, board *entity.Board) (entity.Move, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return entity.Move{}, "Empty input. Example: 7 7"
	}

	parts := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	if len(parts) != 2 {
		return entity.Move{}, "Please enter exactly two integers: row col (e.g., 7 7)"
	}

	row, errRow := strconv.Atoi(parts[0])
	col, errCol := strconv.Atoi(parts[1])
	if errRow != nil || errCol != nil {
		return entity.Move{}, "Invalid integers. Example: 7 7"
	}

	move := entity.Move{Row: row, Col: col}
	if !board.InBounds(move) {
		return entity.Move{}, fmt.Sprintf("Out of bounds. Valid range: 0..%d", board.Size()-1)
	}

	if !board.IsEmpty(move) {
		return entity.Move{}, "That cell is occupied. Try again."
	}

	return move, ""
}
