package console

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/match"
)

const (
	blackColor = "#e06c75"
	whiteColor = "#61afef"
)

// Printer renders boards and reports for a terminal. Colours are dropped when
// the output does not support them.
type Printer struct {
	out *termenv.Output
}

func NewPrinter(out *termenv.Output) *Printer {
	return &Printer{out: out}
}

// Board renders the board with row and column headers; the last move is shown reversed.
func (that *Printer) Board(board *entity.Board) string {
	var builder strings.Builder

	last, hasLast := board.LastMove()
	size := board.Size()
	grid := board.Grid()

	builder.WriteString("  ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&builder, " %2d", c)
	}

	for r := 0; r < size; r++ {
		fmt.Fprintf(&builder, "\n%2d", r)
		for c := 0; c < size; c++ {
			move := entity.Move{Row: r, Col: c}
			builder.WriteString("  ")
			builder.WriteString(that.stone(grid.At(move), hasLast && move == last))
		}
	}

	return builder.String()
}

func (that *Printer) PrintBoard(board *entity.Board) {
	fmt.Fprintf(that.out, "%s\n\n", that.Board(board))
}

// PrintResult prints the outcome of a single match.
func (that *Printer) PrintResult(result match.Result) {
	switch result.Winner {
	case entity.Black:
		fmt.Fprintf(that.out, "Winner: %s (%s)\n", that.stone(entity.Black, false), result.Black)
	case entity.White:
		fmt.Fprintf(that.out, "Winner: %s (%s)\n", that.stone(entity.White, false), result.White)
	default:
		fmt.Fprintln(that.out, "Result: DRAW")
	}
}

// PrintBenchmark prints the benchmark summary.
func (that *Printer) PrintBenchmark(black, white string, stats match.Stats) {
	title := that.out.String("Benchmark complete").Bold()

	fmt.Fprintln(that.out, title)
	fmt.Fprintf(that.out, "  Black agent: %s\n", black)
	fmt.Fprintf(that.out, "  White agent: %s\n", white)
	fmt.Fprintf(that.out, "  Games:       %d\n", stats.Games)
	fmt.Fprintf(that.out, "  Black wins:  %d (%s)\n", stats.BlackWins, stats.Percent(stats.BlackWins))
	fmt.Fprintf(that.out, "  White wins:  %d (%s)\n", stats.WhiteWins, stats.Percent(stats.WhiteWins))
	fmt.Fprintf(that.out, "  Draws:       %d (%s)\n", stats.Draws, stats.Percent(stats.Draws))
}

// PrintStandings prints the tournament table in entry order.
func (that *Printer) PrintStandings(standings []match.Standing) {
	fmt.Fprintln(that.out, that.out.String(fmt.Sprintf("%-12s %6s %6s %6s", "agent", "wins", "losses", "draws")).Bold())

	for _, standing := range standings {
		fmt.Fprintf(that.out, "%-12s %6d %6d %6d\n", standing.Name, standing.Wins, standing.Losses, standing.Draws)
	}
}

func (that *Printer) stone(stone entity.Stone, highlight bool) string {
	style := that.out.String(stone.String())

	switch stone {
	case entity.Black:
		style = style.Foreground(that.out.Color(blackColor)).Bold()
	case entity.White:
		style = style.Foreground(that.out.Color(whiteColor)).Bold()
	}

	if highlight {
		style = style.Reverse()
	}

	return style.String()
}
