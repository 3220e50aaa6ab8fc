package entity

import (
	"fmt"
	"strings"
)

const DefaultBoardSize = 15

// Board is a square grid of stones. Cells go from Empty to a colour exactly
// once; Place is the only mutation.
type Board struct {
	size     int
	cells    []Stone
	stones   int
	lastMove *Move
}

// NewBoard creates an empty board. A non-positive size falls back to DefaultBoardSize.
func NewBoard(size int) *Board {
	if size <= 0 {
		size = DefaultBoardSize
	}

	return &Board{
		size:  size,
		cells: make([]Stone, size*size),
	}
}

func (that *Board) Size() int {
	return that.size
}

// Stones - number of occupied cells.
func (that *Board) Stones() int {
	return that.stones
}

func (that *Board) InBounds(move Move) bool {
	return move.Row >= 0 && move.Row < that.size && move.Col >= 0 && move.Col < that.size
}

// IsEmpty is false for out of bounds moves.
func (that *Board) IsEmpty(move Move) bool {
	if !that.InBounds(move) {
		return false
	}

	return that.cells[that.index(move)] == Empty
}

// Place puts a stone on an empty, in-bounds cell. On any other input the board
// is left untouched and false is returned.
func (that *Board) Place(move Move, stone Stone) bool {
	if !stone.IsPlayer() || !that.IsEmpty(move) {
		return false
	}

	that.cells[that.index(move)] = stone
	that.stones++

	last := move
	that.lastMove = &last

	return true
}

// LegalMoves lists every empty cell in row-major order.
func (that *Board) LegalMoves() []Move {
	moves := make([]Move, 0, len(that.cells)-that.stones)
	for i, cell := range that.cells {
		if cell == Empty {
			moves = append(moves, Move{Row: i / that.size, Col: i % that.size})
		}
	}

	return moves
}

func (that *Board) IsFull() bool {
	return that.stones == len(that.cells)
}

func (that *Board) LastMove() (Move, bool) {
	if that.lastMove == nil {
		return Move{}, false
	}

	return *that.lastMove, true
}

// Clone returns a fully independent copy.
func (that *Board) Clone() *Board {
	clone := &Board{
		size:   that.size,
		cells:  make([]Stone, len(that.cells)),
		stones: that.stones,
	}
	copy(clone.cells, that.cells)

	if that.lastMove != nil {
		last := *that.lastMove
		clone.lastMove = &last
	}

	return clone
}

// Grid returns an immutable snapshot of the current cells.
func (that *Board) Grid() Grid {
	cells := make([]Stone, len(that.cells))
	copy(cells, that.cells)

	return Grid{size: that.size, cells: cells}
}

func (that *Board) String() string {
	var builder strings.Builder

	builder.WriteString("  ")
	for c := 0; c < that.size; c++ {
		fmt.Fprintf(&builder, " %2d", c)
	}

	for r := 0; r < that.size; r++ {
		fmt.Fprintf(&builder, "\n%2d", r)
		for c := 0; c < that.size; c++ {
			fmt.Fprintf(&builder, " %2s", that.cells[r*that.size+c])
		}
	}

	return builder.String()
}

func (that *Board) index(move Move) int {
	return move.Row*that.size + move.Col
}
