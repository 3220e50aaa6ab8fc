package entity

import (
	"errors"
	"fmt"
)

var ErrInvalidGrid = errors.New("invalid grid")

// Grid is a read-only snapshot of a square board. It owns its cells, so
// changes to the board it was taken from are never visible through it.
type Grid struct {
	size  int
	cells []Stone
}

// NewGrid builds a snapshot from explicit rows. Rows must form a square and
// hold only Empty, Black or White.
func NewGrid(rows [][]Stone) (Grid, error) {
	size := len(rows)
	cells := make([]Stone, 0, size*size)

	for r, row := range rows {
		if len(row) != size {
			return Grid{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, r, len(row), size)
		}

		for c, cell := range row {
			if cell != Empty && !cell.IsPlayer() {
				return Grid{}, fmt.Errorf("%w: cell (%d, %d): %w", ErrInvalidGrid, r, c, ErrInvalidStone)
			}
		}

		cells = append(cells, row...)
	}

	return Grid{size: size, cells: cells}, nil
}

func (that Grid) Size() int {
	return that.size
}

func (that Grid) InBounds(move Move) bool {
	return move.Row >= 0 && move.Row < that.size && move.Col >= 0 && move.Col < that.size
}

// At returns the stone on the given cell, Empty when the move is out of bounds.
func (that Grid) At(move Move) Stone {
	if !that.InBounds(move) {
		return Empty
	}

	return that.cells[move.Row*that.size+move.Col]
}

// HasEmpty reports whether at least one cell is still free.
func (that Grid) HasEmpty() bool {
	for _, cell := range that.cells {
		if cell == Empty {
			return true
		}
	}

	return false
}

// Rows returns a fresh copy of the grid, one slice per row.
func (that Grid) Rows() [][]Stone {
	rows := make([][]Stone, that.size)
	for r := range rows {
		rows[r] = make([]Stone, that.size)
		copy(rows[r], that.cells[r*that.size:(r+1)*that.size])
	}

	return rows
}

// Swapped returns the grid with Black and White exchanged.
func (that Grid) Swapped() Grid {
	cells := make([]Stone, len(that.cells))
	for i, cell := range that.cells {
		cells[i] = cell.Opponent()
	}

	return Grid{size: that.size, cells: cells}
}
