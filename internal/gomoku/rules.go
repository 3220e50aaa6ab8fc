package gomoku

import "github.com/rocketscienceinc/gomoku-backend/internal/entity"

// WinLength - stones in an unbroken line needed to win. Longer runs also win.
const WinLength = 5

// Winner scans rows, columns, row+col diagonals and row-col diagonals, in that
// order, and returns the colour of the first line holding WinLength or more
// consecutive stones. Empty means nobody has won.
func Winner(grid entity.Grid) entity.Stone {
	for _, line := range lines(grid) {
		if winner := winnerInLine(line); winner != entity.Empty {
			return winner
		}
	}

	return entity.Empty
}

// IsDraw is true iff the grid is full and nobody has five in a row.
func IsDraw(grid entity.Grid) bool {
	if grid.HasEmpty() {
		return false
	}

	return Winner(grid) == entity.Empty
}

func IsTerminal(grid entity.Grid) bool {
	return Winner(grid) != entity.Empty || IsDraw(grid)
}

// winnerInLine checks White before Black; both colours winning in a single
// line cannot happen through legal placement.
func winnerInLine(line []entity.Stone) entity.Stone {
	for _, stone := range [...]entity.Stone{entity.White, entity.Black} {
		if hasRun(line, stone) {
			return stone
		}
	}

	return entity.Empty
}

func hasRun(line []entity.Stone, stone entity.Stone) bool {
	run := 0
	for _, cell := range line {
		if cell != stone {
			run = 0
			continue
		}

		run++
		if run >= WinLength {
			return true
		}
	}

	return false
}

func lines(grid entity.Grid) [][]entity.Stone {
	size := grid.Size()
	result := make([][]entity.Stone, 0, 2*size+2*(2*size-1))
	result = append(result, rows(grid)...)
	result = append(result, columns(grid)...)
	result = append(result, sumDiagonals(grid)...)

	return append(result, differenceDiagonals(grid)...)
}

func rows(grid entity.Grid) [][]entity.Stone {
	return grid.Rows()
}

func columns(grid entity.Grid) [][]entity.Stone {
	size := grid.Size()
	cols := make([][]entity.Stone, size)

	for c := 0; c < size; c++ {
		cols[c] = make([]entity.Stone, size)
		for r := 0; r < size; r++ {
			cols[c][r] = grid.At(entity.Move{Row: r, Col: c})
		}
	}

	return cols
}

// sumDiagonals groups cells sharing row+col, index range 0..2N-2.
func sumDiagonals(grid entity.Grid) [][]entity.Stone {
	return diagonals(grid, func(row, col int) int { return row + col })
}

// differenceDiagonals groups cells sharing row-col, shifted by N-1 into 0..2N-2.
func differenceDiagonals(grid entity.Grid) [][]entity.Stone {
	offset := grid.Size() - 1

	return diagonals(grid, func(row, col int) int { return row - col + offset })
}

// diagonals buckets every cell by key; the row-major walk keeps each bucket
// in increasing row order.
func diagonals(grid entity.Grid, key func(row, col int) int) [][]entity.Stone {
	size := grid.Size()
	if size == 0 {
		return nil
	}

	buckets := make([][]entity.Stone, 2*size-1)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			k := key(r, c)
			buckets[k] = append(buckets[k], grid.At(entity.Move{Row: r, Col: c}))
		}
	}

	return buckets
}
