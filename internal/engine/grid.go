// Package engine implements the 2048 grid transitions: slide, merge, spawn and
// terminal-state detection. Everything here operates on Grid values and has no
// dependency on the terminal or web layers, so presentation code owns the only
// mutable reference and re-renders from whatever the engine returns.
package engine

import (
	"errors"
	"fmt"
)

// Size is the grid dimension.
const Size = 4

// Grid is a 4x4 board in row-major order. Cells hold 0 (empty) or a power of two.
type Grid [Size][Size]int

// Line is a single row or column, oriented so that sliding goes toward index 0.
type Line [Size]int

// Position identifies one cell.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

var (
	// ErrGridShape is returned when building a grid from rows that are not 4x4.
	ErrGridShape = errors.New("engine: grid must be 4x4")

	// ErrInvalidTile is returned for a cell value that is neither 0 nor a power of two.
	ErrInvalidTile = errors.New("engine: tile must be 0 or a power of two")
)

// FromRows builds a Grid from a slice representation (JSON payloads, saved games).
func FromRows(rows [][]int) (Grid, error) {
	var g Grid
	if len(rows) != Size {
		return g, fmt.Errorf("%w: got %d rows", ErrGridShape, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return g, fmt.Errorf("%w: row %d has %d cells", ErrGridShape, r, len(row))
		}
		for c, v := range row {
			if !validTile(v) {
				return g, fmt.Errorf("%w: %d at (%d,%d)", ErrInvalidTile, v, r, c)
			}
			g[r][c] = v
		}
	}
	return g, nil
}

// Rows returns the grid as nested slices, the inverse of FromRows.
func (g Grid) Rows() [][]int {
	rows := make([][]int, Size)
	for r := range Size {
		rows[r] = make([]int, Size)
		copy(rows[r], g[r][:])
	}
	return rows
}

func validTile(v int) bool {
	if v == 0 {
		return true
	}
	return v > 1 && v&(v-1) == 0
}

// column extracts column c top-to-bottom.
func (g Grid) column(c int) Line {
	var l Line
	for r := range Size {
		l[r] = g[r][c]
	}
	return l
}

func reverse(l Line) Line {
	var out Line
	for i := range Size {
		out[i] = l[Size-1-i]
	}
	return out
}

// EmptyCells returns the positions of all empty cells in row-major order.
func EmptyCells(g Grid) []Position {
	var cells []Position
	for r := range Size {
		for c := range Size {
			if g[r][c] == 0 {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// HasEmptyCell reports whether at least one cell is empty.
func HasEmptyCell(g Grid) bool {
	for r := range Size {
		for c := range Size {
			if g[r][c] == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge reports whether two orthogonally adjacent nonzero cells are equal.
func HasPossibleMerge(g Grid) bool {
	for r := range Size {
		for c := range Size {
			v := g[r][c]
			if v == 0 {
				continue
			}
			if c < Size-1 && g[r][c+1] == v {
				return true
			}
			if r < Size-1 && g[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

// CanMove reports whether any direction would change the grid.
func CanMove(g Grid) bool {
	return HasEmptyCell(g) || HasPossibleMerge(g)
}

// IsTerminal reports whether the game is over: every cell is filled and no
// horizontal or vertical neighbours are equal. Diagonals are not considered.
func IsTerminal(g Grid) bool {
	return !CanMove(g)
}

// MaxTile returns the largest value on the grid.
func MaxTile(g Grid) int {
	maxVal := 0
	for r := range Size {
		for c := range Size {
			if g[r][c] > maxVal {
				maxVal = g[r][c]
			}
		}
	}
	return maxVal
}

// Sum returns the total of all tiles.
func Sum(g Grid) int {
	total := 0
	for r := range Size {
		for c := range Size {
			total += g[r][c]
		}
	}
	return total
}

// Count returns the number of nonzero tiles.
func Count(g Grid) int {
	n := 0
	for r := range Size {
		for c := range Size {
			if g[r][c] != 0 {
				n++
			}
		}
	}
	return n
}
