// Package board implements the Lights Out grid and its flip rule.
//
// A Board is a value: FlipAround returns a new Board and never touches the
// receiver, so callers may keep old boards around (e.g. for comparisons).
package board

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"lightsout/types"
)

// MaxSize bounds both dimensions of a board.
const MaxSize = 64

var (
	ErrInvalidSize   = errors.New("board dimensions must be positive")
	ErrTooLarge      = fmt.Errorf("board dimensions must be at most %d", MaxSize)
	ErrInvalidChance = errors.New("chance a light starts on must be within [0, 1]")
	ErrOutOfBounds   = errors.New("position is not on the board")
)

// Board is a rows x cols grid of lights, indexed as cells[row][col].
type Board struct {
	rows  int
	cols  int
	cells [][]bool
}

// neighborhood lists the offsets flipped by FlipAround: self, up, down, left, right.
var neighborhood = [5]types.BoardPos{
	{Row: 0, Col: 0},
	{Row: -1, Col: 0},
	{Row: 1, Col: 0},
	{Row: 0, Col: -1},
	{Row: 0, Col: 1},
}

// New creates a rows x cols board where each cell is independently lit with
// probability chance. Cells are sampled in row-major order from rng.
func New(rows, cols int, chance float64, rng *rand.Rand) (*Board, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	if rows > MaxSize || cols > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, rows, cols)
	}
	if math.IsNaN(chance) || chance < 0 || chance > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidChance, chance)
	}
	b := empty(rows, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.cells[r][c] = rng.Float64() < chance
		}
	}
	return b, nil
}

// FromCells builds a board from literal cell values. The input is copied.
func FromCells(cells [][]bool) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", ErrInvalidSize)
	}
	b := empty(len(cells), len(cells[0]))
	for r, row := range cells {
		if len(row) != b.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSize, r, len(row), b.cols)
		}
		copy(b.cells[r], row)
	}
	return b, nil
}

func empty(rows, cols int) *Board {
	cells := make([][]bool, rows)
	for r := range cells {
		cells[r] = make([]bool, cols)
	}
	return &Board{rows: rows, cols: cols, cells: cells}
}

// Rows returns the number of rows.
func (b *Board) Rows() int {
	return b.rows
}

// Cols returns the number of columns.
func (b *Board) Cols() int {
	return b.cols
}

// Contains reports whether pos is on the board.
func (b *Board) Contains(pos types.BoardPos) bool {
	return pos.Row >= 0 && pos.Row < b.rows && pos.Col >= 0 && pos.Col < b.cols
}

// Lit reports whether the light at pos is on. Positions off the board are off.
func (b *Board) Lit(pos types.BoardPos) bool {
	if !b.Contains(pos) {
		return false
	}
	return b.cells[pos.Row][pos.Col]
}

// LitCount returns the number of lights that are on.
func (b *Board) LitCount() int {
	n := 0
	for _, row := range b.cells {
		for _, lit := range row {
			if lit {
				n++
			}
		}
	}
	return n
}

// HasWon returns true when every light is off.
func (b *Board) HasWon() bool {
	for _, row := range b.cells {
		for _, lit := range row {
			if lit {
				return false
			}
		}
	}
	return true
}

// FlipAround returns a copy of the board with the light at pos and its
// orthogonal neighbors toggled. Neighbors off the board are skipped.
func (b *Board) FlipAround(pos types.BoardPos) (*Board, error) {
	if !b.Contains(pos) {
		return nil, fmt.Errorf("%w: %s on %dx%d", ErrOutOfBounds, pos, b.rows, b.cols)
	}
	next := b.clone()
	for _, d := range neighborhood {
		p := types.BoardPos{Row: pos.Row + d.Row, Col: pos.Col + d.Col}
		if next.Contains(p) {
			next.cells[p.Row][p.Col] = !next.cells[p.Row][p.Col]
		}
	}
	return next, nil
}

// Cells returns a deep copy of the grid.
func (b *Board) Cells() [][]bool {
	return b.clone().cells
}

// Equal reports whether both boards have the same shape and lights.
func (b *Board) Equal(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols {
		return false
	}
	for r := range b.cells {
		for c := range b.cells[r] {
			if b.cells[r][c] != o.cells[r][c] {
				return false
			}
		}
	}
	return true
}

func (b *Board) clone() *Board {
	next := empty(b.rows, b.cols)
	for r := range b.cells {
		copy(next.cells[r], b.cells[r])
	}
	return next
}

// String renders the board one row per line, O for lit and . for unlit.
func (b *Board) String() string {
	var sb strings.Builder
	for r, row := range b.cells {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, lit := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			if lit {
				sb.WriteByte('O')
			} else {
				sb.WriteByte('.')
			}
		}
	}
	return sb.String()
}
