// Package types contains shared data structures for lightsout.
package types

import (
	"encoding/json"
	"fmt"
)

// Phase is the logical state of a game session.
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseWon     Phase = "won"
)

// BoardState is a snapshot of a game handed to the views.
// Cells is indexed as Cells[row][col], true means lit.
type BoardState struct {
	Rows     int      `json:"rows"`
	Cols     int      `json:"cols"`
	Cells    [][]bool `json:"cells"`
	Phase    Phase    `json:"phase"`
	Moves    int      `json:"moves"`
	Lit      int      `json:"lit"`
	LastFlip BoardPos `json:"last_flip"`
}

// Won returns true if every light is off.
func (b *BoardState) Won() bool {
	return b.Phase == PhaseWon
}

// Height returns the number of rows.
func (b *BoardState) Height() int {
	return len(b.Cells)
}

// Width returns the number of columns.
func (b *BoardState) Width() int {
	if b.Height() == 0 {
		return 0
	}
	return len(b.Cells[0])
}

// IsLit reports whether the cell at pos is lit. Positions off the board are unlit.
func (b *BoardState) IsLit(pos BoardPos) bool {
	if pos.Row < 0 || pos.Row >= b.Height() || pos.Col < 0 || pos.Col >= b.Width() {
		return false
	}
	return b.Cells[pos.Row][pos.Col]
}

// BoardPos represents a position on the board.
type BoardPos struct {
	Row int
	Col int
}

// NoPos marks the absence of a position, e.g. no flip made yet.
var NoPos = BoardPos{Row: -1, Col: -1}

// Valid returns true if the position is not NoPos-like.
func (p BoardPos) Valid() bool {
	return p.Row >= 0 && p.Col >= 0
}

func (p BoardPos) String() string {
	return fmt.Sprintf("%d-%d", p.Row, p.Col)
}

// MarshalJSON encodes BoardPos as a JSON array [row, col].
func (p BoardPos) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{p.Row, p.Col})
}

// UnmarshalJSON allows BoardPos to be unmarshaled from a JSON array [row, col].
func (p *BoardPos) UnmarshalJSON(data []byte) error {
	var v []int
	err := json.Unmarshal(data, &v)
	if err != nil {
		return err
	}
	if len(v) != 2 {
		return fmt.Errorf("board position needs 2 coordinates, got %d", len(v))
	}
	p.Row = int(v[0])
	p.Col = int(v[1])
	return nil
}
