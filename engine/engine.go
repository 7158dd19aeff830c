// Package engine defines the game configuration, the event reducer and the
// session that owns a Lights Out board.
package engine

import (
	"fmt"
	"math/rand/v2"
	"time"

	"lightsout/board"
	"lightsout/types"
)

// Game is what the views talk to.
type Game interface {
	// GetBoardState returns a snapshot of the current board.
	GetBoardState() *types.BoardState

	// Flip toggles the light at pos and its orthogonal neighbors.
	// Returns ErrGameOver once the board has been cleared.
	Flip(pos types.BoardPos) error

	// HasWon returns true if every light is off.
	HasWon() bool

	// OnFlip registers a callback for every accepted flip.
	// state is passed directly to avoid lock contention.
	OnFlip(func(pos types.BoardPos, state *types.BoardState))

	// OnWin registers a callback for when the last light goes out.
	OnWin(func(state *types.BoardState))
}

// GameConfig holds configuration for starting a new game.
type GameConfig struct {
	Rows                int     // Number of rows, 1 to board.MaxSize
	Cols                int     // Number of columns, 1 to board.MaxSize
	ChanceLightStartsOn float64 // Per-cell probability in [0, 1]
	Seed                uint64  // 0 picks a seed from the clock
}

// DefaultConfig returns the classic 3x3 half-lit configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Rows:                3,
		Cols:                3,
		ChanceLightStartsOn: 0.5,
	}
}

// Validate checks the configuration without building a board.
func (c GameConfig) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: %dx%d", board.ErrInvalidSize, c.Rows, c.Cols)
	}
	if c.Rows > board.MaxSize || c.Cols > board.MaxSize {
		return fmt.Errorf("%w: %dx%d", board.ErrTooLarge, c.Rows, c.Cols)
	}
	if !(c.ChanceLightStartsOn >= 0 && c.ChanceLightStartsOn <= 1) {
		return fmt.Errorf("%w: %v", board.ErrInvalidChance, c.ChanceLightStartsOn)
	}
	return nil
}

// WithSeed returns a copy of c with a non-zero seed, picking one from the clock if needed.
func (c GameConfig) WithSeed() GameConfig {
	if c.Seed == 0 {
		c.Seed = uint64(time.Now().UnixNano())
	}
	return c
}

// RNG returns the random source the initial board is sampled from.
func (c GameConfig) RNG() *rand.Rand {
	return rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
}
