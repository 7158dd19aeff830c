package engine

import (
	"errors"
	"fmt"

	"lightsout/board"
	"lightsout/types"
)

// ErrGameOver is returned for events sent after the board has been cleared.
var ErrGameOver = errors.New("game is already won")

// State is the full state of one session. It is treated as a value:
// Reduce never changes the State it is given.
type State struct {
	Board    *board.Board
	Phase    types.Phase
	Moves    int
	LastFlip types.BoardPos
}

// Event is something that can happen to a session.
type Event interface {
	isEvent()
}

// Flip is a click on the cell at Pos.
type Flip struct {
	Pos types.BoardPos
}

func (Flip) isEvent() {}

// NewState wraps a freshly initialized board. A board that starts dark is won already.
func NewState(b *board.Board) State {
	s := State{
		Board:    b,
		Phase:    types.PhasePlaying,
		LastFlip: types.NoPos,
	}
	if b.HasWon() {
		s.Phase = types.PhaseWon
	}
	return s
}

// Initialize builds the starting state for cfg. cfg.Seed is used as-is.
func Initialize(cfg GameConfig) (State, error) {
	if err := cfg.Validate(); err != nil {
		return State{}, err
	}
	b, err := board.New(cfg.Rows, cfg.Cols, cfg.ChanceLightStartsOn, cfg.RNG())
	if err != nil {
		return State{}, err
	}
	return NewState(b), nil
}

// Reduce applies ev to s and returns the next state.
// On error the returned state is s unchanged.
func Reduce(s State, ev Event) (State, error) {
	switch e := ev.(type) {
	case Flip:
		if s.Phase == types.PhaseWon {
			return s, ErrGameOver
		}
		next, err := s.Board.FlipAround(e.Pos)
		if err != nil {
			return s, err
		}
		ns := State{
			Board:    next,
			Phase:    types.PhasePlaying,
			Moves:    s.Moves + 1,
			LastFlip: e.Pos,
		}
		if next.HasWon() {
			ns.Phase = types.PhaseWon
		}
		return ns, nil
	default:
		return s, fmt.Errorf("unknown event %T", ev)
	}
}

// Snapshot converts the state into the view representation.
func (s State) Snapshot() *types.BoardState {
	return &types.BoardState{
		Rows:     s.Board.Rows(),
		Cols:     s.Board.Cols(),
		Cells:    s.Board.Cells(),
		Phase:    s.Phase,
		Moves:    s.Moves,
		Lit:      s.Board.LitCount(),
		LastFlip: s.LastFlip,
	}
}
