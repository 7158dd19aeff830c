package engine

import (
	"sync"

	"github.com/sirupsen/logrus"

	"lightsout/types"
)

// Session owns the state of a single game and implements Game.
type Session struct {
	mu     sync.Mutex
	cfg    GameConfig
	state  State
	log    *logrus.Entry
	onFlip []func(pos types.BoardPos, state *types.BoardState)
	onWin  []func(state *types.BoardState)
}

// NewSession initializes a board from cfg. A zero seed is replaced with one
// from the clock; Config reports the seed actually used.
func NewSession(cfg GameConfig) (*Session, error) {
	cfg = cfg.WithSeed()
	state, err := Initialize(cfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		cfg:   cfg,
		state: state,
		log: logrus.WithFields(logrus.Fields{
			"rows": cfg.Rows,
			"cols": cfg.Cols,
			"seed": cfg.Seed,
		}),
	}
	s.log.WithFields(logrus.Fields{
		"chance": cfg.ChanceLightStartsOn,
		"lit":    state.Board.LitCount(),
	}).Info("new game")
	return s, nil
}

// Config returns the configuration the session was started with.
func (s *Session) Config() GameConfig {
	return s.cfg
}

// State returns the current state value.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// GetBoardState returns a snapshot of the current board.
func (s *Session) GetBoardState() *types.BoardState {
	return s.State().Snapshot()
}

// HasWon returns true if every light is off.
func (s *Session) HasWon() bool {
	return s.State().Phase == types.PhaseWon
}

// Flip dispatches a Flip event.
func (s *Session) Flip(pos types.BoardPos) error {
	return s.Dispatch(Flip{Pos: pos})
}

// Dispatch runs ev through Reduce and replaces the state if it was accepted.
func (s *Session) Dispatch(ev Event) error {
	s.mu.Lock()
	next, err := Reduce(s.state, ev)
	if err != nil {
		s.mu.Unlock()
		s.log.WithError(err).Debug("event rejected")
		return err
	}
	s.state = next
	onFlip := s.onFlip
	onWin := s.onWin
	s.mu.Unlock()

	snap := next.Snapshot()
	if f, ok := ev.(Flip); ok {
		s.log.WithFields(logrus.Fields{
			"row":   f.Pos.Row,
			"col":   f.Pos.Col,
			"moves": next.Moves,
			"lit":   snap.Lit,
		}).Debug("flip")
		for _, cb := range onFlip {
			cb(f.Pos, snap)
		}
	}
	if next.Phase == types.PhaseWon {
		s.log.WithField("moves", next.Moves).Info("board cleared")
		for _, cb := range onWin {
			cb(snap)
		}
	}
	return nil
}

// OnFlip registers a callback for every accepted flip.
func (s *Session) OnFlip(cb func(pos types.BoardPos, state *types.BoardState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFlip = append(s.onFlip, cb)
}

// OnWin registers a callback for when the last light goes out.
func (s *Session) OnWin(cb func(state *types.BoardState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onWin = append(s.onWin, cb)
}

var _ Game = (*Session)(nil)
