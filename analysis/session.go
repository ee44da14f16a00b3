package analysis

import (
	"math"
	"sync/atomic"

	"github.com/google/uuid"
)

// SessionState is the batch scan lifecycle.
type SessionState int32

const (
	SessionIdle SessionState = iota
	SessionRunning
	SessionCancelled
	SessionDone
)

func (s SessionState) String() string {
	switch s {
	case SessionIdle:
		return "idle"
	case SessionRunning:
		return "running"
	case SessionCancelled:
		return "cancelled"
	case SessionDone:
		return "done"
	default:
		return "unknown"
	}
}

// Session tracks one batch scan. It is created and mutated only by the
// scanner that owns it; State and Progress may be read concurrently from
// other goroutines (a UI poll, typically).
type Session struct {
	ID string `json:"id"`

	state    atomic.Int32
	progress atomic.Uint64
}

func newSession() *Session {
	return &Session{ID: uuid.New().String()}
}

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Progress returns the completed fraction of the scan, 0 to 1.
func (s *Session) Progress() float64 {
	return math.Float64frombits(s.progress.Load())
}

func (s *Session) setState(state SessionState) {
	s.state.Store(int32(state))
}

func (s *Session) setProgress(fraction float64) {
	s.progress.Store(math.Float64bits(fraction))
}
