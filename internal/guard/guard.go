package guard

import (
	"errors"
	"log/slog"
	"sync"
)

// ErrReentrancy is returned when a protected call starts while another one
// is still in flight.
var ErrReentrancy = errors.New("reentrancy: protected call already in progress")

// State represents the guard state.
type State int

const (
	StateNotEntered State = iota // Idle, initial and terminal
	StateEntered                 // A protected call is running
)

func (s State) String() string {
	switch s {
	case StateNotEntered:
		return "NOT_ENTERED"
	case StateEntered:
		return "ENTERED"
	default:
		return "UNKNOWN"
	}
}

// Guard is a two-state mutual exclusion flag for protected entry points.
// Unlike a mutex it never blocks: a second entry fails immediately.
type Guard struct {
	mu    sync.Mutex
	state State
	name  string
}

// New creates a guard in StateNotEntered.
func New(name string) *Guard {
	return &Guard{name: name, state: StateNotEntered}
}

// Enter transitions NOT_ENTERED -> ENTERED, or fails with ErrReentrancy.
func (g *Guard) Enter() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state == StateEntered {
		slog.Warn("Reentrant call rejected", slog.String("guard", g.name))
		return ErrReentrancy
	}
	g.state = StateEntered
	return nil
}

// Exit unconditionally returns the guard to NOT_ENTERED.
func (g *Guard) Exit() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = StateNotEntered
}

// Do runs fn while holding the guard and releases it on every exit path,
// including a panic in fn. Calling Do (or Enter) from inside fn fails.
func (g *Guard) Do(fn func() error) error {
	if err := g.Enter(); err != nil {
		return err
	}
	defer g.Exit()
	return fn()
}

// GetState returns the current state (for monitoring).
func (g *Guard) GetState() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}
