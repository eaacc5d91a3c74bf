// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Holds live games for the HTTP server; nothing here survives a restart,
// which is intended since game state is never persisted.
//
// Characteristics:
//   - Stores *Session values keyed by ID in a map.
//   - Map access is guarded by an RWMutex.
//   - Each Session has its own mutex so commands on one game are applied
//     one at a time while other games proceed.
//   - Get on a missing ID returns ErrNotFound.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/drmario/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("not found")

// Store defines the interface for live game sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Session, error)
}

// Session is one live game plus the bookkeeping the server needs.
type Session struct {
	ID    string
	Owner string // user ID, or "" for guests
	Daily string // date key when seeded from the daily layout

	mu       sync.Mutex
	game     *game.Game
	ticks    int
	finished bool
}

// NewSession wraps g.
func NewSession(id, owner string, g *game.Game) *Session {
	return &Session{ID: id, Owner: owner, game: g}
}

// Outcome summarizes a session after a command.
type Outcome struct {
	Snapshot game.Snapshot
	Ticks    int
	// Ended is true exactly once: on the command that first produced
	// game over or a cleared level.
	Ended bool
}

// Do runs fn against the game under the session lock. Ticks are counted
// when tick reports true.
func (s *Session) Do(fn func(g *game.Game) (tick bool)) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	if fn(s.game) {
		s.ticks++
	}
	out := Outcome{Snapshot: s.game.Snapshot(), Ticks: s.ticks}
	if !s.finished && (out.Snapshot.GameOver || out.Snapshot.LevelCleared) {
		s.finished = true
		out.Ended = true
	}
	return out
}

// View returns the current outcome without changing anything.
func (s *Session) View() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Outcome{Snapshot: s.game.Snapshot(), Ticks: s.ticks}
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex        // guards sessions map
	sessions map[string]*Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}
