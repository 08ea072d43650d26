// internal/store/memory.go
//
// In-memory session store for games played over HTTP.
//
// Characteristics:
//   - Stores *Session objects keyed by game ID in a map.
//   - Concurrency-safe via a single map mutex; Get refreshes the idle timer.
//   - Each Session carries its own mutex; handlers hold it while mutating the game.
//   - State is lost when the process restarts; finished games live on in history.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/tordle/internal/daily"
	"github.com/robalobadob/tordle/internal/game"
)

var ErrNotFound = errors.New("store: session not found")

// Session is one game in progress plus who is playing it.
type Session struct {
	sync.Mutex

	Game    *game.Game
	Player  string
	Started time.Time
	Daily   *daily.Challenge // nil for free play

	touched time.Time // guarded by the store lock
}

// Store defines the persistence interface for game sessions.
type Store interface {
	// Save persists or replaces a session under its game ID.
	Save(ctx context.Context, s *Session) error

	// Get retrieves a session by game ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	Delete(ctx context.Context, id string) error

	// Sweep drops sessions untouched since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) int
}

type memory struct {
	mu       sync.Mutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session), now: time.Now}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.touched = m.now()
	m.sessions[s.Game.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	s.touched = m.now()
	return s, nil
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Sweep(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if s.touched.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
