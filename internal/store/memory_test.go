package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/tordle/internal/game"
)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.New("CRANE")

	_, err := st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, st.Save(ctx, &Session{Game: g, Player: "ana"}))
	s, err := st.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", s.Player)
	assert.Same(t, g, s.Game)

	require.NoError(t, st.Delete(ctx, g.ID))
	_, err = st.Get(ctx, g.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweep(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := &memory{sessions: map[string]*Session{}, now: func() time.Time { return clock }}

	old := game.New("CRANE")
	require.NoError(t, m.Save(ctx, &Session{Game: old}))
	clock = clock.Add(time.Hour)
	fresh := game.New("SLATE")
	require.NoError(t, m.Save(ctx, &Session{Game: fresh}))

	assert.Equal(t, 1, m.Sweep(ctx, clock.Add(-30*time.Minute)))
	_, err := m.Get(ctx, old.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

func TestSessionLockSerializesGuesses(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	g := game.New("CRANE", game.WithAttempts(100))
	require.NoError(t, st.Save(ctx, &Session{Game: g}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := st.Get(ctx, g.ID)
			if err != nil {
				return
			}
			s.Lock()
			defer s.Unlock()
			_, _ = s.Game.ApplyGuess("SLATE")
		}()
	}
	wg.Wait()
	assert.Len(t, g.Guesses, 50)
	assert.Equal(t, 50, g.Remaining())
}
