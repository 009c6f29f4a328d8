package session

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djabaro/stock-console/internal/core/credential"
)

func newTestRegistry(store *stubLocalStore) (*Registry, *time.Time) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(store, credential.Default(), Options{}, zerolog.Nop())
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_Owner_SameScopeSameMachine(t *testing.T) {
	r, _ := newTestRegistry(newStubLocalStore())

	a := r.Owner(context.Background(), "a")
	assert.Same(t, a, r.Owner(context.Background(), "a"))
	assert.NotSame(t, a, r.Owner(context.Background(), "b"))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, "a", a.Scope())
}

func TestRegistry_Owner_HydratesFromStore(t *testing.T) {
	store := newStubLocalStore()
	store.put("a", `{"user":{"id":"4","email":"manager@djabaro.ci","firstName":"Manager","lastName":"Djabaro","role":"Manager"},"isAuthenticated":true}`)
	r, _ := newTestRegistry(store)

	s := r.Owner(context.Background(), "a").Snapshot()
	require.True(t, s.Authenticated)
	assert.Equal(t, "4", s.User.ID)
}

func TestRegistry_Sweep(t *testing.T) {
	store := newStubLocalStore()
	r, now := newTestRegistry(store)

	m := r.Owner(context.Background(), "old")
	ok, err := m.Login(context.Background(), "admin@djabaro.ci", "admin123")
	require.NoError(t, err)
	require.True(t, ok)

	*now = now.Add(20 * time.Minute)
	r.Owner(context.Background(), "fresh")

	*now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, r.Sweep(30*time.Minute))
	assert.Equal(t, 1, r.Len())

	// The dropped owner comes back with its persisted state.
	again := r.Owner(context.Background(), "old")
	assert.NotSame(t, m, again)
	assert.True(t, again.Snapshot().Authenticated)
}

func TestRegistry_Run_StopsWithContext(t *testing.T) {
	r, _ := newTestRegistry(newStubLocalStore())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Millisecond, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
