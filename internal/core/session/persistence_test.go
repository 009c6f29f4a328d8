package session

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/djabaro/stock-console/internal/core/domain"
)

const testScope = "ctx-1"

func adminUser() domain.User {
	return domain.User{ID: "1", Email: "admin@djabaro.ci", FirstName: "Admin", LastName: "Djabaro", Role: domain.RoleAdmin}
}

func TestPersistence_RoundTrip(t *testing.T) {
	t.Parallel()

	sessions := []domain.Session{
		domain.EmptySession(),
		domain.LoggedIn(adminUser()),
		domain.LoggedIn(domain.User{ID: "2", Email: "employe@djabaro.ci", FirstName: "Employé", LastName: "Djabaro", Role: domain.RoleEmployee}),
	}

	for _, s := range sessions {
		store := newStubLocalStore()
		p := NewPersistence(store, testScope, zerolog.Nop())

		p.Save(context.Background(), s)
		assert.Equal(t, s, p.Load(context.Background()))
	}
}

func TestPersistence_Load_FallsBackToEmpty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  *string
	}{
		{name: "never written"},
		{name: "not json", raw: ptr("{not json")},
		{name: "json array", raw: ptr(`[1,2]`)},
		{name: "authenticated without user", raw: ptr(`{"user":null,"isAuthenticated":true}`)},
		{name: "user without authentication", raw: ptr(`{"user":{"id":"1","email":"a","firstName":"A","lastName":"B","role":"Admin"},"isAuthenticated":false}`)},
		{name: "unknown role", raw: ptr(`{"user":{"id":"1","email":"a","firstName":"A","lastName":"B","role":"Root"},"isAuthenticated":true}`)},
		{name: "missing role", raw: ptr(`{"user":{"id":"1"},"isAuthenticated":true}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newStubLocalStore()
			if tt.raw != nil {
				store.put(testScope, *tt.raw)
			}
			p := NewPersistence(store, testScope, zerolog.Nop())

			assert.Equal(t, domain.EmptySession(), p.Load(context.Background()))
		})
	}
}

func TestPersistence_Load_StoreError(t *testing.T) {
	store := newStubLocalStore()
	store.put(testScope, `{"user":null,"isAuthenticated":false}`)
	store.getErr = errStoreDown

	p := NewPersistence(store, testScope, zerolog.Nop())
	assert.Equal(t, domain.EmptySession(), p.Load(context.Background()))
}

func TestPersistence_SaveAndClear_SwallowErrors(t *testing.T) {
	store := newStubLocalStore()
	store.setErr = errStoreDown
	store.removeErr = errStoreDown

	p := NewPersistence(store, testScope, zerolog.Nop())
	require.NotPanics(t, func() {
		p.Save(context.Background(), domain.LoggedIn(adminUser()))
		p.Clear(context.Background())
	})
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, 1, store.removes)
}

func TestPersistence_ScopesAreIsolated(t *testing.T) {
	store := newStubLocalStore()
	a := NewPersistence(store, "a", zerolog.Nop())
	b := NewPersistence(store, "b", zerolog.Nop())

	a.Save(context.Background(), domain.LoggedIn(adminUser()))

	assert.True(t, a.Load(context.Background()).Authenticated)
	assert.False(t, b.Load(context.Background()).Authenticated)
}

func ptr(s string) *string { return &s }
