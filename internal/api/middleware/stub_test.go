package middleware

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/credential"
	"github.com/djabaro/stock-console/internal/core/session"
	"github.com/djabaro/stock-console/internal/infrastructure/db/memory"
)

// newRegistry returns a registry over an in-memory store with no login delay.
func newRegistry(t *testing.T) *session.Registry {
	t.Helper()
	return session.NewRegistry(memory.NewLocalStore(), credential.Default(), session.Options{}, zerolog.Nop())
}

// loggedInOwner returns the owner of scope after a successful login.
func loggedInOwner(t *testing.T, reg *session.Registry, scope, email, password string) *session.Machine {
	t.Helper()
	m := reg.Owner(context.Background(), scope)
	ok, err := m.Login(context.Background(), email, password)
	if err != nil || !ok {
		t.Fatalf("login %s: ok=%v err=%v", email, ok, err)
	}
	return m
}
