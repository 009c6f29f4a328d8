// Package session owns the authentication state of each browser context:
// persistence of the session blob, the login/logout state machine and the
// registry of per-context owners.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/ports"
	"github.com/djabaro/stock-console/pkg/metrics"
)

// DefaultLoginLatency is the simulated credential-check delay.
const DefaultLoginLatency = 800 * time.Millisecond

// latchSlack is added to the login latency to size the replica latch TTL.
const latchSlack = 5 * time.Second

// Options tunes a Machine.
type Options struct {
	// LoginLatency is waited before every credential check. Zero disables it.
	LoginLatency time.Duration
	// Latch, when set, also rejects a login while another replica runs one
	// for the same browser context.
	Latch ports.LoginLatch
	// Sleep replaces time.Sleep; tests use it to hold a login in flight.
	Sleep func(time.Duration)
}

// Machine is the session owner of one browser context. State moves only
// through Initialize, Login and Logout; each change is written through to
// Persistence before the call returns.
type Machine struct {
	scope string
	auth  ports.Authenticator
	store *Persistence
	opts  Options
	log   zerolog.Logger

	initOnce sync.Once
	pending  atomic.Bool

	mu    sync.RWMutex
	state domain.Session
}

// NewMachine returns a logged-out Machine. Call Initialize before serving.
func NewMachine(scope string, auth ports.Authenticator, store *Persistence, opts Options, log zerolog.Logger) *Machine {
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Machine{
		scope: scope,
		auth:  auth,
		store: store,
		opts:  opts,
		log:   log.With().Str("scope", scope).Logger(),
		state: domain.EmptySession(),
	}
}

// Scope returns the browser context the machine belongs to.
func (m *Machine) Scope() string {
	return m.scope
}

// Initialize replaces the state with the persisted session. Only the first
// call has any effect.
func (m *Machine) Initialize(ctx context.Context) {
	m.initOnce.Do(func() {
		loaded := m.store.Load(ctx)

		m.mu.Lock()
		m.state = loaded
		m.mu.Unlock()

		m.log.Debug().Bool("authenticated", loaded.Authenticated).Msg("session initialized")
	})
}

// Login checks the credentials after the simulated latency and moves to
// LOGGED_IN on a match. A mismatch leaves the state and the store untouched
// and reports false. While an attempt is pending every other call returns
// domain.ErrLoginPending without waiting. The wait is not cancellable.
func (m *Machine) Login(ctx context.Context, email, password string) (bool, error) {
	if !m.pending.CompareAndSwap(false, true) {
		metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		return false, domain.ErrLoginPending
	}
	defer m.pending.Store(false)

	if m.opts.Latch != nil {
		release, held := m.acquireLatch(ctx)
		if !held {
			metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
			return false, domain.ErrLoginPending
		}
		defer release()
	}

	start := time.Now()
	defer func() { metrics.LoginDuration.Observe(time.Since(start).Seconds()) }()

	if m.opts.LoginLatency > 0 {
		m.opts.Sleep(m.opts.LoginLatency)
	}

	user := m.auth.Authenticate(email, password)
	if user == nil {
		metrics.LoginAttemptsTotal.WithLabelValues("failure").Inc()
		m.log.Info().Str("email", email).Msg("login failed")
		return false, nil
	}

	m.mu.Lock()
	m.state = domain.LoggedIn(*user)
	m.store.Save(context.WithoutCancel(ctx), m.state)
	m.mu.Unlock()

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	m.log.Info().Str("email", email).Str("role", user.Role.String()).Msg("login succeeded")
	return true, nil
}

// Logout moves to LOGGED_OUT from any state, writes the empty session and
// clears the stored key. Calling it again is harmless.
func (m *Machine) Logout(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)

	m.mu.Lock()
	wasIn := m.state.Authenticated
	m.state = domain.EmptySession()
	m.store.Save(ctx, m.state)
	m.store.Clear(ctx)
	m.mu.Unlock()

	metrics.LogoutsTotal.Inc()
	if wasIn {
		m.log.Info().Msg("logged out")
	}
}

// Snapshot returns a copy of the current session.
func (m *Machine) Snapshot() domain.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Clone()
}

// Pending reports whether a login attempt is in flight.
func (m *Machine) Pending() bool {
	return m.pending.Load()
}

func (m *Machine) acquireLatch(ctx context.Context) (release func(), held bool) {
	ttl := m.opts.LoginLatency + latchSlack
	token, ok, err := m.opts.Latch.Acquire(ctx, m.scope, ttl)
	if err != nil {
		// The local pending flag still guards this replica.
		m.log.Warn().Err(err).Msg("login latch unavailable, continuing")
		return func() {}, true
	}
	if !ok {
		return nil, false
	}
	return func() {
		if err := m.opts.Latch.Release(context.WithoutCancel(ctx), m.scope, token); err != nil {
			m.log.Warn().Err(err).Msg("releasing login latch failed")
		}
	}, true
}
