package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/ports"
	"github.com/djabaro/stock-console/pkg/metrics"
)

// Registry owns one Machine per browser context.
type Registry struct {
	store ports.LocalStore
	auth  ports.Authenticator
	opts  Options
	log   zerolog.Logger
	now   func() time.Time

	mu     sync.Mutex
	owners map[string]*entry
}

type entry struct {
	machine  *Machine
	lastSeen time.Time
}

// NewRegistry builds an empty registry. Machines it creates share store,
// auth and opts.
func NewRegistry(store ports.LocalStore, auth ports.Authenticator, opts Options, log zerolog.Logger) *Registry {
	return &Registry{
		store:  store,
		auth:   auth,
		opts:   opts,
		log:    log,
		now:    time.Now,
		owners: make(map[string]*entry),
	}
}

// Owner returns the machine for scope, creating and initializing it from
// the persisted session on first use.
func (r *Registry) Owner(ctx context.Context, scope string) *Machine {
	r.mu.Lock()
	e, ok := r.owners[scope]
	if !ok {
		m := NewMachine(scope, r.auth, NewPersistence(r.store, scope, r.log), r.opts, r.log)
		e = &entry{machine: m}
		r.owners[scope] = e
		metrics.SessionOwners.Set(float64(len(r.owners)))
	}
	e.lastSeen = r.now()
	r.mu.Unlock()

	// Initialize is once-only; concurrent first requests for the same scope
	// block here until hydration is done.
	e.machine.Initialize(ctx)
	return e.machine
}

// Len returns the number of live owners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.owners)
}

// Sweep drops owners not seen for longer than idle, except those with a
// login in flight. It returns how many were dropped.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for scope, e := range r.owners {
		if e.lastSeen.Before(cutoff) && !e.machine.Pending() {
			delete(r.owners, scope)
			dropped++
		}
	}
	metrics.SessionOwners.Set(float64(len(r.owners)))
	return dropped
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(idle); n > 0 {
				r.log.Debug().Int("dropped", n).Msg("idle session owners swept")
			}
		}
	}
}
