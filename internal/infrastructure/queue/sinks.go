package queue

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/domain"
)

// defaultInboxSize bounds the toasts kept per browser context.
const defaultInboxSize = 5

// LogSink writes every toast to the structured log.
type LogSink struct {
	log zerolog.Logger
}

func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Deliver(scope string, t domain.Toast) {
	s.log.Info().
		Str("scope", scope).
		Str("title", t.Title).
		Str("description", t.Description).
		Str("variant", t.Variant).
		Msg("toast")
}

// Inbox keeps the latest toasts of each browser context until the next
// rendered view drains them. Older toasts are evicted first. Contexts that
// never render again are dropped by Sweep.
type Inbox struct {
	size int
	now  func() time.Time

	mu    sync.Mutex
	items map[string]*inboxEntry
}

type inboxEntry struct {
	toasts    []domain.Toast
	lastWrite time.Time
}

func NewInbox(size int) *Inbox {
	if size <= 0 {
		size = defaultInboxSize
	}
	return &Inbox{size: size, now: time.Now, items: make(map[string]*inboxEntry)}
}

func (b *Inbox) Deliver(scope string, t domain.Toast) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.items[scope]
	if !ok {
		e = &inboxEntry{}
		b.items[scope] = e
	}
	e.toasts = append(e.toasts, t)
	if len(e.toasts) > b.size {
		e.toasts = e.toasts[len(e.toasts)-b.size:]
	}
	e.lastWrite = b.now()
}

// Drain returns and forgets the pending toasts of scope, oldest first.
func (b *Inbox) Drain(scope string) []domain.Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, ok := b.items[scope]
	if !ok {
		return nil
	}
	delete(b.items, scope)
	return e.toasts
}

// Len returns the number of browser contexts with undrained toasts.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Sweep drops the toasts of every context not written to for longer than
// idle and returns how many contexts were dropped.
func (b *Inbox) Sweep(idle time.Duration) int {
	cutoff := b.now().Add(-idle)

	b.mu.Lock()
	defer b.mu.Unlock()

	dropped := 0
	for scope, e := range b.items {
		if e.lastWrite.Before(cutoff) {
			delete(b.items, scope)
			dropped++
		}
	}
	return dropped
}

// Run sweeps every interval until ctx is done.
func (b *Inbox) Run(ctx context.Context, every, idle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.Sweep(idle)
		}
	}
}
