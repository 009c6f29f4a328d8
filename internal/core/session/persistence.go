package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/djabaro/stock-console/internal/core/domain"
	"github.com/djabaro/stock-console/internal/core/ports"
	"github.com/djabaro/stock-console/pkg/metrics"
)

// StorageKey is the local-store key holding the serialized session.
const StorageKey = "djabaro_auth"

// Persistence reads and writes the session blob of one browser context.
// No method returns an error: failures are logged and the in-memory
// session stays authoritative.
type Persistence struct {
	store ports.LocalStore
	scope string
	log   zerolog.Logger
}

// NewPersistence binds a LocalStore to a browser-context scope.
func NewPersistence(store ports.LocalStore, scope string, log zerolog.Logger) *Persistence {
	return &Persistence{
		store: store,
		scope: scope,
		log:   log.With().Str("scope", scope).Logger(),
	}
}

// Load returns the persisted session, or the empty session when the key is
// absent, the store fails or the blob is not a well-formed session.
func (p *Persistence) Load(ctx context.Context) domain.Session {
	raw, ok, err := p.store.GetItem(ctx, p.scope, StorageKey)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("load").Inc()
		p.log.Warn().Err(err).Msg("reading stored session failed, starting logged out")
		return domain.EmptySession()
	}
	if !ok {
		return domain.EmptySession()
	}

	s, err := decode(raw)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("decode").Inc()
		p.log.Warn().Err(err).Msg("stored session is malformed, starting logged out")
		return domain.EmptySession()
	}
	return s
}

// Save writes s under StorageKey.
func (p *Persistence) Save(ctx context.Context, s domain.Session) {
	b, err := json.Marshal(s)
	if err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("save").Inc()
		p.log.Error().Err(err).Msg("encoding session failed")
		return
	}
	if err := p.store.SetItem(ctx, p.scope, StorageKey, string(b)); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("save").Inc()
		p.log.Warn().Err(err).Msg("storing session failed")
	}
}

// Clear removes the persisted session.
func (p *Persistence) Clear(ctx context.Context) {
	if err := p.store.RemoveItem(ctx, p.scope, StorageKey); err != nil {
		metrics.PersistenceErrorsTotal.WithLabelValues("clear").Inc()
		p.log.Warn().Err(err).Msg("clearing session failed")
	}
}

func decode(raw string) (domain.Session, error) {
	var s domain.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrMalformedSession, err)
	}
	if !s.Valid() {
		return domain.Session{}, fmt.Errorf("%w: authenticated=%t user=%t", domain.ErrMalformedSession, s.Authenticated, s.User != nil)
	}
	return s, nil
}
