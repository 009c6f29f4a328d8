// Package memory provides the in-process LocalStore backend.
package memory

import (
	"context"
	"sync"
)

// LocalStore keeps items in a map keyed by scope and key. Contents are lost
// on restart.
type LocalStore struct {
	mu    sync.RWMutex
	items map[string]map[string]string
}

func NewLocalStore() *LocalStore {
	return &LocalStore{items: make(map[string]map[string]string)}
}

func (s *LocalStore) GetItem(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[scope][key]
	return v, ok, nil
}

func (s *LocalStore) SetItem(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.items[scope]
	if !ok {
		bucket = make(map[string]string)
		s.items[scope] = bucket
	}
	bucket[key] = value
	return nil
}

func (s *LocalStore) RemoveItem(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.items[scope]
	if !ok {
		return nil
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(s.items, scope)
	}
	return nil
}

// Name identifies the backend in readiness reports.
func (s *LocalStore) Name() string { return "memory" }

// Ping always succeeds.
func (s *LocalStore) Ping(context.Context) error { return nil }
