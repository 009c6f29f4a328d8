package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var errStoreDown = errors.New("store unavailable")

type stubLocalStore struct {
	mu        sync.Mutex
	items     map[string]string
	getErr    error
	setErr    error
	removeErr error
	sets      int
	removes   int
}

func newStubLocalStore() *stubLocalStore {
	return &stubLocalStore{items: make(map[string]string)}
}

func (s *stubLocalStore) GetItem(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.items[scope+"/"+key]
	return v, ok, nil
}

func (s *stubLocalStore) SetItem(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.items[scope+"/"+key] = value
	return nil
}

func (s *stubLocalStore) RemoveItem(_ context.Context, scope, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	if s.removeErr != nil {
		return s.removeErr
	}
	delete(s.items, scope+"/"+key)
	return nil
}

func (s *stubLocalStore) raw(scope string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.items[scope+"/"+StorageKey]
	return v, ok
}

func (s *stubLocalStore) put(scope, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[scope+"/"+StorageKey] = value
}

func (s *stubLocalStore) writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sets
}

type stubLatch struct {
	acquireOK    bool
	acquireErr   error
	acquired     int
	released     int
	issued       []string
	releasedWith []string
}

func (l *stubLatch) Acquire(_ context.Context, _ string, _ time.Duration) (string, bool, error) {
	l.acquired++
	if l.acquireErr != nil || !l.acquireOK {
		return "", false, l.acquireErr
	}
	token := fmt.Sprintf("token-%d", l.acquired)
	l.issued = append(l.issued, token)
	return token, true, nil
}

func (l *stubLatch) Release(_ context.Context, _, token string) error {
	l.released++
	l.releasedWith = append(l.releasedWith, token)
	return nil
}
