package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LocalStore keeps browser-local items in Redis.
// Key format: local:<scope>:<key>
type LocalStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLocalStore wraps client. Items expire ttl after their last write; a
// zero ttl keeps them forever.
func NewLocalStore(client *redis.Client, ttl time.Duration) *LocalStore {
	return &LocalStore{client: client, ttl: ttl}
}

func (s *LocalStore) GetItem(ctx context.Context, scope, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, s.key(scope, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("local store get: %w", err)
	}
	return v, true, nil
}

func (s *LocalStore) SetItem(ctx context.Context, scope, key, value string) error {
	if err := s.client.Set(ctx, s.key(scope, key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("local store set: %w", err)
	}
	return nil
}

func (s *LocalStore) RemoveItem(ctx context.Context, scope, key string) error {
	if err := s.client.Del(ctx, s.key(scope, key)).Err(); err != nil {
		return fmt.Errorf("local store remove: %w", err)
	}
	return nil
}

// Name identifies the backend in readiness reports.
func (s *LocalStore) Name() string { return "redis" }

// Ping checks connectivity.
func (s *LocalStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *LocalStore) key(scope, key string) string {
	return fmt.Sprintf("local:%s:%s", scope, key)
}
