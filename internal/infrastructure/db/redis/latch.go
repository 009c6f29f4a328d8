package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the latch only while it still carries the caller's
// token, so an expired hold cannot remove another replica's latch.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LoginLatch marks a browser context as having a login in flight so other
// replicas reject a concurrent attempt.
// Key format: login:inflight:<scope>, value: the holder's token
type LoginLatch struct {
	client *redis.Client
}

// NewLoginLatch creates a LoginLatch wrapping the given Redis client.
func NewLoginLatch(client *redis.Client) *LoginLatch {
	return &LoginLatch{client: client}
}

// Acquire sets the latch if nobody holds it. The key expires after ttl so a
// crashed replica cannot block the context forever.
func (l *LoginLatch) Acquire(ctx context.Context, scope string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(scope), token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("login latch acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the latch if token still holds it.
func (l *LoginLatch) Release(ctx context.Context, scope, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{l.key(scope)}, token).Err(); err != nil {
		return fmt.Errorf("login latch release: %w", err)
	}
	return nil
}

func (l *LoginLatch) key(scope string) string {
	return fmt.Sprintf("login:inflight:%s", scope)
}
