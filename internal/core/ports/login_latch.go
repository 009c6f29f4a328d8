package ports

import (
	"context"
	"time"
)

// LoginLatch extends the one-login-in-flight rule across service replicas.
type LoginLatch interface {
	// Acquire reports whether the caller now holds the latch for scope. The
	// returned token identifies this hold and must be passed to Release.
	Acquire(ctx context.Context, scope string, ttl time.Duration) (token string, ok bool, err error)
	// Release drops the latch only if it is still held with token.
	Release(ctx context.Context, scope, token string) error
}
