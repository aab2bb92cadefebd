package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serialises driver launches across bridge instances that share a backend.
// Two instances asking for the same port must not both spawn a driver onto it.
type DistributedLocker interface {
	// Lock blocks until the lock for key (e.g. "driver:4444") is acquired or ctx is done.
	// The lock expires after ttl even if it is never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
