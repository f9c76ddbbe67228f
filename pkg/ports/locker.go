package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a DistributedLocker.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes session mutations across simulator replicas
// that share one RunStore.
type DistributedLocker interface {
	// Lock blocks until key is held or ctx is done. The lock expires on its
	// own after ttl, so a crashed holder cannot wedge a session forever.
	// The returned UnlockFunc must be called once the mutation is saved.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
