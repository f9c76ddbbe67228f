package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewStore(), nil)
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		sid := fmt.Sprintf("session-%d", i)
		_ = mgr.Save(ctx, domain.NewSession(sid, "m", &domain.RunState{State: "q0"}))
		_ = mgr.Delete(ctx, sid)
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining in memory after Delete", lockCount)
	}
}

type recordingLocker struct {
	mu     sync.Mutex
	locked []string
	ttl    time.Duration
	open   int
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.locked = append(l.locked, key)
	l.ttl = ttl
	l.open++
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.open--
		return nil
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	mgr := NewManager(memory.NewStore(), nil, WithLocker(locker), WithLockTTL(time.Second))

	err := mgr.WithLock(context.Background(), "abc", func(ctx context.Context) error {
		assert.Equal(t, 1, locker.open)
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"abc"}, locker.locked)
	assert.Equal(t, time.Second, locker.ttl)
	assert.Zero(t, locker.open)
}
