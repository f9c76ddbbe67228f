package session_test

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/memory"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const counter = `
name: Counter
tape_count: 1
blank_symbol: _
initial_state: q0
final_states: [done]
transitions:
  - [[q0, [1]], [q0, [1], [R]]]
  - [[q0, [_]], [done, [_], [N]]]
`

// SlowStore simulates latency to provoke race conditions if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s *SlowStore) Save(ctx context.Context, session *domain.Session) error {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	return s.Store.Save(ctx, session)
}

func (s *SlowStore) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond) // Simulate IO
	return s.Store.Load(ctx, sessionID)
}

func newManager(t *testing.T, opts ...session.Option) *session.Manager {
	t.Helper()
	sim, err := turing.New(memory.NewLoader(map[string]string{"counter": counter}))
	require.NoError(t, err)
	return session.NewManager(&SlowStore{Store: memory.NewStore()}, sim, opts...)
}

func TestManager_StartAndStep(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	s, err := mgr.Start(ctx, "Counter", []string{"11"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, "Counter", s.Machine)
	assert.Equal(t, "q0", s.Run.State)

	stepped, diff, err := mgr.Step(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stepped.Run.StepCount)
	require.NotNil(t, diff)
	assert.Equal(t, []int{1}, diff.Heads)

	loaded, err := mgr.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, stepped.Run, loaded.Run)
}

func TestManager_StartUnknownMachine(t *testing.T) {
	mgr := newManager(t)
	_, err := mgr.Start(context.Background(), "Nope", nil)
	assert.ErrorIs(t, err, domain.ErrMachineNotFound)
}

func TestManager_StepHaltedSession(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	s, err := mgr.Start(ctx, "Counter", nil)
	require.NoError(t, err)

	_, _, err = mgr.Step(ctx, s.ID)
	require.NoError(t, err)

	_, _, err = mgr.Step(ctx, s.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyHalted)

	_, _, err = mgr.Step(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_RunBudgetSavesProgress(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	s, err := mgr.Start(ctx, "Counter", []string{"1111"})
	require.NoError(t, err)

	partial, _, err := mgr.Run(ctx, s.ID, 2)
	assert.ErrorIs(t, err, domain.ErrStepBudgetExceeded)
	require.NotNil(t, partial)
	assert.Equal(t, 2, partial.Run.StepCount)

	done, _, err := mgr.Run(ctx, s.ID, 0)
	require.NoError(t, err)
	assert.True(t, done.Run.Halted)
	assert.Equal(t, 5, done.Run.StepCount)
}

func TestManager_ConcurrentStepsAreSerialized(t *testing.T) {
	mgr := newManager(t)
	ctx := context.Background()

	s, err := mgr.Start(ctx, "Counter", []string{"1111111111"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	concurrent := 10
	for i := 0; i < concurrent; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := mgr.Step(ctx, s.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// Without locking, read-modify-write would lose updates.
	loaded, err := mgr.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, concurrent, loaded.Run.StepCount)
	assert.Equal(t, concurrent, loaded.Run.Heads[0])
}

func TestManager_DeleteAndList(t *testing.T) {
	var n atomic.Int64
	mgr := newManager(t, session.WithIDGenerator(func() string {
		return "s" + strconv.FormatInt(n.Add(1), 10)
	}))
	ctx := context.Background()

	_, err := mgr.Start(ctx, "Counter", nil)
	require.NoError(t, err)
	_, err = mgr.Start(ctx, "Counter", nil)
	require.NoError(t, err)

	ids, err := mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1", "s2"}, ids)

	require.NoError(t, mgr.Delete(ctx, "s1"))
	assert.ErrorIs(t, mgr.Delete(ctx, "s1"), domain.ErrSessionNotFound)

	ids, err = mgr.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s2"}, ids)
}
