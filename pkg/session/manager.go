package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/turing/internal/logging"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a distributed session lock is held.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager owns server-held runs. Each session is stepped under a lock, so
// concurrent step requests for one session are applied one after another.
// It uses reference counting to garbage collect unused locks.
type Manager struct {
	store ports.RunStore
	sim   ports.Simulator

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration
	logger  *slog.Logger
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the random UUID session IDs.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates a new session manager over a store and a simulator.
func NewManager(store ports.RunStore, sim ports.Simulator, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		sim:     sim,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start initializes a run of the named machine and persists it as a new session.
func (m *Manager) Start(ctx context.Context, machine string, inputs []string) (*domain.Session, error) {
	run, err := m.sim.Start(ctx, machine, inputs)
	if err != nil {
		return nil, err
	}

	session := domain.NewSession(m.newID(), machine, run)
	err = m.WithLock(ctx, session.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, session)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	m.logger.Debug("Session started", "session_id", session.ID, "machine", machine)
	return session, nil
}

// Step advances the session by one transition and persists the result.
// It returns the updated session and what the step changed.
func (m *Manager) Step(ctx context.Context, sessionID string) (*domain.Session, *domain.RunDiff, error) {
	return m.advance(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.RunState, error) {
		return m.sim.Step(ctx, s.Machine, s.Run)
	})
}

// Run steps the session until it halts or maxSteps transitions were taken.
// When the budget runs out, the progress made is still saved and the error
// wraps domain.ErrStepBudgetExceeded.
func (m *Manager) Run(ctx context.Context, sessionID string, maxSteps int) (*domain.Session, *domain.RunDiff, error) {
	return m.advance(ctx, sessionID, func(ctx context.Context, s *domain.Session) (*domain.RunState, error) {
		return m.sim.Run(ctx, s.Machine, s.Run, maxSteps)
	})
}

type advanceFunc func(context.Context, *domain.Session) (*domain.RunState, error)

func (m *Manager) advance(ctx context.Context, sessionID string, fn advanceFunc) (*domain.Session, *domain.RunDiff, error) {
	var (
		session *domain.Session
		diff    *domain.RunDiff
		runErr  error
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		next, err := fn(ctx, current)
		if next == nil {
			return err
		}
		runErr = err

		diff = domain.Diff(current.Run, next)
		current.Run = next
		current.UpdatedAt = time.Now().UTC()
		if err := m.store.Save(ctx, current); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
		session = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return session, diff, runErr
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	var session *domain.Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		session, err = m.store.Load(ctx, sessionID)
		return err
	})
	return session, err
}

// Save persists the session as given.
func (m *Manager) Save(ctx context.Context, session *domain.Session) error {
	return m.WithLock(ctx, session.ID, func(ctx context.Context) error {
		return m.store.Save(ctx, session)
	})
}

// Delete removes the session from the store.
// Deleting an unknown session returns domain.ErrSessionNotFound.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	return m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if _, err := m.store.Load(ctx, sessionID); err != nil {
			return err
		}
		return m.store.Delete(ctx, sessionID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Store returns the underlying run store.
func (m *Manager) Store() ports.RunStore {
	return m.store
}

// WithLock executes a function while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// Released with a fresh context so a cancelled request still frees the lock.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
