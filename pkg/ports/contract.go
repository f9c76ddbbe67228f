package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSession(id string) *domain.Session {
	return domain.NewSession(id, "Palindrome Checker", &domain.RunState{
		State: "q0",
		Tapes: [][]string{{"a", "b", "b", "a"}},
		Heads: []int{0},
	})
}

// RunStoreContract runs a suite of tests to verify that a RunStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store RunStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := contractSession(sessionID)
		session.Run.StepCount = 7

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.Machine, loaded.Machine)
		assert.Equal(t, session.Run, loaded.Run)
		assert.True(t, session.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Load is isolated from later mutation", func(t *testing.T) {
		session := contractSession(sessionID)
		require.NoError(t, store.Save(ctx, session))

		session.Run.Tapes[0][0] = "x"
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "a", loaded.Run.Tapes[0][0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, contractSession(sessionID))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, contractSession(id1))
		_ = store.Save(ctx, contractSession(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
