package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/turing/pkg/adapters/redis"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	now := time.Now()
	clock := func() time.Time { return now }
	store := redis.NewFromClient(client, redis.WithTTL(time.Second), redis.WithClock(clock))
	ctx := context.Background()

	session := domain.NewSession("session-ttl", "Inverter", &domain.RunState{
		State: "q0",
		Tapes: [][]string{{"0"}},
		Heads: []int{0},
	})
	require.NoError(t, store.Save(ctx, session))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	// Expire the key in redis and move the index clock past its score.
	mr.FastForward(2 * time.Second)
	now = now.Add(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, domain.NewSession("my-session", "Inverter", &domain.RunState{State: "q0"}))
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:my-session"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, list, "my-session")
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client)

	require.NoError(t, store.Save(context.Background(), domain.NewSession("abc", "m", &domain.RunState{State: "q0"})))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"abc"))
	assert.Equal(t, redis.DefaultPrefix, store.Prefix())
}
