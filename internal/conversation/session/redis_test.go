package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, 24*time.Hour, 10*time.Second), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := New("sess-1")
	sess.Set(FieldName, "Maria")
	sess.Stage = StageAwaitingAge
	require.NoError(t, store.Put(ctx, sess.ID, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Collected[FieldName])
	assert.Equal(t, StageAwaitingAge, got.Stage)
}

func TestRedisStoreSessionExpiry(t *testing.T) {
	store, mr := setupRedisStore(t)
	ctx := context.Background()

	sess := New("sess-1")
	require.NoError(t, store.Put(ctx, sess.ID, sess))

	mr.FastForward(25 * time.Hour)

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreLock(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	unlock, err := store.Lock(ctx, "sess-1")
	require.NoError(t, err)

	// A second acquire on the same id must block until released.
	blockedCtx, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = store.Lock(blockedCtx, "sess-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()

	unlock2, err := store.Lock(ctx, "sess-1")
	require.NoError(t, err)
	unlock2()
}

func TestRedisStoreLockDifferentSessionsIndependent(t *testing.T) {
	store, _ := setupRedisStore(t)
	ctx := context.Background()

	unlock1, err := store.Lock(ctx, "sess-1")
	require.NoError(t, err)
	defer unlock1()

	unlock2, err := store.Lock(ctx, "sess-2")
	require.NoError(t, err)
	unlock2()
}
