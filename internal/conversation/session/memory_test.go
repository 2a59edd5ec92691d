package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	sess := New("sess-1")
	sess.Set(FieldName, "John Doe")
	require.NoError(t, store.Put(ctx, sess.ID, sess))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Collected[FieldName])
	assert.Equal(t, StageAwaitingIntent, got.Stage)

	// Mutating the returned copy must not leak into the store.
	got.Set(FieldAge, "25")
	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, again.Has(FieldAge))
}

func TestMemoryStoreLockSerializesTurns(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	var counter int
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := store.Lock(ctx, "sess-1")
			require.NoError(t, err)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, counter)
}

func TestNextStageFollowsSlotOrder(t *testing.T) {
	sess := New("sess-1")
	assert.Equal(t, StageAwaitingName, sess.NextStage())

	sess.Set(FieldName, "Maria")
	assert.Equal(t, StageAwaitingAge, sess.NextStage())

	sess.Set(FieldAge, "30")
	assert.Equal(t, StageAwaitingLocation, sess.NextStage())

	sess.Set(FieldLocation, "Springfield")
	assert.Equal(t, StageAwaitingFoodNeed, sess.NextStage())

	sess.Set(FieldFood, "rice")
	assert.Equal(t, StageCompleted, sess.NextStage())
}
