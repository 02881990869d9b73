package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SlidingWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 12, 15, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		res, err := store.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, res.Allowed)
		assert.Equal(t, 2-i, res.Remaining)
	}

	res, err := store.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.Equal(t, now.Add(time.Minute), res.ResetAt)

	// other keys are independent
	res, err = store.Allow(ctx, "login:10.0.0.2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	// window slides
	now = now.Add(time.Minute + time.Second)
	res, err = store.Allow(ctx, "login:10.0.0.1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestMemoryStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, _ = store.Allow(ctx, "k", 1, time.Minute)
	res, _ := store.Allow(ctx, "k", 1, time.Minute)
	assert.False(t, res.Allowed)

	require.NoError(t, store.Reset(ctx, "k"))
	res, _ = store.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, res.Allowed)
}

func TestMemoryStore_ConcurrentCallsNeverExceedLimit(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.Allow(ctx, "burst", 5, time.Minute)
			if err == nil && res.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, allowed)
}
