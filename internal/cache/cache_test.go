package cache

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCacheComputesOnceAndHitsAfter(t *testing.T) {
	c := New(10, 0, nil)
	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		return 42, nil
	}
	v, err := c.GetOrCompute(context.Background(), 1, compute)
	require.NoError(t, err)
	require.Equal(t, 42, v)

	v, err = c.GetOrCompute(context.Background(), 1, compute)
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 1, calls)
	require.Equal(t, uint64(1), c.Stats.HitCount())
}

func TestCacheSingleFlight(t *testing.T) {
	c := New(10, 0, nil)
	start := make(chan struct{})
	var calls int
	var mu sync.Mutex

	compute := func(ctx context.Context) (interface{}, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		<-start
		return "v", nil
	}

	var wg sync.WaitGroup
	results := make([]interface{}, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.GetOrCompute(context.Background(), 7, compute)
			require.NoError(t, err)
			results[i] = v
		}(i)
	}
	close(start)
	wg.Wait()

	for _, r := range results {
		require.Equal(t, "v", r)
	}
	require.Equal(t, 1, calls)
}

func TestCacheEvictsByEntryCount(t *testing.T) {
	c := New(2, 0, nil)
	for i := uint64(0); i < 3; i++ {
		_, err := c.GetOrCompute(context.Background(), i, func(ctx context.Context) (interface{}, error) {
			return i, nil
		})
		require.NoError(t, err)
	}
	require.Equal(t, 2, c.Len())
}

func TestCacheEvictsByByteBudget(t *testing.T) {
	sizeOf := func(v interface{}) int { return 10 }
	c := New(0, 25, sizeOf)
	for i := uint64(0); i < 4; i++ {
		_, err := c.GetOrCompute(context.Background(), i, func(ctx context.Context) (interface{}, error) {
			return i, nil
		})
		require.NoError(t, err)
	}
	require.LessOrEqual(t, c.Len(), 2)
}

func TestCacheDoesNotNegativeCache(t *testing.T) {
	c := New(10, 0, nil)
	calls := 0
	compute := func(ctx context.Context) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, require.AnError
		}
		return "ok", nil
	}
	_, err := c.GetOrCompute(context.Background(), 3, compute)
	require.Error(t, err)

	v, err := c.GetOrCompute(context.Background(), 3, compute)
	require.NoError(t, err)
	require.Equal(t, "ok", v)
	require.Equal(t, 2, calls)
}
