package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{ err error }

func (b brokenCache) Get(ctx context.Context, key string, dest interface{}) error { return b.err }
func (b brokenCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return b.err
}
func (b brokenCache) DeleteByPattern(ctx context.Context, pattern string) error { return b.err }

type countPayload struct {
	N int `json:"n"`
}

func TestRememberCachesLoadedValue(t *testing.T) {
	mem := newMemoryCache()
	cache := NewCacheService(mem, NewMetricsService(), time.Minute, nil, true)
	var loads int
	load := func(context.Context) (*countPayload, error) {
		loads++
		return &countPayload{N: 7}, nil
	}

	v, hit, err := remember(context.Background(), cache, "statistics:k", load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 7, v.N)

	v, hit, err = remember(context.Background(), cache, "statistics:k", load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 7, v.N)
	assert.Equal(t, 1, loads)
	assert.EqualValues(t, 1, cache.metrics.Snapshot().CacheHits)
}

func TestRememberSharesConcurrentMisses(t *testing.T) {
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	release := make(chan struct{})
	var loads, entered atomic.Int32
	load := func(context.Context) (*countPayload, error) {
		loads.Add(1)
		<-release
		return &countPayload{N: 1}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			entered.Add(1)
			v, _, err := remember(context.Background(), cache, "statistics:shared", load)
			assert.NoError(t, err)
			assert.Equal(t, 1, v.N)
		}()
	}
	require.Eventually(t, func() bool { return entered.Load() == callers && loads.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), loads.Load())
}

func TestRememberWithoutCache(t *testing.T) {
	var loads int
	load := func(context.Context) (*countPayload, error) {
		loads++
		return &countPayload{N: loads}, nil
	}
	disabled := NewCacheService(newMemoryCache(), nil, 0, nil, false)

	for _, cache := range []*CacheService{nil, disabled} {
		_, hit, err := remember(context.Background(), cache, "k", load)
		require.NoError(t, err)
		assert.False(t, hit)
	}
	assert.Equal(t, 2, loads)
	assert.Equal(t, defaultCacheTTL, disabled.ttl)
}

func TestRememberPropagatesLoadError(t *testing.T) {
	mem := newMemoryCache()
	cache := NewCacheService(mem, nil, time.Minute, nil, true)

	_, _, err := remember(context.Background(), cache, "k", func(context.Context) (*countPayload, error) {
		return nil, errors.New("db down")
	})
	assert.EqualError(t, err, "db down")
	assert.Empty(t, mem.items)
}

func TestCacheServiceDegradesOnBackendFailure(t *testing.T) {
	cache := NewCacheService(brokenCache{err: errors.New("redis down")}, nil, time.Minute, nil, true)

	hit, err := cache.Get(context.Background(), "k", &countPayload{})
	assert.False(t, hit)
	assert.Error(t, err)

	v, hit, err := remember(context.Background(), cache, "k", func(context.Context) (*countPayload, error) {
		return &countPayload{N: 3}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 3, v.N)
	assert.Error(t, cache.Invalidate(context.Background(), "statistics:*"))
}
