package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/internal/repository"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (c *memoryCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = raw
	return nil
}

func (c *memoryCache) DeleteByPattern(ctx context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
		}
	}
	return nil
}

type counterStub struct {
	mu      sync.Mutex
	buckets map[repository.NovedadGrouping][]models.CountBucket
	calls   int
	filters []models.StatisticsFilter
}

func (c *counterStub) CountNovedades(ctx context.Context, filter models.StatisticsFilter, grouping repository.NovedadGrouping) ([]models.CountBucket, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.filters = append(c.filters, filter)
	return c.buckets[grouping], nil
}

func newStatisticsFixture(records *recordStore) (*StatisticsService, *counterStub, *memoryCache) {
	counter := &counterStub{buckets: map[repository.NovedadGrouping][]models.CountBucket{
		repository.GroupByType:         {{Key: "ABSENCE", Count: 2}, {Key: "INTRUSION", Count: 1}},
		repository.GroupByBusinessUnit: {{Key: "Planta Norte", Count: 3}},
	}}
	units := &businessUnitStub{units: []models.BusinessUnit{{ID: 1, Name: "Planta Norte"}, {ID: 2, Name: "Puerto"}}}
	mem := newMemoryCache()
	metrics := NewMetricsService()
	cache := NewCacheService(mem, metrics, time.Minute, nil, true)
	svc := NewStatisticsService(records, units, counter, cache, metrics, nil, nil)
	svc.now = func() time.Time { return testDay.Add(15 * time.Hour) }
	return svc, counter, mem
}

func TestStatisticsServiceCompliance(t *testing.T) {
	records := newRecordStore(
		shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", rated("R1", "08:00", 10)),
		shiftRecord(2, 10, 1, testDay, grid.ShiftNight, "Luis", rated("R3", "23:00", 0)),
		shiftRecord(3, 20, 2, testDay.AddDate(0, 0, -1), grid.ShiftDay, "Sol", rated("R1", "08:00", 8)),
		shiftRecord(4, 20, 2, testDay.AddDate(0, 0, -40), grid.ShiftDay, "Old", rated("R1", "08:00", 1)),
	)
	svc, _, _ := newStatisticsFixture(records)

	stats, cached, err := svc.Compliance(context.Background(), nil, dto.StatisticsQuery{})
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Equal(t, testDay.AddDate(0, 0, -29), stats.From)
	assert.Equal(t, testDay, stats.To)
	assert.Equal(t, 3, stats.Totals.Records)
	assert.Equal(t, 6.0, stats.Totals.Average)
	assert.Equal(t, 60.0, stats.Totals.Compliance)
	assert.Equal(t, 3, stats.Novedades)

	require.Len(t, stats.ByBusinessUnit, 2)
	assert.Equal(t, "Planta Norte", stats.ByBusinessUnit[0].BusinessUnit)
	assert.Equal(t, 5.0, stats.ByBusinessUnit[0].Average)
	assert.Equal(t, 80.0, stats.ByBusinessUnit[1].Compliance)

	require.Len(t, stats.ByShift, 2)
	assert.Equal(t, "day", stats.ByShift[0].Shift)
	assert.Equal(t, 9.0, stats.ByShift[0].Average)
	assert.Equal(t, "night", stats.ByShift[1].Shift)

	require.Len(t, stats.Daily, 2)
	assert.True(t, stats.Daily[0].Date.Before(stats.Daily[1].Date))
}

func TestStatisticsServiceServesFromCache(t *testing.T) {
	records := newRecordStore(shiftRecord(1, 10, 1, testDay, grid.ShiftDay, "Ana", rated("R1", "08:00", 10)))
	svc, counter, mem := newStatisticsFixture(records)
	ctx := context.Background()
	query := dto.StatisticsQuery{From: "2024-05-01", To: "2024-05-10"}

	first, cached, err := svc.Novedades(ctx, nil, query)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 3, first.Total)
	assert.Empty(t, first.Daily)
	assert.NotNil(t, first.Daily)
	assert.Equal(t, 3, counter.calls)
	assert.Contains(t, mem.items, "statistics:novedades:all:2024-05-01:2024-05-10")

	second, cached, err := svc.Novedades(ctx, nil, query)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.ByType, second.ByType)
	assert.Equal(t, 3, counter.calls)

	require.NoError(t, svc.cache.Invalidate(ctx, statisticsCachePattern))
	_, cached, err = svc.Novedades(ctx, nil, query)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 6, counter.calls)
}

func TestStatisticsServiceScopesBusiness(t *testing.T) {
	svc, counter, _ := newStatisticsFixture(newRecordStore())

	_, _, err := svc.Novedades(context.Background(), scopedClaims(2), dto.StatisticsQuery{})
	require.NoError(t, err)
	for _, f := range counter.filters {
		require.NotNil(t, f.BusinessUnitID)
		assert.Equal(t, int64(2), *f.BusinessUnitID)
	}

	_, _, err = svc.Compliance(context.Background(), scopedClaims(2), dto.StatisticsQuery{BusinessID: int64Ptr(1)})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	_, _, err = svc.Compliance(context.Background(), nil, dto.StatisticsQuery{From: "2024-05-10", To: "2024-05-01"})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStatisticsServiceSystem(t *testing.T) {
	svc, _, _ := newStatisticsFixture(newRecordStore())
	snapshot := svc.System()
	assert.Positive(t, snapshot.Goroutines)
}
