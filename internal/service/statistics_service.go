package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/internal/repository"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

const defaultStatisticsWindow = 30

type statisticsRecordReader interface {
	ListByRange(ctx context.Context, filter models.ShiftRecordFilter) ([]models.ShiftRecord, error)
}

type novedadCounter interface {
	CountNovedades(ctx context.Context, filter models.StatisticsFilter, grouping repository.NovedadGrouping) ([]models.CountBucket, error)
}

// StatisticsService aggregates compliance ratings and novedades over a period.
type StatisticsService struct {
	records   statisticsRecordReader
	units     businessUnitRepository
	counts    novedadCounter
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewStatisticsService constructs a StatisticsService.
func NewStatisticsService(records statisticsRecordReader, units businessUnitRepository, counts novedadCounter, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *StatisticsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatisticsService{
		records:   records,
		units:     units,
		counts:    counts,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Compliance summarises ratings per business unit, shift and day. The
// boolean reports whether the payload came from cache.
func (s *StatisticsService) Compliance(ctx context.Context, actor *models.JWTClaims, query dto.StatisticsQuery) (*models.ComplianceStatistics, bool, error) {
	filter, err := s.filter(actor, query)
	if err != nil {
		return nil, false, err
	}
	return remember(ctx, s.cache, statisticsCacheKey("compliance", filter), func(ctx context.Context) (*models.ComplianceStatistics, error) {
		return s.loadCompliance(ctx, filter)
	})
}

func (s *StatisticsService) loadCompliance(ctx context.Context, filter models.StatisticsFilter) (*models.ComplianceStatistics, error) {
	var (
		records   []models.ShiftRecord
		units     []models.BusinessUnit
		novedades []models.CountBucket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.records.ListByRange(gctx, models.ShiftRecordFilter{BusinessUnitID: filter.BusinessUnitID, From: filter.From, To: filter.To})
		return err
	})
	g.Go(func() error {
		var err error
		units, err = s.units.List(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		novedades, err = s.counts.CountNovedades(gctx, filter, repository.GroupByType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load compliance statistics")
	}

	stats := aggregateCompliance(records, units)
	stats.From, stats.To = filter.From, filter.To
	for _, b := range novedades {
		stats.Novedades += b.Count
	}
	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}

// Novedades counts incident reports by type, business unit and day.
func (s *StatisticsService) Novedades(ctx context.Context, actor *models.JWTClaims, query dto.StatisticsQuery) (*models.NovedadStatistics, bool, error) {
	filter, err := s.filter(actor, query)
	if err != nil {
		return nil, false, err
	}
	return remember(ctx, s.cache, statisticsCacheKey("novedades", filter), func(ctx context.Context) (*models.NovedadStatistics, error) {
		return s.loadNovedades(ctx, filter)
	})
}

func (s *StatisticsService) loadNovedades(ctx context.Context, filter models.StatisticsFilter) (*models.NovedadStatistics, error) {
	stats := &models.NovedadStatistics{From: filter.From, To: filter.To}
	groupings := []struct {
		grouping repository.NovedadGrouping
		dest     *[]models.CountBucket
	}{
		{repository.GroupByType, &stats.ByType},
		{repository.GroupByBusinessUnit, &stats.ByBusinessUnit},
		{repository.GroupByDay, &stats.Daily},
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, item := range groupings {
		item := item
		g.Go(func() error {
			buckets, err := s.counts.CountNovedades(gctx, filter, item.grouping)
			if err != nil {
				return err
			}
			if buckets == nil {
				buckets = []models.CountBucket{}
			}
			*item.dest = buckets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load novedad statistics")
	}
	for _, b := range stats.ByType {
		stats.Total += b.Count
	}
	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}

// System returns the process instrumentation snapshot.
func (s *StatisticsService) System() models.SystemMetrics {
	return s.metrics.Snapshot()
}

func (s *StatisticsService) filter(actor *models.JWTClaims, query dto.StatisticsQuery) (models.StatisticsFilter, error) {
	if err := s.validator.Struct(query); err != nil {
		return models.StatisticsFilter{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid statistics query")
	}
	business, err := scopedBusiness(actor, query.BusinessID)
	if err != nil {
		return models.StatisticsFilter{}, err
	}
	now := s.now().UTC()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if query.To != "" {
		if to, err = parseDate("to", query.To); err != nil {
			return models.StatisticsFilter{}, err
		}
	}
	from := to.AddDate(0, 0, -(defaultStatisticsWindow - 1))
	if query.From != "" {
		if from, err = parseDate("from", query.From); err != nil {
			return models.StatisticsFilter{}, err
		}
	}
	if to.Before(from) {
		return models.StatisticsFilter{}, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	return models.StatisticsFilter{BusinessUnitID: business, From: from, To: to}, nil
}

func statisticsCacheKey(kind string, filter models.StatisticsFilter) string {
	business := "all"
	if filter.BusinessUnitID != nil {
		business = int64ID(*filter.BusinessUnitID)
	}
	return fmt.Sprintf("statistics:%s:%s:%s:%s", kind, business, filter.From.Format(dateLayout), filter.To.Format(dateLayout))
}

func aggregateCompliance(records []models.ShiftRecord, units []models.BusinessUnit) *models.ComplianceStatistics {
	names := make(map[int64]string, len(units))
	for _, u := range units {
		names[u.ID] = u.Name
	}

	var total ratingTally
	byBusiness := map[int64]*ratingTally{}
	byShift := map[int64]*ratingTally{}
	byDay := map[int64]*ratingTally{}
	tallyFor := func(m map[int64]*ratingTally, k int64) *ratingTally {
		if m[k] == nil {
			m[k] = &ratingTally{}
		}
		return m[k]
	}
	for _, rec := range records {
		total.add(rec.Record)
		tallyFor(byBusiness, rec.BusinessUnitID).add(rec.Record)
		tallyFor(byShift, int64(rec.Shift)).add(rec.Record)
		tallyFor(byDay, rec.Date.UTC().Unix()).add(rec.Record)
	}

	stats := &models.ComplianceStatistics{
		Totals:         total.finish(),
		ByBusinessUnit: make([]models.BusinessCompliance, 0, len(byBusiness)),
		ByShift:        make([]models.ShiftCompliance, 0, len(byShift)),
		Daily:          make([]models.DailyCompliance, 0, len(byDay)),
	}
	for id, t := range byBusiness {
		name, ok := names[id]
		if !ok {
			name = int64ID(id)
		}
		stats.ByBusinessUnit = append(stats.ByBusinessUnit, models.BusinessCompliance{BusinessUnitID: id, BusinessUnit: name, RatingTotals: t.finish()})
	}
	sort.Slice(stats.ByBusinessUnit, func(i, j int) bool {
		return stats.ByBusinessUnit[i].BusinessUnitID < stats.ByBusinessUnit[j].BusinessUnitID
	})
	for _, shift := range []grid.Shift{grid.ShiftDay, grid.ShiftB, grid.ShiftNight} {
		if t, ok := byShift[int64(shift)]; ok {
			stats.ByShift = append(stats.ByShift, models.ShiftCompliance{Shift: shift.String(), RatingTotals: t.finish()})
		}
	}
	for d, t := range byDay {
		stats.Daily = append(stats.Daily, models.DailyCompliance{Date: time.Unix(d, 0).UTC(), RatingTotals: t.finish()})
	}
	sort.Slice(stats.Daily, func(i, j int) bool { return stats.Daily[i].Date.Before(stats.Daily[j].Date) })
	return stats
}
