package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type gridPostReader interface {
	ListByBusiness(ctx context.Context, businessID int64) ([]models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
}

type gridConfigurationReader interface {
	ListByBusiness(ctx context.Context, businessID int64) ([]models.ShiftConfiguration, error)
}

type shiftRecordRepository interface {
	ListByBusinessDate(ctx context.Context, businessID int64, date time.Time) ([]models.ShiftRecord, error)
	FindByID(ctx context.Context, id int64) (*models.ShiftRecord, error)
	Create(ctx context.Context, record *grid.Record) (int64, error)
	UpdateRatings(ctx context.Context, id int64, ratings grid.Ratings, collaborator *string) error
}

// GridServiceConfig tunes grid saves.
type GridServiceConfig struct {
	SaveConcurrency int
	SaveTimeout     time.Duration
}

// GridService loads compliance grids and reconciles saves into record writes.
type GridService struct {
	posts     gridPostReader
	configs   gridConfigurationReader
	records   shiftRecordRepository
	audit     auditLogger
	cache     cacheInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       GridServiceConfig
}

// NewGridService constructs a GridService.
func NewGridService(posts gridPostReader, configs gridConfigurationReader, records shiftRecordRepository, audit auditLogger, cache cacheInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg GridServiceConfig) *GridService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SaveConcurrency <= 0 {
		cfg.SaveConcurrency = 4
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = 30 * time.Second
	}
	return &GridService{
		posts:     posts,
		configs:   configs,
		records:   records,
		audit:     audit,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Load fetches posts, records and configurations of a business unit for date.
// The three reads run concurrently; any failure fails the load.
func (s *GridService) Load(ctx context.Context, businessID int64, date time.Time) (grid.Source, error) {
	var (
		posts   []models.Post
		records []models.ShiftRecord
		configs []models.ShiftConfiguration
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.posts.ListByBusiness(gctx, businessID)
		return err
	})
	g.Go(func() error {
		var err error
		records, err = s.records.ListByBusinessDate(gctx, businessID, date)
		return err
	})
	g.Go(func() error {
		var err error
		configs, err = s.configs.ListByBusiness(gctx, businessID)
		return err
	})
	if err := g.Wait(); err != nil {
		return grid.Source{}, err
	}

	src := grid.Source{
		Posts:          make([]grid.Post, len(posts)),
		Records:        models.GridRecords(records),
		Configurations: make([]grid.Configuration, len(configs)),
	}
	for i, p := range posts {
		src.Posts[i] = p.ToGrid()
	}
	for i, c := range configs {
		src.Configurations[i] = c.ToGrid()
	}
	return src, nil
}

// Grid returns the assembled grid for a business unit and date.
func (s *GridService) Grid(ctx context.Context, actor *models.JWTClaims, query dto.GridQuery) (*dto.GridResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grid query")
	}
	if err := ensureBusinessAccess(actor, query.BusinessID); err != nil {
		return nil, err
	}
	date, err := parseDate("date", query.Date)
	if err != nil {
		return nil, err
	}
	view, err := grid.ParseView(query.View)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view")
	}
	g, err := s.assemble(ctx, query.BusinessID, date)
	if err != nil {
		return nil, err
	}
	return gridResponse(query.BusinessID, view, g), nil
}

// Records returns the raw shift records of a business unit on a date.
func (s *GridService) Records(ctx context.Context, actor *models.JWTClaims, query dto.RecordsQuery) ([]models.ShiftRecord, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid records query")
	}
	if err := ensureBusinessAccess(actor, query.BusinessID); err != nil {
		return nil, err
	}
	date, err := parseDate("date", query.Date)
	if err != nil {
		return nil, err
	}
	records, err := s.records.ListByBusinessDate(ctx, query.BusinessID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift records")
	}
	return records, nil
}

// Save reconciles the submitted pending changes against freshly loaded
// records, issues every write concurrently and reloads the grid once all of
// them settled. When any write fails the response carries per-record
// outcomes and the error is PARTIAL_WRITE.
func (s *GridService) Save(ctx context.Context, actor *models.JWTClaims, req dto.SaveGridRequest) (*dto.SaveGridResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	if err := ensureBusinessAccess(actor, req.BusinessID); err != nil {
		return nil, err
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	g, err := s.assemble(ctx, req.BusinessID, date)
	if err != nil {
		return nil, err
	}
	columns, err := applyBindings(g.Columns, req.Columns)
	if err != nil {
		return nil, err
	}
	changes, err := seedChanges(g, columns, req.Changes)
	if err != nil {
		return nil, err
	}

	plan, err := grid.Reconcile(changes, columns, g.Snapshot)
	if err != nil {
		if errors.Is(err, grid.ErrUnboundColumns) || errors.Is(err, grid.ErrInvalidCell) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reconcile changes")
	}

	writeCtx, cancel := context.WithTimeout(ctx, s.cfg.SaveTimeout)
	result := grid.Execute(writeCtx, date, plan, &recordWriter{repo: s.records}, s.cfg.SaveConcurrency)
	cancel()
	s.metrics.ObserveGridSave(result, time.Since(started))

	resp := &dto.SaveGridResponse{Results: recordResults(result)}
	if len(plan.Ops) > 0 {
		recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionGridSave, "grid", int64ID(req.BusinessID), map[string]interface{}{
			"date":    req.Date,
			"posts":   plan.PostIDs,
			"writes":  len(plan.Ops),
			"failed":  len(result.Failed()),
			"columns": columns,
		})
		if s.cache != nil {
			_ = s.cache.Invalidate(ctx, statisticsCachePattern)
		}
	}

	if !result.OK() {
		s.logger.Warn("grid save partially failed",
			zap.Int64("business_id", req.BusinessID),
			zap.String("date", req.Date),
			zap.Int("failed", len(result.Failed())),
			zap.Error(result.Err()),
		)
		return resp, appErrors.Wrap(result.Err(), appErrors.ErrPartialWrite.Code, appErrors.ErrPartialWrite.Status, appErrors.ErrPartialWrite.Message)
	}

	reloaded, err := s.assemble(ctx, req.BusinessID, date)
	if err != nil {
		return resp, err
	}
	resp.Grid = gridResponse(req.BusinessID, grid.ViewAll, reloaded)
	return resp, nil
}

// CreateRecord inserts a shift record outside the grid flow.
func (s *GridService) CreateRecord(ctx context.Context, actor *models.JWTClaims, req dto.CreateRecordRequest) (*grid.Record, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid record payload")
	}
	if !req.Shift.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown shift category")
	}
	post, err := s.posts.FindByID(ctx, req.PostID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "post not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load post")
	}
	if err := ensureBusinessAccess(actor, post.BusinessUnitID); err != nil {
		return nil, err
	}
	if err := req.Ratings.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		return nil, err
	}
	record := &grid.Record{PostID: req.PostID, Date: date, Shift: req.Shift, Collaborator: req.Collaborator, Ratings: req.Ratings.Clone()}
	if record.Ratings == nil {
		record.Ratings = grid.Ratings{}
	}
	id, err := s.records.Create(ctx, record)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create shift record")
	}
	record.ID = id
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionRecordCreate, "shift_record", int64ID(record.ID), record)
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, statisticsCachePattern)
	}
	return record, nil
}

// UpdateRatings overwrites the ratings of one record.
func (s *GridService) UpdateRatings(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateRatingsRequest) (*models.ShiftRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ratings payload")
	}
	if err := req.Ratings.Validate(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	record, err := s.findRecord(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := s.records.UpdateRatings(ctx, id, req.Ratings, req.Collaborator); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update ratings")
	}
	record.Ratings = req.Ratings
	if req.Collaborator != nil {
		record.Collaborator = *req.Collaborator
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionRecordUpdate, "shift_record", int64ID(id), req)
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, statisticsCachePattern)
	}
	return record, nil
}

func (s *GridService) findRecord(ctx context.Context, actor *models.JWTClaims, id int64) (*models.ShiftRecord, error) {
	record, err := s.records.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shift record not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift record")
	}
	if err := ensureBusinessAccess(actor, record.BusinessUnitID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *GridService) assemble(ctx context.Context, businessID int64, date time.Time) (grid.Grid, error) {
	src, err := s.Load(ctx, businessID, date)
	if err != nil {
		s.logger.Error("grid load failed", zap.Int64("business_id", businessID), zap.Time("date", date), zap.Error(err))
		return grid.Grid{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grid")
	}
	return grid.Assemble(date, src), nil
}

// recordWriter adapts the record repository to grid.Writer.
type recordWriter struct {
	repo shiftRecordRepository
}

func (w *recordWriter) CreateRecord(ctx context.Context, date time.Time, op grid.WriteOp) (int64, error) {
	record := &grid.Record{PostID: op.PostID, Date: date, Shift: op.Shift, Ratings: op.Ratings}
	if op.Collaborator != nil {
		record.Collaborator = *op.Collaborator
	}
	return w.repo.Create(ctx, record)
}

func (w *recordWriter) UpdateRecord(ctx context.Context, op grid.WriteOp) error {
	return w.repo.UpdateRatings(ctx, op.RecordID, op.Ratings, op.Collaborator)
}

// applyBindings overlays the client's column times onto the loaded columns.
func applyBindings(columns []grid.Column, bindings []dto.ColumnBinding) ([]grid.Column, error) {
	out := append([]grid.Column(nil), columns...)
	index := make(map[string]int, len(out))
	for i, col := range out {
		index[col.Key] = i
	}
	for _, b := range bindings {
		i, ok := index[b.Key]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown column %s", b.Key))
		}
		if b.Time != "" {
			if _, err := grid.ParseClock(b.Time); err != nil {
				return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("column %s: %v", b.Key, err))
			}
		}
		out[i].Time = b.Time
	}
	return out, nil
}

// seedChanges replays the submitted edits onto a pending map seeded from
// the loaded snapshot, so every record is rewritten with its stored cells
// plus the edits. Stored cells follow rebound column times first. A
// submitted cell replaces the stored cell at the same slot and time.
func seedChanges(g grid.Grid, columns []grid.Column, pending []dto.PendingChange) ([]grid.Change, error) {
	known := make(map[int64]struct{}, len(g.Posts))
	for _, p := range g.Posts {
		known[p.ID] = struct{}{}
	}
	pm := grid.NewPendingMap(g.Snapshot)
	for i, loaded := range g.Columns {
		if loaded.Bound() && columns[i].Bound() {
			pm.MoveTime(loaded.Key, loaded.Time, columns[i].Time)
		}
	}
	for _, p := range pending {
		if _, ok := known[p.PostID]; !ok {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("post %d is not part of this grid", p.PostID))
		}
		change := p.ToGrid()
		for shift, name := range change.Collaborators {
			if !shift.Valid() {
				return nil, appErrors.Clone(appErrors.ErrValidation, "unknown shift category")
			}
			pm.SetCollaborator(p.PostID, shift, name)
		}
		for slot, times := range change.Ratings {
			for clock, cell := range times {
				pm.SetRating(p.PostID, slot, clock, cell.Value)
				pm.SetNote(p.PostID, slot, clock, cell.Note)
			}
		}
	}
	return pm.All(), nil
}

func recordResults(result grid.SaveResult) []dto.RecordResult {
	out := make([]dto.RecordResult, len(result.Results))
	for i, res := range result.Results {
		out[i] = dto.RecordResult{
			PostID:   res.Op.PostID,
			Shift:    res.Op.Shift,
			Kind:     res.Op.Kind,
			RecordID: res.RecordID,
			OK:       res.Err == nil,
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PostID == out[j].PostID {
			return out[i].Shift < out[j].Shift
		}
		return out[i].PostID < out[j].PostID
	})
	return out
}

func gridResponse(businessID int64, view grid.View, g grid.Grid) *dto.GridResponse {
	resp := &dto.GridResponse{
		BusinessID: businessID,
		Date:       g.Date.Format(dateLayout),
		View:       view,
		Columns:    grid.FilterColumns(g.Columns, view),
		Unbound:    grid.Unbound(g.Columns),
		Rows:       make([]dto.GridRow, 0, len(g.Posts)),
	}
	if resp.Columns == nil {
		resp.Columns = []grid.Column{}
	}
	if resp.Unbound == nil {
		resp.Unbound = []string{}
	}
	if g.Configuration != nil {
		resp.Configuration = &dto.ConfigurationSummary{ID: g.Configuration.ID, StartDate: g.Configuration.StartDate, Counts: g.Configuration.Counts}
	}
	for _, p := range g.Posts {
		recs := g.Snapshot.Post(p.ID)
		row := dto.GridRow{Post: p, Ratings: recs.UnionRatings()}
		if recs != nil {
			row.Day, row.ShiftB, row.Night = recs.Day, recs.ShiftB, recs.Night
		}
		if row.Ratings == nil {
			row.Ratings = grid.Ratings{}
		}
		resp.Rows = append(resp.Rows, row)
	}
	return resp
}
