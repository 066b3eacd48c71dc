package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

var testDay = time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin}
}

func scopedClaims(businessID int64) *models.JWTClaims {
	return &models.JWTClaims{UserID: "sup-1", Role: models.RoleSupervisor, BusinessUnitID: int64Ptr(businessID)}
}

func rated(slot, clock string, v int) grid.Ratings {
	r := grid.Ratings{}
	r.Put(slot, clock, grid.Valued(v))
	return r
}

type auditStub struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

func (a *auditStub) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.logs))
	for i, l := range a.logs {
		out[i] = l.Action
	}
	return out
}

type invalidatorStub struct {
	patterns []string
}

func (c *invalidatorStub) Invalidate(ctx context.Context, pattern string) error {
	c.patterns = append(c.patterns, pattern)
	return nil
}

type postStub struct {
	posts   []models.Post
	listErr error
}

func (p *postStub) ListByBusiness(ctx context.Context, businessID int64) ([]models.Post, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	var out []models.Post
	for _, post := range p.posts {
		if post.BusinessUnitID == businessID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (p *postStub) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	for _, post := range p.posts {
		if post.ID == id {
			found := post
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

type configStub struct {
	configs []models.ShiftConfiguration
}

func (c *configStub) ListByBusiness(ctx context.Context, businessID int64) ([]models.ShiftConfiguration, error) {
	var out []models.ShiftConfiguration
	for _, cfg := range c.configs {
		if cfg.BusinessUnitID == businessID {
			out = append(out, cfg)
		}
	}
	return out, nil
}

// recordStore is an in-memory shift record repository.
type recordStore struct {
	mu       sync.Mutex
	records  map[int64]*models.ShiftRecord
	nextID   int64
	failPost map[int64]error
	rangeErr error
	loads    int
}

func newRecordStore(records ...models.ShiftRecord) *recordStore {
	s := &recordStore{records: map[int64]*models.ShiftRecord{}, nextID: 100}
	for i := range records {
		rec := records[i]
		s.records[rec.ID] = &rec
	}
	return s
}

func (s *recordStore) ListByBusinessDate(ctx context.Context, businessID int64, date time.Time) ([]models.ShiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	var out []models.ShiftRecord
	for _, rec := range s.records {
		if rec.BusinessUnitID == businessID && rec.Date.Equal(date) {
			out = append(out, *rec)
		}
	}
	return out, nil
}

func (s *recordStore) ListByRange(ctx context.Context, filter models.ShiftRecordFilter) ([]models.ShiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rangeErr != nil {
		return nil, s.rangeErr
	}
	var out []models.ShiftRecord
	for _, rec := range s.records {
		if filter.BusinessUnitID != nil && rec.BusinessUnitID != *filter.BusinessUnitID {
			continue
		}
		if rec.Date.Before(filter.From) || rec.Date.After(filter.To) {
			continue
		}
		out = append(out, *rec)
	}
	return out, nil
}

func (s *recordStore) FindByID(ctx context.Context, id int64) (*models.ShiftRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	out := *rec
	out.Ratings = rec.Ratings.Clone()
	return &out, nil
}

func (s *recordStore) Create(ctx context.Context, record *grid.Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failPost[record.PostID]; err != nil {
		return 0, err
	}
	s.nextID++
	stored := models.ShiftRecord{Record: *record, BusinessUnitID: 1}
	stored.ID = s.nextID
	stored.Ratings = record.Ratings.Clone()
	s.records[stored.ID] = &stored
	return stored.ID, nil
}

func (s *recordStore) UpdateRatings(ctx context.Context, id int64, ratings grid.Ratings, collaborator *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return sql.ErrNoRows
	}
	if err := s.failPost[rec.PostID]; err != nil {
		return err
	}
	rec.Ratings = ratings.Clone()
	if collaborator != nil {
		rec.Collaborator = *collaborator
	}
	return nil
}

func (s *recordStore) UpdateNote(ctx context.Context, id int64, slot, clock string, note *string) (grid.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return grid.Cell{}, sql.ErrNoRows
	}
	cell, _ := rec.Ratings.Get(slot, clock)
	cell.Note = note
	if cell.IsEmpty() {
		rec.Ratings.Delete(slot, clock)
	} else {
		rec.Ratings.Put(slot, clock, cell)
	}
	return cell, nil
}

func shiftRecord(id, postID, businessID int64, date time.Time, shift grid.Shift, collaborator string, ratings grid.Ratings) models.ShiftRecord {
	if ratings == nil {
		ratings = grid.Ratings{}
	}
	return models.ShiftRecord{
		Record: grid.Record{
			ID:           id,
			PostID:       postID,
			Date:         date,
			Shift:        shift,
			Collaborator: collaborator,
			Ratings:      ratings,
		},
		BusinessUnitID: businessID,
		PostName:       "Post " + int64ID(postID),
	}
}

type businessUnitStub struct {
	units []models.BusinessUnit
}

func (b *businessUnitStub) List(ctx context.Context, activeOnly bool) ([]models.BusinessUnit, error) {
	return b.units, nil
}

func (b *businessUnitStub) FindByID(ctx context.Context, id int64) (*models.BusinessUnit, error) {
	for _, u := range b.units {
		if u.ID == id {
			found := u
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}
