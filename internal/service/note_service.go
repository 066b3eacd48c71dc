package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type noteRepository interface {
	FindByID(ctx context.Context, id int64) (*models.ShiftRecord, error)
	UpdateNote(ctx context.Context, id int64, slot, clock string, note *string) (grid.Cell, error)
}

// NoteService writes annotations on individual rating cells.
type NoteService struct {
	repo      noteRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNoteService constructs a NoteService.
func NewNoteService(repo noteRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *NoteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoteService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// Set stores the note of one (record, slot, time) cell. A nil or blank note
// clears it; the cell value is kept either way.
func (s *NoteService) Set(ctx context.Context, actor *models.JWTClaims, req dto.NoteRequest) (grid.Cell, error) {
	if err := s.validator.Struct(req); err != nil {
		return grid.Cell{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if _, err := grid.ParseClock(req.Time); err != nil {
		return grid.Cell{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "time must use HH:MM")
	}

	record, err := s.repo.FindByID(ctx, req.RecordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grid.Cell{}, appErrors.Clone(appErrors.ErrNotFound, "shift record not found")
		}
		return grid.Cell{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load shift record")
	}
	if err := ensureBusinessAccess(actor, record.BusinessUnitID); err != nil {
		return grid.Cell{}, err
	}

	note := req.Note
	if note != nil {
		trimmed := strings.TrimSpace(*note)
		if trimmed == "" {
			note = nil
		} else {
			note = &trimmed
		}
	}

	cell, err := s.repo.UpdateNote(ctx, req.RecordID, req.Slot, req.Time, note)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return grid.Cell{}, appErrors.Clone(appErrors.ErrNotFound, "shift record not found")
		}
		return grid.Cell{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save note")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionNoteUpdate, "shift_record", int64ID(req.RecordID), req)
	return cell, nil
}
