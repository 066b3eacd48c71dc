package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type configurationRepository interface {
	ListByBusiness(ctx context.Context, businessID int64) ([]models.ShiftConfiguration, error)
	FindByID(ctx context.Context, id int64) (*models.ShiftConfiguration, error)
	Create(ctx context.Context, cfg *models.ShiftConfiguration) error
	Delete(ctx context.Context, id int64) error
}

// ConfigurationService manages date-effective slot configurations.
type ConfigurationService struct {
	repo      configurationRepository
	audit     auditLogger
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigurationService constructs a ConfigurationService.
func NewConfigurationService(repo configurationRepository, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *ConfigurationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// List returns the configurations of a business unit, newest first.
func (s *ConfigurationService) List(ctx context.Context, actor *models.JWTClaims, query dto.ConfigurationQuery) ([]models.ShiftConfiguration, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration query")
	}
	if err := ensureBusinessAccess(actor, query.BusinessID); err != nil {
		return nil, err
	}
	configs, err := s.repo.ListByBusiness(ctx, query.BusinessID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list configurations")
	}
	return configs, nil
}

// Applicable returns the configuration in effect on the given date: the one
// with the greatest start date not after it.
func (s *ConfigurationService) Applicable(ctx context.Context, actor *models.JWTClaims, query dto.ApplicableConfigurationQuery) (*models.ShiftConfiguration, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration query")
	}
	date, err := parseDate("date", query.Date)
	if err != nil {
		return nil, err
	}
	configs, err := s.List(ctx, actor, dto.ConfigurationQuery{BusinessID: query.BusinessID})
	if err != nil {
		return nil, err
	}
	candidates := make([]grid.Configuration, len(configs))
	for i, cfg := range configs {
		candidates[i] = cfg.ToGrid()
	}
	chosen, ok := grid.Applicable(candidates, date)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no configuration applies to the date")
	}
	for i := range configs {
		if configs[i].ID == chosen.ID {
			return &configs[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no configuration applies to the date")
}

// Create stores a configuration effective from its start date.
func (s *ConfigurationService) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateConfigurationRequest) (*models.ShiftConfiguration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid configuration payload")
	}
	if err := ensureBusinessAccess(actor, req.BusinessUnitID); err != nil {
		return nil, err
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		return nil, err
	}
	cfg := &models.ShiftConfiguration{
		BusinessUnitID: req.BusinessUnitID,
		StartDate:      start,
		SlotCounts:     grid.SlotCounts{Day: req.Day, ShiftB: req.ShiftB, Night: req.Night},
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create configuration")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionConfigWrite, "configuration", int64ID(cfg.ID), cfg)
	return cfg, nil
}

// Delete removes a configuration.
func (s *ConfigurationService) Delete(ctx context.Context, actor *models.JWTClaims, id int64) error {
	cfg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load configuration")
	}
	if err := ensureBusinessAccess(actor, cfg.BusinessUnitID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "configuration not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete configuration")
	}
	recordAudit(ctx, s.audit, s.logger, actor, models.AuditActionConfigWrite, "configuration", int64ID(id), map[string]bool{"deleted": true})
	return nil
}
