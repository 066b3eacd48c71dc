package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type businessUnitRepository interface {
	List(ctx context.Context, activeOnly bool) ([]models.BusinessUnit, error)
}

// BusinessUnitService lists business units visible to the caller.
type BusinessUnitService struct {
	repo   businessUnitRepository
	logger *zap.Logger
}

// NewBusinessUnitService constructs the service.
func NewBusinessUnitService(repo businessUnitRepository, logger *zap.Logger) *BusinessUnitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BusinessUnitService{repo: repo, logger: logger}
}

// List returns active business units, restricted to the caller's own unit when scoped.
func (s *BusinessUnitService) List(ctx context.Context, actor *models.JWTClaims) ([]models.BusinessUnit, error) {
	units, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list business units")
	}
	if actor == nil {
		return units, nil
	}
	visible := make([]models.BusinessUnit, 0, len(units))
	for _, unit := range units {
		if actor.CanAccessBusiness(unit.ID) {
			visible = append(visible, unit)
		}
	}
	return visible, nil
}
