package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// statisticsCachePattern matches every cached statistics payload.
const statisticsCachePattern = "statistics:*"

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, field+" must use YYYY-MM-DD")
	}
	return t, nil
}

func ensureBusinessAccess(actor *models.JWTClaims, businessID int64) error {
	if actor == nil || actor.CanAccessBusiness(businessID) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "business unit is outside your scope")
}

// scopedBusiness narrows an optional business filter to the actor's own unit.
func scopedBusiness(actor *models.JWTClaims, requested *int64) (*int64, error) {
	if actor == nil || actor.Role == models.RoleAdmin || actor.BusinessUnitID == nil {
		return requested, nil
	}
	if requested != nil && *requested != *actor.BusinessUnitID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "business unit is outside your scope")
	}
	own := *actor.BusinessUnitID
	return &own, nil
}

func recordAudit(ctx context.Context, audit auditLogger, logger *zap.Logger, actor *models.JWTClaims, action, resource, resourceID string, values interface{}) {
	if audit == nil {
		return
	}
	entry := &models.AuditLog{Action: action, Resource: resource}
	if actor != nil {
		userID := actor.UserID
		entry.UserID = &userID
	}
	if resourceID != "" {
		entry.ResourceID = &resourceID
	}
	if values != nil {
		if payload, err := json.Marshal(values); err == nil {
			entry.NewValues = payload
		}
	}
	if err := audit.CreateAuditLog(ctx, entry); err != nil {
		logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}

func int64ID(id int64) string {
	return strconv.FormatInt(id, 10)
}
