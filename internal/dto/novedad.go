package dto

import (
	"time"

	"github.com/renoa-ops/renoa-api/internal/models"
)

// NovedadQuery captures GET /novedades parameters.
type NovedadQuery struct {
	BusinessID *int64  `form:"businessId" validate:"omitempty,gt=0"`
	PostID     *int64  `form:"postId" validate:"omitempty,gt=0"`
	Type       *string `form:"type" validate:"omitempty,oneof=INTRUSION ABSENCE INCIDENT MAINTENANCE OTHER"`
	From       *string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         *string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Page       int     `form:"page" validate:"omitempty,min=1"`
	PageSize   int     `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

// CreateNovedadRequest reports a new incident.
type CreateNovedadRequest struct {
	BusinessUnitID int64     `json:"businessUnitId" validate:"required,gt=0"`
	PostID         *int64    `json:"postId" validate:"omitempty,gt=0"`
	OccurredAt     time.Time `json:"occurredAt" validate:"required"`
	Type           string    `json:"type" validate:"required,oneof=INTRUSION ABSENCE INCIDENT MAINTENANCE OTHER"`
	Description    string    `json:"description" validate:"required,max=4000"`
	Notify         bool      `json:"notify"`
}

// EvidenceLink is a signed download link for one evidence file.
type EvidenceLink struct {
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NotifyNovedadRequest queues the email for a novedad.
type NotifyNovedadRequest struct {
	Recipients []string `json:"recipients" validate:"omitempty,dive,email"`
}

// NotifyNovedadResponse returns the queued job id.
type NotifyNovedadResponse struct {
	JobID string `json:"jobId"`
}

// NovedadResponse is a novedad with signed links to its evidence files.
type NovedadResponse struct {
	models.Novedad
	EvidenceLinks []EvidenceLink `json:"evidenceLinks"`
}
