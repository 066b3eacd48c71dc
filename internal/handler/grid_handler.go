package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type gridService interface {
	Grid(ctx context.Context, actor *models.JWTClaims, query dto.GridQuery) (*dto.GridResponse, error)
	Records(ctx context.Context, actor *models.JWTClaims, query dto.RecordsQuery) ([]models.ShiftRecord, error)
	Save(ctx context.Context, actor *models.JWTClaims, req dto.SaveGridRequest) (*dto.SaveGridResponse, error)
	CreateRecord(ctx context.Context, actor *models.JWTClaims, req dto.CreateRecordRequest) (*grid.Record, error)
	UpdateRatings(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateRatingsRequest) (*models.ShiftRecord, error)
}

// GridHandler exposes the compliance grid and raw shift records.
type GridHandler struct {
	service gridService
}

// NewGridHandler constructs the handler.
func NewGridHandler(service gridService) *GridHandler {
	return &GridHandler{service: service}
}

// Grid godoc
// @Summary Load the compliance grid
// @Tags Grid
// @Produce json
// @Param businessId query int true "Business unit ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param view query string false "all, day, night or shiftB"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /grid [get]
func (h *GridHandler) Grid(c *gin.Context) {
	var query dto.GridQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid grid query"))
		return
	}
	result, err := h.service.Grid(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Save godoc
// @Summary Save pending grid edits
// @Description Reconciles pending edits into per-record writes. When any write fails the error is PARTIAL_WRITE and meta.results lists every outcome.
// @Tags Grid
// @Accept json
// @Produce json
// @Param payload body dto.SaveGridRequest true "Pending edits"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /grid/save [post]
func (h *GridHandler) Save(c *gin.Context) {
	var req dto.SaveGridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid save payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		if result != nil && errors.Is(err, appErrors.ErrPartialWrite) {
			response.ErrorWithMeta(c, err, map[string]interface{}{"results": result.Results})
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Records godoc
// @Summary List shift records of a day
// @Tags Records
// @Produce json
// @Param businessId query int true "Business unit ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /records [get]
func (h *GridHandler) Records(c *gin.Context) {
	var query dto.RecordsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid records query"))
		return
	}
	records, err := h.service.Records(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}

// CreateRecord godoc
// @Summary Create a shift record
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.CreateRecordRequest true "Record payload"
// @Success 201 {object} response.Envelope
// @Router /records [post]
func (h *GridHandler) CreateRecord(c *gin.Context) {
	var req dto.CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record payload"))
		return
	}
	record, err := h.service.CreateRecord(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// UpdateRatings godoc
// @Summary Overwrite the ratings of a record
// @Tags Records
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Param payload body dto.UpdateRatingsRequest true "Ratings payload"
// @Success 200 {object} response.Envelope
// @Router /records/{id}/ratings [post]
func (h *GridHandler) UpdateRatings(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateRatingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ratings payload"))
		return
	}
	record, err := h.service.UpdateRatings(c.Request.Context(), claimsFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
