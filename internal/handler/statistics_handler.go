package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/middleware"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type statisticsService interface {
	Compliance(ctx context.Context, actor *models.JWTClaims, query dto.StatisticsQuery) (*models.ComplianceStatistics, bool, error)
	Novedades(ctx context.Context, actor *models.JWTClaims, query dto.StatisticsQuery) (*models.NovedadStatistics, bool, error)
	System() models.SystemMetrics
}

// StatisticsHandler serves compliance and novedad statistics.
type StatisticsHandler struct {
	service statisticsService
}

// NewStatisticsHandler constructs the handler.
func NewStatisticsHandler(service statisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// Compliance godoc
// @Summary Compliance statistics
// @Tags Statistics
// @Produce json
// @Param businessId query int false "Business unit ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /statistics/compliance [get]
func (h *StatisticsHandler) Compliance(c *gin.Context) {
	query, ok := bindStatisticsQuery(c)
	if !ok {
		return
	}
	stats, cacheHit, err := h.service.Compliance(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, statisticsMeta(c, cacheHit))
}

// Novedades godoc
// @Summary Novedad statistics
// @Tags Statistics
// @Produce json
// @Param businessId query int false "Business unit ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /statistics/novedades [get]
func (h *StatisticsHandler) Novedades(c *gin.Context) {
	query, ok := bindStatisticsQuery(c)
	if !ok {
		return
	}
	stats, cacheHit, err := h.service.Novedades(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, statisticsMeta(c, cacheHit))
}

// System godoc
// @Summary Process metrics snapshot
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /statistics/system [get]
func (h *StatisticsHandler) System(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.System(), nil)
}

func bindStatisticsQuery(c *gin.Context) (dto.StatisticsQuery, bool) {
	var query dto.StatisticsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid statistics query"))
		return query, false
	}
	return query, true
}

func statisticsMeta(c *gin.Context, cacheHit bool) map[string]interface{} {
	middleware.SetCacheHit(c, cacheHit)
	return middleware.ResponseMeta(c)
}
