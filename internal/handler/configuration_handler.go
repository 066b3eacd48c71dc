package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type configurationService interface {
	List(ctx context.Context, actor *models.JWTClaims, query dto.ConfigurationQuery) ([]models.ShiftConfiguration, error)
	Applicable(ctx context.Context, actor *models.JWTClaims, query dto.ApplicableConfigurationQuery) (*models.ShiftConfiguration, error)
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateConfigurationRequest) (*models.ShiftConfiguration, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id int64) error
}

// ConfigurationHandler exposes date-effective slot configurations.
type ConfigurationHandler struct {
	service configurationService
}

// NewConfigurationHandler builds a new handler.
func NewConfigurationHandler(service configurationService) *ConfigurationHandler {
	return &ConfigurationHandler{service: service}
}

// List godoc
// @Summary List slot configurations of a business unit
// @Tags Configuration
// @Produce json
// @Param businessId query int true "Business unit ID"
// @Success 200 {object} response.Envelope
// @Router /configurations [get]
func (h *ConfigurationHandler) List(c *gin.Context) {
	var query dto.ConfigurationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration query"))
		return
	}
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Applicable godoc
// @Summary Get the configuration in effect on a date
// @Tags Configuration
// @Produce json
// @Param businessId query int true "Business unit ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /configurations/applicable [get]
func (h *ConfigurationHandler) Applicable(c *gin.Context) {
	var query dto.ApplicableConfigurationQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration query"))
		return
	}
	item, err := h.service.Applicable(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create slot configuration
// @Tags Configuration
// @Accept json
// @Produce json
// @Param payload body dto.CreateConfigurationRequest true "Configuration payload"
// @Success 201 {object} response.Envelope
// @Router /configurations [post]
func (h *ConfigurationHandler) Create(c *gin.Context) {
	var req dto.CreateConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid configuration payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Delete godoc
// @Summary Delete slot configuration
// @Tags Configuration
// @Param id path int true "Configuration ID"
// @Success 204
// @Router /configurations/{id} [delete]
func (h *ConfigurationHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
