package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type businessUnitService interface {
	List(ctx context.Context, actor *models.JWTClaims) ([]models.BusinessUnit, error)
}

// BusinessUnitHandler lists the business units visible to the caller.
type BusinessUnitHandler struct {
	service businessUnitService
}

// NewBusinessUnitHandler constructs the handler.
func NewBusinessUnitHandler(service businessUnitService) *BusinessUnitHandler {
	return &BusinessUnitHandler{service: service}
}

// List godoc
// @Summary List business units
// @Tags BusinessUnits
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /business-units [get]
func (h *BusinessUnitHandler) List(c *gin.Context) {
	units, err := h.service.List(c.Request.Context(), claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, units, nil)
}
