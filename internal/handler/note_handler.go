package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type noteService interface {
	Set(ctx context.Context, actor *models.JWTClaims, req dto.NoteRequest) (grid.Cell, error)
}

// NoteHandler writes notes of single rating cells.
type NoteHandler struct {
	service noteService
}

// NewNoteHandler constructs the handler.
func NewNoteHandler(service noteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Set godoc
// @Summary Set or clear a cell note
// @Description Updates the note of one cell immediately, keeping its value. A null or empty note clears it.
// @Tags Records
// @Accept json
// @Produce json
// @Param payload body dto.NoteRequest true "Note payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /notes [post]
func (h *NoteHandler) Set(c *gin.Context) {
	var req dto.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid note payload"))
		return
	}
	cell, err := h.service.Set(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cell, nil)
}
