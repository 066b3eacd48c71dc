package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	"github.com/renoa-ops/renoa-api/internal/service"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
	"github.com/renoa-ops/renoa-api/pkg/response"
)

type novedadService interface {
	List(ctx context.Context, actor *models.JWTClaims, query dto.NovedadQuery) ([]models.Novedad, *models.Pagination, error)
	Get(ctx context.Context, actor *models.JWTClaims, id string) (*dto.NovedadResponse, error)
	Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateNovedadRequest) (*dto.NovedadResponse, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id string) error
	AddEvidence(ctx context.Context, actor *models.JWTClaims, id string, upload service.EvidenceUpload) (*dto.NovedadResponse, error)
	OpenEvidence(ctx context.Context, id, token string) (*service.EvidenceDownload, error)
	Notify(ctx context.Context, actor *models.JWTClaims, id string, req dto.NotifyNovedadRequest) (*dto.NotifyNovedadResponse, error)
}

// NovedadHandler manages incident reports and their evidence.
type NovedadHandler struct {
	service novedadService
}

// NewNovedadHandler constructs the handler.
func NewNovedadHandler(service novedadService) *NovedadHandler {
	return &NovedadHandler{service: service}
}

// List godoc
// @Summary List novedades
// @Tags Novedades
// @Produce json
// @Param businessId query int false "Business unit ID"
// @Param postId query int false "Post ID"
// @Param type query string false "Novedad type"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /novedades [get]
func (h *NovedadHandler) List(c *gin.Context) {
	var query dto.NovedadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid novedad query"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get novedad with signed evidence links
// @Tags Novedades
// @Produce json
// @Param id path string true "Novedad ID"
// @Success 200 {object} response.Envelope
// @Router /novedades/{id} [get]
func (h *NovedadHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Report a novedad
// @Tags Novedades
// @Accept json
// @Produce json
// @Param payload body dto.CreateNovedadRequest true "Novedad payload"
// @Success 201 {object} response.Envelope
// @Router /novedades [post]
func (h *NovedadHandler) Create(c *gin.Context) {
	var req dto.CreateNovedadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid novedad payload"))
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
// @Summary Delete a novedad and its evidence
// @Tags Novedades
// @Param id path string true "Novedad ID"
// @Success 204
// @Router /novedades/{id} [delete]
func (h *NovedadHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadEvidence godoc
// @Summary Attach an evidence file
// @Tags Novedades
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Novedad ID"
// @Param file formData file true "Evidence file"
// @Success 201 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Router /novedades/{id}/evidence [post]
func (h *NovedadHandler) UploadEvidence(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	reader, ok := src.(io.ReadSeeker)
	if !ok {
		buf, readErr := io.ReadAll(src)
		if readErr != nil {
			response.Error(c, appErrors.Wrap(readErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
			return
		}
		reader = bytes.NewReader(buf)
	}

	upload := service.EvidenceUpload{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  reader,
	}
	item, err := h.service.AddEvidence(c.Request.Context(), claimsFromContext(c), c.Param("id"), upload)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, item, nil)
}

// DownloadEvidence godoc
// @Summary Download evidence via signed token
// @Tags Novedades
// @Produce octet-stream
// @Param id path string true "Novedad ID"
// @Param token query string true "Signed token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /novedades/{id}/evidence [get]
func (h *NovedadHandler) DownloadEvidence(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.service.OpenEvidence(c.Request.Context(), c.Param("id"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, result.SizeBytes, result.MimeType, result.File, nil)
}

// Notify godoc
// @Summary Email a novedad report
// @Tags Novedades
// @Accept json
// @Produce json
// @Param id path string true "Novedad ID"
// @Param payload body dto.NotifyNovedadRequest false "Recipients override"
// @Success 202 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /novedades/{id}/notify [post]
func (h *NovedadHandler) Notify(c *gin.Context) {
	var req dto.NotifyNovedadRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid notify payload"))
			return
		}
	}
	result, err := h.service.Notify(c.Request.Context(), claimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, result, nil)
}
