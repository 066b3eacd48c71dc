package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type exportServiceMock struct {
	file *dto.ExportFile
	err  error
	req  dto.ExportRequest
}

func (m *exportServiceMock) Export(ctx context.Context, actor *models.JWTClaims, req dto.ExportRequest) (*dto.ExportFile, error) {
	m.req = req
	return m.file, m.err
}

func TestExportHandlerStreamsFile(t *testing.T) {
	svc := &exportServiceMock{file: &dto.ExportFile{
		Filename:    "cumplidos_planta_norte_2024-05-10.csv",
		ContentType: "text/csv; charset=utf-8",
		Data:        []byte("Date,Post\n"),
	}}
	handler := NewExportHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/export", dto.ExportRequest{BusinessID: 1, Mode: dto.ExportModeDay, Date: "2024-05-10", Format: dto.ExportFormatCSV})

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="cumplidos_planta_norte_2024-05-10.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "Date,Post\n", w.Body.String())
	assert.Equal(t, dto.ExportFormatCSV, svc.req.Format)
}

func TestExportHandlerNoData(t *testing.T) {
	handler := NewExportHandler(&exportServiceMock{err: appErrors.ErrNoData})
	c, w := newTestContext(t, http.MethodPost, "/export", dto.ExportRequest{BusinessID: 1, Mode: dto.ExportModeDay, Date: "2024-05-10"})

	handler.Export(c)

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NO_DATA", decodeEnvelope(t, w)["error"].(map[string]interface{})["code"])
}
