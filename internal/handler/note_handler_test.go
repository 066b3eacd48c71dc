package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type noteServiceMock struct {
	last dto.NoteRequest
	err  error
}

func (m *noteServiceMock) Set(ctx context.Context, actor *models.JWTClaims, req dto.NoteRequest) (grid.Cell, error) {
	m.last = req
	if m.err != nil {
		return grid.Cell{}, m.err
	}
	return grid.Cell{Value: intValue(0), Note: req.Note}, nil
}

func intValue(v int) *int { return &v }

func TestNoteHandlerSetKeepsZeroValue(t *testing.T) {
	svc := &noteServiceMock{}
	handler := NewNoteHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/notes", map[string]interface{}{
		"recordId": 5, "slot": "R1", "time": "08:00", "note": "late",
	})

	handler.Set(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), svc.last.RecordID)
	assert.JSONEq(t, `{"data":{"valor":0,"nota":"late"}}`, w.Body.String())
}

func TestNoteHandlerNotFound(t *testing.T) {
	handler := NewNoteHandler(&noteServiceMock{err: appErrors.Clone(appErrors.ErrNotFound, "record not found")})
	c, w := newTestContext(t, http.MethodPost, "/notes", map[string]interface{}{"recordId": 5, "slot": "R1", "time": "08:00"})

	handler.Set(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
