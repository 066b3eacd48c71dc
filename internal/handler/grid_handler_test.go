package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/grid"
	"github.com/renoa-ops/renoa-api/internal/middleware"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

func newTestContext(t *testing.T, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var payload []byte
	switch v := body.(type) {
	case nil:
	case string:
		payload = []byte(v)
	default:
		var err error
		payload, err = json.Marshal(v)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", Role: models.RoleAdmin})
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

type gridServiceMock struct {
	gridQuery  dto.GridQuery
	saveResp   *dto.SaveGridResponse
	saveErr    error
	ratingsID  int64
	createResp *grid.Record
}

func (m *gridServiceMock) Grid(ctx context.Context, actor *models.JWTClaims, query dto.GridQuery) (*dto.GridResponse, error) {
	m.gridQuery = query
	return &dto.GridResponse{BusinessID: query.BusinessID, Date: query.Date, View: grid.ViewAll}, nil
}

func (m *gridServiceMock) Records(ctx context.Context, actor *models.JWTClaims, query dto.RecordsQuery) ([]models.ShiftRecord, error) {
	return []models.ShiftRecord{}, nil
}

func (m *gridServiceMock) Save(ctx context.Context, actor *models.JWTClaims, req dto.SaveGridRequest) (*dto.SaveGridResponse, error) {
	return m.saveResp, m.saveErr
}

func (m *gridServiceMock) CreateRecord(ctx context.Context, actor *models.JWTClaims, req dto.CreateRecordRequest) (*grid.Record, error) {
	return m.createResp, nil
}

func (m *gridServiceMock) UpdateRatings(ctx context.Context, actor *models.JWTClaims, id int64, req dto.UpdateRatingsRequest) (*models.ShiftRecord, error) {
	m.ratingsID = id
	return &models.ShiftRecord{}, nil
}

func TestGridHandlerBindsQuery(t *testing.T) {
	svc := &gridServiceMock{}
	handler := NewGridHandler(svc)
	c, w := newTestContext(t, http.MethodGet, "/grid?businessId=4&date=2024-05-10&view=night", nil)

	handler.Grid(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(4), svc.gridQuery.BusinessID)
	assert.Equal(t, "night", svc.gridQuery.View)
}

func TestGridHandlerRejectsMalformedQuery(t *testing.T) {
	handler := NewGridHandler(&gridServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/grid?businessId=abc", nil)

	handler.Grid(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridHandlerSavePartialFailureReportsResults(t *testing.T) {
	svc := &gridServiceMock{
		saveResp: &dto.SaveGridResponse{Results: []dto.RecordResult{
			{PostID: 1, Shift: grid.ShiftDay, Kind: grid.OpUpdate, RecordID: 7, OK: true},
			{PostID: 1, Shift: grid.ShiftNight, Kind: grid.OpCreate, Error: "timeout"},
		}},
		saveErr: appErrors.Wrap(errors.New("timeout"), appErrors.ErrPartialWrite.Code, appErrors.ErrPartialWrite.Status, appErrors.ErrPartialWrite.Message),
	}
	handler := NewGridHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/grid/save", map[string]interface{}{
		"businessId": 1,
		"date":       "2024-05-10",
		"changes":    []map[string]interface{}{{"postId": 1}},
	})

	handler.Save(c)

	require.Equal(t, http.StatusBadGateway, w.Code)
	body := decodeEnvelope(t, w)
	assert.Equal(t, "PARTIAL_WRITE", body["error"].(map[string]interface{})["code"])
	results := body["meta"].(map[string]interface{})["results"].([]interface{})
	require.Len(t, results, 2)
	assert.Equal(t, "night", results[1].(map[string]interface{})["shift"])
}

func TestGridHandlerSaveValidationError(t *testing.T) {
	svc := &gridServiceMock{saveErr: appErrors.Clone(appErrors.ErrValidation, "columns without time: R2")}
	handler := NewGridHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/grid/save", map[string]interface{}{"businessId": 1})

	handler.Save(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	_, hasMeta := decodeEnvelope(t, w)["meta"]
	assert.False(t, hasMeta)
}

func TestGridHandlerSaveInvalidBody(t *testing.T) {
	handler := NewGridHandler(&gridServiceMock{})
	c, w := newTestContext(t, http.MethodPost, "/grid/save", "{")

	handler.Save(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGridHandlerUpdateRatingsParsesID(t *testing.T) {
	svc := &gridServiceMock{}
	handler := NewGridHandler(svc)

	c, w := newTestContext(t, http.MethodPost, "/records/x/ratings", map[string]interface{}{"ratings": map[string]interface{}{}})
	c.Params = gin.Params{{Key: "id", Value: "x"}}
	handler.UpdateRatings(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	c, w = newTestContext(t, http.MethodPost, "/records/42/ratings", map[string]interface{}{"ratings": map[string]interface{}{}})
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	handler.UpdateRatings(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(42), svc.ratingsID)
}

func TestGridHandlerCreateRecord(t *testing.T) {
	svc := &gridServiceMock{createResp: &grid.Record{ID: 9, PostID: 3, Shift: grid.ShiftB}}
	handler := NewGridHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/records", map[string]interface{}{
		"postId": 3, "date": "2024-05-10", "shiftCategoryId": 3,
	})

	handler.CreateRecord(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "shift_b", data["shift"])
}
