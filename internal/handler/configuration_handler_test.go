package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type configurationServiceMock struct {
	applicable *models.ShiftConfiguration
	applyQuery dto.ApplicableConfigurationQuery
	createReq  dto.CreateConfigurationRequest
	deletedID  int64
	deleteErr  error
}

func (m *configurationServiceMock) List(ctx context.Context, actor *models.JWTClaims, query dto.ConfigurationQuery) ([]models.ShiftConfiguration, error) {
	return []models.ShiftConfiguration{}, nil
}

func (m *configurationServiceMock) Applicable(ctx context.Context, actor *models.JWTClaims, query dto.ApplicableConfigurationQuery) (*models.ShiftConfiguration, error) {
	m.applyQuery = query
	if m.applicable == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "no configuration in effect")
	}
	return m.applicable, nil
}

func (m *configurationServiceMock) Create(ctx context.Context, actor *models.JWTClaims, req dto.CreateConfigurationRequest) (*models.ShiftConfiguration, error) {
	m.createReq = req
	return &models.ShiftConfiguration{ID: 1, BusinessUnitID: req.BusinessUnitID}, nil
}

func (m *configurationServiceMock) Delete(ctx context.Context, actor *models.JWTClaims, id int64) error {
	m.deletedID = id
	return m.deleteErr
}

func TestConfigurationHandlerApplicable(t *testing.T) {
	svc := &configurationServiceMock{applicable: &models.ShiftConfiguration{ID: 3, StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}}
	handler := NewConfigurationHandler(svc)
	c, w := newTestContext(t, http.MethodGet, "/configurations/applicable?businessId=2&date=2024-05-10", nil)

	handler.Applicable(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), svc.applyQuery.BusinessID)
	assert.Equal(t, "2024-05-10", svc.applyQuery.Date)
}

func TestConfigurationHandlerApplicableMissing(t *testing.T) {
	handler := NewConfigurationHandler(&configurationServiceMock{})
	c, w := newTestContext(t, http.MethodGet, "/configurations/applicable?businessId=2&date=2024-05-10", nil)

	handler.Applicable(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestConfigurationHandlerCreate(t *testing.T) {
	svc := &configurationServiceMock{}
	handler := NewConfigurationHandler(svc)
	c, w := newTestContext(t, http.MethodPost, "/configurations", map[string]interface{}{
		"businessUnitId": 2, "startDate": "2024-06-01", "day": 3, "shiftB": 1, "night": 2,
	})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 3, svc.createReq.Day)
	assert.Equal(t, 1, svc.createReq.ShiftB)
}

func TestConfigurationHandlerCreateInvalidBody(t *testing.T) {
	handler := NewConfigurationHandler(&configurationServiceMock{})
	c, w := newTestContext(t, http.MethodPost, "/configurations", `invalid`)

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConfigurationHandlerDelete(t *testing.T) {
	svc := &configurationServiceMock{}
	handler := NewConfigurationHandler(svc)
	c, w := newTestContext(t, http.MethodDelete, "/configurations/8", nil)
	c.Params = gin.Params{{Key: "id", Value: "8"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, int64(8), svc.deletedID)
}
