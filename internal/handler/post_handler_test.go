package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/dto"
	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type postServiceMock struct {
	query     dto.PostQuery
	updatedID int64
	deleteErr error
}

func (m *postServiceMock) List(ctx context.Context, actor *models.JWTClaims, query dto.PostQuery) ([]models.Post, *models.Pagination, error) {
	m.query = query
	return []models.Post{{ID: 1, Name: "Gate"}}, &models.Pagination{Page: 1, PageSize: 50, TotalCount: 1}, nil
}

func (m *postServiceMock) Create(ctx context.Context, actor *models.JWTClaims, req dto.PostRequest) (*models.Post, error) {
	return &models.Post{ID: 2, Name: req.Name, BusinessUnitID: req.BusinessUnitID, Active: true}, nil
}

func (m *postServiceMock) Update(ctx context.Context, actor *models.JWTClaims, id int64, req dto.PostRequest) (*models.Post, error) {
	m.updatedID = id
	return &models.Post{ID: id, Name: req.Name}, nil
}

func (m *postServiceMock) Delete(ctx context.Context, actor *models.JWTClaims, id int64) error {
	return m.deleteErr
}

func TestPostHandlerListWithPagination(t *testing.T) {
	svc := &postServiceMock{}
	handler := NewPostHandler(svc)
	c, w := newTestContext(t, http.MethodGet, "/posts?businessId=3&active=true&search=gate", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.query.BusinessID)
	assert.Equal(t, int64(3), *svc.query.BusinessID)
	require.NotNil(t, svc.query.Active)
	assert.True(t, *svc.query.Active)
	assert.Equal(t, "gate", svc.query.Search)
	pagination := decodeEnvelope(t, w)["pagination"].(map[string]interface{})
	assert.EqualValues(t, 1, pagination["total_count"])
}

func TestPostHandlerCreate(t *testing.T) {
	handler := NewPostHandler(&postServiceMock{})
	c, w := newTestContext(t, http.MethodPost, "/posts", dto.PostRequest{Name: "Dock", BusinessUnitID: 3})

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Dock", data["name"])
}

func TestPostHandlerUpdateRejectsBadID(t *testing.T) {
	handler := NewPostHandler(&postServiceMock{})
	c, w := newTestContext(t, http.MethodPut, "/posts/0", dto.PostRequest{Name: "Dock", BusinessUnitID: 3})
	c.Params = gin.Params{{Key: "id", Value: "0"}}

	handler.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandlerDeleteForbidden(t *testing.T) {
	handler := NewPostHandler(&postServiceMock{deleteErr: appErrors.ErrForbidden})
	c, w := newTestContext(t, http.MethodDelete, "/posts/5", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.Delete(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
