package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type validatorStub struct {
	claims *models.JWTClaims
	seen   string
}

func (v *validatorStub) ValidateToken(token string) (*models.JWTClaims, error) {
	v.seen = token
	if token != "good" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token")
	}
	return v.claims, nil
}

type auditRecorder struct {
	logs []*models.AuditLog
}

func (a *auditRecorder) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:id", append(handlers, func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})...)
	return router
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAcceptsBearerHeader(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u1", Role: models.RoleOperator}}
	router := newRouter(JWT(stub, "renoa_token"))

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set("Authorization", "Bearer good")

	assert.Equal(t, http.StatusNoContent, serve(router, req).Code)
	assert.Equal(t, "good", stub.seen)
}

func TestJWTFallsBackToCookie(t *testing.T) {
	stub := &validatorStub{claims: &models.JWTClaims{UserID: "u1"}}
	router := newRouter(JWT(stub, "renoa_token"))

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.AddCookie(&http.Cookie{Name: "renoa_token", Value: "good"})

	assert.Equal(t, http.StatusNoContent, serve(router, req).Code)
}

func TestJWTRejectsMissingOrMalformedToken(t *testing.T) {
	stub := &validatorStub{}
	router := newRouter(JWT(stub, ""))

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.AddCookie(&http.Cookie{Name: "renoa_token", Value: "good"})
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set("Authorization", "Token good")
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set("Authorization", "Bearer expired")
	assert.Equal(t, http.StatusUnauthorized, serve(router, req).Code)
}

func TestOptionalJWTNeverBlocks(t *testing.T) {
	stub := &validatorStub{}
	var attached bool
	router := newRouter(OptionalJWT(stub, "renoa_token"), func(c *gin.Context) {
		_, attached = c.Get(ContextUserKey)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	req.Header.Set("Authorization", "Bearer expired")

	assert.Equal(t, http.StatusNoContent, serve(router, req).Code)
	assert.False(t, attached)
}

func TestRequireRoles(t *testing.T) {
	withClaims := func(role models.UserRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1", Role: role})
		}
	}

	router := newRouter(withClaims(models.RoleSupervisor), RequireRoles(models.RoleAdmin, models.RoleSupervisor))
	assert.Equal(t, http.StatusNoContent, serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil)).Code)

	router = newRouter(withClaims(models.RoleOperator), RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusForbidden, serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil)).Code)

	router = newRouter(RequireRoles(models.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil)).Code)
}

func TestAuditRecordsSuccessfulRequests(t *testing.T) {
	recorder := &auditRecorder{}
	router := newRouter(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1"})
	}, Audit(recorder, models.AuditActionEvidenceRead, "novedad"))

	serve(router, httptest.NewRequest(http.MethodGet, "/items/nov-7", nil))

	require.Len(t, recorder.logs, 1)
	entry := recorder.logs[0]
	assert.Equal(t, models.AuditActionEvidenceRead, entry.Action)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u1", *entry.UserID)
	require.NotNil(t, entry.ResourceID)
	assert.Equal(t, "nov-7", *entry.ResourceID)
	assert.Contains(t, string(entry.NewValues), `"status":204`)
}

func TestAuditSkipsFailedRequests(t *testing.T) {
	recorder := &auditRecorder{}
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/items/:id", Audit(recorder, models.AuditActionEvidenceRead, "novedad"), func(c *gin.Context) {
		c.Status(http.StatusForbidden)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.Empty(t, recorder.logs)
}

func TestResponseMetaCarriesCacheHit(t *testing.T) {
	var meta map[string]interface{}
	router := newRouter(WithResponseMeta(), func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.Equal(t, true, meta[MetaCacheHit])
	assert.Contains(t, meta, MetaProcessingTime)
}

func TestResponseMetaReturnsCopy(t *testing.T) {
	var first, second map[string]interface{}
	router := newRouter(func(c *gin.Context) {
		SetMeta(c, "generated_at", "2024-05-01")
		first = ResponseMeta(c)
		first["generated_at"] = "changed"
		second = ResponseMeta(c)
	})

	serve(router, httptest.NewRequest(http.MethodGet, "/items/1", nil))

	assert.Equal(t, "2024-05-01", second["generated_at"])
	assert.Contains(t, second, MetaProcessingTime)
}
