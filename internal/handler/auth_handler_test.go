package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renoa-ops/renoa-api/internal/models"
	appErrors "github.com/renoa-ops/renoa-api/pkg/errors"
)

type authServiceMock struct {
	loginReq  models.LoginRequest
	loginErr  error
	logoutErr error
	meID      string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	m.loginReq = req
	if m.loginErr != nil {
		return nil, m.loginErr
	}
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2", ExpiresIn: 3600}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken string, userID string, meta models.LoginRequest) error {
	return m.logoutErr
}

func (m *authServiceMock) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	return nil
}

func (m *authServiceMock) Me(ctx context.Context, userID string) (*models.UserInfo, error) {
	m.meID = userID
	return &models.UserInfo{ID: userID, Username: "admin", Role: models.RoleAdmin}, nil
}

func TestAuthHandlerLoginSetsCookie(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc, "renoa_token", false)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", map[string]string{"login": "admin", "password": "secret"})
	c.Request.Header.Set("User-Agent", "grid-client")

	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", svc.loginReq.Login)
	assert.Equal(t, "grid-client", svc.loginReq.UserAgent)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "renoa_token", cookies[0].Name)
	assert.Equal(t, "access", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandlerLoginWithoutCookie(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{}, "", false)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", map[string]string{"login": "admin", "password": "secret"})

	handler.Login(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerLoginInvalidCredentials(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{loginErr: appErrors.ErrInvalidCredentials}, "renoa_token", false)
	c, w := newTestContext(t, http.MethodPost, "/auth/login", map[string]string{"login": "admin", "password": "bad"})

	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandlerLogoutClearsCookie(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{}, "renoa_token", false)
	c, w := newTestContext(t, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": "refresh"})

	handler.Logout(c)

	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerLogoutFailure(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{logoutErr: errors.New("db down")}, "renoa_token", false)
	c, w := newTestContext(t, http.MethodPost, "/auth/logout", map[string]string{"refresh_token": "refresh"})

	handler.Logout(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthHandlerMeLoadsUser(t *testing.T) {
	svc := &authServiceMock{}
	handler := NewAuthHandler(svc, "", false)
	c, w := newTestContext(t, http.MethodGet, "/auth/me", nil)

	handler.Me(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", svc.meID)
}

func TestAuthHandlerMeRequiresClaims(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{}, "", false)
	c, w := newTestContext(t, http.MethodGet, "/auth/me", nil)
	c.Keys = nil

	handler.Me(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerChangePasswordClearsCookie(t *testing.T) {
	handler := NewAuthHandler(&authServiceMock{}, "renoa_token", true)
	c, w := newTestContext(t, http.MethodPost, "/auth/change-password", map[string]string{"old_password": "old", "new_password": "new-secret"})

	handler.ChangePassword(c)

	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Empty(t, cookies[0].Value)
}
