package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promanage/backend/internal/domain/identity"
	"github.com/promanage/backend/internal/infrastructure/auth"
	"github.com/promanage/backend/internal/infrastructure/config"
)

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: time.Hour,
		Issuer:     "promanage-test",
	})
}

func newTestEngine(svc *auth.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(DefaultJWTConfig(svc)))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/online-users", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c), "role": GetJWTRole(c)})
	})
	return engine
}

func TestJWTMiddleware_SkipsPublicPaths(t *testing.T) {
	engine := newTestEngine(newTestJWTService(t))

	for _, path := range []string{"/", "/health", "/api/online-users"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestJWTMiddleware_RejectsMissingToken(t *testing.T) {
	engine := newTestEngine(newTestJWTService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_RejectsMalformedHeader(t *testing.T) {
	engine := newTestEngine(newTestJWTService(t))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set(AuthHeaderKey, "Token abc123")
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTMiddleware_AcceptsValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	engine := newTestEngine(svc)

	profile, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)
	token, _, err := svc.GenerateToken(profile)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), profile.ID.String())
	assert.Contains(t, w.Body.String(), "manager")
}

func TestJWTMiddleware_RejectsExpiredToken(t *testing.T) {
	expiredSvc := auth.NewJWTService(config.JWTConfig{
		Secret:     "test-secret-key-at-least-32-chars",
		Expiration: -time.Minute,
		Issuer:     "promanage-test",
	})
	engine := newTestEngine(newTestJWTService(t))

	profile, err := identity.NewProfile("boss@example.com", "Mia Manager", identity.RoleManager)
	require.NoError(t, err)
	token, _, err := expiredSvc.GenerateToken(profile)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}
