package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/infrastructure/auth"
)

// JWT context keys
const (
	JWTClaimsKey  = "jwt_claims"
	JWTUserIDKey  = "jwt_user_id"
	JWTRoleKey    = "jwt_role"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require authentication
	SkipPathPrefixes []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultJWTConfig returns default JWT middleware configuration. The skip
// list is the service's public surface: landing page, liveness and the
// anonymous presence read, plus login itself.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/",
			"/health",
			"/api/online-users",
			"/api/auth/login",
		},
		SkipPathPrefixes: []string{
			// socket clients authenticate in-band after the upgrade
			"/ws",
		},
	}
}

// JWTAuthMiddleware creates JWT authentication middleware
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig creates JWT authentication middleware with custom config
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path

		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTRoleKey, claims.Role)

		c.Next()
	}
}

// handleAuthError handles authentication errors
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	errorCode := "UNAUTHORIZED"
	errorMessage := "Authentication required"

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		errorCode = "TOKEN_EXPIRED"
		errorMessage = "Token has expired"
	case errors.Is(err, auth.ErrInvalidToken):
		errorCode = "INVALID_TOKEN"
		errorMessage = "Invalid token"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		errorCode = "TOKEN_NOT_VALID"
		errorMessage = "Token is not yet valid"
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    errorCode,
			"message": errorMessage,
		},
	})
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the user ID from JWT claims in context
func GetJWTUserID(c *gin.Context) string {
	if userID, exists := c.Get(JWTUserIDKey); exists {
		if id, ok := userID.(string); ok {
			return id
		}
	}
	return ""
}

// GetJWTRole retrieves the role from JWT claims in context
func GetJWTRole(c *gin.Context) string {
	if role, exists := c.Get(JWTRoleKey); exists {
		if r, ok := role.(string); ok {
			return r
		}
	}
	return ""
}
