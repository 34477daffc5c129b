package middleware

import (
	"errors"
	"net/http"
	"strings"

	"adventure-server/pkg/authutils"
	"adventure-server/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const claimsContextKey = "auth_claims"

// RequireAuth создает Gin middleware, требующее валидный bearer-токен.
func RequireAuth(verifier *authutils.JWTVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, verifier)
		if err != nil {
			logger.Warn("Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: authErrorMessage(err)})
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// OptionalAuth создает Gin middleware, распознающее bearer-токен, если он
// есть, но пропускающее и анонимные запросы. Невалидный токен при этом
// всё равно отклоняется: тихо игнорировать его было бы хуже.
func OptionalAuth(verifier *authutils.JWTVerifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, err := claimsFromRequest(c, verifier)
		if err != nil {
			logger.Warn("Optional authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: authErrorMessage(err)})
			return
		}
		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// RequireRole создает Gin middleware, требующее роль в клеймах токена.
// Должно стоять после RequireAuth.
func RequireRole(role string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "authentication required"})
			return
		}
		if !claims.HasRole(role) {
			logger.Warn("Role check failed",
				zap.String("path", c.Request.URL.Path),
				zap.String("requiredRole", role),
				zap.String("userID", claims.UserID.String()))
			c.AbortWithStatusJSON(http.StatusForbidden, models.ErrorResponse{Error: "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// ClaimsFromContext извлекает клеймы, положенные auth middleware.
func ClaimsFromContext(c *gin.Context) (*models.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*models.Claims)
	return claims, ok
}

// UserIDFromContext возвращает ID пользователя, если запрос аутентифицирован.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func claimsFromRequest(c *gin.Context, verifier *authutils.JWTVerifier) (*models.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, models.ErrUnauthorized
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, models.ErrTokenMalformed
	}
	return verifier.VerifyToken(c.Request.Context(), parts[1])
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, models.ErrTokenExpired):
		return "token has expired"
	case errors.Is(err, models.ErrTokenMalformed):
		return "token is malformed"
	case errors.Is(err, models.ErrUnauthorized):
		return "authorization header missing"
	default:
		return "token is invalid"
	}
}
