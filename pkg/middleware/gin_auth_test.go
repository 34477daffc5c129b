package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"adventure-server/pkg/authutils"
	"adventure-server/pkg/middleware"
	"adventure-server/pkg/models"
)

const testJWTSecret = "test-jwt-secret"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	verifier, err := authutils.NewJWTVerifier(testJWTSecret, zap.NewNop())
	require.NoError(t, err)

	router := gin.New()
	router.GET("/protected", middleware.RequireAuth(verifier, zap.NewNop()), func(c *gin.Context) {
		userID, ok := middleware.UserIDFromContext(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
	})
	router.GET("/open", middleware.OptionalAuth(verifier, zap.NewNop()), func(c *gin.Context) {
		if userID, ok := middleware.UserIDFromContext(c); ok {
			c.JSON(http.StatusOK, gin.H{"user_id": userID.String()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	router.GET("/moderation",
		middleware.RequireAuth(verifier, zap.NewNop()),
		middleware.RequireRole(models.RoleModerator, zap.NewNop()),
		func(c *gin.Context) {
			c.JSON(http.StatusOK, models.StatusResponse{Status: "ok"})
		})
	return router
}

func doAuthRequest(t *testing.T, router *gin.Engine, path, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestRequireAuth(t *testing.T) {
	router := newTestRouter(t)
	userID := uuid.New()

	t.Run("Valid token passes and exposes user ID", func(t *testing.T) {
		token, err := authutils.GenerateTestJWT(userID, nil, testJWTSecret, time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
	})

	t.Run("Missing header rejected", func(t *testing.T) {
		rec := doAuthRequest(t, router, "/protected", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "authorization header missing", errorOf(t, rec))
	})

	t.Run("Non-bearer scheme rejected", func(t *testing.T) {
		rec := doAuthRequest(t, router, "/protected", "Basic dXNlcjpwYXNz")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token is malformed", errorOf(t, rec))
	})

	t.Run("Expired token rejected", func(t *testing.T) {
		token, err := authutils.GenerateTestJWT(userID, nil, testJWTSecret, -time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token has expired", errorOf(t, rec))
	})

	t.Run("Token signed with another secret rejected", func(t *testing.T) {
		token, err := authutils.GenerateTestJWT(userID, nil, "wrong-secret", time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/protected", "Bearer "+token)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "token is invalid", errorOf(t, rec))
	})
}

func TestOptionalAuth(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Anonymous request passes", func(t *testing.T) {
		rec := doAuthRequest(t, router, "/open", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]*string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body["user_id"])
	})

	t.Run("Valid token recognized", func(t *testing.T) {
		userID := uuid.New()
		token, err := authutils.GenerateTestJWT(userID, nil, testJWTSecret, time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/open", "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
	})

	t.Run("Invalid token still rejected", func(t *testing.T) {
		rec := doAuthRequest(t, router, "/open", "Bearer not-a-jwt")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	router := newTestRouter(t)

	t.Run("Moderator role granted", func(t *testing.T) {
		token, err := authutils.GenerateTestJWT(uuid.New(), []string{models.RoleModerator}, testJWTSecret, time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/moderation", "Bearer "+token)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Authenticated user without role refused", func(t *testing.T) {
		token, err := authutils.GenerateTestJWT(uuid.New(), []string{"author"}, testJWTSecret, time.Minute)
		require.NoError(t, err)

		rec := doAuthRequest(t, router, "/moderation", "Bearer "+token)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "insufficient permissions", errorOf(t, rec))
	})

	t.Run("Unauthenticated request refused before role check", func(t *testing.T) {
		rec := doAuthRequest(t, router, "/moderation", "")

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
