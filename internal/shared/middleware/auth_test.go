package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/shared/middleware"
	"library-backend/pkg/jwt"
)

func newAuthRouter(manager *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/protected", middleware.AuthMiddleware(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(middleware.ContextUserID).(uuid.UUID).String(),
			"role":    c.MustGet(middleware.ContextRole),
		})
	})
	router.GET("/admin", middleware.AuthMiddleware(manager), middleware.AdminMiddleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", 15*time.Minute, time.Hour)
	router := newAuthRouter(manager)

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		token, err := manager.GenerateRefreshToken(uuid.New())
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes identity through", func(t *testing.T) {
		userID := uuid.New()
		token, err := manager.GenerateAccessToken(userID, "reader@example.com", "member")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
		assert.Contains(t, w.Body.String(), "member")
	})
}

func TestAdminMiddleware(t *testing.T) {
	manager := jwt.NewManager("test-secret", 15*time.Minute, time.Hour)
	router := newAuthRouter(manager)

	t.Run("member blocked", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(uuid.New(), "reader@example.com", "member")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(uuid.New(), "admin@example.com", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
