package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderlist/internal/models"
	"wanderlist/internal/token"
)

func newProtectedRouter(t *testing.T, tokens *token.Service, roles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/api")
	group.Use(Authenticate(tokens, zap.NewNop()))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/resource", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.MustGet(CtxUserID),
			"role":    c.MustGet(CtxRole),
		})
	})
	return router
}

func doGet(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	tokens, err := token.NewService("test-secret", time.Hour)
	require.NoError(t, err)

	userToken, _, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleUser})
	require.NoError(t, err)

	router := newProtectedRouter(t, tokens)

	t.Run("missing header", func(t *testing.T) {
		w := doGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed scheme", func(t *testing.T) {
		w := doGet(router, "Token "+userToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token passes", func(t *testing.T) {
		w := doGet(router, "Bearer "+userToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("garbage and bad signature get the same body", func(t *testing.T) {
		otherTokens, err := token.NewService("other", time.Hour)
		require.NoError(t, err)
		wrongSecret, _, err := otherTokens.Issue(&models.User{ID: 2, Role: models.RoleUser})
		require.NoError(t, err)

		garbage := doGet(router, "Bearer not.a.jwt")
		badSig := doGet(router, "Bearer "+wrongSecret)

		assert.Equal(t, http.StatusUnauthorized, garbage.Code)
		assert.Equal(t, http.StatusUnauthorized, badSig.Code)
		assert.Equal(t, garbage.Body.String(), badSig.Body.String())
	})
}

func TestRequireRole(t *testing.T) {
	tokens, err := token.NewService("test-secret", time.Hour)
	require.NoError(t, err)

	adminToken, _, err := tokens.Issue(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	userToken, _, err := tokens.Issue(&models.User{ID: 2, Role: models.RoleUser})
	require.NoError(t, err)

	router := newProtectedRouter(t, tokens, models.RoleAdmin)

	t.Run("admin allowed", func(t *testing.T) {
		w := doGet(router, "Bearer "+adminToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("user forbidden", func(t *testing.T) {
		w := doGet(router, "Bearer "+userToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous unauthorized", func(t *testing.T) {
		w := doGet(router, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("role gate without auth gate forbids", func(t *testing.T) {
		gin.SetMode(gin.TestMode)
		bare := gin.New()
		bare.GET("/x", RequireRole(models.RoleAdmin), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		bare.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
