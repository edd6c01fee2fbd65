package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/logger"
	"estate_backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("middleware-secret", time.Hour)
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestIDMiddleware(), CORSMiddleware())

	protected := r.Group("/api", AuthMiddleware(tokens))
	protected.GET("/whoami", func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user_id":    actor.UserID,
			"role":       actor.Role,
			"request_id": logger.GetRequestID(c.Request.Context()),
		})
	})
	protected.GET("/sellers-only", RequireRoles(models.UserRoleSeller), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	protected.POST("/purchase", RequirePermission(auth.PermBookingsCreate), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r, tokens
}

func TestAuthMiddleware(t *testing.T) {
	r, tokens := newRouter(t)

	token, err := tokens.GenerateToken("buyer-1", models.UserRoleBuyer)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", "req-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":"buyer-1","role":"buyer","request_id":"req-42"}`, w.Body.String())
	assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))

	// Query-параметр token принимается только для websocket
	req = httptest.NewRequest(http.MethodGet, "/api/whoami?token="+token, nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoleAndPermissionChecks(t *testing.T) {
	r, tokens := newRouter(t)

	buyer, err := tokens.GenerateToken("buyer-1", models.UserRoleBuyer)
	require.NoError(t, err)
	seller, err := tokens.GenerateToken("seller-1", models.UserRoleSeller)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"buyer on sellers route", http.MethodGet, "/api/sellers-only", buyer, http.StatusForbidden},
		{"seller on sellers route", http.MethodGet, "/api/sellers-only", seller, http.StatusOK},
		{"buyer can purchase", http.MethodPost, "/api/purchase", buyer, http.StatusCreated},
		{"seller cannot purchase", http.MethodPost, "/api/purchase", seller, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/whoami", nil)
	req.Header.Set("Origin", "https://estate.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Preflight отвечает до проверки токена
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://estate.example", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
