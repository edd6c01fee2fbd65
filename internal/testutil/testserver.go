package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"estate_backend/internal/app"
	"estate_backend/internal/auth"
	"estate_backend/internal/config"
	"estate_backend/internal/email"
	"estate_backend/internal/models"
	"estate_backend/internal/realtime"
	"estate_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

// TestServer - полный gin-роутер поверх тестовой БД.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Services *services.ServiceContainer
	Broker   *realtime.LocalBroker
	Tokens   *auth.TokenManager
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := NewTestDB(t)

	cfg := &config.Config{}
	cfg.Server.Env = "test"
	cfg.Notifications.RecentLimit = config.DefaultRecentNotifications

	tokens, err := auth.NewTokenManager(testJWTSecret, time.Hour)
	require.NoError(t, err)

	broker := realtime.NewLocalBroker()
	router, container := app.SetupRouter(cfg, db, broker, email.NoopProvider{}, tokens, nil)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		_ = broker.Close()
	})

	return &TestServer{
		Server:   server,
		DB:       db,
		Services: container,
		Broker:   broker,
		Tokens:   tokens,
	}
}

// TokenFor выпускает токен для пользователя.
func (ts *TestServer) TokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := ts.Tokens.GenerateToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

// SendRequest отправляет JSON-запрос и возвращает ответ и тело строкой.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(respBody)
}
