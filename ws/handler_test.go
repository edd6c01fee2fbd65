package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/models"
	"estate_backend/internal/realtime"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWSServer(t *testing.T) (*httptest.Server, *WebSocketManager, *realtime.LocalBroker, *auth.TokenManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := auth.NewTokenManager("ws-secret", time.Hour)
	require.NoError(t, err)

	broker := realtime.NewLocalBroker()
	manager := NewWebSocketManager()
	handler := NewWebSocketHandler(manager, broker)

	router := gin.New()
	router.GET("/ws/notifications", middleware.AuthMiddleware(tokens), handler.ServeWS)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		manager.CloseAll()
		server.Close()
		_ = broker.Close()
	})
	return server, manager, broker, tokens
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?token=" + token
}

func TestServeWS_DeliversOwnRoleEvents(t *testing.T) {
	server, manager, broker, tokens := newWSServer(t)

	token, err := tokens.GenerateToken("buyer-1", models.UserRoleBuyer)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.IsClientConnected("buyer-1") }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, manager.GetClientCount())

	ctx := context.Background()
	// Событие другой ленты того же id отфильтровывается
	require.NoError(t, broker.Publish(ctx, "buyer-1", realtime.Event{NotificationID: "n-admin", RecipientRole: "admin"}))
	require.NoError(t, broker.Publish(ctx, "buyer-1", realtime.Event{NotificationID: "n-1", RecipientRole: "buyer", Title: "Booking Confirmed!"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev realtime.Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, "n-1", ev.NotificationID)
	assert.Equal(t, "Booking Confirmed!", ev.Title)
}

func TestServeWS_RequiresToken(t *testing.T) {
	server, manager, _, _ := newWSServer(t)

	_, res, err := websocket.DefaultDialer.Dial(wsURL(server, "bad-token"), nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, 0, manager.GetClientCount())
}

func TestWebSocketManager_CloseAll(t *testing.T) {
	server, manager, _, tokens := newWSServer(t)

	token, err := tokens.GenerateToken("seller-1", models.UserRoleSeller)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return manager.GetClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	manager.CloseAll()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err, "соединение должно быть закрыто сервером")

	require.Eventually(t, func() bool { return manager.GetClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}
