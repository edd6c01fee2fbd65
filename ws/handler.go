package ws

import (
	"context"
	"net/http"

	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/internal/realtime"
	"estate_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Origin проверяет CORS/прокси перед сервисом
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type WebSocketHandler struct {
	Manager *WebSocketManager
	Broker  realtime.Broker
}

func NewWebSocketHandler(manager *WebSocketManager, broker realtime.Broker) *WebSocketHandler {
	return &WebSocketHandler{
		Manager: manager,
		Broker:  broker,
	}
}

// ServeWS поднимает поток уведомлений аутентифицированного актора.
// Маршрут должен быть закрыт AuthMiddleware.
func (h *WebSocketHandler) ServeWS(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
		return
	}

	// Подписка живет дольше запроса, поэтому отвязываемся от его отмены
	events, unsubscribe, err := h.Broker.Subscribe(context.WithoutCancel(c.Request.Context()), actor.UserID)
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Failed to subscribe to notifications", err)
		apperrors.HandleError(c, apperrors.InternalError(err))
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		unsubscribe()
		logger.CtxWarn(c.Request.Context(), "WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		UserID:      actor.UserID,
		Role:        actor.Role,
		Conn:        conn,
		events:      events,
		unsubscribe: unsubscribe,
		done:        make(chan struct{}),
	}
	h.Manager.register(client)
	logger.CtxInfo(c.Request.Context(), "WebSocket client connected")

	go client.readPump(h.Manager)
	go client.writePump()
}
