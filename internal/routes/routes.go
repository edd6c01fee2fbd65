package routes

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/handlers"
	"estate_backend/internal/logger"
	"estate_backend/internal/middleware"
	"estate_backend/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes регистрирует все HTTP и WebSocket маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	wsHandler *ws.WebSocketHandler,
	tokens *auth.TokenManager,
) {
	// Служебные маршруты
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// HTTP API v1, все маршруты требуют токен
	api := ginRouter.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(tokens))
	{
		appHandlers.BookingHandler.RegisterRoutes(api)
		appHandlers.PropertyHandler.RegisterRoutes(api)
		appHandlers.NotificationHandler.RegisterRoutes(api)
		appHandlers.ActivityLogHandler.RegisterRoutes(api)
		appHandlers.SavedPropertyHandler.RegisterRoutes(api)
		appHandlers.SupportTicketHandler.RegisterRoutes(api)
	}

	// Регистрация WebSocket
	if wsHandler != nil {
		wsGroup := ginRouter.Group("/ws")
		wsGroup.Use(middleware.AuthMiddleware(tokens))
		{
			wsGroup.GET("/notifications", wsHandler.ServeWS)
		}
		logger.Info("WebSocket route /ws/notifications registered")
	}
}
