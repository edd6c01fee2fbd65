package ws

import (
	"sync"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/realtime"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Client - одно websocket-соединение, подписанное на поток уведомлений актора.
type Client struct {
	UserID string
	Role   models.UserRole
	Conn   *websocket.Conn

	events      <-chan realtime.Event
	unsubscribe func()
	done        chan struct{}
	closeOnce   sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.unsubscribe()
		_ = c.Conn.Close()
	})
}

// readPump читает только служебные кадры: клиент ничего не отправляет,
// а ошибка чтения означает разрыв соединения.
func (c *Client) readPump(manager *WebSocketManager) {
	defer func() {
		manager.unregister(c)
		c.close()
	}()

	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("WebSocket read error", "user_id", c.UserID, "error", err)
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case event, ok := <-c.events:
			if !ok {
				_ = c.Conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			// Один userID может принадлежать только одной роли, но поток
			// определяется парой (id, role), поэтому фильтруем явно
			if event.RecipientRole != string(c.Role) {
				continue
			}
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteJSON(event); err != nil {
				logger.Warn("WebSocket write error", "user_id", c.UserID, "error", err)
				return
			}

		case <-ticker.C:
			if err := c.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
