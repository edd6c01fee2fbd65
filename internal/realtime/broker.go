package realtime

import (
	"context"
	"time"
)

// Event - уведомление, отправляемое подписчикам в реальном времени.
type Event struct {
	NotificationID string    `json:"notification_id"`
	RecipientID    string    `json:"recipient_id"`
	RecipientRole  string    `json:"recipient_role"`
	Type           string    `json:"type"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	PropertyID     *string   `json:"property_id,omitempty"`
	BookingID      *string   `json:"booking_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Broker доставляет события по userID. Доставка best-effort: потеря события
// не влияет на сохраненное уведомление, клиент всегда может перечитать ленту.
type Broker interface {
	Publish(ctx context.Context, userID string, event Event) error
	// Subscribe возвращает канал событий и функцию отписки.
	Subscribe(ctx context.Context, userID string) (<-chan Event, func(), error)
	Close() error
}
