package dto

import (
	"time"

	"estate_backend/internal/models"
)

// NotifyInput - одно уведомление для одного получателя.
type NotifyInput struct {
	RecipientID     string
	RecipientRole   models.UserRole
	Type            models.NotificationType
	Title           string
	Message         string
	PropertyID      *string
	BookingID       *string
	SupportTicketID *string
	Data            map[string]interface{}
}

// AdminNotifyInput - рассылка всем администраторам.
type AdminNotifyInput struct {
	Type            models.NotificationType
	Title           string
	Message         string
	PropertyID      *string
	BookingID       *string
	SupportTicketID *string
	Data            map[string]interface{}
}

// NotificationQuery - параметры ленты: лимит и необязательный фильтр по типу.
type NotificationQuery struct {
	Limit int                     `form:"limit" validate:"omitempty,min=1,max=100"`
	Type  models.NotificationType `form:"type" validate:"omitempty,is-notification-type"`
}

type NotificationResponse struct {
	ID              string                  `json:"id"`
	Type            models.NotificationType `json:"type"`
	Title           string                  `json:"title"`
	Message         string                  `json:"message"`
	PropertyID      *string                 `json:"property_id,omitempty"`
	BookingID       *string                 `json:"booking_id,omitempty"`
	SupportTicketID *string                 `json:"support_ticket_id,omitempty"`
	Data            map[string]interface{}  `json:"data,omitempty"`
	IsRead          bool                    `json:"is_read"`
	ReadAt          *time.Time              `json:"read_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	TimeAgo         string                  `json:"time_ago"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int64                   `json:"unread_count"`
}

type MarkAllReadResponse struct {
	UpdatedCount int64 `json:"updated_count"`
}
