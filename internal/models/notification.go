package models

import (
	"time"

	"gorm.io/datatypes"
)

type NotificationType string

const (
	NotificationTypeBookingReceived       NotificationType = "booking_received"
	NotificationTypeBookingConfirmed      NotificationType = "booking_confirmed"
	NotificationTypeBookingDenied         NotificationType = "booking_denied"
	NotificationTypeBookingCancelled      NotificationType = "booking_cancelled"
	NotificationTypePaymentSuccess        NotificationType = "payment_success"
	NotificationTypePaymentFailed         NotificationType = "payment_failed"
	NotificationTypePaymentReceived       NotificationType = "payment_received"
	NotificationTypePropertyAdded         NotificationType = "property_added"
	NotificationTypePropertyApproved      NotificationType = "property_approved"
	NotificationTypePropertyRejected      NotificationType = "property_rejected"
	NotificationTypePropertySold          NotificationType = "property_sold"
	NotificationTypePropertySaved         NotificationType = "property_saved"
	NotificationTypePropertyStatusChanged NotificationType = "property_status_changed"
	NotificationTypeTicketCreated         NotificationType = "ticket_created"
	NotificationTypeTicketResponded       NotificationType = "ticket_responded"
	NotificationTypeTicketAssigned        NotificationType = "ticket_assigned"
	NotificationTypeTicketResolved        NotificationType = "ticket_resolved"
	NotificationTypeTicketUpdated         NotificationType = "ticket_updated"
	NotificationTypeSystemMessage         NotificationType = "system_message"
	NotificationTypeWelcome               NotificationType = "welcome"
)

// NotificationTypes - закрытый список типов в порядке объявления.
var NotificationTypes = []NotificationType{
	NotificationTypeBookingReceived,
	NotificationTypeBookingConfirmed,
	NotificationTypeBookingDenied,
	NotificationTypeBookingCancelled,
	NotificationTypePaymentSuccess,
	NotificationTypePaymentFailed,
	NotificationTypePaymentReceived,
	NotificationTypePropertyAdded,
	NotificationTypePropertyApproved,
	NotificationTypePropertyRejected,
	NotificationTypePropertySold,
	NotificationTypePropertySaved,
	NotificationTypePropertyStatusChanged,
	NotificationTypeTicketCreated,
	NotificationTypeTicketResponded,
	NotificationTypeTicketAssigned,
	NotificationTypeTicketResolved,
	NotificationTypeTicketUpdated,
	NotificationTypeSystemMessage,
	NotificationTypeWelcome,
}

var notificationTypes = func() map[NotificationType]struct{} {
	set := make(map[NotificationType]struct{}, len(NotificationTypes))
	for _, t := range NotificationTypes {
		set[t] = struct{}{}
	}
	return set
}()

func (t NotificationType) IsValid() bool {
	_, ok := notificationTypes[t]
	return ok
}

// Notification - одна запись в ленте получателя.
// Лента определяется парой (RecipientID, RecipientRole): продавец и админ читают разные ленты.
type Notification struct {
	BaseModel
	RecipientID     string           `gorm:"type:varchar(36);not null;index:idx_notifications_stream" json:"recipient_id"`
	RecipientRole   UserRole         `gorm:"type:varchar(20);not null;index:idx_notifications_stream" json:"recipient_role"`
	PropertyID      *string          `gorm:"type:varchar(36);index" json:"property_id,omitempty"`
	BookingID       *string          `gorm:"type:varchar(36);index" json:"booking_id,omitempty"`
	SupportTicketID *string          `gorm:"type:varchar(36)" json:"support_ticket_id,omitempty"`
	Type            NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Title           string           `gorm:"not null" json:"title"`
	Message         string           `json:"message"`
	Data            datatypes.JSON   `json:"data,omitempty"`
	IsRead          bool             `gorm:"not null;default:false;index" json:"is_read"`
	ReadAt          *time.Time       `json:"read_at,omitempty"`
}
