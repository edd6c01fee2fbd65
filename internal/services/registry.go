package services

import (
	"estate_backend/internal/email"
	"estate_backend/internal/realtime"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	BookingService      BookingService
	NotificationService NotificationService
	ActivityLogService  ActivityLogService
	PropertyService     PropertyService

	SavedPropertyService SavedPropertyService
	SupportTicketService SupportTicketService

	EmailService email.Provider
	Broker       realtime.Broker
}
