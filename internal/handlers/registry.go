package handlers

// AppHandlers содержит все хэндлеры приложения.
type AppHandlers struct {
	BookingHandler      *BookingHandler
	PropertyHandler     *PropertyHandler
	NotificationHandler *NotificationHandler
	ActivityLogHandler  *ActivityLogHandler

	SavedPropertyHandler *SavedPropertyHandler
	SupportTicketHandler *SupportTicketHandler
}
