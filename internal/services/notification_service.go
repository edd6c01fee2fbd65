package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"estate_backend/internal/config"
	"estate_backend/internal/email"
	"estate_backend/internal/logger"
	"estate_backend/internal/metrics"
	"estate_backend/internal/models"
	"estate_backend/internal/realtime"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	// Dispatch
	Notify(ctx context.Context, db *gorm.DB, input dto.NotifyInput) (*models.Notification, error)
	NotifyAllAdmins(ctx context.Context, db *gorm.DB, input dto.AdminNotifyInput) ([]*models.Notification, error)

	// Reader operations (лента актора)
	ListRecent(ctx context.Context, db *gorm.DB, actor models.Actor, query dto.NotificationQuery) (*dto.NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, db *gorm.DB, actor models.Actor) (int64, error)
	MarkRead(ctx context.Context, db *gorm.DB, actor models.Actor, notificationID string) error
	MarkAllRead(ctx context.Context, db *gorm.DB, actor models.Actor) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, actor models.Actor, notificationID string) error

	// Maintenance
	CleanOldNotifications(ctx context.Context, db *gorm.DB, olderThan time.Time) (int64, error)
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	broker           realtime.Broker
	mailer           email.Provider
	recentLimit      int
	now              func() time.Time
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	broker realtime.Broker,
	mailer email.Provider,
	recentLimit int,
) NotificationService {
	if recentLimit <= 0 || recentLimit > config.MaxRecentNotifications {
		recentLimit = config.DefaultRecentNotifications
	}
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		broker:           broker,
		mailer:           mailer,
		recentLimit:      recentLimit,
		now:              time.Now,
	}
}

// ---------------- Dispatch ----------------

func (s *notificationService) Notify(ctx context.Context, db *gorm.DB, input dto.NotifyInput) (*models.Notification, error) {
	if err := validateNotifyInput(input); err != nil {
		return nil, err
	}

	recipient, err := s.userRepo.FindByIDAndRole(db, input.RecipientID, input.RecipientRole)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFoundIn(err, "notification",
				fmt.Sprintf("%s %s not found", input.RecipientRole, input.RecipientID))
		}
		return nil, apperrors.DatabaseError(err)
	}

	var data datatypes.JSON
	if len(input.Data) > 0 {
		raw, err := json.Marshal(input.Data)
		if err != nil {
			return nil, apperrors.ErrInvalidArgument("notification", "notification data is not serializable")
		}
		data = datatypes.JSON(raw)
	}

	notification := &models.Notification{
		RecipientID:     recipient.ID,
		RecipientRole:   input.RecipientRole,
		PropertyID:      input.PropertyID,
		BookingID:       input.BookingID,
		SupportTicketID: input.SupportTicketID,
		Type:            input.Type,
		Title:           input.Title,
		Message:         input.Message,
		Data:            data,
	}
	if err := s.notificationRepo.CreateNotification(db, notification); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	metrics.NotificationsCreated.WithLabelValues(string(notification.Type), string(notification.RecipientRole)).Inc()
	logger.CtxDebug(ctx, "Notification created",
		"notification_id", notification.ID,
		"type", notification.Type,
		"recipient_role", notification.RecipientRole,
	)

	s.deliver(ctx, recipient, notification)
	return notification, nil
}

// NotifyAllAdmins создает по уведомлению каждому админу. Операция не атомарна:
// ошибка по одному админу логируется и не мешает остальным.
func (s *notificationService) NotifyAllAdmins(ctx context.Context, db *gorm.DB, input dto.AdminNotifyInput) ([]*models.Notification, error) {
	admins, err := s.userRepo.FindByRole(db, models.UserRoleAdmin)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	created := make([]*models.Notification, 0, len(admins))
	var errs []error
	for _, admin := range admins {
		n, err := s.Notify(ctx, db, dto.NotifyInput{
			RecipientID:     admin.ID,
			RecipientRole:   models.UserRoleAdmin,
			Type:            input.Type,
			Title:           input.Title,
			Message:         input.Message,
			PropertyID:      input.PropertyID,
			BookingID:       input.BookingID,
			SupportTicketID: input.SupportTicketID,
			Data:            input.Data,
		})
		if err != nil {
			logger.CtxWarn(ctx, "Failed to notify admin", "admin_id", admin.ID, "error", err)
			errs = append(errs, fmt.Errorf("admin %s: %w", admin.ID, err))
			continue
		}
		created = append(created, n)
	}

	return created, errors.Join(errs...)
}

// deliver - realtime и email копии уведомления. Сбои только логируются.
func (s *notificationService) deliver(ctx context.Context, recipient *models.User, n *models.Notification) {
	if s.broker != nil {
		event := realtime.Event{
			NotificationID: n.ID,
			RecipientID:    n.RecipientID,
			RecipientRole:  string(n.RecipientRole),
			Type:           string(n.Type),
			Title:          n.Title,
			Message:        n.Message,
			PropertyID:     n.PropertyID,
			BookingID:      n.BookingID,
			CreatedAt:      n.CreatedAt,
		}
		if err := s.broker.Publish(ctx, n.RecipientID, event); err != nil {
			metrics.SideEffectFailures.WithLabelValues(metrics.KindRealtime).Inc()
			logger.CtxWarn(ctx, "Failed to publish realtime notification", "notification_id", n.ID, "error", err)
		}
	}

	if s.mailer == nil || recipient.Email == "" {
		return
	}

	// Письмо уходит в фоне, чтобы SMTP не задерживал ответ
	to := []string{recipient.Email}
	data := email.TemplateData{
		"Name":    recipient.Name,
		"Title":   n.Title,
		"Message": n.Message,
	}
	log := logger.FromContext(ctx)
	go func() {
		if err := s.mailer.SendTemplate(to, n.Title, email.NotificationTemplate, data); err != nil {
			metrics.SideEffectFailures.WithLabelValues(metrics.KindEmail).Inc()
			log.Warn("Failed to send notification email", "notification_id", n.ID, "error", err)
		}
	}()
}

func validateNotifyInput(input dto.NotifyInput) error {
	if strings.TrimSpace(input.RecipientID) == "" {
		return apperrors.ErrInvalidArgument("notification", "recipient id is required")
	}
	if !input.RecipientRole.IsValid() {
		return apperrors.ErrInvalidArgument("notification", fmt.Sprintf("unknown recipient role '%s'", input.RecipientRole))
	}
	if !input.Type.IsValid() {
		return apperrors.ErrInvalidArgument("notification", fmt.Sprintf("unknown notification type '%s'", input.Type))
	}
	if strings.TrimSpace(input.Title) == "" {
		return apperrors.ErrInvalidArgument("notification", "title is required")
	}
	return nil
}

// ---------------- Reader operations ----------------

func streamOf(actor models.Actor) repositories.NotificationStream {
	return repositories.NotificationStream{
		RecipientID:   actor.UserID,
		RecipientRole: actor.Role,
	}
}

func (s *notificationService) ListRecent(ctx context.Context, db *gorm.DB, actor models.Actor, query dto.NotificationQuery) (*dto.NotificationListResponse, error) {
	if query.Type != "" && !query.Type.IsValid() {
		return nil, apperrors.ErrInvalidArgument("notification", fmt.Sprintf("unknown notification type '%s'", query.Type))
	}
	limit := query.Limit
	if limit <= 0 {
		limit = s.recentLimit
	}
	if limit > config.MaxRecentNotifications {
		limit = config.MaxRecentNotifications
	}

	stream := streamOf(actor)
	notifications, err := s.notificationRepo.FindRecentNotifications(db, stream, query.Type, limit)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	unread, err := s.notificationRepo.GetUnreadCount(db, stream)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	now := s.now()
	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, buildNotificationResponse(&notifications[i], now))
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		UnreadCount:   unread,
	}, nil
}

func (s *notificationService) GetUnreadCount(ctx context.Context, db *gorm.DB, actor models.Actor) (int64, error) {
	count, err := s.notificationRepo.GetUnreadCount(db, streamOf(actor))
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, db *gorm.DB, actor models.Actor, notificationID string) error {
	if err := s.notificationRepo.MarkAsRead(db, streamOf(actor), notificationID, s.now()); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, db *gorm.DB, actor models.Actor) (int64, error) {
	updated, err := s.notificationRepo.MarkAllAsRead(db, streamOf(actor), s.now())
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	logger.CtxInfo(ctx, "Notifications marked as read", "updated_count", updated)
	return updated, nil
}

func (s *notificationService) Delete(ctx context.Context, db *gorm.DB, actor models.Actor, notificationID string) error {
	if err := s.notificationRepo.DeleteNotification(db, streamOf(actor), notificationID); err != nil {
		return handleNotificationError(err)
	}
	return nil
}

// ---------------- Maintenance ----------------

func (s *notificationService) CleanOldNotifications(ctx context.Context, db *gorm.DB, olderThan time.Time) (int64, error) {
	deleted, err := s.notificationRepo.DeleteReadNotifications(db, olderThan)
	if err != nil {
		return 0, apperrors.DatabaseError(err)
	}
	metrics.NotificationsCleaned.Add(float64(deleted))
	return deleted, nil
}

// ---------------- Helpers ----------------

func buildNotificationResponse(n *models.Notification, now time.Time) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:              n.ID,
		Type:            n.Type,
		Title:           n.Title,
		Message:         n.Message,
		PropertyID:      n.PropertyID,
		BookingID:       n.BookingID,
		SupportTicketID: n.SupportTicketID,
		IsRead:          n.IsRead,
		ReadAt:          n.ReadAt,
		CreatedAt:       n.CreatedAt,
		TimeAgo:         timeAgo(now, n.CreatedAt),
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}

func handleNotificationError(err error) error {
	if errors.Is(err, repositories.ErrNotificationNotFound) {
		return apperrors.ErrNotFoundIn(err, "notification", "Notification not found")
	}
	return apperrors.DatabaseError(err)
}
