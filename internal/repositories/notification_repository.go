package repositories

import (
	"errors"
	"time"

	"estate_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// NotificationStream - лента одного получателя в одной роли.
type NotificationStream struct {
	RecipientID   string
	RecipientRole models.UserRole
}

type NotificationRepository interface {
	CreateNotification(db *gorm.DB, notification *models.Notification) error
	FindNotification(db *gorm.DB, stream NotificationStream, id string) (*models.Notification, error)
	// FindRecentNotifications - последние уведомления ленты; пустой notificationType не фильтрует.
	FindRecentNotifications(db *gorm.DB, stream NotificationStream, notificationType models.NotificationType, limit int) ([]models.Notification, error)
	MarkAsRead(db *gorm.DB, stream NotificationStream, id string, readAt time.Time) error
	MarkAllAsRead(db *gorm.DB, stream NotificationStream, readAt time.Time) (int64, error)
	GetUnreadCount(db *gorm.DB, stream NotificationStream) (int64, error)
	DeleteNotification(db *gorm.DB, stream NotificationStream, id string) error
	DeleteReadNotifications(db *gorm.DB, olderThan time.Time) (int64, error)
}

type NotificationRepositoryImpl struct{}

func NewNotificationRepository() NotificationRepository {
	return &NotificationRepositoryImpl{}
}

func (s NotificationStream) scope(db *gorm.DB) *gorm.DB {
	return db.Where("recipient_id = ? AND recipient_role = ?", s.RecipientID, s.RecipientRole)
}

func (r *NotificationRepositoryImpl) CreateNotification(db *gorm.DB, notification *models.Notification) error {
	return db.Create(notification).Error
}

func (r *NotificationRepositoryImpl) FindNotification(db *gorm.DB, stream NotificationStream, id string) (*models.Notification, error) {
	var notification models.Notification
	err := stream.scope(db.Model(&models.Notification{})).Where("id = ?", id).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

func (r *NotificationRepositoryImpl) FindRecentNotifications(db *gorm.DB, stream NotificationStream, notificationType models.NotificationType, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := stream.scope(db.Model(&models.Notification{}))
	if notificationType != "" {
		query = query.Where("type = ?", notificationType)
	}
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

// MarkAsRead проставляет read_at только у непрочитанного уведомления; повторный вызов ничего не меняет.
func (r *NotificationRepositoryImpl) MarkAsRead(db *gorm.DB, stream NotificationStream, id string, readAt time.Time) error {
	if _, err := r.FindNotification(db, stream, id); err != nil {
		return err
	}
	return stream.scope(db.Model(&models.Notification{})).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		}).Error
}

func (r *NotificationRepositoryImpl) MarkAllAsRead(db *gorm.DB, stream NotificationStream, readAt time.Time) (int64, error) {
	result := stream.scope(db.Model(&models.Notification{})).
		Where("is_read = ?", false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": readAt,
		})
	return result.RowsAffected, result.Error
}

func (r *NotificationRepositoryImpl) GetUnreadCount(db *gorm.DB, stream NotificationStream) (int64, error) {
	var count int64
	err := stream.scope(db.Model(&models.Notification{})).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepositoryImpl) DeleteNotification(db *gorm.DB, stream NotificationStream, id string) error {
	result := stream.scope(db).Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteReadNotifications удаляет прочитанные уведомления старше olderThan во всех лентах.
func (r *NotificationRepositoryImpl) DeleteReadNotifications(db *gorm.DB, olderThan time.Time) (int64, error) {
	result := db.Where("is_read = ? AND created_at < ?", true, olderThan).Delete(&models.Notification{})
	return result.RowsAffected, result.Error
}
