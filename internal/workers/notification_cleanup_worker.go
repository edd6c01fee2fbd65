package workers

import (
	"context"
	"fmt"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/services"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const notificationCleanupWorker = "notification_cleanup"

// NotificationCleanupWorker удаляет прочитанные уведомления старше срока хранения.
type NotificationCleanupWorker struct {
	db                  *gorm.DB
	notificationService services.NotificationService
	schedule            string
	retention           time.Duration
	now                 func() time.Time
}

func NewNotificationCleanupWorker(
	db *gorm.DB,
	notificationService services.NotificationService,
	schedule string,
	retentionDays int,
) *NotificationCleanupWorker {
	if schedule == "" {
		schedule = "@daily"
	}
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &NotificationCleanupWorker{
		db:                  db,
		notificationService: notificationService,
		schedule:            schedule,
		retention:           time.Duration(retentionDays) * 24 * time.Hour,
		now:                 time.Now,
	}
}

// Start блокируется до отмены ctx; невалидное расписание возвращается сразу.
func (w *NotificationCleanupWorker) Start(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(w.schedule, func() { _, _ = w.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid cleanup schedule %q: %w", w.schedule, err)
	}

	c.Start()
	logger.Info("Notification cleanup worker started", "schedule", w.schedule, "retention", w.retention.String())

	<-ctx.Done()

	// Дожидаемся текущего запуска
	<-c.Stop().Done()
	logger.Info("Notification cleanup worker stopped")
	return nil
}

// RunOnce выполняет одну очистку.
func (w *NotificationCleanupWorker) RunOnce(ctx context.Context) (int64, error) {
	cutoff := w.now().Add(-w.retention)
	deleted, err := w.notificationService.CleanOldNotifications(ctx, w.db.WithContext(ctx), cutoff)
	logger.WorkerLog(notificationCleanupWorker, "clean_read_notifications", err,
		"cutoff", cutoff.Format(time.RFC3339),
		"deleted", deleted,
	)
	return deleted, err
}
