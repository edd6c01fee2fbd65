package workers_test

import (
	"context"
	"testing"
	"time"

	"estate_backend/internal/models"
	"estate_backend/internal/realtime"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services"
	"estate_backend/internal/testutil"
	"estate_backend/internal/workers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNotificationService() services.NotificationService {
	return services.NewNotificationService(
		repositories.NewNotificationRepository(),
		repositories.NewUserRepository(),
		realtime.NewLocalBroker(),
		nil,
		0,
	)
}

func TestNotificationCleanupWorker_RunOnce(t *testing.T) {
	db := testutil.NewTestDB(t)
	buyer := testutil.CreateUser(t, db, models.UserRoleBuyer)

	now := time.Now()
	notifications := []models.Notification{
		{RecipientID: buyer.ID, RecipientRole: models.UserRoleBuyer, Type: models.NotificationTypeBookingConfirmed, Title: "old read", IsRead: true},
		{RecipientID: buyer.ID, RecipientRole: models.UserRoleBuyer, Type: models.NotificationTypeBookingConfirmed, Title: "old unread"},
		{RecipientID: buyer.ID, RecipientRole: models.UserRoleBuyer, Type: models.NotificationTypeBookingConfirmed, Title: "fresh read", IsRead: true},
	}
	require.NoError(t, db.Create(&notifications).Error)
	require.NoError(t, db.Model(&models.Notification{}).
		Where("title IN ?", []string{"old read", "old unread"}).
		Update("created_at", now.AddDate(0, 0, -40)).Error)

	w := workers.NewNotificationCleanupWorker(db, newTestNotificationService(), "", 30)

	deleted, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	assert.EqualValues(t, 0, testutil.CountRows(t, db, &models.Notification{}, "title = ?", "old read"))
	assert.EqualValues(t, 2, testutil.CountRows(t, db, &models.Notification{}, ""))

	// Повторный запуск ничего не находит
	deleted, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 0, deleted)
}

func TestNotificationCleanupWorker_InvalidSchedule(t *testing.T) {
	w := workers.NewNotificationCleanupWorker(nil, nil, "every now and then", 30)

	err := w.Start(context.Background())
	assert.Error(t, err)
}

func TestNotificationCleanupWorker_StopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	w := workers.NewNotificationCleanupWorker(db, newTestNotificationService(), "@every 1h", 30)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("воркер не остановился")
	}
}
