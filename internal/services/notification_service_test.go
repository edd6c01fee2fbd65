package services_test

import (
	"context"
	"testing"
	"time"

	"estate_backend/internal/models"
	"estate_backend/internal/services/dto"
	"estate_backend/internal/testutil"
	"estate_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingNotice(recipient *models.User, title string) dto.NotifyInput {
	return dto.NotifyInput{
		RecipientID:   recipient.ID,
		RecipientRole: recipient.Role,
		Type:          models.NotificationTypeBookingConfirmed,
		Title:         title,
		Message:       "Your booking has been confirmed.",
	}
}

func TestNotify_PersistsAndPublishes(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	events, unsubscribe, err := f.broker.Subscribe(ctx, buyer.ID)
	require.NoError(t, err)
	defer unsubscribe()

	input := bookingNotice(buyer, "Booking Confirmed!")
	input.Data = map[string]interface{}{"amount": "1500000.00"}

	n, err := f.notifications.Notify(ctx, f.db, input)
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.False(t, n.IsRead)

	select {
	case ev := <-events:
		assert.Equal(t, n.ID, ev.NotificationID)
		assert.Equal(t, string(models.UserRoleBuyer), ev.RecipientRole)
		assert.Equal(t, "Booking Confirmed!", ev.Title)
	case <-time.After(time.Second):
		t.Fatal("Событие не доставлено подписчику")
	}

	list, err := f.notifications.ListRecent(ctx, f.db, actorOf(buyer), dto.NotificationQuery{})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.EqualValues(t, 1, list.UnreadCount)
	assert.Equal(t, "Just now", list.Notifications[0].TimeAgo)
	assert.Equal(t, "1500000.00", list.Notifications[0].Data["amount"])
}

func TestNotify_Validation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)

	tests := []struct {
		name   string
		mutate func(in *dto.NotifyInput)
		code   apperrors.ErrorCode
	}{
		{"unknown type", func(in *dto.NotifyInput) { in.Type = "weather_report" }, apperrors.CodeInvalidArgument},
		{"unknown role", func(in *dto.NotifyInput) { in.RecipientRole = "guest" }, apperrors.CodeInvalidArgument},
		{"empty recipient", func(in *dto.NotifyInput) { in.RecipientID = "" }, apperrors.CodeInvalidArgument},
		{"empty title", func(in *dto.NotifyInput) { in.Title = "  " }, apperrors.CodeInvalidArgument},
		{"role mismatch", func(in *dto.NotifyInput) { in.RecipientRole = models.UserRoleAdmin }, apperrors.CodeNotFound},
		{"missing user", func(in *dto.NotifyInput) { in.RecipientID = "missing" }, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := bookingNotice(seller, "Property Sold")
			tt.mutate(&input)

			_, err := f.notifications.Notify(ctx, f.db, input)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.CodeOf(err))
		})
	}

	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.Notification{}, ""))
}

func TestNotify_AcceptsEveryNotificationType(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	allowed := []string{
		"booking_received", "booking_confirmed", "booking_denied", "booking_cancelled",
		"payment_success", "payment_failed", "payment_received",
		"property_added", "property_approved", "property_rejected", "property_sold",
		"property_saved", "property_status_changed",
		"ticket_created", "ticket_responded", "ticket_assigned", "ticket_resolved", "ticket_updated",
		"system_message", "welcome",
	}

	for _, typ := range allowed {
		t.Run(typ, func(t *testing.T) {
			input := bookingNotice(buyer, "Notice "+typ)
			input.Type = models.NotificationType(typ)

			n, err := f.notifications.Notify(ctx, f.db, input)
			require.NoError(t, err)
			assert.Equal(t, models.NotificationType(typ), n.Type)
		})
	}
	assert.EqualValues(t, len(allowed), testutil.CountRows(t, f.db, &models.Notification{}, ""))

	for _, typ := range []string{"booking_reminder", "new_user", "maintenance", "price_changed", "new_inquiry", "system_alert"} {
		input := bookingNotice(buyer, "Rejected")
		input.Type = models.NotificationType(typ)

		_, err := f.notifications.Notify(ctx, f.db, input)
		assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err), "тип %q должен отклоняться", typ)
	}
	assert.EqualValues(t, len(allowed), testutil.CountRows(t, f.db, &models.Notification{}, ""))
}

func TestListRecent_TypeFilter(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	for _, typ := range []models.NotificationType{
		models.NotificationTypePropertySaved,
		models.NotificationTypePropertySaved,
		models.NotificationTypePaymentReceived,
	} {
		input := bookingNotice(seller, "Notice")
		input.Type = typ
		_, err := f.notifications.Notify(ctx, f.db, input)
		require.NoError(t, err)
	}

	list, err := f.notifications.ListRecent(ctx, f.db, actorOf(seller), dto.NotificationQuery{Type: models.NotificationTypePropertySaved})
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 2)
	// Счетчик непрочитанных не зависит от фильтра
	assert.EqualValues(t, 3, list.UnreadCount)

	_, err = f.notifications.ListRecent(ctx, f.db, actorOf(seller), dto.NotificationQuery{Type: "system_alert"})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestNotifyAllAdmins(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	second := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	testutil.CreateUser(t, f.db, models.UserRoleSeller)

	created, err := f.notifications.NotifyAllAdmins(ctx, f.db, dto.AdminNotifyInput{
		Type:    models.NotificationTypeSystemMessage,
		Title:   "Maintenance window",
		Message: "Payments are paused for 10 minutes.",
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	for _, admin := range []*models.User{first, second} {
		count, err := f.notifications.GetUnreadCount(ctx, f.db, actorOf(admin))
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	}
	assert.EqualValues(t, 2, testutil.CountRows(t, f.db, &models.Notification{}, "recipient_role = ?", models.UserRoleAdmin))
}

func TestNotifyAllAdmins_NoAdmins(t *testing.T) {
	f := newServiceFixture(t)

	created, err := f.notifications.NotifyAllAdmins(context.Background(), f.db, dto.AdminNotifyInput{
		Type:  models.NotificationTypeSystemMessage,
		Title: "Nobody home",
	})
	require.NoError(t, err)
	assert.Empty(t, created)
}

func TestNotificationStreams_AreRoleScoped(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	_, err := f.notifications.Notify(ctx, f.db, bookingNotice(seller, "Property Sold"))
	require.NoError(t, err)

	// Тот же id, но другая роль - другая лента
	foreign := models.Actor{UserID: seller.ID, Role: models.UserRoleAdmin}
	list, err := f.notifications.ListRecent(ctx, f.db, foreign, dto.NotificationQuery{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, list.Notifications)
	assert.EqualValues(t, 0, list.UnreadCount)

	updated, err := f.notifications.MarkAllRead(ctx, f.db, foreign)
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)

	count, err := f.notifications.GetUnreadCount(ctx, f.db, actorOf(seller))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestMarkRead(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	other := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	n, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, "Booking Confirmed!"))
	require.NoError(t, err)

	err = f.notifications.MarkRead(ctx, f.db, actorOf(other), n.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err), "Чужое уведомление не должно быть видно")

	err = f.notifications.MarkRead(ctx, f.db, actorOf(buyer), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	require.NoError(t, f.notifications.MarkRead(ctx, f.db, actorOf(buyer), n.ID))

	var stored models.Notification
	require.NoError(t, f.db.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.IsRead)
	assert.NotNil(t, stored.ReadAt)

	// Повторная отметка не ошибка
	require.NoError(t, f.notifications.MarkRead(ctx, f.db, actorOf(buyer), n.ID))
}

func TestMarkAllRead_Idempotent(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	for _, title := range []string{"First", "Second", "Third"} {
		_, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, title))
		require.NoError(t, err)
	}

	updated, err := f.notifications.MarkAllRead(ctx, f.db, actorOf(buyer))
	require.NoError(t, err)
	assert.EqualValues(t, 3, updated)

	updated, err = f.notifications.MarkAllRead(ctx, f.db, actorOf(buyer))
	require.NoError(t, err)
	assert.EqualValues(t, 0, updated)

	count, err := f.notifications.GetUnreadCount(ctx, f.db, actorOf(buyer))
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestDeleteNotification(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	other := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	n, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, "Booking Confirmed!"))
	require.NoError(t, err)

	err = f.notifications.Delete(ctx, f.db, actorOf(other), n.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	require.NoError(t, f.notifications.Delete(ctx, f.db, actorOf(buyer), n.ID))
	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.Notification{}, ""))

	err = f.notifications.Delete(ctx, f.db, actorOf(buyer), n.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestListRecent_RespectsLimit(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	for i := 0; i < 5; i++ {
		_, err := f.notifications.Notify(ctx, f.db, bookingNotice(seller, "Update"))
		require.NoError(t, err)
	}

	list, err := f.notifications.ListRecent(ctx, f.db, actorOf(seller), dto.NotificationQuery{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, list.Notifications, 3)
	assert.EqualValues(t, 5, list.UnreadCount)
}

func TestCleanOldNotifications(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	oldRead, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, "Old read"))
	require.NoError(t, err)
	oldUnread, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, "Old unread"))
	require.NoError(t, err)
	freshRead, err := f.notifications.Notify(ctx, f.db, bookingNotice(buyer, "Fresh read"))
	require.NoError(t, err)

	old := time.Now().AddDate(0, 0, -120)
	require.NoError(t, f.db.Model(&models.Notification{}).
		Where("id IN ?", []string{oldRead.ID, oldUnread.ID}).
		Update("created_at", old).Error)
	require.NoError(t, f.notifications.MarkRead(ctx, f.db, actorOf(buyer), oldRead.ID))
	require.NoError(t, f.notifications.MarkRead(ctx, f.db, actorOf(buyer), freshRead.ID))

	deleted, err := f.notifications.CleanOldNotifications(ctx, f.db, time.Now().AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.Notification{}, "id = ?", oldRead.ID))
	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, &models.Notification{}, "id = ?", oldUnread.ID))
	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, &models.Notification{}, "id = ?", freshRead.ID))
}
