package services_test

import (
	"context"
	"testing"

	"estate_backend/internal/models"
	"estate_backend/internal/services/dto"
	"estate_backend/internal/testutil"
	"estate_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveProperty_NotifiesSeller(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	property := testutil.CreateProperty(t, f.db, seller.ID, models.PropertyStatusAvailable)

	result, err := f.saved.SaveProperty(ctx, f.db, actorOf(buyer), property.ID, &dto.SavePropertyRequest{Notes: "close to school"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.SavedID)
	assert.False(t, result.HasFailures(), "%+v", result.Warnings)

	assert.EqualValues(t, 1, f.notificationCount(t, seller.ID, models.UserRoleSeller, models.NotificationTypePropertySaved))

	var note models.Notification
	require.NoError(t, f.db.Where("recipient_id = ?", seller.ID).First(&note).Error)
	assert.Equal(t, "Property Saved by Buyer", note.Title)
	assert.Equal(t, "Test buyer saved your property 'Sea View Villa' to their wishlist!", note.Message)

	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, &models.ActivityLog{},
		"user_id = ? AND action = ?", buyer.ID, "Saved property: Sea View Villa"))

	// Повторное сохранение - конфликт, без новых уведомлений
	_, err = f.saved.SaveProperty(ctx, f.db, actorOf(buyer), property.ID, &dto.SavePropertyRequest{})
	assert.Equal(t, apperrors.CodeConflict, apperrors.CodeOf(err))
	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, &models.Notification{}, ""))

	list, err := f.saved.ListSavedProperties(ctx, f.db, actorOf(buyer), dto.PageQuery{})
	require.NoError(t, err)
	require.Len(t, list.Properties, 1)
	assert.Equal(t, "close to school", list.Properties[0].Notes)
	require.NotNil(t, list.Properties[0].Property)
	assert.Equal(t, property.ID, list.Properties[0].Property.ID)
}

func TestSaveProperty_Rejections(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	property := testutil.CreateProperty(t, f.db, seller.ID, models.PropertyStatusAvailable)

	_, err := f.saved.SaveProperty(ctx, f.db, actorOf(seller), property.ID, &dto.SavePropertyRequest{})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = f.saved.SaveProperty(ctx, f.db, actorOf(buyer), "missing", &dto.SavePropertyRequest{})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.saved.ListSavedProperties(ctx, f.db, actorOf(seller), dto.PageQuery{})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.SavedProperty{}, ""))
}

func TestUnsaveProperty(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	property := testutil.CreateProperty(t, f.db, seller.ID, models.PropertyStatusAvailable)

	_, err := f.saved.SaveProperty(ctx, f.db, actorOf(buyer), property.ID, &dto.SavePropertyRequest{})
	require.NoError(t, err)

	require.NoError(t, f.saved.UnsaveProperty(ctx, f.db, actorOf(buyer), property.ID))
	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.SavedProperty{}, ""))

	err = f.saved.UnsaveProperty(ctx, f.db, actorOf(buyer), property.ID)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}
