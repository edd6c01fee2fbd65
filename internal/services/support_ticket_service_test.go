package services_test

import (
	"context"
	"regexp"
	"testing"

	"estate_backend/internal/models"
	"estate_backend/internal/services/dto"
	"estate_backend/internal/testutil"
	"estate_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ticketTokenPattern = regexp.MustCompile(`^SUP-\d{8}-\d{4}$`)

func openTicket(t *testing.T, f *serviceFixture, buyer *models.User) *dto.TicketResponse {
	t.Helper()
	result, err := f.tickets.CreateTicket(context.Background(), f.db, actorOf(buyer), &dto.CreateTicketRequest{
		Subject:     "Payment not reflected",
		Category:    models.TicketCategoryPayment,
		Priority:    models.TicketPriorityHigh,
		Description: "UPI payment went through but booking shows pending.",
	})
	require.NoError(t, err)
	return result.Ticket
}

func ptr[T any](v T) *T { return &v }

func TestCreateTicket_NotifiesAdmins(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	admin1 := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	admin2 := testutil.CreateUser(t, f.db, models.UserRoleAdmin)

	result, err := f.tickets.CreateTicket(ctx, f.db, actorOf(buyer), &dto.CreateTicketRequest{
		Subject:     "Cannot see my booking",
		Description: "Booking disappeared from dashboard",
	})
	require.NoError(t, err)
	assert.False(t, result.HasFailures(), "%+v", result.Warnings)

	ticket := result.Ticket
	assert.Regexp(t, ticketTokenPattern, ticket.Token)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	assert.Equal(t, models.TicketCategoryGeneral, ticket.Category)
	assert.Equal(t, models.TicketPriorityMedium, ticket.Priority)

	for _, admin := range []*models.User{admin1, admin2} {
		assert.EqualValues(t, 1, f.notificationCount(t, admin.ID, models.UserRoleAdmin, models.NotificationTypeTicketCreated))
	}

	var note models.Notification
	require.NoError(t, f.db.Where("recipient_id = ?", admin1.ID).First(&note).Error)
	require.NotNil(t, note.SupportTicketID)
	assert.Equal(t, ticket.ID, *note.SupportTicketID)
	assert.Equal(t, "Test buyer created ticket #"+ticket.Token+": 'Cannot see my booking'. Priority: medium", note.Message)

	assert.EqualValues(t, 1, testutil.CountRows(t, f.db, &models.ActivityLog{}, "user_id = ?", buyer.ID))
}

func TestCreateTicket_Rejections(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)

	_, err := f.tickets.CreateTicket(ctx, f.db, actorOf(seller), &dto.CreateTicketRequest{Subject: "x", Description: "y"})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	_, err = f.tickets.CreateTicket(ctx, f.db, actorOf(buyer), &dto.CreateTicketRequest{Subject: "x", Description: "y", Priority: "critical"})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.SupportTicket{}, ""))
}

func TestReplyToTicket_Conversation(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	admin := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	ticket := openTicket(t, f, buyer)

	// Ответ админа: in_progress, назначение, ticket_responded покупателю
	result, err := f.tickets.ReplyToTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.TicketReplyRequest{Message: "Checking with the bank"})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusInProgress, result.Ticket.Status)
	require.NotNil(t, result.Ticket.AssignedToID)
	assert.Equal(t, admin.ID, *result.Ticket.AssignedToID)
	require.Len(t, result.Ticket.Responses, 1)
	assert.True(t, result.Ticket.Responses[0].IsStaffResponse)
	assert.EqualValues(t, 1, f.notificationCount(t, buyer.ID, models.UserRoleBuyer, models.NotificationTypeTicketResponded))

	// Ответ покупателя уходит назначенному админу как ticket_updated
	result, err = f.tickets.ReplyToTicket(ctx, f.db, actorOf(buyer), ticket.ID, &dto.TicketReplyRequest{Message: "Thanks"})
	require.NoError(t, err)
	require.Len(t, result.Ticket.Responses, 2)
	assert.False(t, result.Ticket.Responses[1].IsStaffResponse)
	assert.EqualValues(t, 1, f.notificationCount(t, admin.ID, models.UserRoleAdmin, models.NotificationTypeTicketUpdated))
}

func TestReplyToTicket_Access(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	owner := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	stranger := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	admin := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	ticket := openTicket(t, f, owner)

	reply := &dto.TicketReplyRequest{Message: "hello"}

	_, err := f.tickets.ReplyToTicket(ctx, f.db, actorOf(stranger), ticket.ID, reply)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	_, err = f.tickets.ReplyToTicket(ctx, f.db, actorOf(seller), ticket.ID, reply)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
	_, err = f.tickets.ReplyToTicket(ctx, f.db, actorOf(owner), "missing", reply)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.tickets.GetTicket(ctx, f.db, actorOf(stranger), ticket.ID)
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Закрытое обращение ответов не принимает
	_, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatusClosed)})
	require.NoError(t, err)
	_, err = f.tickets.ReplyToTicket(ctx, f.db, actorOf(owner), ticket.ID, reply)
	assert.Equal(t, apperrors.CodeInvalidStatus, apperrors.CodeOf(err))

	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.TicketResponse{}, ""))
}

func TestUpdateTicket_StatusAndAssignment(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	admin := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	agent := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	ticket := openTicket(t, f, buyer)

	result, err := f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{
		AssignedToID: ptr(agent.ID),
		Priority:     ptr(models.TicketPriorityUrgent),
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketPriorityUrgent, result.Ticket.Priority)
	assert.EqualValues(t, 1, f.notificationCount(t, agent.ID, models.UserRoleAdmin, models.NotificationTypeTicketAssigned))
	// Статус не менялся - покупатель не уведомляется
	assert.EqualValues(t, 0, testutil.CountRows(t, f.db, &models.Notification{}, "recipient_id = ?", buyer.ID))

	result, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatusResolved)})
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusResolved, result.Ticket.Status)
	assert.NotNil(t, result.Ticket.ResolvedAt)
	assert.EqualValues(t, 1, f.notificationCount(t, buyer.ID, models.UserRoleBuyer, models.NotificationTypeTicketResolved))

	var note models.Notification
	require.NoError(t, f.db.Where("recipient_id = ? AND type = ?", buyer.ID, models.NotificationTypeTicketResolved).First(&note).Error)
	assert.Equal(t, "Your ticket #"+ticket.Token+": 'Payment not reflected' has been marked as resolved.", note.Message)

	// Переоткрытие сбрасывает resolved_at и шлет ticket_updated
	result, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatusOpen)})
	require.NoError(t, err)
	assert.Nil(t, result.Ticket.ResolvedAt)
	assert.EqualValues(t, 1, f.notificationCount(t, buyer.ID, models.UserRoleBuyer, models.NotificationTypeTicketUpdated))

	// Тот же статус - без побочных эффектов
	before := testutil.CountRows(t, f.db, &models.Notification{}, "")
	_, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatusOpen)})
	require.NoError(t, err)
	assert.Equal(t, before, testutil.CountRows(t, f.db, &models.Notification{}, ""))
}

func TestUpdateTicket_Rejections(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	admin := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)
	ticket := openTicket(t, f, buyer)

	_, err := f.tickets.UpdateTicket(ctx, f.db, actorOf(buyer), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatusClosed)})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))

	// Исполнителем может быть только админ
	_, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{AssignedToID: ptr(seller.ID)})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))

	_, err = f.tickets.UpdateTicket(ctx, f.db, actorOf(admin), ticket.ID, &dto.UpdateTicketRequest{Status: ptr(models.TicketStatus("pending"))})
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))

	got, err := f.tickets.GetTicket(ctx, f.db, actorOf(admin), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TicketStatusOpen, got.Status)
	assert.Nil(t, got.AssignedToID)
}

func TestListTickets_Scoped(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	buyer1 := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	buyer2 := testutil.CreateUser(t, f.db, models.UserRoleBuyer)
	admin := testutil.CreateUser(t, f.db, models.UserRoleAdmin)
	seller := testutil.CreateUser(t, f.db, models.UserRoleSeller)

	openTicket(t, f, buyer1)
	openTicket(t, f, buyer1)
	openTicket(t, f, buyer2)

	own, err := f.tickets.ListTickets(ctx, f.db, actorOf(buyer1), dto.TicketCriteria{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, own.Total)

	all, err := f.tickets.ListTickets(ctx, f.db, actorOf(admin), dto.TicketCriteria{Status: models.TicketStatusOpen})
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Total)

	_, err = f.tickets.ListTickets(ctx, f.db, actorOf(seller), dto.TicketCriteria{})
	assert.Equal(t, apperrors.CodeForbidden, apperrors.CodeOf(err))
}
