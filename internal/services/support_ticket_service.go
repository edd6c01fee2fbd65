package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const ticketTokenAttempts = 10

type SupportTicketService interface {
	CreateTicket(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreateTicketRequest) (*dto.TicketResult, error)
	GetTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string) (*dto.TicketResponse, error)
	ListTickets(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.TicketCriteria) (*dto.TicketListResponse, error)
	ReplyToTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string, req *dto.TicketReplyRequest) (*dto.TicketResult, error)
	UpdateTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string, req *dto.UpdateTicketRequest) (*dto.TicketResult, error)
}

type supportTicketService struct {
	sideEffects
	ticketRepo repositories.SupportTicketRepository
	userRepo   repositories.UserRepository
	now        func() time.Time
	randIntN   func(n int) int
}

func NewSupportTicketService(
	ticketRepo repositories.SupportTicketRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	activityLogService ActivityLogService,
) SupportTicketService {
	return &supportTicketService{
		sideEffects: sideEffects{notifications: notificationService, logs: activityLogService},
		ticketRepo:  ticketRepo,
		userRepo:    userRepo,
		now:         time.Now,
		randIntN:    rand.IntN,
	}
}

// CreateTicket - обращение покупателя. Всем админам уходит ticket_created.
func (s *supportTicketService) CreateTicket(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreateTicketRequest) (*dto.TicketResult, error) {
	if !actor.IsBuyer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	category := req.Category
	if category == "" {
		category = models.TicketCategoryGeneral
	}
	priority := req.Priority
	if priority == "" {
		priority = models.TicketPriorityMedium
	}
	if !category.IsValid() {
		return nil, apperrors.ErrInvalidArgument("ticket", fmt.Sprintf("unknown ticket category '%s'", category))
	}
	if !priority.IsValid() {
		return nil, apperrors.ErrInvalidArgument("ticket", fmt.Sprintf("unknown ticket priority '%s'", priority))
	}

	buyer, err := s.userRepo.FindByIDAndRole(db, actor.UserID, models.UserRoleBuyer)
	if err != nil {
		return nil, handleTicketError(err)
	}

	token, err := s.newToken(db)
	if err != nil {
		return nil, err
	}

	ticket := &models.SupportTicket{
		Token:       token,
		UserID:      buyer.ID,
		Subject:     req.Subject,
		Category:    category,
		Priority:    priority,
		Status:      models.TicketStatusOpen,
		Description: req.Description,
	}
	if err := s.ticketRepo.CreateTicket(db, ticket); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Support ticket created", "ticket_id", ticket.ID, "token", ticket.Token)

	result := &dto.TicketResult{Ticket: buildTicketResponse(ticket)}
	report := &result.SideEffectReport

	s.notifyAdmins(ctx, db, report, dto.AdminNotifyInput{
		Type:  models.NotificationTypeTicketCreated,
		Title: "New Support Ticket",
		Message: fmt.Sprintf("%s created ticket #%s: '%s'. Priority: %s",
			buyer.Name, ticket.Token, ticket.Subject, ticket.Priority),
		SupportTicketID: strPtr(ticket.ID),
	})
	s.record(ctx, db, report, buyer.ID, fmt.Sprintf("Created support ticket: %s (Token: %s)", ticket.Subject, ticket.Token))

	return result, nil
}

func (s *supportTicketService) GetTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string) (*dto.TicketResponse, error) {
	ticket, err := s.ticketRepo.FindTicketByID(db, ticketID)
	if err != nil {
		return nil, handleTicketError(err)
	}
	if err := canAccessTicket(actor, ticket); err != nil {
		return nil, err
	}
	return buildTicketResponse(ticket), nil
}

// ListTickets: покупатель видит свои обращения, админ все.
func (s *supportTicketService) ListTickets(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.TicketCriteria) (*dto.TicketListResponse, error) {
	if criteria.Status != "" && !criteria.Status.IsValid() {
		return nil, apperrors.ErrInvalidArgument("ticket", fmt.Sprintf("unknown ticket status '%s'", criteria.Status))
	}
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)

	repoCriteria := repositories.TicketCriteria{
		Status:   criteria.Status,
		Page:     page,
		PageSize: pageSize,
	}
	switch actor.Role {
	case models.UserRoleBuyer:
		repoCriteria.UserID = actor.UserID
	case models.UserRoleAdmin:
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	tickets, total, err := s.ticketRepo.FindTickets(db, repoCriteria)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	items := make([]*dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, buildTicketResponse(&tickets[i]))
	}

	return &dto.TicketListResponse{
		Tickets:    items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ReplyToTicket добавляет ответ в переписку. Ответ админа переводит открытое обращение
// в in_progress и закрепляет его за админом, если исполнитель не назначен.
// Закрытое (closed) обращение ответов не принимает.
func (s *supportTicketService) ReplyToTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string, req *dto.TicketReplyRequest) (*dto.TicketResult, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	ticket, err := s.ticketRepo.FindTicketByIDForUpdate(tx, ticketID)
	if err != nil {
		return nil, handleTicketError(err)
	}
	if err := canAccessTicket(actor, ticket); err != nil {
		return nil, err
	}
	if ticket.Status == models.TicketStatusClosed {
		return nil, apperrors.ErrInvalidStatus("ticket", "ticket is closed")
	}

	reply := &models.TicketResponse{
		TicketID:        ticket.ID,
		UserID:          actor.UserID,
		Message:         req.Message,
		IsStaffResponse: actor.IsAdmin(),
	}
	if err := s.ticketRepo.CreateResponse(tx, reply); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if actor.IsAdmin() {
		updates := map[string]interface{}{}
		if ticket.Status == models.TicketStatusOpen {
			updates["status"] = models.TicketStatusInProgress
		}
		if ticket.AssignedToID == nil {
			updates["assigned_to_id"] = actor.UserID
		}
		if len(updates) > 0 {
			if err := s.ticketRepo.UpdateTicket(tx, ticket.ID, updates); err != nil {
				return nil, handleTicketError(err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	updated, err := s.ticketRepo.FindTicketByID(db, ticket.ID)
	if err != nil {
		return nil, handleTicketError(err)
	}

	result := &dto.TicketResult{Ticket: buildTicketResponse(updated)}
	report := &result.SideEffectReport

	if actor.IsAdmin() {
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:     updated.UserID,
			RecipientRole:   models.UserRoleBuyer,
			Type:            models.NotificationTypeTicketResponded,
			Title:           "Support Ticket Update",
			Message:         fmt.Sprintf("You have a new response on your ticket #%s: '%s'", updated.Token, updated.Subject),
			SupportTicketID: strPtr(updated.ID),
		})
		s.record(ctx, db, report, actor.UserID, fmt.Sprintf("Responded to support ticket %s", updated.Token))
		return result, nil
	}

	message := fmt.Sprintf("%s replied to ticket #%s: '%s'", userName(updated.User), updated.Token, updated.Subject)
	if updated.AssignedToID != nil {
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:     *updated.AssignedToID,
			RecipientRole:   models.UserRoleAdmin,
			Type:            models.NotificationTypeTicketUpdated,
			Title:           "Support Ticket Update",
			Message:         message,
			SupportTicketID: strPtr(updated.ID),
		})
	} else {
		s.notifyAdmins(ctx, db, report, dto.AdminNotifyInput{
			Type:            models.NotificationTypeTicketUpdated,
			Title:           "Support Ticket Update",
			Message:         message,
			SupportTicketID: strPtr(updated.ID),
		})
	}
	s.record(ctx, db, report, actor.UserID, fmt.Sprintf("Replied to support ticket %s", updated.Token))

	return result, nil
}

// UpdateTicket - смена статуса, приоритета и исполнителя админом.
// resolved отправляет покупателю ticket_resolved, прочие смены статуса ticket_updated,
// новый исполнитель получает ticket_assigned.
func (s *supportTicketService) UpdateTicket(ctx context.Context, db *gorm.DB, actor models.Actor, ticketID string, req *dto.UpdateTicketRequest) (*dto.TicketResult, error) {
	if !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if req.Status != nil && !req.Status.IsValid() {
		return nil, apperrors.ErrInvalidArgument("ticket", fmt.Sprintf("unknown ticket status '%s'", *req.Status))
	}
	if req.Priority != nil && !req.Priority.IsValid() {
		return nil, apperrors.ErrInvalidArgument("ticket", fmt.Sprintf("unknown ticket priority '%s'", *req.Priority))
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	ticket, err := s.ticketRepo.FindTicketByIDForUpdate(tx, ticketID)
	if err != nil {
		return nil, handleTicketError(err)
	}

	oldStatus := ticket.Status
	updates := map[string]interface{}{}
	statusChanged := req.Status != nil && *req.Status != ticket.Status
	if statusChanged {
		updates["status"] = *req.Status
		switch {
		case req.Status.IsFinished() && ticket.ResolvedAt == nil:
			updates["resolved_at"] = s.now()
		case !req.Status.IsFinished():
			updates["resolved_at"] = nil
		}
	}
	if req.Priority != nil && *req.Priority != ticket.Priority {
		updates["priority"] = *req.Priority
	}

	var assignee *models.User
	if req.AssignedToID != nil && (ticket.AssignedToID == nil || *ticket.AssignedToID != *req.AssignedToID) {
		assignee, err = s.userRepo.FindByIDAndRole(tx, *req.AssignedToID, models.UserRoleAdmin)
		if err != nil {
			return nil, handleTicketError(err)
		}
		updates["assigned_to_id"] = assignee.ID
	}

	if len(updates) > 0 {
		if err := s.ticketRepo.UpdateTicket(tx, ticket.ID, updates); err != nil {
			return nil, handleTicketError(err)
		}
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	updated, err := s.ticketRepo.FindTicketByID(db, ticket.ID)
	if err != nil {
		return nil, handleTicketError(err)
	}

	result := &dto.TicketResult{Ticket: buildTicketResponse(updated)}
	if len(updates) == 0 {
		return result, nil
	}
	report := &result.SideEffectReport

	if assignee != nil && assignee.ID != actor.UserID {
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:     assignee.ID,
			RecipientRole:   models.UserRoleAdmin,
			Type:            models.NotificationTypeTicketAssigned,
			Title:           "Support Ticket Assigned",
			Message:         fmt.Sprintf("Ticket #%s: '%s' has been assigned to you.", updated.Token, updated.Subject),
			SupportTicketID: strPtr(updated.ID),
		})
	}

	if statusChanged {
		input := dto.NotifyInput{
			RecipientID:     updated.UserID,
			RecipientRole:   models.UserRoleBuyer,
			Type:            models.NotificationTypeTicketUpdated,
			Title:           "Support Ticket Update",
			Message:         fmt.Sprintf("Your ticket #%s: '%s' status changed to %s.", updated.Token, updated.Subject, updated.Status),
			SupportTicketID: strPtr(updated.ID),
		}
		if updated.Status == models.TicketStatusResolved {
			input.Type = models.NotificationTypeTicketResolved
			input.Title = "Support Ticket Resolved"
			input.Message = fmt.Sprintf("Your ticket #%s: '%s' has been marked as resolved.", updated.Token, updated.Subject)
		}
		s.notify(ctx, db, report, input)
		s.record(ctx, db, report, actor.UserID,
			fmt.Sprintf("Changed ticket %s status from %s to %s", updated.Token, oldStatus, updated.Status))
	} else {
		s.record(ctx, db, report, actor.UserID, fmt.Sprintf("Updated support ticket %s", updated.Token))
	}

	logger.CtxInfo(ctx, "Support ticket updated", "ticket_id", updated.ID, "status", updated.Status)
	return result, nil
}

// newToken подбирает свободный номер вида SUP-YYYYMMDD-XXXX.
func (s *supportTicketService) newToken(db *gorm.DB) (string, error) {
	date := s.now().Format("20060102")
	for i := 0; i < ticketTokenAttempts; i++ {
		token := fmt.Sprintf("SUP-%s-%04d", date, 1000+s.randIntN(9000))
		exists, err := s.ticketRepo.TokenExists(db, token)
		if err != nil {
			return "", apperrors.DatabaseError(err)
		}
		if !exists {
			return token, nil
		}
	}
	return "", apperrors.ErrConflict(nil, "ticket", "could not allocate a ticket number, try again")
}

func canAccessTicket(actor models.Actor, ticket *models.SupportTicket) error {
	switch {
	case actor.IsAdmin():
		return nil
	case actor.IsBuyer() && ticket.UserID == actor.UserID:
		return nil
	}
	return apperrors.ErrForbidden("ticket", "You do not have access to this ticket")
}

func userName(u *models.User) string {
	if u == nil {
		return "A buyer"
	}
	return u.Name
}

func buildTicketResponse(t *models.SupportTicket) *dto.TicketResponse {
	resp := &dto.TicketResponse{
		ID:           t.ID,
		Token:        t.Token,
		UserID:       t.UserID,
		Subject:      t.Subject,
		Category:     t.Category,
		Priority:     t.Priority,
		Status:       t.Status,
		Description:  t.Description,
		AssignedToID: t.AssignedToID,
		ResolvedAt:   t.ResolvedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.User != nil {
		resp.UserName = t.User.Name
	}
	for i := range t.Responses {
		r := &t.Responses[i]
		resp.Responses = append(resp.Responses, &dto.TicketReplyResponse{
			ID:              r.ID,
			UserID:          r.UserID,
			Message:         r.Message,
			IsStaffResponse: r.IsStaffResponse,
			CreatedAt:       r.CreatedAt,
		})
	}
	return resp
}

func handleTicketError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrTicketNotFound):
		return apperrors.ErrNotFoundIn(err, "ticket", "Support ticket not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFoundIn(err, "user", "User not found")
	}
	return apperrors.DatabaseError(err)
}
