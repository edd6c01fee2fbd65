package dto

import (
	"time"

	"estate_backend/internal/models"
)

// ---------------- Requests ----------------

type CreateTicketRequest struct {
	Subject     string                `json:"subject" validate:"required,max=200"`
	Category    models.TicketCategory `json:"category" validate:"omitempty,is-ticket-category"`
	Priority    models.TicketPriority `json:"priority" validate:"omitempty,is-ticket-priority"`
	Description string                `json:"description" validate:"required,max=5000"`
}

type TicketReplyRequest struct {
	Message string `json:"message" validate:"required,max=5000"`
}

// UpdateTicketRequest - изменения админа; nil-поля не меняются.
type UpdateTicketRequest struct {
	Status       *models.TicketStatus   `json:"status" validate:"omitempty,is-ticket-status"`
	Priority     *models.TicketPriority `json:"priority" validate:"omitempty,is-ticket-priority"`
	AssignedToID *string                `json:"assigned_to_id" validate:"omitempty,min=1"`
}

type TicketCriteria struct {
	Status   models.TicketStatus `form:"status" validate:"omitempty,is-ticket-status"`
	Page     int                 `form:"page"`
	PageSize int                 `form:"page_size"`
}

// ---------------- Responses ----------------

type TicketReplyResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Message         string    `json:"message"`
	IsStaffResponse bool      `json:"is_staff_response"`
	CreatedAt       time.Time `json:"created_at"`
}

type TicketResponse struct {
	ID           string                 `json:"id"`
	Token        string                 `json:"token"`
	UserID       string                 `json:"user_id"`
	UserName     string                 `json:"user_name,omitempty"`
	Subject      string                 `json:"subject"`
	Category     models.TicketCategory  `json:"category"`
	Priority     models.TicketPriority  `json:"priority"`
	Status       models.TicketStatus    `json:"status"`
	Description  string                 `json:"description"`
	AssignedToID *string                `json:"assigned_to_id,omitempty"`
	ResolvedAt   *time.Time             `json:"resolved_at,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Responses    []*TicketReplyResponse `json:"responses,omitempty"`
}

type TicketListResponse struct {
	Tickets    []*TicketResponse `json:"tickets"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

// TicketResult - обращение после изменения плюс несработавшие побочные эффекты.
type TicketResult struct {
	Ticket *TicketResponse `json:"ticket"`
	SideEffectReport
}
