package models

import "time"

type TicketStatus string
type TicketPriority string
type TicketCategory string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"

	TicketPriorityLow    TicketPriority = "low"
	TicketPriorityMedium TicketPriority = "medium"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"

	TicketCategoryGeneral   TicketCategory = "general"
	TicketCategoryPayment   TicketCategory = "payment"
	TicketCategoryProperty  TicketCategory = "property"
	TicketCategoryTechnical TicketCategory = "technical"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// IsFinished - обращение закрыто, для него хранится resolved_at.
func (s TicketStatus) IsFinished() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

func (c TicketCategory) IsValid() bool {
	switch c {
	case TicketCategoryGeneral, TicketCategoryPayment, TicketCategoryProperty, TicketCategoryTechnical:
		return true
	}
	return false
}

// SupportTicket - обращение покупателя в поддержку.
// Token - человекочитаемый номер вида SUP-YYYYMMDD-XXXX.
type SupportTicket struct {
	BaseModel
	Token        string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"token"`
	UserID       string         `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Subject      string         `gorm:"type:varchar(200);not null" json:"subject"`
	Category     TicketCategory `gorm:"type:varchar(50);not null;default:'general'" json:"category"`
	Priority     TicketPriority `gorm:"type:varchar(20);not null;default:'medium'" json:"priority"`
	Status       TicketStatus   `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	AssignedToID *string        `gorm:"type:varchar(36);index" json:"assigned_to_id,omitempty"`
	ResolvedAt   *time.Time     `json:"resolved_at,omitempty"`

	User      *User            `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Responses []TicketResponse `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"-"`
}

type TicketResponse struct {
	BaseModel
	TicketID        string `gorm:"type:varchar(36);not null;index" json:"ticket_id"`
	UserID          string `gorm:"type:varchar(36);not null" json:"user_id"`
	Message         string `gorm:"type:text;not null" json:"message"`
	IsStaffResponse bool   `gorm:"not null;default:false" json:"is_staff_response"`
}
