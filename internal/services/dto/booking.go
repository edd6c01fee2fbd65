package dto

import (
	"time"

	"estate_backend/internal/models"

	"github.com/shopspring/decimal"
)

// ---------------- Requests ----------------

type CreateBookingRequest struct {
	PropertyID    string               `json:"property_id" validate:"required"`
	BuyerName     string               `json:"buyer_name" validate:"required,max=200"`
	BuyerPhone    string               `json:"buyer_phone" validate:"required,max=20"`
	BuyerEmail    string               `json:"buyer_email" validate:"required,email"`
	VisitDate     string               `json:"visit_date" validate:"required,datetime=2006-01-02"`
	Message       string               `json:"message" validate:"omitempty,max=2000"`
	PaymentMethod models.PaymentMethod `json:"payment_method" validate:"required,is-payment-method"`
	Amount        decimal.Decimal      `json:"amount"`
}

type UpdateBookingStatusRequest struct {
	Status models.BookingStatus `json:"status" validate:"required,is-booking-status"`
}

type BookingCriteria struct {
	Status   models.BookingStatus `form:"status" validate:"omitempty,is-booking-status"`
	Page     int                  `form:"page"`
	PageSize int                  `form:"page_size"`
}

type TransactionCriteria struct {
	PaymentStatus models.PaymentStatus `form:"payment_status" validate:"omitempty,is-payment-status"`
	Page          int                  `form:"page"`
	PageSize      int                  `form:"page_size"`
}

// ---------------- Responses ----------------

// CreateBookingResult - результат покупки: бронирование и платеж уже зафиксированы,
// Warnings перечисляет побочные эффекты, которые не удалось выполнить.
type CreateBookingResult struct {
	BookingID      string                `json:"booking_id"`
	TransactionID  string                `json:"transaction_id"`
	BookingStatus  models.BookingStatus  `json:"booking_status"`
	PaymentStatus  models.PaymentStatus  `json:"payment_status"`
	PropertyStatus models.PropertyStatus `json:"property_status"`
	PropertyTitle  string                `json:"property_title"`
	Amount         decimal.Decimal       `json:"amount"`
	BookingDate    time.Time             `json:"booking_date"`
	SideEffectReport
}

type UpdateBookingStatusResult struct {
	BookingID      string                `json:"booking_id"`
	OldStatus      models.BookingStatus  `json:"old_status"`
	NewStatus      models.BookingStatus  `json:"new_status"`
	Changed        bool                  `json:"changed"`
	PropertyTitle  string                `json:"property_title"`
	PropertyStatus models.PropertyStatus `json:"property_status"`
	BuyerName      string                `json:"buyer_name"`
	SideEffectReport
}

type BookingResponse struct {
	ID             string                `json:"id"`
	PropertyID     string                `json:"property_id"`
	PropertyTitle  string                `json:"property_title"`
	PropertyStatus models.PropertyStatus `json:"property_status"`
	BuyerID        string                `json:"buyer_id"`
	BuyerName      string                `json:"buyer_name"`
	BuyerPhone     string                `json:"buyer_phone"`
	BuyerEmail     string                `json:"buyer_email"`
	VisitDate      *time.Time            `json:"visit_date,omitempty"`
	Message        string                `json:"message,omitempty"`
	Status         models.BookingStatus  `json:"status"`
	Amount         *decimal.Decimal      `json:"amount,omitempty"`
	PaymentMethod  models.PaymentMethod  `json:"payment_method,omitempty"`
	PaymentStatus  models.PaymentStatus  `json:"payment_status,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
}

type BookingListResponse struct {
	Bookings   []*BookingResponse `json:"bookings"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

type TransactionResponse struct {
	ID            string               `json:"id"`
	BookingID     string               `json:"booking_id"`
	PropertyID    string               `json:"property_id,omitempty"`
	PropertyTitle string               `json:"property_title,omitempty"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	PaidAt        time.Time            `json:"paid_at"`
}

type TransactionListResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
	TotalSpent   decimal.Decimal        `json:"total_spent"`
	Page         int                    `json:"page"`
	PageSize     int                    `json:"page_size"`
	TotalPages   int                    `json:"total_pages"`
}
