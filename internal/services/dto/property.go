package dto

import (
	"time"

	"estate_backend/internal/models"

	"github.com/shopspring/decimal"
)

type UpdatePropertyStatusRequest struct {
	Status models.PropertyStatus `json:"status" validate:"required,is-property-status"`
}

type PropertyResponse struct {
	ID           string                `json:"id"`
	OwnerID      string                `json:"owner_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	Location     string                `json:"location"`
	City         string                `json:"city"`
	State        string                `json:"state"`
	Price        decimal.Decimal       `json:"price"`
	AreaSqft     int                   `json:"area_sqft"`
	Bedrooms     int                   `json:"bedrooms"`
	Bathrooms    int                   `json:"bathrooms"`
	PropertyType string                `json:"property_type"`
	Status       models.PropertyStatus `json:"status"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

type UpdatePropertyStatusResult struct {
	PropertyID string                `json:"property_id"`
	OldStatus  models.PropertyStatus `json:"old_status"`
	NewStatus  models.PropertyStatus `json:"new_status"`
	SideEffectReport
}

type CreatePropertyRequest struct {
	Title        string          `json:"title" validate:"required,max=200"`
	Description  string          `json:"description" validate:"omitempty,max=5000"`
	Location     string          `json:"location" validate:"required,max=255"`
	City         string          `json:"city" validate:"required,max=100"`
	State        string          `json:"state" validate:"required,max=100"`
	Price        decimal.Decimal `json:"price"`
	AreaSqft     int             `json:"area_sqft" validate:"min=0"`
	Bedrooms     int             `json:"bedrooms" validate:"min=0"`
	Bathrooms    int             `json:"bathrooms" validate:"min=0"`
	PropertyType string          `json:"property_type" validate:"omitempty,max=50"`
}

type CreatePropertyResult struct {
	Property *PropertyResponse `json:"property"`
	SideEffectReport
}
