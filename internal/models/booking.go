package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Booking struct {
	BaseModel
	PropertyID string        `gorm:"type:varchar(36);not null;index" json:"property_id"`
	BuyerID    string        `gorm:"type:varchar(36);not null;index" json:"buyer_id"`
	Status     BookingStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	// Контактные данные и дата визита, указанные покупателем при бронировании
	BuyerName  string     `json:"buyer_name"`
	BuyerPhone string     `json:"buyer_phone"`
	BuyerEmail string     `json:"buyer_email"`
	VisitDate  *time.Time `json:"visit_date,omitempty"`
	Message    string     `json:"message,omitempty"`

	Property    *Property    `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
	Buyer       *User        `gorm:"foreignKey:BuyerID;constraint:OnDelete:CASCADE" json:"-"`
	Transaction *Transaction `gorm:"foreignKey:BookingID" json:"transaction,omitempty"`
}

// Transaction - платеж по бронированию.
type Transaction struct {
	BaseModel
	BookingID     string          `gorm:"type:varchar(36);not null;index" json:"booking_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	PaymentMethod PaymentMethod   `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentStatus PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaidAt        time.Time       `json:"paid_at"`

	Booking *Booking `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
}
