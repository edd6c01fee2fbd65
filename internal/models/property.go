package models

import "github.com/shopspring/decimal"

type Property struct {
	BaseModel
	OwnerID      string          `gorm:"type:varchar(36);not null;index" json:"owner_id"`
	Title        string          `gorm:"not null" json:"title"`
	Description  string          `json:"description,omitempty"`
	Location     string          `json:"location"`
	City         string          `gorm:"index" json:"city"`
	State        string          `json:"state"`
	Price        decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"price"`
	AreaSqft     int             `json:"area_sqft"`
	Bedrooms     int             `json:"bedrooms"`
	Bathrooms    int             `json:"bathrooms"`
	PropertyType string          `gorm:"type:varchar(50)" json:"property_type"`
	Status       PropertyStatus  `gorm:"type:varchar(20);not null;default:'Available';index" json:"status"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
}

func (p *Property) IsSold() bool {
	return p.Status == PropertyStatusSold
}
