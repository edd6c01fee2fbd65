package models

// SavedProperty - объект в избранном покупателя. Пара (UserID, PropertyID) уникальна.
type SavedProperty struct {
	BaseModel
	UserID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_property" json:"user_id"`
	PropertyID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_user_property" json:"property_id"`
	Notes      string `gorm:"type:text" json:"notes,omitempty"`

	User     *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Property *Property `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"-"`
}
