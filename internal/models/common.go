package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel - общий первичный ключ и метки времени.
// ID генерируется на стороне приложения, чтобы не зависеть от uuid_generate_v4() в БД.
type BaseModel struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Actor - кто выполняет операцию. Передается в сервисы явно, вместо глобальной сессии.
type Actor struct {
	UserID string
	Role   UserRole
}

func (a Actor) IsAdmin() bool  { return a.Role == UserRoleAdmin }
func (a Actor) IsSeller() bool { return a.Role == UserRoleSeller }
func (a Actor) IsBuyer() bool  { return a.Role == UserRoleBuyer }
