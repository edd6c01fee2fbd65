package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLog - append-only журнал действий пользователя.
type ActivityLog struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Action    string    `gorm:"type:text;not null" json:"action"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// AutoMigrate создает таблицы в порядке зависимостей внешних ключей.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Property{},
		&Booking{},
		&Transaction{},
		&SavedProperty{},
		&SupportTicket{},
		&TicketResponse{},
		&Notification{},
		&ActivityLog{},
	)
}
