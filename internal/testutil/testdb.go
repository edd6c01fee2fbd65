package testutil

import (
	"fmt"
	"testing"
	"time"

	"estate_backend/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewTestDB открывает отдельную in-memory SQLite базу с примененными миграциями.
// Соединение одно: внутри транзакции нельзя обращаться к базе мимо tx.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "Не удалось открыть тестовую БД")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, models.AutoMigrate(db), "Не удалось выполнить миграции")
	return db
}

// CreateUser создает пользователя с уникальным email.
func CreateUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Name:         fmt.Sprintf("Test %s", role),
		Email:        fmt.Sprintf("%s_%s@test.com", role, uuid.NewString()[:8]),
		Phone:        "9876543210",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error, "Не удалось создать пользователя")
	return user
}

// CreateProperty создает объект продавца с заданным статусом.
func CreateProperty(t *testing.T, db *gorm.DB, ownerID string, status models.PropertyStatus) *models.Property {
	t.Helper()

	property := &models.Property{
		OwnerID:      ownerID,
		Title:        "Sea View Villa",
		Location:     "Marine Drive",
		City:         "Mumbai",
		State:        "Maharashtra",
		Price:        decimal.NewFromInt(1500000),
		AreaSqft:     2400,
		Bedrooms:     4,
		Bathrooms:    3,
		PropertyType: "villa",
		Status:       status,
	}
	require.NoError(t, db.Create(property).Error, "Не удалось создать объект")
	return property
}

// CreateBooking создает бронирование напрямую, минуя сервис.
func CreateBooking(t *testing.T, db *gorm.DB, propertyID, buyerID string, status models.BookingStatus) *models.Booking {
	t.Helper()

	visit := time.Now().AddDate(0, 0, 7)
	booking := &models.Booking{
		PropertyID: propertyID,
		BuyerID:    buyerID,
		Status:     status,
		BuyerName:  "Ravi Kumar",
		BuyerPhone: "9876543210",
		BuyerEmail: "ravi@test.com",
		VisitDate:  &visit,
	}
	require.NoError(t, db.Create(booking).Error, "Не удалось создать бронирование")
	return booking
}

// CountRows - количество строк модели по условию.
func CountRows(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	q := db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	require.NoError(t, q.Count(&count).Error)
	return count
}
