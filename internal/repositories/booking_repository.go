package repositories

import (
	"errors"

	"estate_backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

type BookingRepository interface {
	// Booking operations
	CreateBooking(db *gorm.DB, booking *models.Booking) error
	FindBookingByID(db *gorm.DB, id string) (*models.Booking, error)
	FindBookingByIDForUpdate(tx *gorm.DB, id string) (*models.Booking, error)
	UpdateBookingStatus(db *gorm.DB, id string, status models.BookingStatus) error
	CountActiveBookings(db *gorm.DB, propertyID, excludeBookingID string) (int64, error)
	FindBookings(db *gorm.DB, criteria BookingCriteria) ([]models.Booking, int64, error)

	// Transaction operations
	CreateTransaction(db *gorm.DB, txn *models.Transaction) error
	FindTransactions(db *gorm.DB, criteria TransactionCriteria) ([]models.Transaction, int64, error)
	SumSettledAmount(db *gorm.DB, buyerID string) (decimal.Decimal, error)
}

// BookingCriteria - фильтр списка бронирований. Пустые поля не ограничивают выборку.
type BookingCriteria struct {
	BuyerID  string
	OwnerID  string
	Status   models.BookingStatus
	Page     int
	PageSize int
}

type TransactionCriteria struct {
	BuyerID       string
	PaymentStatus models.PaymentStatus
	Page          int
	PageSize      int
}

type BookingRepositoryImpl struct{}

func NewBookingRepository() BookingRepository {
	return &BookingRepositoryImpl{}
}

// Booking operations

func (r *BookingRepositoryImpl) CreateBooking(db *gorm.DB, booking *models.Booking) error {
	return db.Create(booking).Error
}

func (r *BookingRepositoryImpl) FindBookingByID(db *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := db.Preload("Property").Preload("Transaction").First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) FindBookingByIDForUpdate(tx *gorm.DB, id string) (*models.Booking, error) {
	var booking models.Booking
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&booking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepositoryImpl) UpdateBookingStatus(db *gorm.DB, id string, status models.BookingStatus) error {
	result := db.Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// CountActiveBookings считает confirmed/completed бронирования объекта, кроме excludeBookingID.
func (r *BookingRepositoryImpl) CountActiveBookings(db *gorm.DB, propertyID, excludeBookingID string) (int64, error) {
	var count int64
	query := db.Model(&models.Booking{}).
		Where("property_id = ?", propertyID).
		Where("status IN ?", []models.BookingStatus{models.BookingStatusConfirmed, models.BookingStatusCompleted})
	if excludeBookingID != "" {
		query = query.Where("id <> ?", excludeBookingID)
	}
	err := query.Count(&count).Error
	return count, err
}

func (r *BookingRepositoryImpl) FindBookings(db *gorm.DB, criteria BookingCriteria) ([]models.Booking, int64, error) {
	var bookings []models.Booking
	var total int64

	query := db.Model(&models.Booking{})
	if criteria.BuyerID != "" {
		query = query.Where("bookings.buyer_id = ?", criteria.BuyerID)
	}
	if criteria.OwnerID != "" {
		query = query.Joins("JOIN properties ON properties.id = bookings.property_id").
			Where("properties.owner_id = ?", criteria.OwnerID)
	}
	if criteria.Status != "" {
		query = query.Where("bookings.status = ?", criteria.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Preload("Property").Preload("Transaction").
		Order("bookings.created_at DESC").
		Limit(criteria.PageSize).Offset(offset).
		Find(&bookings).Error

	return bookings, total, err
}

// Transaction operations

func (r *BookingRepositoryImpl) CreateTransaction(db *gorm.DB, txn *models.Transaction) error {
	return db.Create(txn).Error
}

func (r *BookingRepositoryImpl) FindTransactions(db *gorm.DB, criteria TransactionCriteria) ([]models.Transaction, int64, error) {
	var txns []models.Transaction
	var total int64

	query := db.Model(&models.Transaction{})
	if criteria.BuyerID != "" {
		query = query.Joins("JOIN bookings ON bookings.id = transactions.booking_id").
			Where("bookings.buyer_id = ?", criteria.BuyerID)
	}
	if criteria.PaymentStatus != "" {
		query = query.Where("transactions.payment_status = ?", criteria.PaymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Preload("Booking").Preload("Booking.Property").
		Order("transactions.paid_at DESC").
		Limit(criteria.PageSize).Offset(offset).
		Find(&txns).Error

	return txns, total, err
}

// SumSettledAmount - сумма completed/success платежей покупателя (складываем в decimal, не в SQL).
func (r *BookingRepositoryImpl) SumSettledAmount(db *gorm.DB, buyerID string) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := db.Model(&models.Transaction{}).
		Joins("JOIN bookings ON bookings.id = transactions.booking_id").
		Where("bookings.buyer_id = ?", buyerID).
		Where("transactions.payment_status IN ?", []models.PaymentStatus{models.PaymentStatusCompleted, models.PaymentStatusSuccess}).
		Pluck("transactions.amount", &amounts).Error
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}
