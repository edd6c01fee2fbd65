package repositories

import (
	"errors"

	"estate_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
)

type PropertyRepository interface {
	Create(db *gorm.DB, property *models.Property) error
	FindByID(db *gorm.DB, id string) (*models.Property, error)
	// FindByIDForUpdate блокирует строку до конца транзакции (SELECT ... FOR UPDATE).
	FindByIDForUpdate(tx *gorm.DB, id string) (*models.Property, error)
	UpdateStatus(db *gorm.DB, id string, status models.PropertyStatus) error
}

type PropertyRepositoryImpl struct{}

func NewPropertyRepository() PropertyRepository {
	return &PropertyRepositoryImpl{}
}

func (r *PropertyRepositoryImpl) Create(db *gorm.DB, property *models.Property) error {
	if property.Status == "" {
		property.Status = models.PropertyStatusAvailable
	}
	return db.Create(property).Error
}

func (r *PropertyRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Property, error) {
	var property models.Property
	if err := db.First(&property, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) FindByIDForUpdate(tx *gorm.DB, id string) (*models.Property, error) {
	var property models.Property
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&property, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (r *PropertyRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.PropertyStatus) error {
	result := db.Model(&models.Property{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPropertyNotFound
	}
	return nil
}
