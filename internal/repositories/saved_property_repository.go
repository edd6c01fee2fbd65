package repositories

import (
	"errors"

	"estate_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSavedPropertyNotFound = errors.New("saved property not found")
)

type SavedPropertyRepository interface {
	Create(db *gorm.DB, saved *models.SavedProperty) error
	Find(db *gorm.DB, userID, propertyID string) (*models.SavedProperty, error)
	FindByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.SavedProperty, int64, error)
	Delete(db *gorm.DB, userID, propertyID string) error
}

type SavedPropertyRepositoryImpl struct{}

func NewSavedPropertyRepository() SavedPropertyRepository {
	return &SavedPropertyRepositoryImpl{}
}

func (r *SavedPropertyRepositoryImpl) Create(db *gorm.DB, saved *models.SavedProperty) error {
	return db.Create(saved).Error
}

func (r *SavedPropertyRepositoryImpl) Find(db *gorm.DB, userID, propertyID string) (*models.SavedProperty, error) {
	var saved models.SavedProperty
	err := db.Where("user_id = ? AND property_id = ?", userID, propertyID).First(&saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSavedPropertyNotFound
		}
		return nil, err
	}
	return &saved, nil
}

func (r *SavedPropertyRepositoryImpl) FindByUser(db *gorm.DB, userID string, page, pageSize int) ([]models.SavedProperty, int64, error) {
	var saved []models.SavedProperty
	var total int64

	query := db.Model(&models.SavedProperty{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Property").
		Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&saved).Error

	return saved, total, err
}

func (r *SavedPropertyRepositoryImpl) Delete(db *gorm.DB, userID, propertyID string) error {
	result := db.Where("user_id = ? AND property_id = ?", userID, propertyID).Delete(&models.SavedProperty{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSavedPropertyNotFound
	}
	return nil
}
