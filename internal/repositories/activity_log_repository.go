package repositories

import (
	"estate_backend/internal/models"

	"gorm.io/gorm"
)

type ActivityLogRepository interface {
	CreateLog(db *gorm.DB, log *models.ActivityLog) error
	FindLogs(db *gorm.DB, criteria ActivityLogCriteria) ([]models.ActivityLog, int64, error)
	// FindLogIDs возвращает те из ids, что существуют (и принадлежат ownerID, если он задан).
	FindLogIDs(db *gorm.DB, ids []string, ownerID string) ([]string, error)
	DeleteLogs(db *gorm.DB, ids []string) (int64, error)
}

type ActivityLogCriteria struct {
	UserID   string
	Page     int
	PageSize int
}

type ActivityLogRepositoryImpl struct{}

func NewActivityLogRepository() ActivityLogRepository {
	return &ActivityLogRepositoryImpl{}
}

func (r *ActivityLogRepositoryImpl) CreateLog(db *gorm.DB, log *models.ActivityLog) error {
	return db.Create(log).Error
}

func (r *ActivityLogRepositoryImpl) FindLogs(db *gorm.DB, criteria ActivityLogCriteria) ([]models.ActivityLog, int64, error) {
	var logs []models.ActivityLog
	var total int64

	query := db.Model(&models.ActivityLog{})
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Order("created_at DESC").
		Limit(criteria.PageSize).Offset(offset).
		Find(&logs).Error

	return logs, total, err
}

func (r *ActivityLogRepositoryImpl) FindLogIDs(db *gorm.DB, ids []string, ownerID string) ([]string, error) {
	var found []string
	query := db.Model(&models.ActivityLog{}).Where("id IN ?", ids)
	if ownerID != "" {
		query = query.Where("user_id = ?", ownerID)
	}
	err := query.Order("created_at ASC").Pluck("id", &found).Error
	return found, err
}

func (r *ActivityLogRepositoryImpl) DeleteLogs(db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := db.Where("id IN ?", ids).Delete(&models.ActivityLog{})
	return result.RowsAffected, result.Error
}
