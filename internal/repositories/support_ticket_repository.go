package repositories

import (
	"errors"

	"estate_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrTicketNotFound = errors.New("support ticket not found")
)

type SupportTicketRepository interface {
	CreateTicket(db *gorm.DB, ticket *models.SupportTicket) error
	TokenExists(db *gorm.DB, token string) (bool, error)
	// FindTicketByID загружает обращение вместе с ответами в порядке создания.
	FindTicketByID(db *gorm.DB, id string) (*models.SupportTicket, error)
	FindTicketByIDForUpdate(tx *gorm.DB, id string) (*models.SupportTicket, error)
	FindTickets(db *gorm.DB, criteria TicketCriteria) ([]models.SupportTicket, int64, error)
	UpdateTicket(db *gorm.DB, id string, updates map[string]interface{}) error
	CreateResponse(db *gorm.DB, response *models.TicketResponse) error
}

// TicketCriteria - фильтр списка обращений. Пустые поля не ограничивают выборку.
type TicketCriteria struct {
	UserID       string
	AssignedToID string
	Status       models.TicketStatus
	Page         int
	PageSize     int
}

type SupportTicketRepositoryImpl struct{}

func NewSupportTicketRepository() SupportTicketRepository {
	return &SupportTicketRepositoryImpl{}
}

func (r *SupportTicketRepositoryImpl) CreateTicket(db *gorm.DB, ticket *models.SupportTicket) error {
	return db.Create(ticket).Error
}

func (r *SupportTicketRepositoryImpl) TokenExists(db *gorm.DB, token string) (bool, error) {
	var count int64
	err := db.Model(&models.SupportTicket{}).Where("token = ?", token).Count(&count).Error
	return count > 0, err
}

func (r *SupportTicketRepositoryImpl) FindTicketByID(db *gorm.DB, id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := db.Preload("User").
		Preload("Responses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *SupportTicketRepositoryImpl) FindTicketByIDForUpdate(tx *gorm.DB, id string) (*models.SupportTicket, error) {
	var ticket models.SupportTicket
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&ticket, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *SupportTicketRepositoryImpl) FindTickets(db *gorm.DB, criteria TicketCriteria) ([]models.SupportTicket, int64, error) {
	var tickets []models.SupportTicket
	var total int64

	query := db.Model(&models.SupportTicket{})
	if criteria.UserID != "" {
		query = query.Where("user_id = ?", criteria.UserID)
	}
	if criteria.AssignedToID != "" {
		query = query.Where("assigned_to_id = ?", criteria.AssignedToID)
	}
	if criteria.Status != "" {
		query = query.Where("status = ?", criteria.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (criteria.Page - 1) * criteria.PageSize
	err := query.Preload("User").
		Order("created_at DESC").
		Limit(criteria.PageSize).Offset(offset).
		Find(&tickets).Error

	return tickets, total, err
}

func (r *SupportTicketRepositoryImpl) UpdateTicket(db *gorm.DB, id string, updates map[string]interface{}) error {
	result := db.Model(&models.SupportTicket{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *SupportTicketRepositoryImpl) CreateResponse(db *gorm.DB, response *models.TicketResponse) error {
	return db.Create(response).Error
}
