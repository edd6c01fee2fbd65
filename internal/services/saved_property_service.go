package services

import (
	"context"
	"errors"
	"fmt"

	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SavedPropertyService interface {
	SaveProperty(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string, req *dto.SavePropertyRequest) (*dto.SavePropertyResult, error)
	UnsaveProperty(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string) error
	ListSavedProperties(ctx context.Context, db *gorm.DB, actor models.Actor, query dto.PageQuery) (*dto.SavedPropertyListResponse, error)
}

type savedPropertyService struct {
	sideEffects
	savedRepo    repositories.SavedPropertyRepository
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
}

func NewSavedPropertyService(
	savedRepo repositories.SavedPropertyRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	activityLogService ActivityLogService,
) SavedPropertyService {
	return &savedPropertyService{
		sideEffects:  sideEffects{notifications: notificationService, logs: activityLogService},
		savedRepo:    savedRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
	}
}

// SaveProperty добавляет объект в избранное покупателя и уведомляет продавца (property_saved).
func (s *savedPropertyService) SaveProperty(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string, req *dto.SavePropertyRequest) (*dto.SavePropertyResult, error) {
	if !actor.IsBuyer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	buyer, err := s.userRepo.FindByIDAndRole(db, actor.UserID, models.UserRoleBuyer)
	if err != nil {
		return nil, handleBookingError(err)
	}
	property, err := s.propertyRepo.FindByID(db, propertyID)
	if err != nil {
		return nil, handleBookingError(err)
	}

	_, err = s.savedRepo.Find(db, buyer.ID, property.ID)
	switch {
	case err == nil:
		return nil, apperrors.ErrConflict(nil, "saved_property", "Property already saved")
	case !errors.Is(err, repositories.ErrSavedPropertyNotFound):
		return nil, apperrors.DatabaseError(err)
	}

	saved := &models.SavedProperty{
		UserID:     buyer.ID,
		PropertyID: property.ID,
		Notes:      req.Notes,
	}
	if err := s.savedRepo.Create(db, saved); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Property saved", "property_id", property.ID)

	result := &dto.SavePropertyResult{
		SavedID:    saved.ID,
		PropertyID: property.ID,
		SavedAt:    saved.CreatedAt,
	}
	report := &result.SideEffectReport

	s.notify(ctx, db, report, dto.NotifyInput{
		RecipientID:   property.OwnerID,
		RecipientRole: models.UserRoleSeller,
		Type:          models.NotificationTypePropertySaved,
		Title:         "Property Saved by Buyer",
		Message:       fmt.Sprintf("%s saved your property '%s' to their wishlist!", buyer.Name, property.Title),
		PropertyID:    strPtr(property.ID),
	})
	s.record(ctx, db, report, buyer.ID, fmt.Sprintf("Saved property: %s", property.Title))

	return result, nil
}

func (s *savedPropertyService) UnsaveProperty(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string) error {
	if !actor.IsBuyer() {
		return apperrors.ErrInsufficientPermissions
	}

	if err := s.savedRepo.Delete(db, actor.UserID, propertyID); err != nil {
		if errors.Is(err, repositories.ErrSavedPropertyNotFound) {
			return apperrors.ErrNotFoundIn(err, "saved_property", "Property is not in saved list")
		}
		return apperrors.DatabaseError(err)
	}

	var report dto.SideEffectReport
	s.record(ctx, db, &report, actor.UserID, fmt.Sprintf("Removed property #%s from saved list", propertyID))
	return nil
}

func (s *savedPropertyService) ListSavedProperties(ctx context.Context, db *gorm.DB, actor models.Actor, query dto.PageQuery) (*dto.SavedPropertyListResponse, error) {
	if !actor.IsBuyer() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	page, pageSize := normalizePage(query.Page, query.PageSize)

	saved, total, err := s.savedRepo.FindByUser(db, actor.UserID, page, pageSize)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	items := make([]*dto.SavedPropertyResponse, 0, len(saved))
	for i := range saved {
		item := &dto.SavedPropertyResponse{
			SavedID: saved[i].ID,
			Notes:   saved[i].Notes,
			SavedAt: saved[i].CreatedAt,
		}
		if saved[i].Property != nil {
			item.Property = buildPropertyResponse(saved[i].Property)
		}
		items = append(items, item)
	}

	return &dto.SavedPropertyListResponse{
		Properties: items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}
