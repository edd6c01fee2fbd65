package services

import (
	"context"
	"fmt"

	"estate_backend/internal/logger"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type PropertyService interface {
	CreateProperty(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreatePropertyRequest) (*dto.CreatePropertyResult, error)
	GetProperty(ctx context.Context, db *gorm.DB, propertyID string) (*dto.PropertyResponse, error)
	SetPropertyStatus(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string, req *dto.UpdatePropertyStatusRequest) (*dto.UpdatePropertyStatusResult, error)
}

type propertyService struct {
	sideEffects
	propertyRepo repositories.PropertyRepository
	bookingRepo  repositories.BookingRepository
	userRepo     repositories.UserRepository
}

func NewPropertyService(
	propertyRepo repositories.PropertyRepository,
	bookingRepo repositories.BookingRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	activityLogService ActivityLogService,
) PropertyService {
	return &propertyService{
		sideEffects:  sideEffects{notifications: notificationService, logs: activityLogService},
		propertyRepo: propertyRepo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
	}
}

// CreateProperty - продавец выставляет объект; админы получают property_added.
func (s *propertyService) CreateProperty(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreatePropertyRequest) (*dto.CreatePropertyResult, error) {
	if !actor.IsSeller() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !req.Price.IsPositive() {
		return nil, apperrors.ErrInvalidArgument("property", "price must be greater than zero")
	}

	seller, err := s.userRepo.FindByIDAndRole(db, actor.UserID, models.UserRoleSeller)
	if err != nil {
		return nil, handleBookingError(err)
	}

	property := &models.Property{
		OwnerID:      seller.ID,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		City:         req.City,
		State:        req.State,
		Price:        req.Price,
		AreaSqft:     req.AreaSqft,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		PropertyType: req.PropertyType,
		Status:       models.PropertyStatusAvailable,
	}
	if err := s.propertyRepo.Create(db, property); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Property listed", "property_id", property.ID, "owner_id", seller.ID)

	result := &dto.CreatePropertyResult{Property: buildPropertyResponse(property)}
	report := &result.SideEffectReport

	s.notifyAdmins(ctx, db, report, dto.AdminNotifyInput{
		Type:       models.NotificationTypePropertyAdded,
		Title:      "New Property Listed",
		Message:    fmt.Sprintf("%s added a new property: '%s' in %s.", seller.Name, property.Title, property.Location),
		PropertyID: strPtr(property.ID),
	})
	s.record(ctx, db, report, seller.ID, fmt.Sprintf("Added property '%s'", property.Title))

	return result, nil
}

func (s *propertyService) GetProperty(ctx context.Context, db *gorm.DB, propertyID string) (*dto.PropertyResponse, error) {
	property, err := s.propertyRepo.FindByID(db, propertyID)
	if err != nil {
		return nil, handleBookingError(err)
	}
	return buildPropertyResponse(property), nil
}

// SetPropertyStatus - ручная смена статуса объекта владельцем или админом.
// Объект с активным (confirmed/completed) бронированием нельзя вернуть из Sold.
func (s *propertyService) SetPropertyStatus(ctx context.Context, db *gorm.DB, actor models.Actor, propertyID string, req *dto.UpdatePropertyStatusRequest) (*dto.UpdatePropertyStatusResult, error) {
	if !actor.IsAdmin() && !actor.IsSeller() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !req.Status.IsValid() {
		return nil, apperrors.ErrInvalidArgument("property", fmt.Sprintf("unknown property status '%s'", req.Status))
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, propertyID)
	if err != nil {
		return nil, handleBookingError(err)
	}
	if actor.IsSeller() && property.OwnerID != actor.UserID {
		return nil, apperrors.ErrNotPropertyOwner
	}

	result := &dto.UpdatePropertyStatusResult{
		PropertyID: property.ID,
		OldStatus:  property.Status,
		NewStatus:  req.Status,
	}
	if property.Status == req.Status {
		return result, nil
	}

	if property.IsSold() {
		active, err := s.bookingRepo.CountActiveBookings(tx, property.ID, "")
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if active > 0 {
			return nil, apperrors.ErrConflict(nil, "property",
				"property has an active booking; cancel the booking to release it")
		}
	}

	if err := s.propertyRepo.UpdateStatus(tx, property.ID, req.Status); err != nil {
		return nil, handleBookingError(err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	logger.CtxInfo(ctx, "Property status changed",
		"property_id", property.ID,
		"from", result.OldStatus,
		"to", result.NewStatus,
	)

	report := &result.SideEffectReport
	if actor.IsAdmin() && property.OwnerID != actor.UserID {
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:   property.OwnerID,
			RecipientRole: models.UserRoleSeller,
			Type:          models.NotificationTypePropertyStatusChanged,
			Title:         "Property Status Updated",
			Message: fmt.Sprintf("An administrator changed the status of \"%s\" from %s to %s.",
				property.Title, result.OldStatus, result.NewStatus),
			PropertyID: strPtr(property.ID),
		})
	}

	s.record(ctx, db, report, actor.UserID,
		fmt.Sprintf("Changed status of property '%s' from %s to %s", property.Title, result.OldStatus, result.NewStatus))

	return result, nil
}

func buildPropertyResponse(p *models.Property) *dto.PropertyResponse {
	return &dto.PropertyResponse{
		ID:           p.ID,
		OwnerID:      p.OwnerID,
		Title:        p.Title,
		Description:  p.Description,
		Location:     p.Location,
		City:         p.City,
		State:        p.State,
		Price:        p.Price,
		AreaSqft:     p.AreaSqft,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		PropertyType: p.PropertyType,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
