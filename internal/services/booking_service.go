package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"estate_backend/internal/logger"
	"estate_backend/internal/metrics"
	"estate_backend/internal/models"
	"estate_backend/internal/repositories"
	"estate_backend/internal/services/dto"
	"estate_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type BookingService interface {
	// State machine
	CreateBookingWithPayment(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error)
	UpdateBookingStatus(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string, req *dto.UpdateBookingStatusRequest) (*dto.UpdateBookingStatusResult, error)
	CancelBooking(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string) (*dto.UpdateBookingStatusResult, error)

	// Read operations
	GetBooking(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string) (*dto.BookingResponse, error)
	ListBookings(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.BookingCriteria) (*dto.BookingListResponse, error)
	ListTransactions(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.TransactionCriteria) (*dto.TransactionListResponse, error)
}

type bookingService struct {
	sideEffects
	bookingRepo  repositories.BookingRepository
	propertyRepo repositories.PropertyRepository
	userRepo     repositories.UserRepository
	now          func() time.Time
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	propertyRepo repositories.PropertyRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	activityLogService ActivityLogService,
) BookingService {
	return &bookingService{
		sideEffects:  sideEffects{notifications: notificationService, logs: activityLogService},
		bookingRepo:  bookingRepo,
		propertyRepo: propertyRepo,
		userRepo:     userRepo,
		now:          time.Now,
	}
}

// ---------------- State machine ----------------

// CreateBookingWithPayment покупает объект: бронирование (confirmed), платеж (completed)
// и статус объекта Sold фиксируются одной транзакцией под блокировкой строки объекта.
// Уведомления и журнал пишутся после коммита и на результат покупки не влияют.
func (s *bookingService) CreateBookingWithPayment(ctx context.Context, db *gorm.DB, actor models.Actor, req *dto.CreateBookingRequest) (*dto.CreateBookingResult, error) {
	if !actor.IsBuyer() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if !req.PaymentMethod.IsValid() {
		return nil, apperrors.ErrInvalidArgument("booking", fmt.Sprintf("unknown payment method '%s'", req.PaymentMethod))
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.ErrInvalidArgument("booking", "amount must be greater than zero")
	}
	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return nil, apperrors.ErrInvalidArgument("booking", "visit_date must be in YYYY-MM-DD format")
	}

	if _, err := s.userRepo.FindByIDAndRole(db, actor.UserID, models.UserRoleBuyer); err != nil {
		return nil, handleBookingError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	property, err := s.propertyRepo.FindByIDForUpdate(tx, req.PropertyID)
	if err != nil {
		return nil, handleBookingError(err)
	}
	if property.IsSold() {
		return nil, apperrors.ErrPropertyAlreadySold
	}

	booking := &models.Booking{
		PropertyID: property.ID,
		BuyerID:    actor.UserID,
		Status:     models.BookingStatusConfirmed,
		BuyerName:  req.BuyerName,
		BuyerPhone: req.BuyerPhone,
		BuyerEmail: req.BuyerEmail,
		VisitDate:  &visitDate,
		Message:    req.Message,
	}
	if err := s.bookingRepo.CreateBooking(tx, booking); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	txn := &models.Transaction{
		BookingID:     booking.ID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: models.PaymentStatusCompleted,
		PaidAt:        s.now(),
	}
	if err := s.bookingRepo.CreateTransaction(tx, txn); err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	if err := s.propertyRepo.UpdateStatus(tx, property.ID, models.PropertyStatusSold); err != nil {
		return nil, handleBookingError(err)
	}
	property.Status = models.PropertyStatusSold

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	metrics.BookingsCreated.WithLabelValues(string(txn.PaymentMethod)).Inc()
	logger.CtxInfo(ctx, "Property purchased",
		"booking_id", booking.ID,
		"transaction_id", txn.ID,
		"property_id", property.ID,
		"amount", txn.Amount.StringFixed(2),
	)

	result := &dto.CreateBookingResult{
		BookingID:      booking.ID,
		TransactionID:  txn.ID,
		BookingStatus:  booking.Status,
		PaymentStatus:  txn.PaymentStatus,
		PropertyStatus: property.Status,
		PropertyTitle:  property.Title,
		Amount:         txn.Amount,
		BookingDate:    booking.CreatedAt,
	}

	report := &result.SideEffectReport
	s.notify(ctx, db, report, dto.NotifyInput{
		RecipientID:   property.OwnerID,
		RecipientRole: models.UserRoleSeller,
		Type:          models.NotificationTypePaymentReceived,
		Title:         propertySoldTitle(property),
		Message:       purchaseSellerMessage(property, booking, txn),
		PropertyID:    strPtr(property.ID),
		BookingID:     strPtr(booking.ID),
		Data: map[string]interface{}{
			"transaction_id": txn.ID,
			"amount":         txn.Amount.StringFixed(2),
			"payment_method": string(txn.PaymentMethod),
			"buyer_name":     booking.BuyerName,
		},
	})
	s.notify(ctx, db, report, dto.NotifyInput{
		RecipientID:   actor.UserID,
		RecipientRole: models.UserRoleBuyer,
		Type:          models.NotificationTypeBookingConfirmed,
		Title:         "Property Purchase Confirmed!",
		Message:       purchaseBuyerMessage(property, booking, txn),
		PropertyID:    strPtr(property.ID),
		BookingID:     strPtr(booking.ID),
	})
	s.record(ctx, db, report, actor.UserID, purchaseBuyerLog(property, booking, txn))
	s.record(ctx, db, report, property.OwnerID, purchaseSellerLog(property, booking, txn))

	return result, nil
}

// UpdateBookingStatus - смена статуса продавцом-владельцем объекта или админом.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string, req *dto.UpdateBookingStatusRequest) (*dto.UpdateBookingStatusResult, error) {
	if !actor.IsAdmin() && !actor.IsSeller() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	outcome, err := s.applyTransition(ctx, db, bookingID, req.Status, func(b *models.Booking, p *models.Property) error {
		if actor.IsSeller() && p.OwnerID != actor.UserID {
			return apperrors.ErrNotPropertyOwner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := outcome.result()
	if !outcome.changed {
		return result, nil
	}

	booking, property := outcome.booking, outcome.property
	report := &result.SideEffectReport

	if outcome.propertySold {
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:   property.OwnerID,
			RecipientRole: models.UserRoleSeller,
			Type:          models.NotificationTypePropertySold,
			Title:         propertySoldTitle(property),
			Message:       statusSoldSellerMessage(property, booking, booking.Status),
			PropertyID:    strPtr(property.ID),
			BookingID:     strPtr(booking.ID),
		})
	}

	switch booking.Status {
	case models.BookingStatusConfirmed:
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:   booking.BuyerID,
			RecipientRole: models.UserRoleBuyer,
			Type:          models.NotificationTypeBookingConfirmed,
			Title:         "Booking Confirmed!",
			Message:       bookingConfirmedBuyerMessage(property),
			PropertyID:    strPtr(property.ID),
			BookingID:     strPtr(booking.ID),
		})
		s.notifyAdmins(ctx, db, report, dto.AdminNotifyInput{
			Type:       models.NotificationTypeBookingConfirmed,
			Title:      "Booking Confirmed",
			Message:    bookingConfirmedAdminMessage(property, booking),
			PropertyID: strPtr(property.ID),
			BookingID:  strPtr(booking.ID),
		})
	case models.BookingStatusCancelled:
		s.notify(ctx, db, report, dto.NotifyInput{
			RecipientID:   booking.BuyerID,
			RecipientRole: models.UserRoleBuyer,
			Type:          models.NotificationTypeBookingCancelled,
			Title:         "Booking Cancelled",
			Message:       bookingCancelledBuyerMessage(property, actor),
			PropertyID:    strPtr(property.ID),
			BookingID:     strPtr(booking.ID),
		})
	}

	s.record(ctx, db, report, actor.UserID, statusChangeActorLog(booking, property, outcome.oldStatus, booking.Status))
	s.record(ctx, db, report, booking.BuyerID, statusChangeBuyerLog(booking, property, booking.Status))

	return result, nil
}

// CancelBooking - отмена покупателем собственного бронирования.
func (s *bookingService) CancelBooking(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string) (*dto.UpdateBookingStatusResult, error) {
	if !actor.IsBuyer() {
		return nil, apperrors.ErrInsufficientPermissions
	}

	outcome, err := s.applyTransition(ctx, db, bookingID, models.BookingStatusCancelled, func(b *models.Booking, p *models.Property) error {
		if b.BuyerID != actor.UserID {
			return apperrors.ErrNotBookingOwner
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := outcome.result()
	if !outcome.changed {
		return result, nil
	}

	booking, property := outcome.booking, outcome.property
	report := &result.SideEffectReport

	s.notify(ctx, db, report, dto.NotifyInput{
		RecipientID:   property.OwnerID,
		RecipientRole: models.UserRoleSeller,
		Type:          models.NotificationTypeBookingCancelled,
		Title:         "Booking Cancelled",
		Message:       bookingCancelledSellerMessage(property, booking),
		PropertyID:    strPtr(property.ID),
		BookingID:     strPtr(booking.ID),
	})
	s.record(ctx, db, report, actor.UserID, fmt.Sprintf("Cancelled booking #%s for property: %s", booking.ID, property.Title))
	s.record(ctx, db, report, property.OwnerID, fmt.Sprintf("Booking #%s for property '%s' was cancelled by the buyer", booking.ID, property.Title))

	return result, nil
}

// transitionOutcome - что изменилось в рамках одной транзакции смены статуса.
type transitionOutcome struct {
	booking       *models.Booking
	property      *models.Property
	oldStatus     models.BookingStatus
	changed       bool
	propertySold  bool
	propertyFreed bool
}

func (o *transitionOutcome) result() *dto.UpdateBookingStatusResult {
	return &dto.UpdateBookingStatusResult{
		BookingID:      o.booking.ID,
		OldStatus:      o.oldStatus,
		NewStatus:      o.booking.Status,
		Changed:        o.changed,
		PropertyTitle:  o.property.Title,
		PropertyStatus: o.property.Status,
		BuyerName:      o.booking.BuyerName,
	}
}

// applyTransition меняет статус бронирования и, при необходимости, статус объекта.
// Строка объекта блокируется первой, поэтому все переходы по одному объекту сериализуются,
// а проверка "других активных бронирований" при отмене не гоняется с подтверждением.
func (s *bookingService) applyTransition(
	ctx context.Context,
	db *gorm.DB,
	bookingID string,
	newStatus models.BookingStatus,
	authorize func(b *models.Booking, p *models.Property) error,
) (*transitionOutcome, error) {
	if !newStatus.IsValid() {
		return nil, apperrors.ErrInvalidArgument("booking", fmt.Sprintf("unknown booking status '%s'", newStatus))
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.DatabaseError(tx.Error)
	}
	defer tx.Rollback()

	current, err := s.bookingRepo.FindBookingByID(tx, bookingID)
	if err != nil {
		return nil, handleBookingError(err)
	}

	property, err := s.propertyRepo.FindByIDForUpdate(tx, current.PropertyID)
	if err != nil {
		return nil, handleBookingError(err)
	}
	booking, err := s.bookingRepo.FindBookingByIDForUpdate(tx, bookingID)
	if err != nil {
		return nil, handleBookingError(err)
	}

	if err := authorize(booking, property); err != nil {
		return nil, err
	}

	outcome := &transitionOutcome{
		booking:   booking,
		property:  property,
		oldStatus: booking.Status,
	}

	// Повторная установка того же статуса - no-op без побочных эффектов
	if booking.Status == newStatus {
		return outcome, nil
	}
	if !booking.Status.CanTransitionTo(newStatus) {
		return nil, apperrors.ErrInvalidStatus("booking",
			fmt.Sprintf("cannot change booking status from '%s' to '%s'", booking.Status, newStatus))
	}

	if err := s.bookingRepo.UpdateBookingStatus(tx, booking.ID, newStatus); err != nil {
		return nil, handleBookingError(err)
	}

	switch {
	case newStatus.IsActive() && !property.IsSold():
		if err := s.propertyRepo.UpdateStatus(tx, property.ID, models.PropertyStatusSold); err != nil {
			return nil, handleBookingError(err)
		}
		property.Status = models.PropertyStatusSold
		outcome.propertySold = true

	case newStatus == models.BookingStatusCancelled && property.IsSold():
		others, err := s.bookingRepo.CountActiveBookings(tx, property.ID, booking.ID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		if others == 0 {
			if err := s.propertyRepo.UpdateStatus(tx, property.ID, models.PropertyStatusAvailable); err != nil {
				return nil, handleBookingError(err)
			}
			property.Status = models.PropertyStatusAvailable
			outcome.propertyFreed = true
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	booking.Status = newStatus
	outcome.changed = true

	metrics.BookingTransitions.WithLabelValues(string(outcome.oldStatus), string(newStatus)).Inc()
	logger.CtxInfo(ctx, "Booking status changed",
		"booking_id", booking.ID,
		"from", outcome.oldStatus,
		"to", newStatus,
		"property_status", property.Status,
	)

	return outcome, nil
}

// ---------------- Read operations ----------------

func (s *bookingService) GetBooking(ctx context.Context, db *gorm.DB, actor models.Actor, bookingID string) (*dto.BookingResponse, error) {
	booking, err := s.bookingRepo.FindBookingByID(db, bookingID)
	if err != nil {
		return nil, handleBookingError(err)
	}

	switch {
	case actor.IsAdmin():
	case actor.IsBuyer() && booking.BuyerID == actor.UserID:
	case actor.IsSeller() && booking.Property != nil && booking.Property.OwnerID == actor.UserID:
	default:
		return nil, apperrors.NewForbiddenError("You do not have access to this booking")
	}

	return buildBookingResponse(booking), nil
}

func (s *bookingService) ListBookings(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.BookingCriteria) (*dto.BookingListResponse, error) {
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)

	repoCriteria := repositories.BookingCriteria{
		Status:   criteria.Status,
		Page:     page,
		PageSize: pageSize,
	}
	switch actor.Role {
	case models.UserRoleBuyer:
		repoCriteria.BuyerID = actor.UserID
	case models.UserRoleSeller:
		repoCriteria.OwnerID = actor.UserID
	case models.UserRoleAdmin:
	default:
		return nil, apperrors.ErrInsufficientPermissions
	}

	bookings, total, err := s.bookingRepo.FindBookings(db, repoCriteria)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	items := make([]*dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		items = append(items, buildBookingResponse(&bookings[i]))
	}

	return &dto.BookingListResponse{
		Bookings:   items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListTransactions - история платежей покупателя (админ видит все платежи).
func (s *bookingService) ListTransactions(ctx context.Context, db *gorm.DB, actor models.Actor, criteria dto.TransactionCriteria) (*dto.TransactionListResponse, error) {
	if !actor.IsBuyer() && !actor.IsAdmin() {
		return nil, apperrors.ErrInsufficientPermissions
	}
	page, pageSize := normalizePage(criteria.Page, criteria.PageSize)

	repoCriteria := repositories.TransactionCriteria{
		PaymentStatus: criteria.PaymentStatus,
		Page:          page,
		PageSize:      pageSize,
	}
	if actor.IsBuyer() {
		repoCriteria.BuyerID = actor.UserID
	}

	txns, total, err := s.bookingRepo.FindTransactions(db, repoCriteria)
	if err != nil {
		return nil, apperrors.DatabaseError(err)
	}

	resp := &dto.TransactionListResponse{
		Transactions: make([]*dto.TransactionResponse, 0, len(txns)),
		Total:        total,
		Page:         page,
		PageSize:     pageSize,
		TotalPages:   totalPages(total, pageSize),
	}
	for i := range txns {
		resp.Transactions = append(resp.Transactions, buildTransactionResponse(&txns[i]))
	}

	if actor.IsBuyer() {
		spent, err := s.bookingRepo.SumSettledAmount(db, actor.UserID)
		if err != nil {
			return nil, apperrors.DatabaseError(err)
		}
		resp.TotalSpent = spent
	}

	return resp, nil
}

// ---------------- Helpers ----------------

func buildBookingResponse(b *models.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		BuyerID:    b.BuyerID,
		BuyerName:  b.BuyerName,
		BuyerPhone: b.BuyerPhone,
		BuyerEmail: b.BuyerEmail,
		VisitDate:  b.VisitDate,
		Message:    b.Message,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
	}
	if b.Property != nil {
		resp.PropertyTitle = b.Property.Title
		resp.PropertyStatus = b.Property.Status
	}
	if b.Transaction != nil {
		amount := b.Transaction.Amount
		resp.Amount = &amount
		resp.PaymentMethod = b.Transaction.PaymentMethod
		resp.PaymentStatus = b.Transaction.PaymentStatus
	}
	return resp
}

func buildTransactionResponse(t *models.Transaction) *dto.TransactionResponse {
	resp := &dto.TransactionResponse{
		ID:            t.ID,
		BookingID:     t.BookingID,
		Amount:        t.Amount,
		PaymentMethod: t.PaymentMethod,
		PaymentStatus: t.PaymentStatus,
		PaidAt:        t.PaidAt,
	}
	if t.Booking != nil && t.Booking.Property != nil {
		resp.PropertyID = t.Booking.Property.ID
		resp.PropertyTitle = t.Booking.Property.Title
	}
	return resp
}

func handleBookingError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrBookingNotFound):
		return apperrors.ErrNotFoundIn(err, "booking", "Booking not found")
	case errors.Is(err, repositories.ErrPropertyNotFound):
		return apperrors.ErrNotFoundIn(err, "property", "Property not found")
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrNotFoundIn(err, "user", "User not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.ErrNotFound(err)
	}
	return apperrors.DatabaseError(err)
}
