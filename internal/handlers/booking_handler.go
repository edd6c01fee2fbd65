package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	*BaseHandler
	bookingService services.BookingService
}

func NewBookingHandler(base *BaseHandler, bookingService services.BookingService) *BookingHandler {
	return &BookingHandler{
		BaseHandler:    base,
		bookingService: bookingService,
	}
}

// RegisterRoutes ожидает группу, уже закрытую AuthMiddleware.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup) {
	bookings := r.Group("/bookings")
	{
		bookings.POST("", middleware.RequirePermission(auth.PermBookingsCreate), h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:bookingId", h.GetBooking)
		bookings.PUT("/:bookingId/status", middleware.RequirePermission(auth.PermBookingsUpdateStatus), h.UpdateBookingStatus)
		bookings.POST("/:bookingId/cancel", middleware.RequirePermission(auth.PermBookingsCancel), h.CancelBooking)
	}

	r.GET("/transactions", middleware.RequirePermission(auth.PermTransactionsRead), h.ListTransactions)
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.bookingService.CreateBookingWithPayment(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("bookingId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	result, err := h.bookingService.CancelBooking(c.Request.Context(), h.GetDB(c), actor, c.Param("bookingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), h.GetDB(c), actor, c.Param("bookingId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var criteria dto.BookingCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.bookingService.ListBookings(c.Request.Context(), h.GetDB(c), actor, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) ListTransactions(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var criteria dto.TransactionCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.bookingService.ListTransactions(c.Request.Context(), h.GetDB(c), actor, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
