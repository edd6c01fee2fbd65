package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SupportTicketHandler struct {
	*BaseHandler
	ticketService services.SupportTicketService
}

func NewSupportTicketHandler(base *BaseHandler, ticketService services.SupportTicketService) *SupportTicketHandler {
	return &SupportTicketHandler{
		BaseHandler:   base,
		ticketService: ticketService,
	}
}

// Доступ к чужому обращению проверяет сервис: покупатель видит только свои.
func (h *SupportTicketHandler) RegisterRoutes(r *gin.RouterGroup) {
	tickets := r.Group("/tickets")
	{
		tickets.POST("", middleware.RequirePermission(auth.PermTicketsCreate), h.CreateTicket)
		tickets.GET("", middleware.RequirePermission(auth.PermTicketsRead), h.ListTickets)
		tickets.GET("/:ticketId", middleware.RequirePermission(auth.PermTicketsRead), h.GetTicket)
		tickets.POST("/:ticketId/replies", middleware.RequirePermission(auth.PermTicketsRead), h.ReplyToTicket)
		tickets.PATCH("/:ticketId", middleware.RequirePermission(auth.PermTicketsManage), h.UpdateTicket)
	}
}

func (h *SupportTicketHandler) CreateTicket(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreateTicketRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.ticketService.CreateTicket(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SupportTicketHandler) ListTickets(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var criteria dto.TicketCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.ticketService.ListTickets(c.Request.Context(), h.GetDB(c), actor, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SupportTicketHandler) GetTicket(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetTicket(c.Request.Context(), h.GetDB(c), actor, c.Param("ticketId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *SupportTicketHandler) ReplyToTicket(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.TicketReplyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.ticketService.ReplyToTicket(c.Request.Context(), h.GetDB(c), actor, c.Param("ticketId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SupportTicketHandler) UpdateTicket(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdateTicketRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.ticketService.UpdateTicket(c.Request.Context(), h.GetDB(c), actor, c.Param("ticketId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
