package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	*BaseHandler
	propertyService services.PropertyService
}

func NewPropertyHandler(base *BaseHandler, propertyService services.PropertyService) *PropertyHandler {
	return &PropertyHandler{
		BaseHandler:     base,
		propertyService: propertyService,
	}
}

func (h *PropertyHandler) RegisterRoutes(r *gin.RouterGroup) {
	properties := r.Group("/properties")
	{
		properties.POST("", middleware.RequirePermission(auth.PermPropertiesCreate), h.CreateProperty)
		properties.GET("/:propertyId", h.GetProperty)
		properties.PUT("/:propertyId/status", middleware.RequirePermission(auth.PermPropertiesSetStatus), h.SetPropertyStatus)
	}
}

func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.CreatePropertyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.propertyService.CreateProperty(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *PropertyHandler) GetProperty(c *gin.Context) {
	property, err := h.propertyService.GetProperty(c.Request.Context(), h.GetDB(c), c.Param("propertyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) SetPropertyStatus(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.UpdatePropertyStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.propertyService.SetPropertyStatus(c.Request.Context(), h.GetDB(c), actor, c.Param("propertyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
