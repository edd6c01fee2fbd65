package handlers

import (
	"net/http"

	"estate_backend/internal/auth"
	"estate_backend/internal/middleware"
	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SavedPropertyHandler struct {
	*BaseHandler
	savedPropertyService services.SavedPropertyService
}

func NewSavedPropertyHandler(base *BaseHandler, savedPropertyService services.SavedPropertyService) *SavedPropertyHandler {
	return &SavedPropertyHandler{
		BaseHandler:          base,
		savedPropertyService: savedPropertyService,
	}
}

func (h *SavedPropertyHandler) RegisterRoutes(r *gin.RouterGroup) {
	saved := r.Group("/saved-properties", middleware.RequirePermission(auth.PermSavedProperties))
	{
		saved.GET("", h.ListSaved)
		saved.POST("/:propertyId", h.Save)
		saved.DELETE("/:propertyId", h.Unsave)
	}
}

func (h *SavedPropertyHandler) ListSaved(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var query dto.PageQuery
	if !h.BindAndValidate_Query(c, &query) {
		return
	}

	resp, err := h.savedPropertyService.ListSavedProperties(c.Request.Context(), h.GetDB(c), actor, query)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SavedPropertyHandler) Save(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	// Тело необязательно: заметка к объекту
	var req dto.SavePropertyRequest
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.savedPropertyService.SaveProperty(c.Request.Context(), h.GetDB(c), actor, c.Param("propertyId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SavedPropertyHandler) Unsave(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	if err := h.savedPropertyService.UnsaveProperty(c.Request.Context(), h.GetDB(c), actor, c.Param("propertyId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
