package handlers

import (
	"net/http"

	"estate_backend/internal/services"
	"estate_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ActivityLogHandler struct {
	*BaseHandler
	activityLogService services.ActivityLogService
}

func NewActivityLogHandler(base *BaseHandler, activityLogService services.ActivityLogService) *ActivityLogHandler {
	return &ActivityLogHandler{
		BaseHandler:        base,
		activityLogService: activityLogService,
	}
}

func (h *ActivityLogHandler) RegisterRoutes(r *gin.RouterGroup) {
	logs := r.Group("/activity-logs")
	{
		logs.GET("", h.ListLogs)
		logs.POST("/bulk-delete", h.BulkDelete)
	}
}

func (h *ActivityLogHandler) ListLogs(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var criteria dto.ActivityLogCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.activityLogService.List(c.Request.Context(), h.GetDB(c), actor, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *ActivityLogHandler) BulkDelete(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.BulkDeleteLogsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	result, err := h.activityLogService.BulkDelete(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
