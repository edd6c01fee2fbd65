package dto

import "time"

type BulkDeleteLogsRequest struct {
	LogIDs []string `json:"log_ids" validate:"required,min=1,dive,required"`
}

type BulkDeleteLogsResult struct {
	DeletedCount int64    `json:"deleted_count"`
	DeletedIDs   []string `json:"deleted_ids"`
	SideEffectReport
}

type ActivityLogCriteria struct {
	UserID   string `form:"user_id"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type ActivityLogResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

type ActivityLogListResponse struct {
	Logs       []*ActivityLogResponse `json:"logs"`
	Total      int64                  `json:"total"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
	TotalPages int                    `json:"total_pages"`
}
