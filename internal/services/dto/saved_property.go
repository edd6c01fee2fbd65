package dto

import "time"

type SavePropertyRequest struct {
	Notes string `json:"notes" validate:"omitempty,max=2000"`
}

type SavePropertyResult struct {
	SavedID    string    `json:"saved_id"`
	PropertyID string    `json:"property_id"`
	SavedAt    time.Time `json:"saved_at"`
	SideEffectReport
}

type SavedPropertyResponse struct {
	SavedID  string            `json:"saved_id"`
	Notes    string            `json:"notes,omitempty"`
	SavedAt  time.Time         `json:"saved_at"`
	Property *PropertyResponse `json:"property,omitempty"`
}

type SavedPropertyListResponse struct {
	Properties []*SavedPropertyResponse `json:"properties"`
	Total      int64                    `json:"total"`
	Page       int                      `json:"page"`
	PageSize   int                      `json:"page_size"`
	TotalPages int                      `json:"total_pages"`
}

type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}
