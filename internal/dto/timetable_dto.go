package dto

import (
	"github.com/noah-isme/campus-timetable/internal/models"
)

// GenerateRequest is the request body for POST /timetable/generate.
type GenerateRequest struct {
	MasterData       models.MasterData `json:"master_data" binding:"required"`
	TimeLimitSeconds int               `json:"time_limit_seconds,omitempty"`
}

// BatchGenerateRequest generates several independent variants in one call.
type BatchGenerateRequest struct {
	Variants         []models.MasterData `json:"variants" binding:"required,min=1,dive,required"`
	TimeLimitSeconds int                  `json:"time_limit_seconds,omitempty"`
}

// BatchGenerateResultItem pairs one variant's outcome with its input index.
type BatchGenerateResultItem struct {
	Index  int            `json:"index"`
	Result *models.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// SaveRequest persists a previously generated Result under a request key,
// creating the next version for that key.
type SaveRequest struct {
	RequestKey string        `json:"request_key" binding:"required"`
	Result     models.Result `json:"result" binding:"required"`
}

// SaveResponse reports the stored schedule's identity.
type SaveResponse struct {
	ID         string `json:"id"`
	RequestKey string `json:"request_key"`
	Version    int    `json:"version"`
	Status     string `json:"status"`
}

// ScheduleDetailResponse returns a stored schedule with its placements
// reconstituted as an assignments view.
type ScheduleDetailResponse struct {
	ID         string                        `json:"id"`
	RequestKey string                        `json:"request_key"`
	Version    int                           `json:"version"`
	Status     string                        `json:"status"`
	Violations int                           `json:"violations"`
	Slots      []models.SemesterScheduleSlot `json:"slots"`
}

// ExportRequestDTO requests a rendered CSV/PDF view of a Result.
type ExportRequestDTO struct {
	Kind     string        `json:"kind" binding:"required,oneof=assignments student faculty"`
	Format   string        `json:"format" binding:"required,oneof=csv pdf"`
	TargetID string        `json:"target_id,omitempty"`
	Result   models.Result `json:"result" binding:"required"`
}

// ExportResponse returns the signed download reference for a rendered file.
type ExportResponse struct {
	Token     string `json:"token"`
	URL       string `json:"url"`
	Format    string `json:"format"`
	ExpiresAt string `json:"expires_at"`
}
