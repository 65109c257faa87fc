package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-timetable/internal/dto"
	"github.com/noah-isme/campus-timetable/internal/models"
	"github.com/noah-isme/campus-timetable/internal/service"
	appErrors "github.com/noah-isme/campus-timetable/pkg/errors"
	"github.com/noah-isme/campus-timetable/pkg/response"
)

// TimetableHandler exposes the generate/save/retrieve surface over
// Manager and TimetableStoreService.
type TimetableHandler struct {
	manager *service.Manager
	store   *service.TimetableStoreService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(manager *service.Manager, store *service.TimetableStoreService) *TimetableHandler {
	return &TimetableHandler{manager: manager, store: store}
}

// Generate runs the full scheduling pipeline and returns its Result.
func (h *TimetableHandler) Generate(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.manager.Generate(c.Request.Context(), req.MasterData, req.TimeLimitSeconds)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInfeasible, err.Error()))
		return
	}

	response.JSON(c, http.StatusOK, result, nil)
}

// GenerateBatch runs Generate independently over several master-data variants.
func (h *TimetableHandler) GenerateBatch(c *gin.Context) {
	var req dto.BatchGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	batch := h.manager.GenerateBatch(c.Request.Context(), req.Variants, req.TimeLimitSeconds)
	items := make([]dto.BatchGenerateResultItem, len(batch))
	for i, b := range batch {
		item := dto.BatchGenerateResultItem{Index: b.Index, Result: b.Result}
		if b.Err != nil {
			item.Error = b.Err.Error()
		}
		items[i] = item
	}

	response.JSON(c, http.StatusOK, items, nil)
}

// Save persists a previously generated Result as the next version for its request key.
func (h *TimetableHandler) Save(c *gin.Context) {
	var req dto.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}

	savedBy := ""
	if claims := claimsFromContext(c); claims != nil {
		savedBy = claims.Subject
	}

	schedule, err := h.store.Save(c.Request.Context(), req.RequestKey, req.Result, savedBy)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.SaveResponse{
		ID:         schedule.ID,
		RequestKey: schedule.RequestKey,
		Version:    schedule.Version,
		Status:     string(schedule.Status),
	})
}

// Get returns a stored schedule with its placements.
func (h *TimetableHandler) Get(c *gin.Context) {
	id := c.Param("id")
	schedule, slots, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "timetable not found"))
		return
	}

	response.JSON(c, http.StatusOK, dto.ScheduleDetailResponse{
		ID:         schedule.ID,
		RequestKey: schedule.RequestKey,
		Version:    schedule.Version,
		Status:     string(schedule.Status),
		Violations: schedule.Violations,
		Slots:      slots,
	}, nil)
}

// ListVersions returns a version summary for a request key.
func (h *TimetableHandler) ListVersions(c *gin.Context) {
	requestKey := c.Param("requestKey")
	versions, err := h.store.ListVersions(c.Request.Context(), requestKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	summary := models.SemesterScheduleSummary{RequestKey: requestKey}
	for _, v := range versions {
		if v.Status == models.SemesterScheduleStatusPublished && summary.ActiveID == nil {
			id := v.ID
			summary.ActiveID = &id
		}
		if v.UpdatedAt.After(summary.UpdatedAt) {
			summary.UpdatedAt = v.UpdatedAt
		}
		summary.Versions = append(summary.Versions, models.SemesterScheduleMeta{
			ID:         v.ID,
			Version:    v.Version,
			Status:     v.Status,
			Violations: v.Violations,
			CreatedAt:  v.CreatedAt,
		})
	}

	response.JSON(c, http.StatusOK, summary, nil)
}

// Publish marks a stored schedule PUBLISHED.
func (h *TimetableHandler) Publish(c *gin.Context) {
	if err := h.store.Publish(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Archive marks a stored schedule ARCHIVED.
func (h *TimetableHandler) Archive(c *gin.Context) {
	if err := h.store.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete removes a stored schedule version.
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
