package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
	"github.com/noah-isme/campus-timetable/internal/repository"
)

// TimetableStoreService persists generated results as versioned
// SemesterSchedule rows, so every run for a request key stays auditable
// after the fact.
type TimetableStoreService struct {
	db        *sqlx.DB
	schedules *repository.SemesterScheduleRepository
	slots     *repository.SemesterScheduleSlotRepository
	logger    *zap.Logger
}

// NewTimetableStoreService constructs the store.
func NewTimetableStoreService(db *sqlx.DB, schedules *repository.SemesterScheduleRepository, slots *repository.SemesterScheduleSlotRepository, logger *zap.Logger) *TimetableStoreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableStoreService{db: db, schedules: schedules, slots: slots, logger: logger}
}

// Save inserts the next version for requestKey and its placements,
// atomically. savedBy, when non-empty, is recorded in the schedule's meta.
func (s *TimetableStoreService) Save(ctx context.Context, requestKey string, result models.Result, savedBy string) (*models.SemesterSchedule, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	meta := types.JSONText(`{}`)
	if savedBy != "" {
		raw, err := json.Marshal(map[string]string{"saved_by": savedBy})
		if err == nil {
			meta = types.JSONText(raw)
		}
	}

	schedule := &models.SemesterSchedule{
		RequestKey: requestKey,
		Status:     models.SemesterScheduleStatusDraft,
		Violations: len(result.Violations),
		Meta:       meta,
	}
	if err := s.schedules.CreateVersioned(ctx, tx, schedule); err != nil {
		return nil, err
	}

	rows := models.ToSlots(schedule.ID, result)
	if err := s.slots.UpsertBatch(ctx, tx, rows); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	s.logger.Debug("stored timetable", zap.String("request_key", requestKey), zap.Int("version", schedule.Version))
	return schedule, nil
}

// Get loads a stored schedule with its placements.
func (s *TimetableStoreService) Get(ctx context.Context, id string) (*models.SemesterSchedule, []models.SemesterScheduleSlot, error) {
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.slots.ListBySchedule(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return schedule, rows, nil
}

// ListVersions returns every stored version for a request key.
func (s *TimetableStoreService) ListVersions(ctx context.Context, requestKey string) ([]models.SemesterSchedule, error) {
	return s.schedules.ListByRequestKey(ctx, requestKey)
}

// Publish marks a stored schedule PUBLISHED.
func (s *TimetableStoreService) Publish(ctx context.Context, id string) error {
	return s.schedules.UpdateStatus(ctx, nil, id, models.SemesterScheduleStatusPublished, nil)
}

// Archive marks a stored schedule ARCHIVED.
func (s *TimetableStoreService) Archive(ctx context.Context, id string) error {
	return s.schedules.UpdateStatus(ctx, nil, id, models.SemesterScheduleStatusArchived, nil)
}

// Delete removes a stored schedule version.
func (s *TimetableStoreService) Delete(ctx context.Context, id string) error {
	return s.schedules.Delete(ctx, id)
}
