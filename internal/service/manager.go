package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
)

const defaultTimeLimitSeconds = 10

// Manager orchestrates StudentScheduler → FacultyOptimiser → Validator and
// returns the combined result. It owns no state across calls: every
// Generate invocation is an independent, read-only pass over the master
// data it is given.
type Manager struct {
	scheduler *StudentScheduler
	optimiser *FacultyOptimiser
	validator *Validator
	metrics   *MetricsService
	cache     *CacheService
	logger    *zap.Logger
}

// NewManager wires the pipeline stages together. metrics and cache may be
// nil, in which case instrumentation and result caching are skipped
// respectively.
func NewManager(scheduler *StudentScheduler, optimiser *FacultyOptimiser, validator *Validator, metrics *MetricsService, cache *CacheService, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{scheduler: scheduler, optimiser: optimiser, validator: validator, metrics: metrics, cache: cache, logger: logger}
}

// CacheKeyFor returns a deterministic cache key for a generate request,
// derived from a digest of its MasterData and time limit so that only
// byte-identical requests share a cached Result.
func CacheKeyFor(master models.MasterData, timeLimitSeconds int) string {
	payload, err := json.Marshal(struct {
		Master           models.MasterData `json:"master_data"`
		TimeLimitSeconds int                `json:"time_limit_seconds"`
	}{master, timeLimitSeconds})
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(payload)
	return "timetable:result:" + hex.EncodeToString(sum[:])
}

// Generate runs the full pipeline for a single master-data request. On
// scheduler infeasibility it returns (nil, "StudentScheduler error: <msg>");
// otherwise it always returns a populated Result, even when
// violations is non-empty — a non-empty violations list is a reported
// outcome, not an error. A successful result is cached (when caching is
// enabled) so an identical subsequent request skips re-solving entirely.
func (m *Manager) Generate(ctx context.Context, master models.MasterData, timeLimitSeconds int) (*models.Result, error) {
	if timeLimitSeconds <= 0 {
		timeLimitSeconds = defaultTimeLimitSeconds
	}

	cacheKey := CacheKeyFor(master, timeLimitSeconds)
	if m.cache.Enabled() && cacheKey != "" {
		var cached models.Result
		if hit, err := m.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			cached.Assignments.Order = master.TimeSlots
			m.logger.Debug("generate cache hit", zap.String("key", cacheKey))
			return &cached, nil
		}
	}

	start := time.Now()
	scheduled, err := m.scheduler.Solve(ctx, master, timeLimitSeconds)
	m.metrics.ObserveSolve(time.Since(start), err == nil)
	if err != nil {
		return nil, fmt.Errorf("StudentScheduler error: %s", err.Error())
	}

	enriched, facultyTT := m.optimiser.Assign(master, *scheduled)

	result := &models.Result{
		Assignments:       enriched,
		StudentTimetables: scheduled.StudentTimetables,
		FacultyTimetables: facultyTT,
	}

	result.Violations = m.validator.Check(*result, master)
	placementCount := 0
	for _, slot := range enriched.OccupiedSlots() {
		placementCount += len(enriched.BySlot[slot])
	}
	m.metrics.ObserveGenerateResult(len(result.Violations), placementCount)

	m.logger.Debug("generated timetable",
		zap.Int("occupied_slots", len(enriched.OccupiedSlots())),
		zap.Int("violations", len(result.Violations)),
	)

	if m.cache.Enabled() && cacheKey != "" {
		if err := m.cache.Set(ctx, cacheKey, result, 0); err != nil {
			m.logger.Debug("generate cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}

	return result, nil
}

// GenerateBatch runs Generate over several MasterData variants sharing a
// single manager instance, for an institution producing more than one
// cohort's timetable (odd/even week or section A/B) from one request. Each
// variant is an independent Generate call; a failure on one variant does
// not abort the others, and results are returned in input order.
func (m *Manager) GenerateBatch(ctx context.Context, variants []models.MasterData, timeLimitSeconds int) []BatchResult {
	out := make([]BatchResult, len(variants))
	for i, variant := range variants {
		result, err := m.Generate(ctx, variant, timeLimitSeconds)
		out[i] = BatchResult{Index: i, Result: result, Err: err}
	}
	return out
}

// BatchResult pairs one GenerateBatch variant's outcome with its input
// index so callers can correlate results back to the variant they submitted.
type BatchResult struct {
	Index  int
	Result *models.Result
	Err    error
}
