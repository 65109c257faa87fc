package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
)

// FacultyOptimiser attaches a qualified, available, load-balanced
// instructor to each placement with a single deterministic greedy pass.
// It never backtracks into the scheduler; any placement it cannot staff
// is left unassigned for the validator to flag.
type FacultyOptimiser struct {
	logger *zap.Logger
}

// NewFacultyOptimiser constructs an optimiser. A nil logger becomes a no-op.
func NewFacultyOptimiser(logger *zap.Logger) *FacultyOptimiser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacultyOptimiser{logger: logger}
}

// Assign returns the placements enriched with a faculty_id plus each
// instructor's weekly timetable. Slots are processed in master time_slots
// order and placements within a slot in their already-sorted (by
// course_code) order, so tie-breaking is reproducible run to run.
func (o *FacultyOptimiser) Assign(master models.MasterData, scheduled models.SchedulerResult) (models.AssignmentsBySlot, map[string]models.Timetable) {
	load := make(map[string]int)
	facultyTT := make(map[string]models.Timetable)
	busy := make(map[string]map[models.TimeSlot]bool)
	courses := master.CourseByCode()

	enriched := models.NewAssignmentsBySlot(scheduled.PlacementsBySlot.Order)

	for _, slot := range scheduled.PlacementsBySlot.Order {
		placements := scheduled.PlacementsBySlot.BySlot[slot]
		for _, p := range placements {
			course, ok := courses[p.CourseCode]
			candidate := o.pick(master, course, slot, load, busy)

			enrichedPlacement := p.Clone()
			if candidate != "" {
				id := candidate
				enrichedPlacement.FacultyID = &id
				load[candidate]++
				if busy[candidate] == nil {
					busy[candidate] = make(map[models.TimeSlot]bool)
				}
				busy[candidate][slot] = true
				if facultyTT[candidate] == nil {
					facultyTT[candidate] = models.Timetable{}
				}
				facultyTT[candidate][slot] = p.CourseCode
			}
			if !ok {
				o.logger.Debug("placement references unknown course", zap.String("course_code", p.CourseCode))
			}

			enriched.Append(slot, enrichedPlacement)
		}
	}

	enriched.SortPlacements()
	return enriched, facultyTT
}

// pick builds and filters the candidate list: possible_faculty first
// (declared order), then any other expertise match in master order;
// filtered to available/not-double-booked/under-cap; lowest current load
// wins with ties broken by candidate order; failing that, a fallback scan
// of all faculty; failing that, no assignment.
func (o *FacultyOptimiser) pick(master models.MasterData, course models.Course, slot models.TimeSlot, load map[string]int, busy map[string]map[models.TimeSlot]bool) string {
	facultyIdx := master.FacultyByID()

	candidates := make([]string, 0, len(course.PossibleFaculty))
	seen := make(map[string]bool)
	for _, fid := range course.PossibleFaculty {
		if seen[fid] {
			continue
		}
		seen[fid] = true
		candidates = append(candidates, fid)
	}
	for _, f := range master.Faculty {
		if seen[f.FacultyID] {
			continue
		}
		if f.TeachesAny(course.CourseCode) {
			seen[f.FacultyID] = true
			candidates = append(candidates, f.FacultyID)
		}
	}

	best := ""
	bestLoad := -1
	for _, fid := range candidates {
		f, ok := facultyIdx[fid]
		if !ok {
			continue
		}
		if !o.eligible(f, slot, load, busy) {
			continue
		}
		if bestLoad == -1 || load[fid] < bestLoad {
			best = fid
			bestLoad = load[fid]
		}
	}
	if best != "" {
		return best
	}

	for _, f := range master.Faculty {
		if o.eligible(f, slot, load, busy) {
			return f.FacultyID
		}
	}

	return ""
}

func (o *FacultyOptimiser) eligible(f models.Faculty, slot models.TimeSlot, load map[string]int, busy map[string]map[models.TimeSlot]bool) bool {
	if !f.IsAvailable(slot) {
		return false
	}
	if busy[f.FacultyID][slot] {
		return false
	}
	if load[f.FacultyID] >= f.EffectiveMaxHours() {
		return false
	}
	return true
}
