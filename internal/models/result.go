package models

import (
	"bytes"
	"encoding/json"
	"sort"
)

// AssignmentsBySlot preserves master time_slots order through JSON
// marshalling, which encoding/json's native map support cannot guarantee.
type AssignmentsBySlot struct {
	Order  []TimeSlot
	BySlot map[TimeSlot][]Placement
}

// NewAssignmentsBySlot builds an empty ordered assignment map following the
// given slot order.
func NewAssignmentsBySlot(order []TimeSlot) AssignmentsBySlot {
	return AssignmentsBySlot{
		Order:  order,
		BySlot: make(map[TimeSlot][]Placement, len(order)),
	}
}

// Append adds a placement to its slot. Call SortPlacements once every
// placement is in to restore the ascending-by-course_code ordering.
func (a *AssignmentsBySlot) Append(slot TimeSlot, p Placement) {
	a.BySlot[slot] = append(a.BySlot[slot], p)
}

// SortPlacements sorts every slot's placement list by course_code.
func (a *AssignmentsBySlot) SortPlacements() {
	for slot, placements := range a.BySlot {
		sort.Slice(placements, func(i, j int) bool {
			return placements[i].CourseCode < placements[j].CourseCode
		})
		a.BySlot[slot] = placements
	}
}

// OccupiedSlots returns the slots that hold at least one placement, in
// master order.
func (a AssignmentsBySlot) OccupiedSlots() []TimeSlot {
	out := make([]TimeSlot, 0, len(a.Order))
	for _, s := range a.Order {
		if len(a.BySlot[s]) > 0 {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON emits the slot map as an object whose keys follow Order,
// restricted to occupied slots.
func (a AssignmentsBySlot) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, slot := range a.Order {
		placements, ok := a.BySlot[slot]
		if !ok || len(placements) == 0 {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := json.Marshal(string(slot))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		val, err := json.Marshal(placements)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON restores the slot->placements map from its marshalled
// object shape. Order is left nil since the original master time_slots
// order cannot be recovered from JSON alone (only occupied slots survive
// marshalling); callers reconstructing a Result from a cache or
// store (e.g. service.Manager's generate cache) MUST re-populate Order
// from the MasterData they already hold before re-serialising.
func (a *AssignmentsBySlot) UnmarshalJSON(data []byte) error {
	raw := make(map[string][]Placement)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.BySlot = make(map[TimeSlot][]Placement, len(raw))
	for slot, placements := range raw {
		a.BySlot[TimeSlot(slot)] = placements
	}
	return nil
}

// Timetable maps slot to course_code for a single student or faculty member.
type Timetable map[TimeSlot]string

// SchedulerResult is what StudentScheduler.Solve returns on success.
type SchedulerResult struct {
	PlacementsBySlot  AssignmentsBySlot
	StudentTimetables map[string]Timetable
}

// Result is the combined, externally-exposed outcome of one generate call.
type Result struct {
	Assignments       AssignmentsBySlot    `json:"assignments"`
	StudentTimetables map[string]Timetable `json:"student_timetables"`
	FacultyTimetables map[string]Timetable `json:"faculty_timetables"`
	Violations        []string             `json:"violations"`
}
