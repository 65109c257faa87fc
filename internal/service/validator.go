package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/campus-timetable/internal/models"
)

// Validator re-checks every hard and structural constraint against a
// combined result. It is a pure function with no dependency on the
// scheduler or optimiser, so it audits their output rather than trusting
// it.
type Validator struct{}

// NewValidator constructs a Validator. It carries no state.
func NewValidator() *Validator {
	return &Validator{}
}

// Check runs every rule category unconditionally (the validator never
// short-circuits) and returns the ordered list of human-readable violation
// messages.
func (v *Validator) Check(result models.Result, master models.MasterData) []string {
	violations := make([]string, 0)

	slots := master.SlotSet()
	rooms := master.RoomByID()
	faculty := master.FacultyByID()
	courses := master.CourseByCode()

	roomSlotUse := make(map[string]int)    // "room|slot" -> count
	facultySlotUse := make(map[string]int) // "faculty|slot" -> count
	groupSlotUse := make(map[string]int)   // "group|slot" -> count
	facultyLoad := make(map[string]int)
	sessionsScheduled := make(map[string]int)

	for _, slot := range result.Assignments.Order {
		placements, ok := result.Assignments.BySlot[slot]
		if !ok {
			continue
		}

		if _, known := slots[slot]; !known {
			violations = append(violations, fmt.Sprintf("Slot %s is not in master slots", slot))
		}

		for _, p := range placements {
			sessionsScheduled[p.CourseCode]++

			violations = append(violations, v.checkRoom(p, slot, rooms, courses, master)...)
			violations = append(violations, v.checkFaculty(p, slot, faculty, facultySlotUse, facultyLoad)...)

			roomKey := p.RoomID + "|" + string(slot)
			roomSlotUse[roomKey]++
			if roomSlotUse[roomKey] > 1 {
				violations = append(violations, fmt.Sprintf("Room %s double-booked at %s", p.RoomID, slot))
			}

			if course, ok := courses[p.CourseCode]; ok {
				for _, g := range course.StudentGroups {
					key := g + "|" + string(slot)
					groupSlotUse[key]++
					if groupSlotUse[key] > 1 {
						violations = append(violations, fmt.Sprintf("Group %s has multiple classes at %s", g, slot))
					}
				}
			}
		}
	}

	violations = append(violations, v.checkSessions(courses, sessionsScheduled)...)
	violations = append(violations, v.checkCreditCompliance(master)...)
	violations = append(violations, v.checkTeachingPractice(result, master, courses)...)

	return violations
}

func (v *Validator) checkRoom(p models.Placement, slot models.TimeSlot, rooms map[string]models.Room, courses map[string]models.Course, master models.MasterData) []string {
	var out []string

	room, ok := rooms[p.RoomID]
	if !ok {
		out = append(out, fmt.Sprintf("Room %s used at %s not found", p.RoomID, slot))
		return out
	}

	if !room.IsAvailable(slot) {
		out = append(out, fmt.Sprintf("Room %s not available at %s", p.RoomID, slot))
	}

	if room.Capacity != nil {
		if course, ok := courses[p.CourseCode]; ok {
			needed := studentCountForCourse(course, master)
			if *room.Capacity < needed {
				out = append(out, fmt.Sprintf("Room %s capacity %d insufficient for %s (needs %d)", p.RoomID, *room.Capacity, p.CourseCode, needed))
			}
		}
	}

	return out
}

func studentCountForCourse(course models.Course, master models.MasterData) int {
	groups := master.GroupByID()
	total := 0
	for _, gid := range course.StudentGroups {
		if g, ok := groups[gid]; ok {
			total += len(g.Students)
		}
	}
	return total
}

func (v *Validator) checkFaculty(p models.Placement, slot models.TimeSlot, faculty map[string]models.Faculty, facultySlotUse map[string]int, facultyLoad map[string]int) []string {
	var out []string

	if p.FacultyID == nil || *p.FacultyID == "" {
		out = append(out, fmt.Sprintf("No faculty assigned for %s at %s", p.CourseCode, slot))
		return out
	}

	fid := *p.FacultyID
	f, ok := faculty[fid]
	if !ok {
		out = append(out, fmt.Sprintf("Faculty %s assigned at %s not in master list", fid, slot))
		return out
	}

	if !f.IsAvailable(slot) {
		out = append(out, fmt.Sprintf("Faculty %s not available at %s", fid, slot))
	}

	key := fid + "|" + string(slot)
	facultySlotUse[key]++
	if facultySlotUse[key] > 1 {
		out = append(out, fmt.Sprintf("Faculty %s double-booked at %s", fid, slot))
	}

	facultyLoad[fid]++
	if facultyLoad[fid] > f.EffectiveMaxHours() {
		out = append(out, fmt.Sprintf("Faculty %s exceeds weekly load: %d/%d", fid, facultyLoad[fid], f.EffectiveMaxHours()))
	}

	return out
}

func (v *Validator) checkSessions(courses map[string]models.Course, scheduled map[string]int) []string {
	var out []string
	codes := make([]string, 0, len(courses))
	for code := range courses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	for _, code := range codes {
		course := courses[code]
		required := course.RequiredSessions()
		got := scheduled[code]
		if got != required {
			out = append(out, fmt.Sprintf("Course %s requires %d sessions/week but scheduled %d", code, required, got))
		}
	}
	return out
}

func (v *Validator) checkCreditCompliance(master models.MasterData) []string {
	var out []string
	courses := master.CourseByCode()

	for _, g := range master.StudentGroups {
		if g.CreditRequirements == nil {
			continue
		}

		assigned := master.CoursesOfGroup(g.GroupID)

		if !g.CourseChoices.Empty() {
			declared := map[string]struct{}{}
			for _, c := range g.CourseChoices.AllCourses() {
				declared[c] = struct{}{}
			}
			for _, code := range assigned {
				if _, ok := declared[code]; !ok {
					out = append(out, fmt.Sprintf("Group %s assigned to %s which is outside declared choices", g.GroupID, code))
				}
			}
		}

		var total float64
		byTrack := map[string]float64{}

		for _, code := range assigned {
			course, ok := courses[code]
			if !ok {
				continue
			}
			credit := course.CreditValue()
			total += credit

			track, found := g.CourseChoices.TrackFor(code)
			if !found {
				track = course.Track()
			}
			byTrack[strings.ToLower(track)] += credit
		}

		req := g.CreditRequirements
		if req.Min != nil && total < *req.Min {
			out = append(out, fmt.Sprintf("Group %s total credits %s below minimum %s", g.GroupID, formatCredit(total), formatCredit(*req.Min)))
		}
		if req.Max != nil && total > *req.Max {
			out = append(out, fmt.Sprintf("Group %s total credits %s exceeds maximum %s", g.GroupID, formatCredit(total), formatCredit(*req.Max)))
		}
		if req.MajorMin != nil && byTrack["major"] < *req.MajorMin {
			out = append(out, fmt.Sprintf("Group %s major credits %s below required %s", g.GroupID, formatCredit(byTrack["major"]), formatCredit(*req.MajorMin)))
		}
		if req.MinorMin != nil && byTrack["minor"] < *req.MinorMin {
			out = append(out, fmt.Sprintf("Group %s minor credits %s below required %s", g.GroupID, formatCredit(byTrack["minor"]), formatCredit(*req.MinorMin)))
		}
		if req.SkillMin != nil && byTrack["skill"] < *req.SkillMin {
			out = append(out, fmt.Sprintf("Group %s skill credits %s below required %s", g.GroupID, formatCredit(byTrack["skill"]), formatCredit(*req.SkillMin)))
		}
	}

	return out
}

func (v *Validator) checkTeachingPractice(result models.Result, master models.MasterData, courses map[string]models.Course) []string {
	if len(master.TeachingPracticeWindows) == 0 {
		return nil
	}

	var out []string
	groups := master.GroupByID()

	for _, slot := range result.Assignments.Order {
		placements := result.Assignments.BySlot[slot]
		for _, p := range placements {
			course, ok := courses[p.CourseCode]
			if !ok || !course.TeachingPracticeRequired {
				continue
			}

			for _, gid := range course.StudentGroups {
				g, ok := groups[gid]
				if !ok {
					continue
				}
				window, found := master.TeachingPracticeWindows[gid]
				if !found {
					window, found = master.TeachingPracticeWindows[course.Program]
				}
				if !found {
					continue
				}
				if !slotInWindow(slot, window) {
					out = append(out, fmt.Sprintf("Teaching practice course %s for %s scheduled at %s outside approved window", p.CourseCode, g.GroupID, slot))
				}
			}
		}
	}

	return out
}

func slotInWindow(slot models.TimeSlot, window []models.TimeSlot) bool {
	for _, s := range window {
		if s == slot {
			return true
		}
	}
	return false
}

func formatCredit(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
