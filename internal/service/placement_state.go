package service

import (
	"sort"
	"time"

	"github.com/noah-isme/campus-timetable/internal/models"
)

// placedItem is one committed (course, slot, room) triple during search,
// before faculty assignment.
type placedItem struct {
	courseCode string
	slot       models.TimeSlot
	room       string
}

// placementState is one worker's mutable view of the in-progress student
// placement search: which (room, slot) cells are taken, which groups are
// already busy in a slot, and which slots each course currently occupies
// (needed to keep sessions of one course off adjacent hours).
type placementState struct {
	master models.MasterData

	roomSlotTaken  map[string]map[models.TimeSlot]bool
	groupSlotTaken map[string]map[models.TimeSlot]bool
	courseSlots    map[string][]models.TimeSlot

	placements []placedItem
}

func newPlacementState(master models.MasterData) *placementState {
	return &placementState{
		master:         master,
		roomSlotTaken:  make(map[string]map[models.TimeSlot]bool),
		groupSlotTaken: make(map[string]map[models.TimeSlot]bool),
		courseSlots:    make(map[string][]models.TimeSlot),
	}
}

// candidatePairs enumerates every (slot, room) option valid for course c:
// the room type must satisfy the course's lab requirement, and the slot
// must be one the room actually lists as available. Ordering follows
// master time_slots order, then room id, for deterministic, reproducible
// placement.
func (st *placementState) candidatePairs(c models.Course) []candidatePair {
	slotOrder := make(map[models.TimeSlot]int, len(st.master.TimeSlots))
	for i, s := range st.master.TimeSlots {
		slotOrder[s] = i
	}

	var pairs []candidatePair
	requiresLab := c.RequiresLab()

	for _, room := range st.master.Rooms {
		if requiresLab && room.EffectiveType() != models.RoomTypeLab {
			continue
		}
		for _, slot := range room.AvailableSlots {
			if _, known := slotOrder[slot]; !known {
				continue
			}
			pairs = append(pairs, candidatePair{slot: slot, room: room.RoomID})
		}
	}

	sort.Slice(pairs, func(i, j int) bool {
		if slotOrder[pairs[i].slot] != slotOrder[pairs[j].slot] {
			return slotOrder[pairs[i].slot] < slotOrder[pairs[j].slot]
		}
		return pairs[i].room < pairs[j].room
	})
	return pairs
}

// conflicts reports whether placing c into cand would violate a hard
// constraint given the placements already committed in this state.
func (st *placementState) conflicts(c models.Course, cand candidatePair) bool {
	if st.roomSlotTaken[cand.room][cand.slot] {
		return true
	}

	for _, g := range c.StudentGroups {
		if st.groupSlotTaken[g][cand.slot] {
			return true
		}
	}

	for _, existing := range st.courseSlots[c.CourseCode] {
		if existing.AdjacentTo(cand.slot) {
			return true
		}
	}

	return false
}

func (st *placementState) place(c models.Course, cand candidatePair) {
	if st.roomSlotTaken[cand.room] == nil {
		st.roomSlotTaken[cand.room] = make(map[models.TimeSlot]bool)
	}
	st.roomSlotTaken[cand.room][cand.slot] = true

	for _, g := range c.StudentGroups {
		if st.groupSlotTaken[g] == nil {
			st.groupSlotTaken[g] = make(map[models.TimeSlot]bool)
		}
		st.groupSlotTaken[g][cand.slot] = true
	}

	st.courseSlots[c.CourseCode] = append(st.courseSlots[c.CourseCode], cand.slot)
	st.placements = append(st.placements, placedItem{courseCode: c.CourseCode, slot: cand.slot, room: cand.room})
}

// unplace removes the placement at idx from both the committed-state maps
// and the placements slice itself.
func (st *placementState) unplace(idx int) placedItem {
	item := st.placements[idx]
	delete(st.roomSlotTaken[item.room], item.slot)

	course, ok := st.master.CourseByCode()[item.courseCode]
	if ok {
		for _, g := range course.StudentGroups {
			delete(st.groupSlotTaken[g], item.slot)
		}
	}

	slots := st.courseSlots[item.courseCode]
	for i, s := range slots {
		if s == item.slot {
			st.courseSlots[item.courseCode] = append(slots[:i], slots[i+1:]...)
			break
		}
	}

	st.placements = append(st.placements[:idx], st.placements[idx+1:]...)
	return item
}

// placeAll attempts to place every course in order, each into as many
// candidate cells as its required_sessions demands. Returns false the
// moment a course cannot reach its required count — the caller (a
// different worker with a different ordering) may still succeed.
func (st *placementState) placeAll(order []models.Course) bool {
	for _, c := range order {
		needed := c.RequiredSessions()
		candidates := st.candidatePairs(c)

		chosen := 0
		for _, cand := range candidates {
			if chosen == needed {
				break
			}
			if st.conflicts(c, cand) {
				continue
			}
			st.place(c, cand)
			chosen++
		}

		if chosen < needed {
			return false
		}
	}
	return true
}

// penalty computes the soft-objective value for this state's current
// placements. The consecutive-same-subject term can never activate while
// same-course adjacency stays a hard rule, but it is kept in the
// objective so scoring stays correct if that rule is ever downgraded to a
// preference.
func (st *placementState) penalty() int {
	total := 0

	for _, p := range st.placements {
		if p.slot.IsLate() {
			total += lateSlotWeight
		}
	}

	for _, slots := range st.courseSlots {
		for i := 0; i < len(slots); i++ {
			for j := i + 1; j < len(slots); j++ {
				if slots[i].AdjacentTo(slots[j]) {
					total += consecSameSubjectWeight
				}
			}
		}
	}

	total += st.daySpreadPenalty()
	return total
}

// daySpreadPenalty charges, for every student group, the day-of-week gap
// between each pair of days the group actually has classes on, whenever
// that gap exceeds daySpreadGapThreshold.
func (st *placementState) daySpreadPenalty() int {
	groupDays := make(map[string]map[int]bool)

	courses := st.master.CourseByCode()
	for _, p := range st.placements {
		course, ok := courses[p.courseCode]
		if !ok {
			continue
		}
		day, ok := p.slot.Day()
		if !ok {
			continue
		}
		for _, g := range course.StudentGroups {
			if groupDays[g] == nil {
				groupDays[g] = make(map[int]bool)
			}
			groupDays[g][day] = true
		}
	}

	total := 0
	for _, days := range groupDays {
		used := make([]int, 0, len(days))
		for d := range days {
			used = append(used, d)
		}
		for i := 0; i < len(used); i++ {
			for j := i + 1; j < len(used); j++ {
				gap := used[i] - used[j]
				if gap < 0 {
					gap = -gap
				}
				if gap > daySpreadGapThreshold {
					total += gap
				}
			}
		}
	}
	return total
}

// repair runs a bounded local search that relocates placements sitting in
// late slots to an earlier candidate cell whenever doing so is still
// conflict-free and strictly lowers the objective. It never removes a
// placement without a free replacement cell, so every hard constraint
// holds throughout.
func (st *placementState) repair(master models.MasterData, budget time.Duration) {
	if budget <= 0 || len(st.placements) == 0 {
		return
	}
	deadline := time.Now().Add(budget)
	courses := master.CourseByCode()

	for {
		if time.Now().After(deadline) {
			return
		}

		relocated := false
		for i := 0; i < len(st.placements); i++ {
			item := st.placements[i]
			if !item.slot.IsLate() {
				continue
			}
			course, ok := courses[item.courseCode]
			if !ok {
				continue
			}

			before := st.penalty()
			removed := st.unplace(i)

			var bestCand *candidatePair
			for _, cand := range st.candidatePairs(course) {
				if cand.slot.IsLate() {
					continue
				}
				if st.conflicts(course, cand) {
					continue
				}
				c := cand
				bestCand = &c
				break
			}

			if bestCand == nil {
				st.place(course, candidatePair{slot: removed.slot, room: removed.room})
				continue
			}

			st.place(course, *bestCand)
			if st.penalty() >= before {
				st.unplace(len(st.placements) - 1)
				st.place(course, candidatePair{slot: removed.slot, room: removed.room})
				continue
			}

			relocated = true
		}

		if !relocated {
			return
		}
	}
}

// buildResult converts the committed placements into the scheduler's
// externally-facing shape: assignments ordered by master time_slots with
// each slot's placements sorted by course_code, and per-student timetables.
func (st *placementState) buildResult(master models.MasterData) *models.SchedulerResult {
	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	courses := master.CourseByCode()
	groups := master.GroupByID()
	studentTT := make(map[string]models.Timetable)

	for _, item := range st.placements {
		course := courses[item.courseCode]

		p := models.Placement{
			CourseCode:  item.courseCode,
			CourseName:  course.Name,
			RoomID:      item.room,
			CourseTrack: course.CourseTrack,
			Components:  course.Components,
		}
		if course.CreditHours != nil {
			p.CreditHours = course.CreditHours
		} else if course.HoursPerWeek != nil {
			p.CreditHours = course.HoursPerWeek
		}
		assignments.Append(item.slot, p)

		for _, gid := range course.StudentGroups {
			g, ok := groups[gid]
			if !ok {
				continue
			}
			for _, studentID := range g.Students {
				if studentTT[studentID] == nil {
					studentTT[studentID] = models.Timetable{}
				}
				studentTT[studentID][item.slot] = item.courseCode
			}
		}
	}

	assignments.SortPlacements()
	return &models.SchedulerResult{PlacementsBySlot: assignments, StudentTimetables: studentTT}
}
