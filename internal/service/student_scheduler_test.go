package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
)

// One course, one slot, one room, one faculty member: the smallest input
// that should produce a complete schedule.
func TestStudentSchedulerMinimal(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09"},
		Rooms:     []models.Room{{RoomID: "R1", Type: models.RoomTypeTheory, AvailableSlots: []models.TimeSlot{"Mon_09"}}},
		Faculty:   []models.Faculty{{FacultyID: "F1", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_09"}}},
		StudentGroups: []models.StudentGroup{
			{GroupID: "G1", Students: []string{"S1"}},
		},
		Courses: []models.Course{
			{CourseCode: "C1", SessionsPerWeek: intPtr(1), StudentGroups: []string{"G1"}, PossibleFaculty: []string{"F1"}},
		},
	}

	scheduler := NewStudentScheduler(2, zap.NewNop())
	result, err := scheduler.Solve(context.Background(), master, 2)
	require.NoError(t, err)
	require.NotNil(t, result)

	placements := result.PlacementsBySlot.BySlot["Mon_09"]
	require.Len(t, placements, 1)
	assert.Equal(t, "C1", placements[0].CourseCode)
	assert.Equal(t, "R1", placements[0].RoomID)
	assert.Equal(t, "C1", result.StudentTimetables["S1"]["Mon_09"])
}

// A course requiring two practicum sessions must land only in the lab
// room, never the theory room.
func TestStudentSchedulerLabEnforcement(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09", "Mon_11"},
		Rooms: []models.Room{
			{RoomID: "R1", Type: models.RoomTypeTheory, AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_11"}},
			{RoomID: "R2", Type: models.RoomTypeLab, AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_11"}},
		},
		StudentGroups: []models.StudentGroup{{GroupID: "G1", Students: []string{"S1"}}},
		Courses: []models.Course{
			{CourseCode: "C2", Components: map[string]int{"practicum": 2}, StudentGroups: []string{"G1"}},
		},
	}

	scheduler := NewStudentScheduler(2, zap.NewNop())
	result, err := scheduler.Solve(context.Background(), master, 2)
	require.NoError(t, err)

	count := 0
	for _, slot := range master.TimeSlots {
		for _, p := range result.PlacementsBySlot.BySlot[slot] {
			if p.CourseCode == "C2" {
				count++
				assert.Equal(t, "R2", p.RoomID)
			}
		}
	}
	assert.Equal(t, 2, count)
}

// With only three consecutive slots available, the only conflict-free
// pair for a 2-session course is the first and last (gap of 2 hours).
func TestStudentSchedulerNonAdjacency(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"},
		Rooms:     []models.Room{{RoomID: "R1", AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"}}},
		StudentGroups: []models.StudentGroup{
			{GroupID: "G1", Students: []string{"S1"}},
		},
		Courses: []models.Course{
			{CourseCode: "C3", SessionsPerWeek: intPtr(2), StudentGroups: []string{"G1"}},
		},
	}

	scheduler := NewStudentScheduler(4, zap.NewNop())
	result, err := scheduler.Solve(context.Background(), master, 2)
	require.NoError(t, err)

	var placedSlots []models.TimeSlot
	for _, slot := range master.TimeSlots {
		for _, p := range result.PlacementsBySlot.BySlot[slot] {
			if p.CourseCode == "C3" {
				placedSlots = append(placedSlots, slot)
			}
		}
	}
	require.Len(t, placedSlots, 2)
	assert.ElementsMatch(t, []models.TimeSlot{"Mon_09", "Mon_11"}, placedSlots)
}

// Two courses sharing a group with only one slot available cannot both be
// placed, so the solver must report infeasibility.
func TestStudentSchedulerGroupOverlapInfeasible(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09"},
		Rooms:     []models.Room{{RoomID: "R1", AvailableSlots: []models.TimeSlot{"Mon_09"}}},
		StudentGroups: []models.StudentGroup{
			{GroupID: "G1", Students: []string{"S1"}},
		},
		Courses: []models.Course{
			{CourseCode: "C4", SessionsPerWeek: intPtr(1), StudentGroups: []string{"G1"}},
			{CourseCode: "C5", SessionsPerWeek: intPtr(1), StudentGroups: []string{"G1"}},
		},
	}

	scheduler := NewStudentScheduler(2, zap.NewNop())
	result, err := scheduler.Solve(context.Background(), master, 1)
	require.Error(t, err)
	require.Nil(t, result)
	assert.Equal(t, "No feasible student timetable found.", err.Error())
}

func TestStudentSchedulerResultOrderingMatchesMasterSlotsAndCourseCode(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09", "Mon_10"},
		Rooms: []models.Room{
			{RoomID: "R1", AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10"}},
			{RoomID: "R2", AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10"}},
		},
		StudentGroups: []models.StudentGroup{{GroupID: "G1", Students: []string{"S1"}}},
		Courses: []models.Course{
			{CourseCode: "B1", SessionsPerWeek: intPtr(1), StudentGroups: []string{"G1"}},
			{CourseCode: "A1", SessionsPerWeek: intPtr(1), StudentGroups: []string{"G1"}},
		},
	}

	scheduler := NewStudentScheduler(2, zap.NewNop())
	result, err := scheduler.Solve(context.Background(), master, 1)
	require.NoError(t, err)
	assert.Equal(t, master.TimeSlots, result.PlacementsBySlot.Order)

	for _, slot := range master.TimeSlots {
		placements := result.PlacementsBySlot.BySlot[slot]
		for i := 1; i < len(placements); i++ {
			assert.True(t, placements[i-1].CourseCode < placements[i].CourseCode)
		}
	}
}
