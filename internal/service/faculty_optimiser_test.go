package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-timetable/internal/models"
)

func TestFacultyOptimiserAssignsPreferredCandidate(t *testing.T) {
	master := models.MasterData{
		Faculty: []models.Faculty{
			{FacultyID: "F1", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_09"}},
			{FacultyID: "F2", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_09"}},
		},
		Courses: []models.Course{
			{CourseCode: "C1", PossibleFaculty: []string{"F2", "F1"}},
		},
	}
	scheduled := models.SchedulerResult{PlacementsBySlot: models.NewAssignmentsBySlot([]models.TimeSlot{"Mon_09"})}
	scheduled.PlacementsBySlot.Append("Mon_09", models.Placement{CourseCode: "C1"})

	enriched, facultyTT := NewFacultyOptimiser(zap.NewNop()).Assign(master, scheduled)

	placements := enriched.BySlot["Mon_09"]
	require.Len(t, placements, 1)
	require.NotNil(t, placements[0].FacultyID)
	assert.Equal(t, "F2", *placements[0].FacultyID)
	assert.Equal(t, "C1", facultyTT["F2"]["Mon_09"])
}

// A faculty member capped at 2 hours/week across three expertise-matching
// placements ends up teaching exactly two, with the third falling to no
// assignment (no other faculty exists to absorb it).
func TestFacultyOptimiserLoadCap(t *testing.T) {
	master := models.MasterData{
		Faculty: []models.Faculty{
			{FacultyID: "F1", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"}, MaxHoursPerWeek: 2},
		},
		Courses: []models.Course{
			{CourseCode: "C1", PossibleFaculty: []string{"F1"}},
		},
	}
	scheduled := models.SchedulerResult{PlacementsBySlot: models.NewAssignmentsBySlot([]models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"})}
	scheduled.PlacementsBySlot.Append("Mon_09", models.Placement{CourseCode: "C1"})
	scheduled.PlacementsBySlot.Append("Mon_10", models.Placement{CourseCode: "C1"})
	scheduled.PlacementsBySlot.Append("Mon_11", models.Placement{CourseCode: "C1"})

	enriched, facultyTT := NewFacultyOptimiser(zap.NewNop()).Assign(master, scheduled)

	assigned := 0
	unassigned := 0
	for _, slot := range []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"} {
		p := enriched.BySlot[slot][0]
		if p.FacultyID != nil && *p.FacultyID == "F1" {
			assigned++
		} else {
			unassigned++
		}
	}
	assert.Equal(t, 2, assigned)
	assert.Equal(t, 1, unassigned)
	assert.Len(t, facultyTT["F1"], 2)
}

func TestFacultyOptimiserFallsBackToMasterOrderWhenNoExpertiseMatch(t *testing.T) {
	master := models.MasterData{
		Faculty: []models.Faculty{
			{FacultyID: "F1", AvailableSlots: []models.TimeSlot{"Mon_09"}},
			{FacultyID: "F2", AvailableSlots: []models.TimeSlot{"Mon_09"}},
		},
		Courses: []models.Course{
			{CourseCode: "C1"},
		},
	}
	scheduled := models.SchedulerResult{PlacementsBySlot: models.NewAssignmentsBySlot([]models.TimeSlot{"Mon_09"})}
	scheduled.PlacementsBySlot.Append("Mon_09", models.Placement{CourseCode: "C1"})

	enriched, _ := NewFacultyOptimiser(zap.NewNop()).Assign(master, scheduled)
	require.NotNil(t, enriched.BySlot["Mon_09"][0].FacultyID)
	assert.Equal(t, "F1", *enriched.BySlot["Mon_09"][0].FacultyID)
}

func TestFacultyOptimiserLeavesPlacementUnassignedWhenNoFacultyAvailable(t *testing.T) {
	master := models.MasterData{
		Faculty: []models.Faculty{
			{FacultyID: "F1", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_10"}},
		},
		Courses: []models.Course{{CourseCode: "C1", PossibleFaculty: []string{"F1"}}},
	}
	scheduled := models.SchedulerResult{PlacementsBySlot: models.NewAssignmentsBySlot([]models.TimeSlot{"Mon_09"})}
	scheduled.PlacementsBySlot.Append("Mon_09", models.Placement{CourseCode: "C1"})

	enriched, facultyTT := NewFacultyOptimiser(zap.NewNop()).Assign(master, scheduled)
	assert.Nil(t, enriched.BySlot["Mon_09"][0].FacultyID)
	assert.Empty(t, facultyTT)
}
