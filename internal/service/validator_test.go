package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-timetable/internal/models"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }

func baseMasterData() models.MasterData {
	return models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"},
		Rooms: []models.Room{
			{RoomID: "R1", Type: models.RoomTypeTheory, AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"}},
		},
		Faculty: []models.Faculty{
			{FacultyID: "F1", Expertise: []string{"C1"}, AvailableSlots: []models.TimeSlot{"Mon_09", "Mon_10", "Mon_11"}},
		},
		StudentGroups: []models.StudentGroup{
			{GroupID: "G1", Students: []string{"S1", "S2"}},
		},
		Courses: []models.Course{
			{CourseCode: "C1", StudentGroups: []string{"G1"}, SessionsPerWeek: intPtr(1), PossibleFaculty: []string{"F1"}},
		},
	}
}

func TestValidatorCleanScheduleHasNoViolations(t *testing.T) {
	master := baseMasterData()
	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})
	assignments.SortPlacements()

	result := models.Result{Assignments: assignments}
	violations := NewValidator().Check(result, master)
	assert.Empty(t, violations)
}

func TestValidatorFlagsUnknownSlotAndRoom(t *testing.T) {
	master := baseMasterData()
	assignments := models.NewAssignmentsBySlot(append(master.TimeSlots, "Wed_09"))
	assignments.Append("Wed_09", models.Placement{CourseCode: "C1", RoomID: "RX", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Slot Wed_09 is not in master slots")
	assert.Contains(t, violations, "Room RX used at Wed_09 not found")
}

func TestValidatorFlagsRoomDoubleBookingAndUnavailability(t *testing.T) {
	master := baseMasterData()
	master.Courses = append(master.Courses, models.Course{CourseCode: "C2", StudentGroups: []string{"G1"}, SessionsPerWeek: intPtr(1)})
	master.Rooms[0].AvailableSlots = []models.TimeSlot{"Mon_10", "Mon_11"}

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})
	assignments.Append("Mon_09", models.Placement{CourseCode: "C2", RoomID: "R1"})
	assignments.SortPlacements()

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Room R1 not available at Mon_09")
	assert.Contains(t, violations, "Room R1 double-booked at Mon_09")
}

func TestValidatorFlagsRoomCapacityInsufficient(t *testing.T) {
	master := baseMasterData()
	master.Rooms[0].Capacity = intPtr(1)

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Room R1 capacity 1 insufficient for C1 (needs 2)")
}

func TestValidatorFacultyChecks(t *testing.T) {
	master := baseMasterData()
	master.Faculty[0].AvailableSlots = []models.TimeSlot{"Mon_10"}
	master.Faculty[0].MaxHoursPerWeek = 1
	master.Courses = append(master.Courses, models.Course{CourseCode: "C2", StudentGroups: []string{"G1"}, SessionsPerWeek: intPtr(1)})

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1"})
	assignments.Append("Mon_10", models.Placement{CourseCode: "C2", FacultyID: strPtr("FX")})
	assignments.SortPlacements()

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "No faculty assigned for C1 at Mon_09")
	assert.Contains(t, violations, "Faculty FX assigned at Mon_10 not in master list")
}

func TestValidatorFlagsFacultyDoubleBookingAndLoad(t *testing.T) {
	master := baseMasterData()
	master.Faculty[0].MaxHoursPerWeek = 1
	master.Courses = append(master.Courses, models.Course{CourseCode: "C2", StudentGroups: []string{"G1"}, SessionsPerWeek: intPtr(1)})

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})
	assignments.Append("Mon_09", models.Placement{CourseCode: "C2", RoomID: "R1", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Faculty F1 double-booked at Mon_09")
	assert.Contains(t, violations, "Faculty F1 exceeds weekly load: 2/1")
}

func TestValidatorFlagsGroupDoubleBooking(t *testing.T) {
	master := baseMasterData()
	master.Courses = append(master.Courses, models.Course{CourseCode: "C2", StudentGroups: []string{"G1"}, SessionsPerWeek: intPtr(1)})

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})
	assignments.Append("Mon_09", models.Placement{CourseCode: "C2", RoomID: "R1", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Group G1 has multiple classes at Mon_09")
}

func TestValidatorFlagsSessionCountMismatch(t *testing.T) {
	master := baseMasterData()
	master.Courses[0].SessionsPerWeek = intPtr(2)

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Course C1 requires 2 sessions/week but scheduled 1")
}

// Total credits can meet the overall minimum while a specific track still
// falls short, and the two checks must report independently.
func TestValidatorCreditComplianceMajorMinimum(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09"},
		Courses: []models.Course{
			{CourseCode: "M1", StudentGroups: []string{"G"}, CreditHours: floatPtr(3), CourseTrack: "major"},
			{CourseCode: "N1", StudentGroups: []string{"G"}, CreditHours: floatPtr(3), CourseTrack: "minor"},
		},
		StudentGroups: []models.StudentGroup{
			{
				GroupID: "G",
				CourseChoices: models.CourseChoices{
					IsMapping: true,
					ByTrack:   map[string][]string{"major": {"M1"}, "minor": {"N1"}},
				},
				CreditRequirements: &models.CreditRequirements{Min: floatPtr(6), MajorMin: floatPtr(4)},
			},
		},
	}

	violations := NewValidator().Check(models.Result{Assignments: models.NewAssignmentsBySlot(master.TimeSlots)}, master)
	assert.Contains(t, violations, "Group G major credits 3 below required 4")
	for _, v := range violations {
		assert.NotContains(t, v, "total credits 6 below minimum")
	}
}

func TestValidatorFlagsOutOfChoiceCourse(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09"},
		Courses: []models.Course{
			{CourseCode: "X1", StudentGroups: []string{"G"}, CreditHours: floatPtr(3)},
		},
		StudentGroups: []models.StudentGroup{
			{
				GroupID:            "G",
				CourseChoices:      models.CourseChoices{Flat: []string{"M1"}},
				CreditRequirements: &models.CreditRequirements{Min: floatPtr(3)},
			},
		},
	}

	violations := NewValidator().Check(models.Result{Assignments: models.NewAssignmentsBySlot(master.TimeSlots)}, master)
	assert.Contains(t, violations, "Group G assigned to X1 which is outside declared choices")
}

// Credit checks, including the declared-choices one, only apply to groups
// that declare credit requirements.
func TestValidatorSkipsChoiceCheckWithoutCreditRequirements(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09"},
		Courses: []models.Course{
			{CourseCode: "X1", StudentGroups: []string{"G"}, CreditHours: floatPtr(3)},
		},
		StudentGroups: []models.StudentGroup{
			{GroupID: "G", CourseChoices: models.CourseChoices{Flat: []string{"M1"}}},
		},
	}

	violations := NewValidator().Check(models.Result{Assignments: models.NewAssignmentsBySlot(master.TimeSlots)}, master)
	for _, v := range violations {
		assert.NotContains(t, v, "outside declared choices")
	}
}

func TestValidatorTeachingPracticeWindow(t *testing.T) {
	master := models.MasterData{
		TimeSlots: []models.TimeSlot{"Mon_09", "Mon_10"},
		Courses: []models.Course{
			{CourseCode: "TP1", StudentGroups: []string{"G"}, SessionsPerWeek: intPtr(1), TeachingPracticeRequired: true},
		},
		StudentGroups: []models.StudentGroup{{GroupID: "G", Students: []string{"S1"}}},
		TeachingPracticeWindows: map[string][]models.TimeSlot{
			"G": {"Mon_10"},
		},
	}

	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "TP1", RoomID: "R1", FacultyID: strPtr("F1")})

	violations := NewValidator().Check(models.Result{Assignments: assignments}, master)
	assert.Contains(t, violations, "Teaching practice course TP1 for G scheduled at Mon_09 outside approved window")
}

func TestValidatorIsPureAndRepeatable(t *testing.T) {
	master := baseMasterData()
	assignments := models.NewAssignmentsBySlot(master.TimeSlots)
	assignments.Append("Mon_09", models.Placement{CourseCode: "C1", RoomID: "R1", FacultyID: strPtr("F1")})

	v := NewValidator()
	first := v.Check(models.Result{Assignments: assignments}, master)
	second := v.Check(models.Result{Assignments: assignments}, master)
	require.Equal(t, first, second)
}
