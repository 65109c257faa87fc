package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourseRequiredSessions(t *testing.T) {
	zero := 0
	three := 3
	credits := 3.7

	cases := []struct {
		name   string
		course Course
		want   int
	}{
		{"explicit sessions", Course{SessionsPerWeek: &three}, 3},
		{"explicit zero sessions wins over fallbacks", Course{SessionsPerWeek: &zero, CreditHours: &credits}, 0},
		{"components sum", Course{Components: map[string]int{"practicum": 2, "lab": 1}}, 3},
		{"components summing to zero floor at one", Course{Components: map[string]int{"practicum": 0}}, 1},
		{"credit hours floored", Course{CreditHours: &credits}, 3},
		{"default", Course{}, 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.course.RequiredSessions())
		})
	}
}

func TestCourseRequiresLab(t *testing.T) {
	assert.True(t, Course{LabRequired: true}.RequiresLab())
	assert.True(t, Course{Components: map[string]int{"practicum": 1}}.RequiresLab())
	assert.True(t, Course{Components: map[string]int{"lab": 2}}.RequiresLab())
	assert.False(t, Course{Components: map[string]int{"seminar": 2}}.RequiresLab())
	assert.False(t, Course{}.RequiresLab())
}
