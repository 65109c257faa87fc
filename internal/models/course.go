package models

import (
	"math"
	"strings"
)

// Course is a unit of instruction offered to one or more student groups.
type Course struct {
	CourseCode               string         `json:"course_code"`
	Name                     string         `json:"name,omitempty"`
	CreditHours              *float64       `json:"credit_hours,omitempty"`
	HoursPerWeek             *float64       `json:"hours_per_week,omitempty"`
	SessionsPerWeek          *int           `json:"sessions_per_week,omitempty"`
	Components               map[string]int `json:"components,omitempty"`
	LabRequired              bool           `json:"lab_required,omitempty"`
	StudentGroups            []string       `json:"student_groups"`
	PossibleFaculty          []string       `json:"possible_faculty,omitempty"`
	CourseTrack              string         `json:"course_track,omitempty"`
	Program                  string         `json:"program,omitempty"`
	TeachingPracticeRequired bool           `json:"teaching_practice_required,omitempty"`
}

// RequiredSessions computes the weekly placement count per the deterministic,
// first-match-wins rule: sessions_per_week when set (even zero), else the
// sum of components floored at 1 when the map is non-empty, else
// credit_hours/hours_per_week rounded down, else 1. The scheduler and
// validator both call this so the two can never disagree.
func (c Course) RequiredSessions() int {
	if c.SessionsPerWeek != nil {
		return *c.SessionsPerWeek
	}

	if len(c.Components) > 0 {
		sum := 0
		for _, v := range c.Components {
			sum += v
		}
		if sum < 1 {
			sum = 1
		}
		return sum
	}

	if c.CreditHours != nil || c.HoursPerWeek != nil {
		var raw float64
		if c.CreditHours != nil {
			raw = *c.CreditHours
		} else {
			raw = *c.HoursPerWeek
		}
		floored := int(math.Floor(raw))
		if floored >= 1 {
			return floored
		}
	}

	return 1
}

// RequiresLab reports whether the course may only be placed in lab rooms:
// an explicit lab_required flag, or a components map whose practicum+lab
// total is positive.
func (c Course) RequiresLab() bool {
	if c.LabRequired {
		return true
	}
	if len(c.Components) == 0 {
		return false
	}
	return c.Components["practicum"]+c.Components["lab"] > 0
}

// CreditValue resolves the credit figure used for credit-compliance checks:
// credit_hours if present, else hours_per_week, else zero.
func (c Course) CreditValue() float64 {
	if c.CreditHours != nil {
		return *c.CreditHours
	}
	if c.HoursPerWeek != nil {
		return *c.HoursPerWeek
	}
	return 0
}

// Track returns the lowercased course track, defaulting to "elective".
func (c Course) Track() string {
	if c.CourseTrack == "" {
		return "elective"
	}
	return strings.ToLower(c.CourseTrack)
}
