package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// CourseChoices holds a student group's elected courses, which input data
// may express either as a flat list or as a track-label→courses mapping.
// Track attribution in the validator depends on which shape was used, so
// both are preserved rather than flattened eagerly.
type CourseChoices struct {
	Flat      []string
	ByTrack   map[string][]string
	IsMapping bool
}

// UnmarshalJSON accepts either a JSON array of course codes or an object
// mapping track label to an array of course codes.
func (c *CourseChoices) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return nil
	}

	switch trimmed[0] {
	case '[':
		var flat []string
		if err := json.Unmarshal(trimmed, &flat); err != nil {
			return fmt.Errorf("decode course_choices list: %w", err)
		}
		c.Flat = flat
		c.IsMapping = false
		return nil
	case '{':
		var byTrack map[string][]string
		if err := json.Unmarshal(trimmed, &byTrack); err != nil {
			return fmt.Errorf("decode course_choices mapping: %w", err)
		}
		c.ByTrack = byTrack
		c.IsMapping = true
		return nil
	default:
		return fmt.Errorf("course_choices must be an array or object")
	}
}

// MarshalJSON round-trips whichever shape was parsed.
func (c CourseChoices) MarshalJSON() ([]byte, error) {
	if c.IsMapping {
		return json.Marshal(c.ByTrack)
	}
	return json.Marshal(c.Flat)
}

// AllCourses flattens every declared course code regardless of shape.
func (c CourseChoices) AllCourses() []string {
	if !c.IsMapping {
		return c.Flat
	}
	out := make([]string, 0)
	for _, courses := range c.ByTrack {
		out = append(out, courses...)
	}
	return out
}

// Empty reports whether no choices were declared at all.
func (c CourseChoices) Empty() bool {
	if c.IsMapping {
		return len(c.ByTrack) == 0
	}
	return len(c.Flat) == 0
}

// TrackFor returns the declared track label for courseCode when choices are
// a mapping, and whether it was found.
func (c CourseChoices) TrackFor(courseCode string) (string, bool) {
	if !c.IsMapping {
		return "", false
	}
	for track, courses := range c.ByTrack {
		for _, code := range courses {
			if code == courseCode {
				return track, true
			}
		}
	}
	return "", false
}

// CreditRequirements expresses per-group minimum/maximum credit targets,
// overall and per track.
type CreditRequirements struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	MajorMin *float64 `json:"major_min,omitempty"`
	MinorMin *float64 `json:"minor_min,omitempty"`
	SkillMin *float64 `json:"skill_min,omitempty"`
}

// StudentGroup is a cohort of students sharing the same course choices.
type StudentGroup struct {
	GroupID            string              `json:"group_id"`
	Students           []string            `json:"students"`
	CourseChoices      CourseChoices       `json:"course_choices"`
	CreditRequirements *CreditRequirements `json:"credit_requirements,omitempty"`
}
