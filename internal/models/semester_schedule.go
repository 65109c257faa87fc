package models

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

// SemesterScheduleStatus represents lifecycle phases for a stored generated
// timetable.
type SemesterScheduleStatus string

const (
	SemesterScheduleStatusDraft     SemesterScheduleStatus = "DRAFT"
	SemesterScheduleStatusPublished SemesterScheduleStatus = "PUBLISHED"
	SemesterScheduleStatusArchived  SemesterScheduleStatus = "ARCHIVED"
)

// SemesterSchedule captures a versioned generate() run for a given
// request key (caller-chosen, e.g. a program or cohort identifier — this
// service has no class/term entities of its own, so callers key their own
// runs). Meta carries the arbitrary JSON a caller wants preserved alongside
// the run, such as the master_data digest or a free-text label.
type SemesterSchedule struct {
	ID         string                 `db:"id" json:"id"`
	RequestKey string                 `db:"request_key" json:"request_key"`
	Version    int                    `db:"version" json:"version"`
	Status     SemesterScheduleStatus `db:"status" json:"status"`
	Violations int                    `db:"violations" json:"violations"`
	Meta       types.JSONText         `db:"meta" json:"meta"`
	CreatedAt  time.Time              `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time              `db:"updated_at" json:"updated_at"`
}

// SemesterScheduleSlot is one persisted Placement belonging to a stored
// SemesterSchedule.
type SemesterScheduleSlot struct {
	ID                 string    `db:"id" json:"id"`
	SemesterScheduleID string    `db:"semester_schedule_id" json:"semester_schedule_id"`
	Slot               string    `db:"slot" json:"slot"`
	CourseCode         string    `db:"course_code" json:"course_code"`
	RoomID             string    `db:"room_id" json:"room_id"`
	FacultyID          *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
}

// SemesterScheduleSummary aggregates versions available for a request key.
type SemesterScheduleSummary struct {
	RequestKey string                 `json:"request_key"`
	ActiveID   *string                `json:"active_id,omitempty"`
	Versions   []SemesterScheduleMeta `json:"versions"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// SemesterScheduleMeta represents lightweight metadata for list views.
type SemesterScheduleMeta struct {
	ID         string                 `json:"id"`
	Version    int                    `json:"version"`
	Status     SemesterScheduleStatus `json:"status"`
	Violations int                    `json:"violations"`
	CreatedAt  time.Time              `json:"created_at"`
}

// ToSlots converts a generated Result's assignments into the flat rows this
// package persists, keyed to semesterScheduleID.
func ToSlots(semesterScheduleID string, result Result) []SemesterScheduleSlot {
	rows := make([]SemesterScheduleSlot, 0)
	for _, slot := range result.Assignments.OccupiedSlots() {
		for _, p := range result.Assignments.BySlot[slot] {
			rows = append(rows, SemesterScheduleSlot{
				SemesterScheduleID: semesterScheduleID,
				Slot:               string(slot),
				CourseCode:         p.CourseCode,
				RoomID:             p.RoomID,
				FacultyID:          p.FacultyID,
			})
		}
	}
	return rows
}
