package models

import (
	"strconv"
	"strings"
)

// dayOrder maps the weekday prefix of a TimeSlot id to its Mon=0..Fri=4 index.
var dayOrder = map[string]int{
	"Mon": 0,
	"Tue": 1,
	"Wed": 2,
	"Thu": 3,
	"Fri": 4,
}

// TimeSlot is the opaque "<Day>_<Hour>" identifier used throughout the core.
// Only the scheduler parses it to reason about day/hour adjacency; every
// other component treats it as a plain string key.
type TimeSlot string

// Day returns the weekday index (Mon=0 .. Fri=4) and whether parsing succeeded.
func (t TimeSlot) Day() (int, bool) {
	parts := strings.SplitN(string(t), "_", 2)
	if len(parts) != 2 {
		return 0, false
	}
	idx, ok := dayOrder[parts[0]]
	return idx, ok
}

// Hour returns the numeric hour component and whether parsing succeeded.
func (t TimeSlot) Hour() (int, bool) {
	parts := strings.SplitN(string(t), "_", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hour, true
}

// AdjacentTo reports whether t and other fall on the same day with hours
// differing by exactly one.
func (t TimeSlot) AdjacentTo(other TimeSlot) bool {
	d1, ok1 := t.Day()
	d2, ok2 := other.Day()
	if !ok1 || !ok2 || d1 != d2 {
		return false
	}
	h1, ok1 := t.Hour()
	h2, ok2 := other.Hour()
	if !ok1 || !ok2 {
		return false
	}
	diff := h1 - h2
	if diff < 0 {
		diff = -diff
	}
	return diff == 1
}

// IsLate reports whether the slot id contains "17", "18", or "19" as a
// literal substring. The match is deliberately on the whole id rather
// than the parsed hour, so custom ids containing those digits also count.
func (t TimeSlot) IsLate() bool {
	s := string(t)
	return strings.Contains(s, "17") || strings.Contains(s, "18") || strings.Contains(s, "19")
}

func (t TimeSlot) String() string {
	return string(t)
}
