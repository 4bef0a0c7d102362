package scheduling

import (
	"fmt"
	"time"
)

// ConflictType describes which shared resource two entries contend for.
type ConflictType string

const (
	ConflictInstructorDoubleBooking ConflictType = "INSTRUCTOR_DOUBLE_BOOKING"
	ConflictRoomDoubleBooking       ConflictType = "ROOM_DOUBLE_BOOKING"
	ConflictStudentDoubleBooking    ConflictType = "STUDENT_DOUBLE_BOOKING"
	ConflictTimeOverlap             ConflictType = "TIME_OVERLAP"
	ConflictResource                ConflictType = "RESOURCE_CONFLICT"
)

// Conflict records a detected contention between two entries. Conflicts are
// created by detection, mutated only by explicit resolution, and never deleted
// automatically.
type Conflict struct {
	ID                 string
	EntryID            string
	ConflictingEntryID string
	Type               ConflictType
	Description        string
	Resolved           bool
	ResolvedAt         *time.Time
	ResolutionNotes    *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ConflictNames carries the display names used in conflict descriptions. When
// a directory lookup fails the caller substitutes the raw identifier.
type ConflictNames struct {
	Instructor string
	Student    string
}

// DetectConflicts evaluates the candidate against entries already booked on
// each resource dimension and returns one conflict per contending entry. The
// dimensions are independent: a single candidate may produce conflicts of
// several types at once, and no deduplication happens across dimensions.
//
// Detection never rejects the candidate; the caller decides whether to persist
// it alongside the returned conflicts.
func DetectConflicts(candidate Entry, instructorBusy, studentBusy, roomBusy []Entry, names ConflictNames) []Conflict {
	conflicts := make([]Conflict, 0)

	if candidate.InstructorID != nil {
		name := names.Instructor
		if name == "" {
			name = *candidate.InstructorID
		}
		description := fmt.Sprintf("Instructor %s is already scheduled at this time", name)
		conflicts = append(conflicts, detectAgainst(candidate, instructorBusy, ConflictInstructorDoubleBooking, description)...)
	}

	if candidate.StudentID != nil {
		name := names.Student
		if name == "" {
			name = *candidate.StudentID
		}
		description := fmt.Sprintf("Student %s is already scheduled at this time", name)
		conflicts = append(conflicts, detectAgainst(candidate, studentBusy, ConflictStudentDoubleBooking, description)...)
	}

	if candidate.Room != nil {
		description := fmt.Sprintf("Room %s is already booked at this time", *candidate.Room)
		conflicts = append(conflicts, detectAgainst(candidate, roomBusy, ConflictRoomDoubleBooking, description)...)
	}

	return conflicts
}

// detectAgainst emits one conflict per busy entry that overlaps the candidate.
// The candidate itself is skipped so re-checking a persisted entry during a
// reschedule does not report a self-conflict.
func detectAgainst(candidate Entry, busy []Entry, conflictType ConflictType, description string) []Conflict {
	var conflicts []Conflict
	for _, existing := range busy {
		if existing.ID == candidate.ID {
			continue
		}
		if !existing.Occupies() {
			continue
		}
		if !Overlaps(candidate.Start, candidate.End, existing.Start, existing.End) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			EntryID:            candidate.ID,
			ConflictingEntryID: existing.ID,
			Type:               conflictType,
			Description:        description,
		})
	}
	return conflicts
}
