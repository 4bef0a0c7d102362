package application

import (
	"time"

	"github.com/example/musicschool-scheduler/internal/scheduling"
)

// EntryInput captures the caller provided fields for a new schedule entry.
// Instructor, student, course, and room are optional weak references.
type EntryInput struct {
	Title        string
	Description  string
	Type         scheduling.EntryType
	Start        time.Time
	End          time.Time
	Room         *string
	InstructorID *string
	StudentID    *string
	CourseID     *string
	Notes        string
}
