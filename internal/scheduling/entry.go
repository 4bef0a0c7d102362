package scheduling

import (
	"errors"
	"time"
)

// EntryType classifies what kind of event an entry represents.
type EntryType string

const (
	TypeLesson      EntryType = "LESSON"
	TypeGroupClass  EntryType = "GROUP_CLASS"
	TypeRecital     EntryType = "RECITAL"
	TypeExam        EntryType = "EXAM"
	TypeMaintenance EntryType = "MAINTENANCE"
	TypeMeeting     EntryType = "MEETING"
)

// EntryStatus tracks an entry through its lifecycle state machine.
type EntryStatus string

const (
	StatusScheduled   EntryStatus = "SCHEDULED"
	StatusConfirmed   EntryStatus = "CONFIRMED"
	StatusInProgress  EntryStatus = "IN_PROGRESS"
	StatusCompleted   EntryStatus = "COMPLETED"
	StatusCancelled   EntryStatus = "CANCELLED"
	StatusNoShow      EntryStatus = "NO_SHOW"
	StatusRescheduled EntryStatus = "RESCHEDULED"
)

// transitions enumerates the legal status moves. Cancelling an already
// cancelled entry is permitted so repeated cancellation stays idempotent, and
// a rescheduled entry keeps its forward transitions because the reschedule
// overwrites the same row in place rather than creating a replacement entry.
var transitions = map[EntryStatus][]EntryStatus{
	StatusScheduled:   {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusConfirmed:   {StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusInProgress:  {StatusCompleted},
	StatusRescheduled: {StatusConfirmed, StatusInProgress, StatusCancelled, StatusNoShow, StatusRescheduled},
	StatusCancelled:   {StatusCancelled},
	StatusCompleted:   {},
	StatusNoShow:      {},
}

// CanTransitionTo reports whether moving from the receiver status to next is a
// legal state machine step.
func (s EntryStatus) CanTransitionTo(next EntryStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ErrInvalidInterval is returned when an entry's end time is not strictly
// after its start time.
var ErrInvalidInterval = errors.New("scheduling: end time must be after start time")

// Entry is a single scheduled event with a fixed time interval. Instructor,
// student, and course references are lookup keys resolved through external
// directories; the entry never owns the referenced records.
type Entry struct {
	ID          string
	Title       string
	Description string
	Type        EntryType
	Status      EntryStatus
	Start       time.Time
	End         time.Time

	Room         *string
	InstructorID *string
	StudentID    *string
	CourseID     *string

	Recurring      bool
	RecurrenceRule *string
	ParentEntryID  *string

	Notes              string
	CancelledAt        *time.Time
	CancellationReason *string
	RescheduledFrom    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the interval invariant. It must pass before any store
// interaction takes place.
func (e Entry) Validate() error {
	if !e.End.After(e.Start) {
		return ErrInvalidInterval
	}
	return nil
}

// Occupies reports whether the entry still blocks its slot for conflict
// detection and availability. Cancelled and rescheduled entries release the
// slot; completed and no-show entries keep occupying their original interval.
func (e Entry) Occupies() bool {
	return e.Status != StatusCancelled && e.Status != StatusRescheduled
}

// IsTemplate reports whether the entry defines a recurring series rather than
// being a generated occurrence.
func (e Entry) IsTemplate() bool {
	return e.Recurring && e.ParentEntryID == nil
}

// SubjectKind identifies which resource dimension a schedule query targets.
type SubjectKind string

const (
	SubjectInstructor SubjectKind = "instructor"
	SubjectStudent    SubjectKind = "student"
	SubjectRoom       SubjectKind = "room"
)

// Subject names a bookable resource: an instructor, a student, or a room.
type Subject struct {
	Kind SubjectKind
	ID   string
}
