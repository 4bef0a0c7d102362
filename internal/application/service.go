package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/musicschool-scheduler/internal/persistence"
	"github.com/example/musicschool-scheduler/internal/scheduling"
	"go.uber.org/zap"
)

// SchedulingService orchestrates entry creation, cancellation, rescheduling,
// recurring generation, conflict detection, and availability lookups. It is
// the only caller permitted to mutate entry status.
//
// Detected conflicts do not reject a single entry: they are persisted for
// manual review and the entry is saved anyway. Recurring generation is
// stricter and silently skips occurrences with any conflict. Both policies
// match the behavior schedule consumers already rely on.
type SchedulingService struct {
	store       persistence.Store
	instructors InstructorDirectory
	students    StudentDirectory
	courses     CourseDirectory
	idGenerator func() string
	now         func() time.Time
	granularity time.Duration
	logger      *zap.Logger
}

// NewSchedulingService wires dependencies for scheduling operations. A zero
// granularity selects the default one-hour availability slots; a nil logger
// disables logging.
func NewSchedulingService(
	store persistence.Store,
	instructors InstructorDirectory,
	students StudentDirectory,
	courses CourseDirectory,
	idGenerator func() string,
	now func() time.Time,
	granularity time.Duration,
	logger *zap.Logger,
) *SchedulingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if granularity <= 0 {
		granularity = scheduling.DefaultSlotGranularity
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchedulingService{
		store:       store,
		instructors: instructors,
		students:    students,
		courses:     courses,
		idGenerator: idGenerator,
		now:         now,
		granularity: granularity,
		logger:      logger,
	}
}

// CreateEntry validates the candidate, detects conflicts, and persists the
// entry together with any conflict records in one transaction. Conflicts are
// returned to the caller but never block creation.
func (s *SchedulingService) CreateEntry(ctx context.Context, input EntryInput) (scheduling.Entry, []scheduling.Conflict, error) {
	entry := s.newEntry(input)
	if err := entry.Validate(); err != nil {
		return scheduling.Entry{}, nil, err
	}
	if err := s.checkCourse(ctx, entry.CourseID); err != nil {
		return scheduling.Entry{}, nil, err
	}

	var conflicts []scheduling.Conflict
	err := s.store.InTransaction(ctx, func(store persistence.Store) error {
		detected, err := s.detect(ctx, store, entry)
		if err != nil {
			return err
		}
		conflicts = s.stampConflicts(detected)

		if err := store.CreateEntry(ctx, entry); err != nil {
			return fmt.Errorf("create entry: %w", err)
		}
		if err := store.CreateConflicts(ctx, conflicts); err != nil {
			return fmt.Errorf("record conflicts: %w", err)
		}
		return nil
	})
	if err != nil {
		return scheduling.Entry{}, nil, err
	}

	s.logger.Info("schedule entry created",
		zap.String("entry_id", entry.ID),
		zap.String("type", string(entry.Type)),
		zap.Int("conflicts", len(conflicts)))
	return entry, conflicts, nil
}

// CreateRecurring generates up to pattern.Occurrences entries from the
// template, advancing start and end by one pattern step per occurrence. The
// template itself is a prototype and is not persisted; generated entries
// reference it through ParentEntryID. Occurrences with any detected conflict
// are skipped, so the result may be shorter than requested.
func (s *SchedulingService) CreateRecurring(ctx context.Context, input EntryInput, pattern scheduling.Pattern) ([]scheduling.Entry, error) {
	if err := validatePattern(pattern); err != nil {
		return nil, err
	}

	template := s.newEntry(input)
	template.Recurring = true
	if err := template.Validate(); err != nil {
		return nil, err
	}
	if err := s.checkCourse(ctx, template.CourseID); err != nil {
		return nil, err
	}

	encoded, err := pattern.Encode()
	if err != nil {
		return nil, err
	}

	created := make([]scheduling.Entry, 0, pattern.Occurrences)
	err = s.store.InTransaction(ctx, func(store persistence.Store) error {
		start, end := template.Start, template.End

		for i := 0; i < pattern.Occurrences; i++ {
			occurrence := template
			occurrence.ID = s.idGenerator()
			occurrence.Start = start
			occurrence.End = end
			occurrence.ParentEntryID = &template.ID
			occurrence.RecurrenceRule = &encoded

			detected, err := s.detect(ctx, store, occurrence)
			if err != nil {
				return err
			}
			if len(detected) == 0 {
				if err := store.CreateEntry(ctx, occurrence); err != nil {
					return fmt.Errorf("create occurrence %d: %w", i, err)
				}
				created = append(created, occurrence)
			}

			start = pattern.Advance(start)
			end = pattern.Advance(end)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recurring schedule created",
		zap.String("template_id", template.ID),
		zap.Int("requested", pattern.Occurrences),
		zap.Int("created", len(created)))
	return created, nil
}

// DetectConflicts is a read-only probe: it reports the conflicts the candidate
// would produce without persisting anything.
func (s *SchedulingService) DetectConflicts(ctx context.Context, candidate scheduling.Entry) ([]scheduling.Conflict, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	return s.detect(ctx, s.store, candidate)
}

// ResolveConflict marks a conflict record resolved with the supplied notes.
func (s *SchedulingService) ResolveConflict(ctx context.Context, conflictID, notes string) (scheduling.Conflict, error) {
	var resolved scheduling.Conflict
	err := s.store.InTransaction(ctx, func(store persistence.Store) error {
		conflict, err := store.GetConflict(ctx, conflictID)
		if err != nil {
			return mapNotFound(err)
		}

		now := s.now()
		conflict.Resolved = true
		conflict.ResolvedAt = &now
		conflict.ResolutionNotes = &notes
		conflict.UpdatedAt = now

		if err := store.UpdateConflict(ctx, conflict); err != nil {
			return fmt.Errorf("update conflict: %w", err)
		}
		resolved = conflict
		return nil
	})
	if err != nil {
		return scheduling.Conflict{}, err
	}

	s.logger.Info("conflict resolved", zap.String("conflict_id", conflictID))
	return resolved, nil
}

// ListConflicts returns conflict records matching the filter.
func (s *SchedulingService) ListConflicts(ctx context.Context, filter persistence.ConflictFilter) ([]scheduling.Conflict, error) {
	return s.store.ListConflicts(ctx, filter)
}

// Availability returns the subject's free slots within [windowStart,
// windowEnd) at the service's configured granularity. Instructor subjects are
// validated against the directory; rooms are plain identifiers.
func (s *SchedulingService) Availability(ctx context.Context, subject scheduling.Subject, windowStart, windowEnd time.Time) ([]scheduling.TimeSlot, error) {
	switch subject.Kind {
	case scheduling.SubjectInstructor:
		if _, err := s.instructors.InstructorName(ctx, subject.ID); err != nil {
			return nil, mapNotFound(err)
		}
	case scheduling.SubjectRoom:
	default:
		vErr := &ValidationError{}
		vErr.add("subject", fmt.Sprintf("availability is not supported for subject kind %q", subject.Kind))
		return nil, vErr
	}

	booked, err := s.store.ListOverlapping(ctx, subject, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return scheduling.FreeSlots(windowStart, windowEnd, s.granularity, booked), nil
}

// EntriesInRange returns all entries starting within [start, end) ordered by
// start time.
func (s *SchedulingService) EntriesInRange(ctx context.Context, start, end time.Time) ([]scheduling.Entry, error) {
	return s.store.ListEntries(ctx, persistence.EntryFilter{StartsAfter: &start, EndsBefore: &end})
}

// InstructorSchedule returns the instructor's bookings overlapping the window.
func (s *SchedulingService) InstructorSchedule(ctx context.Context, instructorID string, start, end time.Time) ([]scheduling.Entry, error) {
	if _, err := s.instructors.InstructorName(ctx, instructorID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.store.ListOverlapping(ctx, scheduling.Subject{Kind: scheduling.SubjectInstructor, ID: instructorID}, start, end)
}

// StudentSchedule returns the student's bookings overlapping the window.
func (s *SchedulingService) StudentSchedule(ctx context.Context, studentID string, start, end time.Time) ([]scheduling.Entry, error) {
	if _, err := s.students.StudentName(ctx, studentID); err != nil {
		return nil, mapNotFound(err)
	}
	return s.store.ListOverlapping(ctx, scheduling.Subject{Kind: scheduling.SubjectStudent, ID: studentID}, start, end)
}

// CancelEntry cancels a schedule entry, recording the reason and the
// cancellation instant. Cancelling an already cancelled entry overwrites the
// reason and timestamp rather than failing.
func (s *SchedulingService) CancelEntry(ctx context.Context, id, reason string) (scheduling.Entry, error) {
	var cancelled scheduling.Entry
	err := s.store.InTransaction(ctx, func(store persistence.Store) error {
		entry, err := store.GetEntry(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := checkTransition(entry.Status, scheduling.StatusCancelled); err != nil {
			return err
		}

		now := s.now()
		entry.Status = scheduling.StatusCancelled
		entry.CancelledAt = &now
		entry.CancellationReason = &reason
		entry.UpdatedAt = now

		if err := store.UpdateEntry(ctx, entry); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		cancelled = entry
		return nil
	})
	if err != nil {
		return scheduling.Entry{}, err
	}

	s.logger.Info("schedule entry cancelled",
		zap.String("entry_id", id),
		zap.String("reason", reason))
	return cancelled, nil
}

// Reschedule moves an entry to new times in place. The previous start time is
// recorded as provenance, the status becomes RESCHEDULED, and conflicts are
// re-detected against the new interval and persisted without blocking.
func (s *SchedulingService) Reschedule(ctx context.Context, id string, newStart, newEnd time.Time) (scheduling.Entry, []scheduling.Conflict, error) {
	if !newEnd.After(newStart) {
		return scheduling.Entry{}, nil, scheduling.ErrInvalidInterval
	}

	var rescheduled scheduling.Entry
	var conflicts []scheduling.Conflict
	err := s.store.InTransaction(ctx, func(store persistence.Store) error {
		entry, err := store.GetEntry(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := checkTransition(entry.Status, scheduling.StatusRescheduled); err != nil {
			return err
		}

		oldStart := entry.Start
		entry.RescheduledFrom = &oldStart
		entry.Start = newStart
		entry.End = newEnd
		entry.Status = scheduling.StatusRescheduled
		entry.UpdatedAt = s.now()

		detected, err := s.detect(ctx, store, entry)
		if err != nil {
			return err
		}
		conflicts = s.stampConflicts(detected)

		if err := store.UpdateEntry(ctx, entry); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		if err := store.CreateConflicts(ctx, conflicts); err != nil {
			return fmt.Errorf("record conflicts: %w", err)
		}
		rescheduled = entry
		return nil
	})
	if err != nil {
		return scheduling.Entry{}, nil, err
	}

	s.logger.Info("schedule entry rescheduled",
		zap.String("entry_id", id),
		zap.Time("new_start", newStart),
		zap.Int("conflicts", len(conflicts)))
	return rescheduled, conflicts, nil
}

// ConfirmEntry moves a scheduled entry to CONFIRMED.
func (s *SchedulingService) ConfirmEntry(ctx context.Context, id string) (scheduling.Entry, error) {
	return s.transition(ctx, id, scheduling.StatusConfirmed)
}

// StartEntry moves an entry to IN_PROGRESS.
func (s *SchedulingService) StartEntry(ctx context.Context, id string) (scheduling.Entry, error) {
	return s.transition(ctx, id, scheduling.StatusInProgress)
}

// CompleteEntry moves an in-progress entry to COMPLETED.
func (s *SchedulingService) CompleteEntry(ctx context.Context, id string) (scheduling.Entry, error) {
	return s.transition(ctx, id, scheduling.StatusCompleted)
}

// MarkNoShow records that the student did not attend.
func (s *SchedulingService) MarkNoShow(ctx context.Context, id string) (scheduling.Entry, error) {
	return s.transition(ctx, id, scheduling.StatusNoShow)
}

// ListOverdue returns entries still SCHEDULED whose start time has passed.
func (s *SchedulingService) ListOverdue(ctx context.Context) ([]scheduling.Entry, error) {
	return s.store.ListOverdue(ctx, s.now())
}

func (s *SchedulingService) transition(ctx context.Context, id string, next scheduling.EntryStatus) (scheduling.Entry, error) {
	var updated scheduling.Entry
	err := s.store.InTransaction(ctx, func(store persistence.Store) error {
		entry, err := store.GetEntry(ctx, id)
		if err != nil {
			return mapNotFound(err)
		}
		if err := checkTransition(entry.Status, next); err != nil {
			return err
		}

		entry.Status = next
		entry.UpdatedAt = s.now()
		if err := store.UpdateEntry(ctx, entry); err != nil {
			return fmt.Errorf("update entry: %w", err)
		}
		updated = entry
		return nil
	})
	if err != nil {
		return scheduling.Entry{}, err
	}

	s.logger.Info("schedule entry status changed",
		zap.String("entry_id", id),
		zap.String("status", string(next)))
	return updated, nil
}

// detect gathers the busy entries per resource dimension and delegates to the
// pure detector. Directory lookups only decorate descriptions; a failed
// lookup falls back to the raw identifier.
func (s *SchedulingService) detect(ctx context.Context, store persistence.Store, candidate scheduling.Entry) ([]scheduling.Conflict, error) {
	var instructorBusy, studentBusy, roomBusy []scheduling.Entry
	var names scheduling.ConflictNames

	if candidate.InstructorID != nil {
		subject := scheduling.Subject{Kind: scheduling.SubjectInstructor, ID: *candidate.InstructorID}
		entries, err := store.ListOverlapping(ctx, subject, candidate.Start, candidate.End)
		if err != nil {
			return nil, fmt.Errorf("list instructor bookings: %w", err)
		}
		instructorBusy = entries
		if name, err := s.instructors.InstructorName(ctx, *candidate.InstructorID); err == nil {
			names.Instructor = name
		}
	}

	if candidate.StudentID != nil {
		subject := scheduling.Subject{Kind: scheduling.SubjectStudent, ID: *candidate.StudentID}
		entries, err := store.ListOverlapping(ctx, subject, candidate.Start, candidate.End)
		if err != nil {
			return nil, fmt.Errorf("list student bookings: %w", err)
		}
		studentBusy = entries
		if name, err := s.students.StudentName(ctx, *candidate.StudentID); err == nil {
			names.Student = name
		}
	}

	if candidate.Room != nil {
		subject := scheduling.Subject{Kind: scheduling.SubjectRoom, ID: *candidate.Room}
		entries, err := store.ListOverlapping(ctx, subject, candidate.Start, candidate.End)
		if err != nil {
			return nil, fmt.Errorf("list room bookings: %w", err)
		}
		roomBusy = entries
	}

	return scheduling.DetectConflicts(candidate, instructorBusy, studentBusy, roomBusy, names), nil
}

func (s *SchedulingService) newEntry(input EntryInput) scheduling.Entry {
	now := s.now()
	return scheduling.Entry{
		ID:           s.idGenerator(),
		Title:        input.Title,
		Description:  input.Description,
		Type:         input.Type,
		Status:       scheduling.StatusScheduled,
		Start:        input.Start,
		End:          input.End,
		Room:         input.Room,
		InstructorID: input.InstructorID,
		StudentID:    input.StudentID,
		CourseID:     input.CourseID,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *SchedulingService) stampConflicts(conflicts []scheduling.Conflict) []scheduling.Conflict {
	now := s.now()
	for i := range conflicts {
		conflicts[i].ID = s.idGenerator()
		conflicts[i].CreatedAt = now
		conflicts[i].UpdatedAt = now
	}
	return conflicts
}

// checkCourse verifies a course reference resolves before anything is
// persisted. Entries without a course pass through.
func (s *SchedulingService) checkCourse(ctx context.Context, courseID *string) error {
	if courseID == nil {
		return nil
	}
	if _, err := s.courses.CourseName(ctx, *courseID); err != nil {
		return mapNotFound(err)
	}
	return nil
}

func validatePattern(pattern scheduling.Pattern) error {
	vErr := &ValidationError{}
	if !pattern.Frequency.IsKnown() {
		vErr.add("frequency", fmt.Sprintf("unknown recurrence frequency %q", pattern.Frequency))
	}
	if pattern.Interval < 1 {
		vErr.add("interval", "recurrence interval must be at least 1")
	}
	if pattern.Occurrences < 1 {
		vErr.add("occurrences", "recurrence must generate at least one occurrence")
	}
	if vErr.HasErrors() {
		return vErr
	}
	return nil
}

func checkTransition(current, next scheduling.EntryStatus) error {
	if current.CanTransitionTo(next) {
		return nil
	}
	vErr := &ValidationError{}
	vErr.add("status", fmt.Sprintf("cannot transition from %s to %s", current, next))
	return vErr
}

func mapNotFound(err error) error {
	if errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
