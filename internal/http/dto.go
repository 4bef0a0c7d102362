package http

import (
	"fmt"
	"time"

	"github.com/example/musicschool-scheduler/internal/application"
	"github.com/example/musicschool-scheduler/internal/scheduling"
)

type entryRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Type         string  `json:"type"`
	Start        string  `json:"start"`
	End          string  `json:"end"`
	Room         *string `json:"room,omitempty"`
	InstructorID *string `json:"instructor_id,omitempty"`
	StudentID    *string `json:"student_id,omitempty"`
	CourseID     *string `json:"course_id,omitempty"`
	Notes        string  `json:"notes"`
}

func (r entryRequest) toInput() (application.EntryInput, error) {
	start, err := time.Parse(time.RFC3339, r.Start)
	if err != nil {
		return application.EntryInput{}, fmt.Errorf("parse start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, r.End)
	if err != nil {
		return application.EntryInput{}, fmt.Errorf("parse end: %w", err)
	}
	return application.EntryInput{
		Title:        r.Title,
		Description:  r.Description,
		Type:         scheduling.EntryType(r.Type),
		Start:        start,
		End:          end,
		Room:         r.Room,
		InstructorID: r.InstructorID,
		StudentID:    r.StudentID,
		CourseID:     r.CourseID,
		Notes:        r.Notes,
	}, nil
}

type patternRequest struct {
	Frequency   string `json:"frequency"`
	Interval    int    `json:"interval"`
	Occurrences int    `json:"occurrences"`
}

func (r patternRequest) toPattern() scheduling.Pattern {
	return scheduling.Pattern{
		Frequency:   scheduling.Frequency(r.Frequency),
		Interval:    r.Interval,
		Occurrences: r.Occurrences,
	}
}

type entryDTO struct {
	ID                 string  `json:"id"`
	Title              string  `json:"title"`
	Description        string  `json:"description"`
	Type               string  `json:"type"`
	Status             string  `json:"status"`
	Start              string  `json:"start"`
	End                string  `json:"end"`
	Room               *string `json:"room,omitempty"`
	InstructorID       *string `json:"instructor_id,omitempty"`
	StudentID          *string `json:"student_id,omitempty"`
	CourseID           *string `json:"course_id,omitempty"`
	Recurring          bool    `json:"recurring"`
	RecurrenceRule     *string `json:"recurrence_rule,omitempty"`
	ParentEntryID      *string `json:"parent_entry_id,omitempty"`
	Notes              string  `json:"notes"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	RescheduledFrom    *string `json:"rescheduled_from,omitempty"`
}

func toEntryDTO(entry scheduling.Entry) entryDTO {
	return entryDTO{
		ID:                 entry.ID,
		Title:              entry.Title,
		Description:        entry.Description,
		Type:               string(entry.Type),
		Status:             string(entry.Status),
		Start:              entry.Start.Format(time.RFC3339),
		End:                entry.End.Format(time.RFC3339),
		Room:               entry.Room,
		InstructorID:       entry.InstructorID,
		StudentID:          entry.StudentID,
		CourseID:           entry.CourseID,
		Recurring:          entry.Recurring,
		RecurrenceRule:     entry.RecurrenceRule,
		ParentEntryID:      entry.ParentEntryID,
		Notes:              entry.Notes,
		CancelledAt:        formatOptionalTime(entry.CancelledAt),
		CancellationReason: entry.CancellationReason,
		RescheduledFrom:    formatOptionalTime(entry.RescheduledFrom),
	}
}

func toEntryDTOs(entries []scheduling.Entry) []entryDTO {
	dtos := make([]entryDTO, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, toEntryDTO(entry))
	}
	return dtos
}

type conflictDTO struct {
	ID                 string  `json:"id"`
	EntryID            string  `json:"entry_id"`
	ConflictingEntryID string  `json:"conflicting_entry_id"`
	Type               string  `json:"type"`
	Description        string  `json:"description"`
	Resolved           bool    `json:"resolved"`
	ResolvedAt         *string `json:"resolved_at,omitempty"`
	ResolutionNotes    *string `json:"resolution_notes,omitempty"`
}

func toConflictDTO(conflict scheduling.Conflict) conflictDTO {
	return conflictDTO{
		ID:                 conflict.ID,
		EntryID:            conflict.EntryID,
		ConflictingEntryID: conflict.ConflictingEntryID,
		Type:               string(conflict.Type),
		Description:        conflict.Description,
		Resolved:           conflict.Resolved,
		ResolvedAt:         formatOptionalTime(conflict.ResolvedAt),
		ResolutionNotes:    conflict.ResolutionNotes,
	}
}

func toConflictDTOs(conflicts []scheduling.Conflict) []conflictDTO {
	dtos := make([]conflictDTO, 0, len(conflicts))
	for _, conflict := range conflicts {
		dtos = append(dtos, toConflictDTO(conflict))
	}
	return dtos
}

type slotDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func toSlotDTOs(slots []scheduling.TimeSlot) []slotDTO {
	dtos := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, slotDTO{
			Start: slot.Start.Format(time.RFC3339),
			End:   slot.End.Format(time.RFC3339),
		})
	}
	return dtos
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

// parseWindow extracts the start/end query parameters shared by the listing
// and availability endpoints.
func parseWindow(startValue, endValue string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startValue)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidWindow
	}
	end, err := time.Parse(time.RFC3339, endValue)
	if err != nil {
		return time.Time{}, time.Time{}, errInvalidWindow
	}
	return start, end, nil
}
