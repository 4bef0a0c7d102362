package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/musicschool-scheduler/internal/persistence"
	"github.com/example/musicschool-scheduler/internal/scheduling"
)

const entryColumns = `id, title, description, type, status, start_time, end_time,
	room, instructor_id, student_id, course_id, recurring, recurrence_rule,
	parent_entry_id, notes, cancelled_at, cancellation_reason, rescheduled_from,
	created_at, updated_at`

// occupiesCondition excludes entries that no longer block their slot.
const occupiesCondition = `status NOT IN ('CANCELLED', 'RESCHEDULED')`

// CreateEntry inserts a new schedule entry.
func (s *Store) CreateEntry(ctx context.Context, entry scheduling.Entry) error {
	if entry.ID == "" {
		return persistence.ErrConstraintViolation
	}

	query := `
		INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.q.ExecContext(ctx, query,
		entry.ID,
		entry.Title,
		entry.Description,
		string(entry.Type),
		string(entry.Status),
		formatTime(entry.Start),
		formatTime(entry.End),
		nullString(entry.Room),
		nullString(entry.InstructorID),
		nullString(entry.StudentID),
		nullString(entry.CourseID),
		boolToInt(entry.Recurring),
		nullString(entry.RecurrenceRule),
		nullString(entry.ParentEntryID),
		entry.Notes,
		nullTime(entry.CancelledAt),
		nullString(entry.CancellationReason),
		nullTime(entry.RescheduledFrom),
		formatTime(entry.CreatedAt),
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// UpdateEntry replaces the mutable fields of an existing entry.
func (s *Store) UpdateEntry(ctx context.Context, entry scheduling.Entry) error {
	query := `
		UPDATE schedule_entries
		SET title = ?, description = ?, type = ?, status = ?, start_time = ?,
			end_time = ?, room = ?, instructor_id = ?, student_id = ?,
			course_id = ?, recurring = ?, recurrence_rule = ?, parent_entry_id = ?,
			notes = ?, cancelled_at = ?, cancellation_reason = ?,
			rescheduled_from = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.q.ExecContext(ctx, query,
		entry.Title,
		entry.Description,
		string(entry.Type),
		string(entry.Status),
		formatTime(entry.Start),
		formatTime(entry.End),
		nullString(entry.Room),
		nullString(entry.InstructorID),
		nullString(entry.StudentID),
		nullString(entry.CourseID),
		boolToInt(entry.Recurring),
		nullString(entry.RecurrenceRule),
		nullString(entry.ParentEntryID),
		entry.Notes,
		nullTime(entry.CancelledAt),
		nullString(entry.CancellationReason),
		nullTime(entry.RescheduledFrom),
		formatTime(entry.UpdatedAt),
		entry.ID,
	)
	if err != nil {
		return mapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// GetEntry retrieves a single entry by id.
func (s *Store) GetEntry(ctx context.Context, id string) (scheduling.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE id = ?`

	entry, err := scanEntry(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return scheduling.Entry{}, mapError(err)
	}
	return entry, nil
}

// ListEntries returns entries matching the filter ordered by start time.
func (s *Store) ListEntries(ctx context.Context, filter persistence.EntryFilter) ([]scheduling.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries`

	var conditions []string
	var args []any

	if filter.StartsAfter != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, formatTime(*filter.StartsAfter))
	}
	if filter.EndsBefore != nil {
		conditions = append(conditions, "start_time < ?")
		args = append(args, formatTime(*filter.EndsBefore))
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}
	if filter.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filter.Type))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY start_time ASC, id ASC"

	return s.queryEntries(ctx, query, args...)
}

// ListOverlapping returns occupying entries for the subject whose interval
// overlaps [start, end) under the half-open rule.
func (s *Store) ListOverlapping(ctx context.Context, subject scheduling.Subject, start, end time.Time) ([]scheduling.Entry, error) {
	column, err := subjectColumn(subject.Kind)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE ` + column + ` = ? AND start_time < ? AND end_time > ?
		AND ` + occupiesCondition + `
		ORDER BY start_time ASC, id ASC`

	return s.queryEntries(ctx, query, subject.ID, formatTime(end), formatTime(start))
}

// ListTemplates returns recurring templates: entries flagged recurring with no
// parent reference.
func (s *Store) ListTemplates(ctx context.Context) ([]scheduling.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE recurring = 1 AND parent_entry_id IS NULL
		ORDER BY start_time ASC, id ASC`

	return s.queryEntries(ctx, query)
}

// ListInstances returns the generated occurrences of a template.
func (s *Store) ListInstances(ctx context.Context, templateID string) ([]scheduling.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE parent_entry_id = ?
		ORDER BY start_time ASC, id ASC`

	return s.queryEntries(ctx, query, templateID)
}

// ListOverdue returns entries still SCHEDULED whose start time has passed.
func (s *Store) ListOverdue(ctx context.Context, reference time.Time) ([]scheduling.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries
		WHERE status = 'SCHEDULED' AND start_time < ?
		ORDER BY start_time ASC, id ASC`

	return s.queryEntries(ctx, query, formatTime(reference))
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]scheduling.Entry, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var entries []scheduling.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, mapError(err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return entries, nil
}

func subjectColumn(kind scheduling.SubjectKind) (string, error) {
	switch kind {
	case scheduling.SubjectInstructor:
		return "instructor_id", nil
	case scheduling.SubjectStudent:
		return "student_id", nil
	case scheduling.SubjectRoom:
		return "room", nil
	default:
		return "", fmt.Errorf("unknown subject kind %q", kind)
	}
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (scheduling.Entry, error) {
	var entry scheduling.Entry
	var entryType, status string
	var startStr, endStr, createdStr, updatedStr string
	var recurring int
	var room, instructorID, studentID, courseID sql.NullString
	var recurrenceRule, parentEntryID sql.NullString
	var cancelledAt, cancellationReason, rescheduledFrom sql.NullString

	err := row.Scan(
		&entry.ID,
		&entry.Title,
		&entry.Description,
		&entryType,
		&status,
		&startStr,
		&endStr,
		&room,
		&instructorID,
		&studentID,
		&courseID,
		&recurring,
		&recurrenceRule,
		&parentEntryID,
		&entry.Notes,
		&cancelledAt,
		&cancellationReason,
		&rescheduledFrom,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return scheduling.Entry{}, err
	}

	entry.Type = scheduling.EntryType(entryType)
	entry.Status = scheduling.EntryStatus(status)
	entry.Recurring = recurring != 0
	entry.Room = fromNullString(room)
	entry.InstructorID = fromNullString(instructorID)
	entry.StudentID = fromNullString(studentID)
	entry.CourseID = fromNullString(courseID)
	entry.RecurrenceRule = fromNullString(recurrenceRule)
	entry.ParentEntryID = fromNullString(parentEntryID)
	entry.CancellationReason = fromNullString(cancellationReason)

	if entry.Start, err = parseTime(startStr); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse start_time: %w", err)
	}
	if entry.End, err = parseTime(endStr); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse end_time: %w", err)
	}
	if entry.CreatedAt, err = parseTime(createdStr); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse created_at: %w", err)
	}
	if entry.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse updated_at: %w", err)
	}
	if entry.CancelledAt, err = fromNullTime(cancelledAt); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse cancelled_at: %w", err)
	}
	if entry.RescheduledFrom, err = fromNullTime(rescheduledFrom); err != nil {
		return scheduling.Entry{}, fmt.Errorf("parse rescheduled_from: %w", err)
	}

	return entry, nil
}

// Timestamps are stored as RFC3339 UTC strings so lexicographic comparison in
// SQL matches chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func fromNullString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	s := value.String
	return &s
}

func nullTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*value), Valid: true}
}

func fromNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
