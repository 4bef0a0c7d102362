package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/musicschool-scheduler/internal/persistence"
	"github.com/example/musicschool-scheduler/internal/scheduling"
)

const conflictColumns = `id, entry_id, conflicting_entry_id, conflict_type,
	description, resolved, resolved_at, resolution_notes, created_at, updated_at`

// CreateConflicts batch-inserts detected conflicts. An empty batch is a no-op.
func (s *Store) CreateConflicts(ctx context.Context, conflicts []scheduling.Conflict) error {
	if len(conflicts) == 0 {
		return nil
	}

	query := `
		INSERT INTO schedule_conflicts (` + conflictColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for _, conflict := range conflicts {
		if conflict.ID == "" {
			return persistence.ErrConstraintViolation
		}
		_, err := s.q.ExecContext(ctx, query,
			conflict.ID,
			conflict.EntryID,
			conflict.ConflictingEntryID,
			string(conflict.Type),
			conflict.Description,
			boolToInt(conflict.Resolved),
			nullTime(conflict.ResolvedAt),
			nullString(conflict.ResolutionNotes),
			formatTime(conflict.CreatedAt),
			formatTime(conflict.UpdatedAt),
		)
		if err != nil {
			return mapError(err)
		}
	}
	return nil
}

// GetConflict retrieves a conflict record by id.
func (s *Store) GetConflict(ctx context.Context, id string) (scheduling.Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM schedule_conflicts WHERE id = ?`

	conflict, err := scanConflict(s.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return scheduling.Conflict{}, mapError(err)
	}
	return conflict, nil
}

// UpdateConflict replaces the mutable fields of a conflict record.
func (s *Store) UpdateConflict(ctx context.Context, conflict scheduling.Conflict) error {
	query := `
		UPDATE schedule_conflicts
		SET conflict_type = ?, description = ?, resolved = ?, resolved_at = ?,
			resolution_notes = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.q.ExecContext(ctx, query,
		string(conflict.Type),
		conflict.Description,
		boolToInt(conflict.Resolved),
		nullTime(conflict.ResolvedAt),
		nullString(conflict.ResolutionNotes),
		formatTime(conflict.UpdatedAt),
		conflict.ID,
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

// ListConflicts returns conflicts matching the filter ordered by creation time.
func (s *Store) ListConflicts(ctx context.Context, filter persistence.ConflictFilter) ([]scheduling.Conflict, error) {
	query := `SELECT ` + conflictColumns + ` FROM schedule_conflicts`

	var conditions []string
	var args []any

	if filter.EntryID != nil {
		conditions = append(conditions, "entry_id = ?")
		args = append(args, *filter.EntryID)
	}
	if filter.Resolved != nil {
		conditions = append(conditions, "resolved = ?")
		args = append(args, boolToInt(*filter.Resolved))
	}

	for i, condition := range conditions {
		if i == 0 {
			query += " WHERE " + condition
		} else {
			query += " AND " + condition
		}
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var conflicts []scheduling.Conflict
	for rows.Next() {
		conflict, err := scanConflict(rows)
		if err != nil {
			return nil, mapError(err)
		}
		conflicts = append(conflicts, conflict)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return conflicts, nil
}

func scanConflict(row scanner) (scheduling.Conflict, error) {
	var conflict scheduling.Conflict
	var conflictType string
	var resolved int
	var resolvedAt, resolutionNotes sql.NullString
	var createdStr, updatedStr string

	err := row.Scan(
		&conflict.ID,
		&conflict.EntryID,
		&conflict.ConflictingEntryID,
		&conflictType,
		&conflict.Description,
		&resolved,
		&resolvedAt,
		&resolutionNotes,
		&createdStr,
		&updatedStr,
	)
	if err != nil {
		return scheduling.Conflict{}, err
	}

	conflict.Type = scheduling.ConflictType(conflictType)
	conflict.Resolved = resolved != 0
	conflict.ResolutionNotes = fromNullString(resolutionNotes)

	if conflict.ResolvedAt, err = fromNullTime(resolvedAt); err != nil {
		return scheduling.Conflict{}, fmt.Errorf("parse resolved_at: %w", err)
	}
	if conflict.CreatedAt, err = parseTime(createdStr); err != nil {
		return scheduling.Conflict{}, fmt.Errorf("parse created_at: %w", err)
	}
	if conflict.UpdatedAt, err = parseTime(updatedStr); err != nil {
		return scheduling.Conflict{}, fmt.Errorf("parse updated_at: %w", err)
	}

	return conflict, nil
}
