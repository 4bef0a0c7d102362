package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Directory resolves instructor, student, and course identifiers to display
// names. Scheduling holds weak references to these records, so the directory
// is lookup-only; the rosters themselves are maintained elsewhere.
type Directory struct {
	db *sql.DB
}

// NewDirectory creates a directory backed by the store's database handle.
func NewDirectory(db *sql.DB) *Directory {
	return &Directory{db: db}
}

// InstructorName returns the instructor's full name.
func (d *Directory) InstructorName(ctx context.Context, id string) (string, error) {
	return d.fullName(ctx, "instructors", id)
}

// StudentName returns the student's full name.
func (d *Directory) StudentName(ctx context.Context, id string) (string, error) {
	return d.fullName(ctx, "students", id)
}

// CourseName returns the course's display name.
func (d *Directory) CourseName(ctx context.Context, id string) (string, error) {
	var name string
	err := d.db.QueryRowContext(ctx, "SELECT name FROM courses WHERE id = ?", id).Scan(&name)
	if err != nil {
		return "", mapError(err)
	}
	return name, nil
}

func (d *Directory) fullName(ctx context.Context, table, id string) (string, error) {
	var first, last string
	query := fmt.Sprintf("SELECT first_name, last_name FROM %s WHERE id = ?", table)
	err := d.db.QueryRowContext(ctx, query, id).Scan(&first, &last)
	if err != nil {
		return "", mapError(err)
	}
	return first + " " + last, nil
}
