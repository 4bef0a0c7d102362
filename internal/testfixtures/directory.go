package testfixtures

import (
	"context"

	"github.com/example/musicschool-scheduler/internal/persistence"
)

// Directory is an in-memory instructor/student/course directory for tests.
// Unknown identifiers yield persistence.ErrNotFound, matching the SQLite
// directory's behavior.
type Directory struct {
	Instructors map[string]string
	Students    map[string]string
	Courses     map[string]string
}

// NewDirectory returns a directory preloaded with the given name maps. Nil
// maps are replaced with empty ones.
func NewDirectory(instructors, students, courses map[string]string) *Directory {
	if instructors == nil {
		instructors = make(map[string]string)
	}
	if students == nil {
		students = make(map[string]string)
	}
	if courses == nil {
		courses = make(map[string]string)
	}
	return &Directory{Instructors: instructors, Students: students, Courses: courses}
}

// InstructorName resolves an instructor id.
func (d *Directory) InstructorName(ctx context.Context, id string) (string, error) {
	return lookup(d.Instructors, id)
}

// StudentName resolves a student id.
func (d *Directory) StudentName(ctx context.Context, id string) (string, error) {
	return lookup(d.Students, id)
}

// CourseName resolves a course id.
func (d *Directory) CourseName(ctx context.Context, id string) (string, error) {
	return lookup(d.Courses, id)
}

func lookup(names map[string]string, id string) (string, error) {
	name, ok := names[id]
	if !ok {
		return "", persistence.ErrNotFound
	}
	return name, nil
}
