package application

import "context"

// InstructorDirectory resolves instructor identifiers to display names. The
// instructor roster itself is maintained outside the scheduling core.
type InstructorDirectory interface {
	InstructorName(ctx context.Context, id string) (string, error)
}

// StudentDirectory resolves student identifiers to display names.
type StudentDirectory interface {
	StudentName(ctx context.Context, id string) (string, error)
}

// CourseDirectory resolves course identifiers to display names.
type CourseDirectory interface {
	CourseName(ctx context.Context, id string) (string, error)
}
