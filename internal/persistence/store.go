package persistence

import (
	"context"
	"time"

	"github.com/example/musicschool-scheduler/internal/scheduling"
)

// EntryFilter narrows entry listings. A nil field leaves the dimension
// unconstrained.
type EntryFilter struct {
	StartsAfter *time.Time
	EndsBefore  *time.Time
	Status      *scheduling.EntryStatus
	Type        *scheduling.EntryType
}

// ConflictFilter narrows conflict listings.
type ConflictFilter struct {
	EntryID  *string
	Resolved *bool
}

// EntryRepository stores schedule entries.
//
// ListOverlapping returns the entries booked on the given subject whose
// interval overlaps [start, end), excluding entries that no longer occupy
// their slot (cancelled and rescheduled). Every listing is ordered by start
// time ascending.
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry scheduling.Entry) error
	UpdateEntry(ctx context.Context, entry scheduling.Entry) error
	GetEntry(ctx context.Context, id string) (scheduling.Entry, error)
	ListEntries(ctx context.Context, filter EntryFilter) ([]scheduling.Entry, error)
	ListOverlapping(ctx context.Context, subject scheduling.Subject, start, end time.Time) ([]scheduling.Entry, error)
	ListTemplates(ctx context.Context) ([]scheduling.Entry, error)
	ListInstances(ctx context.Context, templateID string) ([]scheduling.Entry, error)
	ListOverdue(ctx context.Context, reference time.Time) ([]scheduling.Entry, error)
}

// ConflictRepository stores detected schedule conflicts.
type ConflictRepository interface {
	CreateConflicts(ctx context.Context, conflicts []scheduling.Conflict) error
	GetConflict(ctx context.Context, id string) (scheduling.Conflict, error)
	UpdateConflict(ctx context.Context, conflict scheduling.Conflict) error
	ListConflicts(ctx context.Context, filter ConflictFilter) ([]scheduling.Conflict, error)
}

// Store bundles the repositories behind a single transactional boundary.
// InTransaction runs fn against a store view whose operations share one
// transaction, so a detect-conflicts-then-persist sequence is atomic with
// respect to concurrent writers targeting the same subject and window.
type Store interface {
	EntryRepository
	ConflictRepository
	InTransaction(ctx context.Context, fn func(Store) error) error
}
