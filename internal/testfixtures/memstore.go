package testfixtures

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/example/musicschool-scheduler/internal/persistence"
	"github.com/example/musicschool-scheduler/internal/scheduling"
)

// MemStore is an in-memory persistence.Store used by service tests. It mirrors
// the SQLite store's query semantics, including the exclusion of cancelled and
// rescheduled entries from overlap queries.
type MemStore struct {
	mu        sync.RWMutex
	entries   map[string]scheduling.Entry
	conflicts map[string]scheduling.Conflict
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		entries:   make(map[string]scheduling.Entry),
		conflicts: make(map[string]scheduling.Conflict),
	}
}

// InTransaction runs fn against the store itself. The in-memory store has no
// real transactions; tests exercising rollback behavior use the SQLite store.
func (s *MemStore) InTransaction(ctx context.Context, fn func(persistence.Store) error) error {
	return fn(s)
}

// CreateEntry stores a new entry.
func (s *MemStore) CreateEntry(ctx context.Context, entry scheduling.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if !entry.End.After(entry.Start) {
		return persistence.ErrConstraintViolation
	}
	if _, ok := s.entries[entry.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.entries[entry.ID] = entry
	return nil
}

// UpdateEntry replaces an existing entry.
func (s *MemStore) UpdateEntry(ctx context.Context, entry scheduling.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[entry.ID]; !ok {
		return persistence.ErrNotFound
	}
	if !entry.End.After(entry.Start) {
		return persistence.ErrConstraintViolation
	}
	s.entries[entry.ID] = entry
	return nil
}

// GetEntry retrieves an entry by id.
func (s *MemStore) GetEntry(ctx context.Context, id string) (scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return scheduling.Entry{}, persistence.ErrNotFound
	}
	return entry, nil
}

// ListEntries returns entries matching the filter ordered by start time.
func (s *MemStore) ListEntries(ctx context.Context, filter persistence.EntryFilter) ([]scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []scheduling.Entry
	for _, entry := range s.entries {
		if filter.StartsAfter != nil && entry.Start.Before(*filter.StartsAfter) {
			continue
		}
		if filter.EndsBefore != nil && !entry.Start.Before(*filter.EndsBefore) {
			continue
		}
		if filter.Status != nil && entry.Status != *filter.Status {
			continue
		}
		if filter.Type != nil && entry.Type != *filter.Type {
			continue
		}
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return entries, nil
}

// ListOverlapping returns occupying entries for the subject overlapping the
// half-open window.
func (s *MemStore) ListOverlapping(ctx context.Context, subject scheduling.Subject, start, end time.Time) ([]scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []scheduling.Entry
	for _, entry := range s.entries {
		if !entry.Occupies() {
			continue
		}
		if !subjectMatches(entry, subject) {
			continue
		}
		if !scheduling.Overlaps(entry.Start, entry.End, start, end) {
			continue
		}
		entries = append(entries, entry)
	}
	sortEntries(entries)
	return entries, nil
}

// ListTemplates returns recurring entries with no parent reference.
func (s *MemStore) ListTemplates(ctx context.Context) ([]scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []scheduling.Entry
	for _, entry := range s.entries {
		if entry.IsTemplate() {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// ListInstances returns the occurrences generated from a template.
func (s *MemStore) ListInstances(ctx context.Context, templateID string) ([]scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []scheduling.Entry
	for _, entry := range s.entries {
		if entry.ParentEntryID != nil && *entry.ParentEntryID == templateID {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// ListOverdue returns entries still SCHEDULED whose start time has passed.
func (s *MemStore) ListOverdue(ctx context.Context, reference time.Time) ([]scheduling.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []scheduling.Entry
	for _, entry := range s.entries {
		if entry.Status == scheduling.StatusScheduled && entry.Start.Before(reference) {
			entries = append(entries, entry)
		}
	}
	sortEntries(entries)
	return entries, nil
}

// CreateConflicts stores detected conflicts.
func (s *MemStore) CreateConflicts(ctx context.Context, conflicts []scheduling.Conflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, conflict := range conflicts {
		if conflict.ID == "" {
			return persistence.ErrConstraintViolation
		}
		if _, ok := s.conflicts[conflict.ID]; ok {
			return persistence.ErrDuplicate
		}
		s.conflicts[conflict.ID] = conflict
	}
	return nil
}

// GetConflict retrieves a conflict by id.
func (s *MemStore) GetConflict(ctx context.Context, id string) (scheduling.Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conflict, ok := s.conflicts[id]
	if !ok {
		return scheduling.Conflict{}, persistence.ErrNotFound
	}
	return conflict, nil
}

// UpdateConflict replaces an existing conflict record.
func (s *MemStore) UpdateConflict(ctx context.Context, conflict scheduling.Conflict) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conflicts[conflict.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.conflicts[conflict.ID] = conflict
	return nil
}

// ListConflicts returns conflicts matching the filter ordered by creation time.
func (s *MemStore) ListConflicts(ctx context.Context, filter persistence.ConflictFilter) ([]scheduling.Conflict, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var conflicts []scheduling.Conflict
	for _, conflict := range s.conflicts {
		if filter.EntryID != nil && conflict.EntryID != *filter.EntryID {
			continue
		}
		if filter.Resolved != nil && conflict.Resolved != *filter.Resolved {
			continue
		}
		conflicts = append(conflicts, conflict)
	}
	sort.Slice(conflicts, func(i, j int) bool {
		if conflicts[i].CreatedAt.Equal(conflicts[j].CreatedAt) {
			return conflicts[i].ID < conflicts[j].ID
		}
		return conflicts[i].CreatedAt.Before(conflicts[j].CreatedAt)
	})
	return conflicts, nil
}

func subjectMatches(entry scheduling.Entry, subject scheduling.Subject) bool {
	switch subject.Kind {
	case scheduling.SubjectInstructor:
		return entry.InstructorID != nil && *entry.InstructorID == subject.ID
	case scheduling.SubjectStudent:
		return entry.StudentID != nil && *entry.StudentID == subject.ID
	case scheduling.SubjectRoom:
		return entry.Room != nil && *entry.Room == subject.ID
	default:
		return false
	}
}

func sortEntries(entries []scheduling.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Start.Equal(entries[j].Start) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].Start.Before(entries[j].Start)
	})
}
