package scheduling

import (
	"strings"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	candidate := Entry{
		ID:           "candidate",
		Status:       StatusScheduled,
		Start:        at(10, 0),
		End:          at(11, 0),
		InstructorID: strPtr("instr-1"),
		StudentID:    strPtr("stud-1"),
		Room:         strPtr("Room A"),
	}

	t.Run("instructor overlap produces conflict", func(t *testing.T) {
		t.Parallel()
		busy := []Entry{{ID: "other", Status: StatusScheduled, Start: at(10, 30), End: at(11, 30), InstructorID: strPtr("instr-1")}}

		conflicts := DetectConflicts(candidate, busy, nil, nil, ConflictNames{Instructor: "Anna Schmidt"})
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(conflicts))
		}
		if conflicts[0].Type != ConflictInstructorDoubleBooking {
			t.Fatalf("expected instructor double booking, got %s", conflicts[0].Type)
		}
		if conflicts[0].EntryID != "candidate" || conflicts[0].ConflictingEntryID != "other" {
			t.Fatalf("unexpected conflict pairing: %+v", conflicts[0])
		}
		if !strings.Contains(conflicts[0].Description, "Anna Schmidt") {
			t.Fatalf("expected description to carry the instructor name, got %q", conflicts[0].Description)
		}
	})

	t.Run("missing name falls back to identifier", func(t *testing.T) {
		t.Parallel()
		busy := []Entry{{ID: "other", Status: StatusScheduled, Start: at(10, 0), End: at(11, 0), StudentID: strPtr("stud-1")}}

		conflicts := DetectConflicts(candidate, nil, busy, nil, ConflictNames{})
		if len(conflicts) != 1 {
			t.Fatalf("expected 1 conflict, got %d", len(conflicts))
		}
		if !strings.Contains(conflicts[0].Description, "stud-1") {
			t.Fatalf("expected description to fall back to the id, got %q", conflicts[0].Description)
		}
	})

	t.Run("independent dimensions each report", func(t *testing.T) {
		t.Parallel()
		instructorBusy := []Entry{{ID: "a", Status: StatusScheduled, Start: at(10, 0), End: at(11, 0)}}
		roomBusy := []Entry{{ID: "b", Status: StatusScheduled, Start: at(10, 0), End: at(11, 0)}}

		conflicts := DetectConflicts(candidate, instructorBusy, nil, roomBusy, ConflictNames{})
		if len(conflicts) != 2 {
			t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
		}
		types := map[ConflictType]bool{}
		for _, c := range conflicts {
			types[c.Type] = true
		}
		if !types[ConflictInstructorDoubleBooking] || !types[ConflictRoomDoubleBooking] {
			t.Fatalf("expected one conflict per dimension, got %+v", conflicts)
		}
	})

	t.Run("released entries are ignored", func(t *testing.T) {
		t.Parallel()
		busy := []Entry{
			{ID: "cancelled", Status: StatusCancelled, Start: at(10, 0), End: at(11, 0)},
			{ID: "rescheduled", Status: StatusRescheduled, Start: at(10, 0), End: at(11, 0)},
		}

		if conflicts := DetectConflicts(candidate, busy, nil, nil, ConflictNames{}); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts against released entries, got %d", len(conflicts))
		}
	})

	t.Run("candidate never conflicts with itself", func(t *testing.T) {
		t.Parallel()
		busy := []Entry{candidate}

		if conflicts := DetectConflicts(candidate, busy, nil, nil, ConflictNames{}); len(conflicts) != 0 {
			t.Fatalf("expected no self conflict, got %d", len(conflicts))
		}
	})

	t.Run("back to back entries do not conflict", func(t *testing.T) {
		t.Parallel()
		busy := []Entry{{ID: "before", Status: StatusScheduled, Start: at(9, 0), End: at(10, 0)}}

		if conflicts := DetectConflicts(candidate, busy, nil, nil, ConflictNames{}); len(conflicts) != 0 {
			t.Fatalf("expected no conflict for adjacent intervals, got %d", len(conflicts))
		}
	})

	t.Run("no resource references yields nothing", func(t *testing.T) {
		t.Parallel()
		bare := Entry{ID: "bare", Status: StatusScheduled, Start: at(10, 0), End: at(11, 0)}
		busy := []Entry{{ID: "other", Status: StatusScheduled, Start: at(10, 0), End: at(11, 0)}}

		if conflicts := DetectConflicts(bare, busy, busy, busy, ConflictNames{}); len(conflicts) != 0 {
			t.Fatalf("expected no conflicts for an entry with no resources, got %d", len(conflicts))
		}
	})
}
