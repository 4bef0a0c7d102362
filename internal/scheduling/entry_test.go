package scheduling

import (
	"errors"
	"testing"
)

func TestEntryStatus_CanTransitionTo(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    EntryStatus
		to      EntryStatus
		allowed bool
	}{
		{"scheduled to confirmed", StatusScheduled, StatusConfirmed, true},
		{"scheduled to cancelled", StatusScheduled, StatusCancelled, true},
		{"scheduled straight to in progress", StatusScheduled, StatusInProgress, true},
		{"scheduled cannot complete directly", StatusScheduled, StatusCompleted, false},
		{"confirmed to no show", StatusConfirmed, StatusNoShow, true},
		{"in progress to completed", StatusInProgress, StatusCompleted, true},
		{"in progress cannot cancel", StatusInProgress, StatusCancelled, false},
		{"completed is terminal", StatusCompleted, StatusCancelled, false},
		{"no show is terminal", StatusNoShow, StatusScheduled, false},
		{"cancel twice stays legal", StatusCancelled, StatusCancelled, true},
		{"cancelled cannot revive", StatusCancelled, StatusScheduled, false},
		{"rescheduled keeps moving forward", StatusRescheduled, StatusConfirmed, true},
		{"rescheduled again", StatusRescheduled, StatusRescheduled, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
				t.Fatalf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.allowed)
			}
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	t.Parallel()

	valid := Entry{Start: at(9, 0), End: at(10, 0)}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid interval, got %v", err)
	}

	inverted := Entry{Start: at(10, 0), End: at(9, 0)}
	if err := inverted.Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	zeroLength := Entry{Start: at(9, 0), End: at(9, 0)}
	if err := zeroLength.Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for zero-length interval, got %v", err)
	}
}

func TestEntry_Occupies(t *testing.T) {
	t.Parallel()

	occupying := []EntryStatus{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusNoShow}
	for _, status := range occupying {
		if !(Entry{Status: status}).Occupies() {
			t.Errorf("status %s should occupy its slot", status)
		}
	}

	released := []EntryStatus{StatusCancelled, StatusRescheduled}
	for _, status := range released {
		if (Entry{Status: status}).Occupies() {
			t.Errorf("status %s should release its slot", status)
		}
	}
}

func TestEntry_IsTemplate(t *testing.T) {
	t.Parallel()

	parent := "template-1"
	cases := []struct {
		name  string
		entry Entry
		want  bool
	}{
		{"recurring without parent", Entry{Recurring: true}, true},
		{"generated occurrence", Entry{Recurring: true, ParentEntryID: &parent}, false},
		{"one-off entry", Entry{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.entry.IsTemplate(); got != tc.want {
				t.Fatalf("IsTemplate() = %v, want %v", got, tc.want)
			}
		})
	}
}
