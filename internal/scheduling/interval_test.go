package scheduling

import (
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 3, 3, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{"partial overlap", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"containment", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical intervals", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"back to back is free", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"back to back reversed", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(14, 0), at(15, 0), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.startA, tc.endA, tc.startB, tc.endB); got != tc.want {
				t.Fatalf("Overlaps(%v, %v, %v, %v) = %v, want %v", tc.startA, tc.endA, tc.startB, tc.endB, got, tc.want)
			}
			// Overlap is symmetric in its two intervals.
			if got := Overlaps(tc.startB, tc.endB, tc.startA, tc.endA); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}
