package scheduling

import "time"

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Back-to-back entries that share only a boundary
// instant do not overlap, so a lesson ending at 10:00 never contends with one
// starting at 10:00.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}
