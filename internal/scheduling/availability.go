package scheduling

import "time"

// DefaultSlotGranularity is the step used when walking an availability window.
// Consumers depend on receiving uniform one-hour slots.
const DefaultSlotGranularity = time.Hour

// TimeSlot is a free window reported by availability queries. Slots are query
// results only and are never persisted.
type TimeSlot struct {
	Start time.Time
	End   time.Time
}

// FreeSlots walks [windowStart, windowEnd) in consecutive steps and collects
// every step with no occupying booking, in chronological order. Adjacent free
// slots are deliberately not merged into longer blocks. A step of zero or less
// falls back to the one-hour default.
func FreeSlots(windowStart, windowEnd time.Time, step time.Duration, booked []Entry) []TimeSlot {
	if step <= 0 {
		step = DefaultSlotGranularity
	}

	slots := make([]TimeSlot, 0)
	for current := windowStart; current.Before(windowEnd); current = current.Add(step) {
		slotEnd := current.Add(step)

		free := true
		for _, entry := range booked {
			if !entry.Occupies() {
				continue
			}
			if Overlaps(current, slotEnd, entry.Start, entry.End) {
				free = false
				break
			}
		}

		if free {
			slots = append(slots, TimeSlot{Start: current, End: slotEnd})
		}
	}

	return slots
}
