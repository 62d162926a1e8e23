package domain

import (
	"sort"
	"time"
)

// Weekday bounds for unavailability slots: Monday=0 .. Friday=4.
// Tournaments are scheduled on weekday evenings only.
const (
	MinDayOfWeek = 0
	MaxDayOfWeek = 4
)

var timeOfDayLayouts = []string{"15:04:05", "15:04"}

// ParseTimeOfDay parses an intraday time value in "HH:MM" or "HH:MM:SS" form.
func ParseTimeOfDay(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range timeOfDayLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// ValidateSlots checks a candidate unavailability set and returns it
// unchanged (no time normalization) when valid. Rules:
//   - day_of_week within Monday..Friday
//   - start_time strictly before end_time
//   - no exact (day, start, end) duplicates
//   - no overlapping windows on the same day; touching boundaries
//     (end == next start) are allowed
//
// The function is pure: it never touches storage, and re-validating its own
// output yields the same result.
func ValidateSlots(slots []SlotInput) ([]SlotInput, error) {
	if len(slots) == 0 {
		return nil, nil
	}

	type window struct {
		start, end time.Time
	}
	byDay := make(map[int][]window)
	seen := make(map[SlotInput]struct{}, len(slots))

	for _, slot := range slots {
		if slot.DayOfWeek < MinDayOfWeek || slot.DayOfWeek > MaxDayOfWeek {
			return nil, newError(CodeInvalidSlotRange, "day_of_week",
				"day_of_week must be between %d (Monday) and %d (Friday), got %d", MinDayOfWeek, MaxDayOfWeek, slot.DayOfWeek)
		}

		start, err := ParseTimeOfDay(slot.StartTime)
		if err != nil {
			return nil, newError(CodeInvalidSlotOrder, "start_time", "invalid time value %q", slot.StartTime)
		}
		end, err := ParseTimeOfDay(slot.EndTime)
		if err != nil {
			return nil, newError(CodeInvalidSlotOrder, "end_time", "invalid time value %q", slot.EndTime)
		}
		if !start.Before(end) {
			return nil, newError(CodeInvalidSlotOrder, "start_time",
				"start_time %s must be before end_time %s", slot.StartTime, slot.EndTime)
		}

		if _, dup := seen[slot]; dup {
			return nil, newError(CodeDuplicateSlot, "unavailability",
				"duplicate slot on day %d (%s-%s)", slot.DayOfWeek, slot.StartTime, slot.EndTime)
		}
		seen[slot] = struct{}{}

		byDay[slot.DayOfWeek] = append(byDay[slot.DayOfWeek], window{start: start, end: end})
	}

	for day, windows := range byDay {
		sort.Slice(windows, func(i, j int) bool {
			return windows[i].start.Before(windows[j].start)
		})
		for i := 1; i < len(windows); i++ {
			if windows[i].start.Before(windows[i-1].end) {
				return nil, newError(CodeOverlappingSlot, "unavailability",
					"overlapping slots on day %d", day)
			}
		}
	}

	return slots, nil
}
