package booking

import (
	"fmt"
	"time"

	"github.com/crewport/crewport/internal/domain/department"
)

// parseClock converts an "HH:MM" string to minutes since midnight.
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// formatClock renders minutes since midnight as "HH:MM".
func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SlotStarts expands an opening/closing window into ordered slot start times
// stepped by the slot duration. The closing time is exclusive: a slot exists
// only if it begins strictly before closing.
func SlotStarts(opening, closing string, durationMinutes int) ([]string, error) {
	open, err := parseClock(opening)
	if err != nil {
		return nil, err
	}
	closeM, err := parseClock(closing)
	if err != nil {
		return nil, err
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", durationMinutes)
	}

	var starts []string
	for m := open; m < closeM; m += durationMinutes {
		starts = append(starts, formatClock(m))
	}
	return starts, nil
}

// BuildSlots derives the slot grid for a day schedule and annotates each slot
// with its remaining capacity given the current non-cancelled booking counts
// (keyed by "HH:MM" start time).
//
// When the schedule's date is today, slots whose start time has already
// passed are excluded; this function is the single authority for what is
// bookable right now.
func BuildSlots(sched *department.DaySchedule, booked map[string]int, now time.Time) ([]TimeSlot, error) {
	starts, err := SlotStarts(sched.OpeningTime, sched.ClosingTime, sched.SlotDurationMinutes)
	if err != nil {
		return nil, err
	}

	sameDay := sched.Date.Year() == now.Year() && sched.Date.YearDay() == now.YearDay()
	nowMinutes := now.Hour()*60 + now.Minute()

	slots := make([]TimeSlot, 0, len(starts))
	for _, start := range starts {
		startM, _ := parseClock(start)
		if sameDay && startM <= nowMinutes {
			continue
		}

		remaining := sched.SlotCapacity - booked[start]
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, TimeSlot{
			Start:             start,
			End:               formatClock(startM + sched.SlotDurationMinutes),
			Capacity:          sched.SlotCapacity,
			CapacityRemaining: remaining,
		})
	}
	return slots, nil
}

// DayTotals sums a schedule's total and remaining slot-bookings for calendar
// classification. Total is slot count times per-slot capacity; available is
// the sum of per-slot remainders. Elapsed slots are not subtracted here so
// that a day's classification is stable over the course of the day.
func DayTotals(sched *department.DaySchedule, booked map[string]int) (total, available int, err error) {
	starts, err := SlotStarts(sched.OpeningTime, sched.ClosingTime, sched.SlotDurationMinutes)
	if err != nil {
		return 0, 0, err
	}

	total = len(starts) * sched.SlotCapacity
	for _, start := range starts {
		remaining := sched.SlotCapacity - booked[start]
		if remaining > 0 {
			available += remaining
		}
	}
	return total, available, nil
}
