package booking

import (
	"fmt"
	"time"
)

// ClassifyDay maps a day's slot totals to a calendar availability status.
func ClassifyDay(hasSchedule bool, totalSlots, availableSlots int) string {
	switch {
	case !hasSchedule:
		return DayNoSchedule
	case availableSlots <= 0:
		return DayFull
	case availableSlots <= limitedThreshold:
		return DayLimited
	default:
		return DayAvailable
	}
}

// LeadingBlanks returns the Sunday-based weekday index of the first day of
// the month, which is the number of empty cells a calendar grid needs before
// day 1.
func LeadingBlanks(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return int(first.Weekday())
}

// ParseMonth parses a "YYYY-MM" string into its first day.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: want YYYY-MM", s)
	}
	return t, nil
}

// DaysInMonth returns the number of calendar days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
