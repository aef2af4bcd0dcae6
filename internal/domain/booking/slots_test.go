package booking

import (
	"testing"
	"time"

	"github.com/crewport/crewport/internal/domain/department"
)

func morningSchedule(date time.Time) *department.DaySchedule {
	return &department.DaySchedule{
		Date:                date,
		OpeningTime:         "08:00",
		ClosingTime:         "12:00",
		SlotDurationMinutes: 30,
		SlotCapacity:        2,
	}
}

func TestSlotStarts_MorningWindow(t *testing.T) {
	starts, err := SlotStarts("08:00", "12:00", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(starts) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(starts))
	}
	if starts[0] != "08:00" || starts[7] != "11:30" {
		t.Errorf("unexpected endpoints: first %q last %q", starts[0], starts[7])
	}
	for i := 1; i < len(starts); i++ {
		if starts[i] <= starts[i-1] {
			t.Errorf("slots not strictly increasing: %q then %q", starts[i-1], starts[i])
		}
	}
}

func TestSlotStarts_ClosingExclusive(t *testing.T) {
	starts, err := SlotStarts("08:00", "09:00", 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(starts) != 1 || starts[0] != "08:00" {
		t.Errorf("expected one 08:00 slot, got %v", starts)
	}
}

func TestBuildSlots_RemainingCapacity(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	booked := map[string]int{"08:00": 2, "09:30": 1}
	slots, err := BuildSlots(morningSchedule(date), booked, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 8 {
		t.Fatalf("expected 8 slots, got %d", len(slots))
	}

	byStart := make(map[string]TimeSlot, len(slots))
	for _, s := range slots {
		byStart[s.Start] = s
	}
	if byStart["08:00"].CapacityRemaining != 0 {
		t.Errorf("08:00 remaining = %d, want 0", byStart["08:00"].CapacityRemaining)
	}
	if byStart["09:30"].CapacityRemaining != 1 {
		t.Errorf("09:30 remaining = %d, want 1", byStart["09:30"].CapacityRemaining)
	}
	if byStart["11:30"].CapacityRemaining != 2 {
		t.Errorf("11:30 remaining = %d, want 2", byStart["11:30"].CapacityRemaining)
	}
	if byStart["08:00"].End != "08:30" {
		t.Errorf("08:00 end = %q, want 08:30", byStart["08:00"].End)
	}
}

func TestBuildSlots_ExcludesElapsedToday(t *testing.T) {
	date := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	slots, err := BuildSlots(morningSchedule(date), nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 10:00 itself has started; 10:30, 11:00 and 11:30 remain.
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	if slots[0].Start != "10:30" {
		t.Errorf("first slot = %q, want 10:30", slots[0].Start)
	}
}

func TestBuildSlots_FutureDayKeepsAll(t *testing.T) {
	date := time.Date(2026, 9, 11, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 9, 10, 23, 0, 0, 0, time.UTC)

	slots, err := BuildSlots(morningSchedule(date), nil, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 8 {
		t.Errorf("expected 8 slots, got %d", len(slots))
	}
}

func TestDayTotals(t *testing.T) {
	sched := morningSchedule(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))

	total, available, err := DayTotals(sched, map[string]int{"08:00": 2, "08:30": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 16 {
		t.Errorf("total = %d, want 16", total)
	}
	if available != 13 {
		t.Errorf("available = %d, want 13", available)
	}
}
