package schedule

import (
	"testing"
	"time"
)

func mustLoadLoc(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}
	return loc
}

func TestGenerateFullDay(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)
	slots, err := Generate("2024-06-10", 9, 17, 30, nil, loc, now)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0].Time != "09:00" || slots[len(slots)-1].Time != "16:30" {
		t.Fatalf("unexpected boundary slots: %v", slots)
	}
	for _, s := range slots {
		if !s.Available {
			t.Fatalf("expected all slots available, got %v", s)
		}
	}
}

func TestGenerateOrderedUniqueHalfHourBoundaries(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)
	slots, err := Generate("2024-07-01", 9, 17, 30, nil, loc, now)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	seen := map[string]bool{}
	prev := -1
	for _, s := range slots {
		min, err := ParseClockToMinutes(s.Time)
		if err != nil {
			t.Fatalf("parse %q: %v", s.Time, err)
		}
		if min%30 != 0 {
			t.Fatalf("slot %q not on a 30-minute boundary", s.Time)
		}
		if min <= prev {
			t.Fatalf("slots out of order at %q", s.Time)
		}
		if seen[s.Time] {
			t.Fatalf("duplicate slot label %q", s.Time)
		}
		seen[s.Time] = true
		prev = min
	}
}

func TestGenerateMarksBookedUnavailable(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, loc)
	booked := map[string]bool{"10:30": true, "14:00": true}
	slots, err := Generate("2024-06-10", 9, 17, 30, booked, loc, now)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	for _, s := range slots {
		if booked[s.Time] && s.Available {
			t.Fatalf("expected %q unavailable", s.Time)
		}
		if !booked[s.Time] && !s.Available {
			t.Fatalf("expected %q available", s.Time)
		}
	}
}

func TestGenerateMarksPastSlotsUnavailableToday(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 10, 11, 15, 0, 0, loc)
	slots, err := Generate("2024-06-10", 9, 17, 30, nil, loc, now)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	for _, s := range slots {
		min, _ := ParseClockToMinutes(s.Time)
		if min <= 11*60+15 && s.Available {
			t.Fatalf("expected past slot %q unavailable", s.Time)
		}
		if min > 11*60+15 && !s.Available {
			t.Fatalf("expected future slot %q available", s.Time)
		}
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Now()
	if _, err := Generate("not-a-date", 9, 17, 30, nil, loc, now); err != ErrInvalidDate {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := Generate("2024-06-10", 17, 9, 30, nil, loc, now); err != ErrInvalidHours {
		t.Fatalf("expected ErrInvalidHours, got %v", err)
	}
}

func TestIsDateBookableWindow(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, loc)

	cases := []struct {
		date string
		want bool
	}{
		{"2024-06-09", false},
		{"2024-06-10", true},
		{"2024-08-09", true},
		{"2024-08-10", false},
	}
	for _, tc := range cases {
		got, err := IsDateBookable(tc.date, 60, loc, now)
		if err != nil {
			t.Fatalf("IsDateBookable(%q) error: %v", tc.date, err)
		}
		if got != tc.want {
			t.Fatalf("IsDateBookable(%q) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestIsDatePast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, loc)
	past, err := IsDatePast("2024-06-09", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if !past {
		t.Fatalf("expected date to be past")
	}

	past, err = IsDatePast("2024-06-10", loc, now)
	if err != nil {
		t.Fatalf("IsDatePast error: %v", err)
	}
	if past {
		t.Fatalf("expected date to be not past")
	}
}

func TestIsSlotPast(t *testing.T) {
	loc := mustLoadLoc(t)
	now := time.Date(2024, 6, 10, 10, 0, 0, 0, loc)
	past, err := IsSlotPast("2024-06-10", "09:00", loc, now)
	if err != nil {
		t.Fatalf("IsSlotPast error: %v", err)
	}
	if !past {
		t.Fatalf("expected slot to be past")
	}
	past, err = IsSlotPast("2024-06-10", "10:30", loc, now)
	if err != nil {
		t.Fatalf("IsSlotPast error: %v", err)
	}
	if past {
		t.Fatalf("expected slot to be future")
	}
}

func TestFindSlot(t *testing.T) {
	slots := []Slot{{Time: "09:00", Available: true}, {Time: "09:30", Available: false}}
	s, ok := FindSlot(slots, "09:30")
	if !ok || s.Available {
		t.Fatalf("unexpected result: %v %v", s, ok)
	}
	if _, ok := FindSlot(slots, "12:00"); ok {
		t.Fatalf("expected 12:00 to be absent")
	}
}
