package schedule

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultOpeningHour = 9
	DefaultClosingHour = 17
	DefaultSlotMinutes = 30
)

var (
	ErrInvalidDate  = errors.New("invalid date format")
	ErrInvalidTime  = errors.New("invalid time format")
	ErrInvalidHours = errors.New("invalid opening hours")
)

// Slot is one bookable interval within a business day.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func ParseDate(dateStr string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation("2006-01-02", dateStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func ParseDateTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	if _, err := time.Parse("15:04", timeStr); err != nil {
		return time.Time{}, ErrInvalidTime
	}
	if _, err := ParseDate(dateStr, loc); err != nil {
		return time.Time{}, err
	}

	parsed, err := time.ParseInLocation("2006-01-02 15:04", dateStr+" "+timeStr, loc)
	if err != nil {
		return time.Time{}, ErrInvalidTime
	}

	return parsed, nil
}

func ParseClockToMinutes(timeStr string) (int, error) {
	tm, err := time.Parse("15:04", timeStr)
	if err != nil {
		return 0, ErrInvalidTime
	}
	return tm.Hour()*60 + tm.Minute(), nil
}

func MinutesToClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return fmt.Sprintf("%02d:%02d", h, m)
}

func IsDatePast(dateStr string, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	return date.Before(startToday), nil
}

// IsDateBookable reports whether the date falls inside the booking window of
// windowDays starting today.
func IsDateBookable(dateStr string, windowDays int, loc *time.Location, now time.Time) (bool, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return false, err
	}
	startToday := time.Date(now.In(loc).Year(), now.In(loc).Month(), now.In(loc).Day(), 0, 0, 0, 0, loc)
	if date.Before(startToday) {
		return false, nil
	}
	return !date.After(startToday.AddDate(0, 0, windowDays)), nil
}

func IsSlotPast(dateStr, timeStr string, loc *time.Location, now time.Time) (bool, error) {
	slot, err := ParseDateTime(dateStr, timeStr, loc)
	if err != nil {
		return false, err
	}
	return !slot.After(now.In(loc)), nil
}

// Generate emits the ordered sequence of slots for a date between the opening
// and closing hour (exclusive), one per slotMinutes step. Booked labels and,
// for today's date, slots that already passed are marked unavailable. The
// result depends only on the arguments.
func Generate(dateStr string, openingHour, closingHour, slotMinutes int, booked map[string]bool, loc *time.Location, now time.Time) ([]Slot, error) {
	date, err := ParseDate(dateStr, loc)
	if err != nil {
		return nil, err
	}
	if closingHour <= openingHour || slotMinutes <= 0 {
		return nil, ErrInvalidHours
	}

	today := sameDay(date, now.In(loc))

	slots := make([]Slot, 0, (closingHour-openingHour)*60/slotMinutes)
	for cursor := openingHour * 60; cursor < closingHour*60; cursor += slotMinutes {
		label := MinutesToClock(cursor)
		available := !booked[label]
		if available && today {
			past, err := IsSlotPast(dateStr, label, loc, now)
			if err != nil {
				return nil, err
			}
			available = !past
		}
		slots = append(slots, Slot{Time: label, Available: available})
	}

	return slots, nil
}

// FindSlot returns the slot with the given label, if generated for the date.
func FindSlot(slots []Slot, label string) (Slot, bool) {
	for _, s := range slots {
		if s.Time == label {
			return s, true
		}
	}
	return Slot{}, false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
