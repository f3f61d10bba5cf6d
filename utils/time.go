package utils

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// Today returns the current date at midnight local time.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

// DateOnly strips the clock portion of t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseClock validates a "HH:MM" 24h clock string.
func ParseClock(value string) error {
	if _, err := time.Parse(clockLayout, value); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return nil
}

// CombineDateAndClock builds the instant a booking is scheduled for.
func CombineDateAndClock(date time.Time, clock string) (time.Time, error) {
	c, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q, expected HH:MM", clock)
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, time.Local), nil
}

// ClockRangesOverlap reports whether two [start,end) clock ranges
// intersect. "HH:MM" strings compare lexically.
func ClockRangesOverlap(start1, end1, start2, end2 string) bool {
	return start1 < end2 && start2 < end1
}
