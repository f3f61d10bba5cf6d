package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	assert.NoError(t, ParseClock("09:00"))
	assert.NoError(t, ParseClock("23:59"))
	assert.Error(t, ParseClock("9am"))
	assert.Error(t, ParseClock("25:00"))
	assert.Error(t, ParseClock(""))
}

func TestCombineDateAndClock(t *testing.T) {
	date := time.Date(2026, time.September, 14, 17, 45, 12, 0, time.Local)
	got, err := CombineDateAndClock(date, "09:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.September, 14, 9, 30, 0, 0, time.Local), got)

	_, err = CombineDateAndClock(date, "half nine")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, time.September, 14, 17, 45, 12, 999, time.Local)
	assert.Equal(t, time.Date(2026, time.September, 14, 0, 0, 0, 0, time.Local), DateOnly(in))
}

func TestClockRangesOverlap(t *testing.T) {
	cases := []struct {
		name                       string
		start1, end1, start2, end2 string
		want                       bool
	}{
		{"disjoint", "09:00", "10:00", "11:00", "12:00", false},
		{"adjacent", "09:00", "10:00", "10:00", "11:00", false},
		{"partial", "09:00", "11:00", "10:00", "12:00", true},
		{"contained", "09:00", "12:00", "10:00", "11:00", true},
		{"identical", "09:00", "10:00", "09:00", "10:00", true},
		{"reversed order", "11:00", "12:00", "09:00", "11:30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClockRangesOverlap(tc.start1, tc.end1, tc.start2, tc.end2))
			assert.Equal(t, tc.want, ClockRangesOverlap(tc.start2, tc.end2, tc.start1, tc.end1))
		})
	}
}
