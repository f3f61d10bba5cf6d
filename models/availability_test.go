package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityBookingCounters(t *testing.T) {
	slot := Availability{IsAvailable: true, MaxBookings: 2}

	assert.True(t, slot.CanAcceptBooking())
	slot.IncrementBookingCount()
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)

	// Reaching the ceiling closes the slot.
	slot.IncrementBookingCount()
	assert.Equal(t, 2, slot.CurrentBookings)
	assert.True(t, slot.IsFullyBooked())
	assert.False(t, slot.IsAvailable)
	assert.False(t, slot.CanAcceptBooking())

	// Releasing reopens it.
	slot.DecrementBookingCount()
	assert.Equal(t, 1, slot.CurrentBookings)
	assert.True(t, slot.IsAvailable)

	slot.DecrementBookingCount()
	slot.DecrementBookingCount()
	assert.Equal(t, 0, slot.CurrentBookings)
}

func TestSpecificAvailabilityCanAcceptBooking(t *testing.T) {
	today := time.Now()
	max := 1

	future := SpecificAvailability{
		IsAvailable: true, AvailableDate: today.AddDate(0, 0, 3),
	}
	assert.True(t, future.CanAcceptBooking())

	sameDay := SpecificAvailability{
		IsAvailable: true, AvailableDate: today,
	}
	assert.True(t, sameDay.CanAcceptBooking())

	past := SpecificAvailability{
		IsAvailable: true, AvailableDate: today.AddDate(0, 0, -1),
	}
	assert.False(t, past.CanAcceptBooking())

	full := SpecificAvailability{
		IsAvailable: true, AvailableDate: today.AddDate(0, 0, 3),
		MaxBookings: &max, CurrentBookings: 1,
	}
	assert.False(t, full.CanAcceptBooking())

	closed := SpecificAvailability{
		IsAvailable: false, AvailableDate: today.AddDate(0, 0, 3),
	}
	assert.False(t, closed.CanAcceptBooking())

	// Nil max means unlimited.
	unlimited := SpecificAvailability{
		IsAvailable: true, AvailableDate: today.AddDate(0, 0, 3),
		CurrentBookings: 50,
	}
	assert.True(t, unlimited.CanAcceptBooking())
}
