package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	allowed := map[BookingStatus]map[BookingStatus]bool{
		StatusPending:   {StatusConfirmed: true, StatusCancelled: true, StatusRejected: true},
		StatusConfirmed: {StatusInProgress: true, StatusCancelled: true},
		StatusInProgress: {
			StatusCompleted: true,
		},
		StatusCompleted: {},
		StatusCancelled: {},
		StatusRejected:  {},
	}

	all := []BookingStatus{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRejected,
	}

	for from, targets := range allowed {
		for _, to := range all {
			assert.Equalf(t, targets[to], from.CanTransitionTo(to),
				"transition %s -> %s", from, to)
		}
	}
}

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{
		StatusPending, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusRejected,
	} {
		assert.Truef(t, s.Valid(), "status %s", s)
	}
	assert.False(t, BookingStatus("archived").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestBookingStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusRejected.IsTerminal())
	assert.False(t, BookingStatus("archived").IsTerminal())
}
