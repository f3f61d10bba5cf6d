package models

import (
	"gorm.io/gorm"
)

type DayOfWeek int

const (
	Sunday DayOfWeek = iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// Availability is a recurring weekly slot: one day-of-week plus a time
// range with a booking capacity. Times use "HH:MM" 24h format so they
// compare and sort lexically.
type Availability struct {
	gorm.Model
	ProviderID      uint      `json:"provider_id" gorm:"index:idx_provider_day"`
	Provider        User      `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	DayOfWeek       DayOfWeek `json:"day_of_week" gorm:"index:idx_provider_day"`
	StartTime       string    `json:"start_time"` // "HH:MM" 24h
	EndTime         string    `json:"end_time"`   // "HH:MM" 24h
	IsAvailable     bool      `json:"is_available" gorm:"default:true"`
	MaxBookings     int       `json:"max_bookings" gorm:"default:1"`
	CurrentBookings int       `json:"current_bookings" gorm:"default:0"`
	BreakDuration   *int      `json:"break_duration,omitempty"` // minutes
	Notes           string    `json:"notes,omitempty" gorm:"size:500"`
}

func (a *Availability) IsFullyBooked() bool {
	return a.CurrentBookings >= a.MaxBookings
}

func (a *Availability) CanAcceptBooking() bool {
	return a.IsAvailable && !a.IsFullyBooked()
}

// IncrementBookingCount consumes one unit of capacity and flips the slot
// to unavailable once the ceiling is reached.
func (a *Availability) IncrementBookingCount() {
	a.CurrentBookings++
	if a.IsFullyBooked() {
		a.IsAvailable = false
	}
}

// DecrementBookingCount releases one unit of capacity and re-opens the
// slot if it was closed for being full.
func (a *Availability) DecrementBookingCount() {
	if a.CurrentBookings > 0 {
		a.CurrentBookings--
		if a.CurrentBookings < a.MaxBookings {
			a.IsAvailable = true
		}
	}
}
