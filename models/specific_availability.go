package models

import (
	"time"

	"gorm.io/gorm"
)

// SpecificAvailability is a one-off slot bound to a calendar date. It
// overrides or extends the weekly Availability template. A nil
// ServiceListingID means the slot applies to all the provider's listings;
// a nil MaxBookings means unlimited capacity.
type SpecificAvailability struct {
	gorm.Model
	ProviderID       uint            `json:"provider_id" gorm:"index:idx_provider_date"`
	Provider         User            `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	ServiceListingID *uint           `json:"service_listing_id,omitempty" gorm:"index"`
	ServiceListing   *ServiceListing `json:"service_listing,omitempty" gorm:"foreignKey:ServiceListingID"`
	AvailableDate    time.Time       `json:"available_date" gorm:"type:date;index:idx_provider_date"`
	StartTime        string          `json:"start_time"` // "HH:MM" 24h
	EndTime          string          `json:"end_time"`   // "HH:MM" 24h
	IsAvailable      bool            `json:"is_available" gorm:"default:true"`
	MaxBookings      *int            `json:"max_bookings,omitempty"`
	CurrentBookings  int             `json:"current_bookings" gorm:"default:0"`
	Notes            string          `json:"notes,omitempty" gorm:"size:500"`
}

func (s *SpecificAvailability) IsFullyBooked() bool {
	return s.MaxBookings != nil && s.CurrentBookings >= *s.MaxBookings
}

// CanAcceptBooking reports whether the slot is open, has capacity left
// and its date has not passed.
func (s *SpecificAvailability) CanAcceptBooking() bool {
	y, m, d := time.Now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, s.AvailableDate.Location())
	return s.IsAvailable && !s.IsFullyBooked() && !s.AvailableDate.Before(today)
}

func (s *SpecificAvailability) IncrementBookingCount() {
	s.CurrentBookings++
	if s.IsFullyBooked() {
		s.IsAvailable = false
	}
}

func (s *SpecificAvailability) DecrementBookingCount() {
	if s.CurrentBookings > 0 {
		s.CurrentBookings--
		if s.MaxBookings == nil || s.CurrentBookings < *s.MaxBookings {
			s.IsAvailable = true
		}
	}
}
