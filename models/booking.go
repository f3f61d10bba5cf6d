package models

import (
	"time"

	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusInProgress BookingStatus = "in_progress"
	StatusCompleted  BookingStatus = "completed"
	StatusCancelled  BookingStatus = "cancelled"
	StatusRejected   BookingStatus = "rejected"
)

// Which slot kind a booking consumed capacity from.
const (
	SlotKindRecurring = "recurring"
	SlotKindDate      = "date"
)

// statusGraph is the booking lifecycle transition table. Anything not
// listed here is an invalid transition; completed, cancelled and
// rejected are terminal.
var statusGraph = map[BookingStatus][]BookingStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled, StatusRejected},
	StatusConfirmed:  {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
	StatusRejected:   {},
}

func (s BookingStatus) Valid() bool {
	_, ok := statusGraph[s]
	return ok
}

func (s BookingStatus) IsTerminal() bool {
	next, ok := statusGraph[s]
	return ok && len(next) == 0
}

// CanTransitionTo consults the transition table.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, next := range statusGraph[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Booking connects a customer with a provider through a service listing.
// It references customer, provider and listing by id only, and carries
// the slot context it consumed capacity from so cancellation releases
// the right counter.
type Booking struct {
	gorm.Model
	BookingReference string         `json:"booking_reference" gorm:"uniqueIndex;size:50"`
	CustomerID       uint           `json:"customer_id" gorm:"index"`
	ProviderID       uint           `json:"provider_id" gorm:"index"`
	ServiceListingID uint           `json:"service_listing_id" gorm:"index"`
	BookingDate      time.Time      `json:"booking_date" gorm:"type:date;index"`
	BookingTime      string         `json:"booking_time"` // "HH:MM" 24h
	DurationMinutes  int            `json:"duration_minutes"`
	Status           BookingStatus  `json:"status" gorm:"size:20;index;default:pending"`

	SlotKind string `json:"slot_kind,omitempty" gorm:"size:20"`
	SlotID   *uint  `json:"slot_id,omitempty"`

	ServiceDoorNo      string `json:"service_door_no" gorm:"size:50"`
	ServiceAddressLine string `json:"service_address_line"`
	ServiceCity        string `json:"service_city" gorm:"size:100"`
	ServiceState       string `json:"service_state" gorm:"size:100"`
	ServicePincode     string `json:"service_pincode" gorm:"size:10"`

	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency" gorm:"size:3;default:INR"`
	PaymentStatus string  `json:"payment_status" gorm:"size:20;default:Pending"`
	PaymentMethod string  `json:"payment_method,omitempty" gorm:"size:50"`

	CustomerNotes      string `json:"customer_notes,omitempty" gorm:"size:1000"`
	ProviderNotes      string `json:"provider_notes,omitempty" gorm:"size:1000"`
	CancellationReason string `json:"cancellation_reason,omitempty"`
	CancelledBy        string `json:"cancelled_by,omitempty" gorm:"size:20"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = StatusPending
	}
	return nil
}
