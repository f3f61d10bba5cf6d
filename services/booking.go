package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

// BookingService drives the booking lifecycle state machine and the
// slot capacity it consumes.
type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

type CreateBookingInput struct {
	CustomerID       uint      `json:"customer_id"`
	ServiceListingID uint      `json:"service_listing_id"`
	BookingDate      time.Time `json:"booking_date"`
	BookingTime      string    `json:"booking_time"`
	DurationMinutes  *int      `json:"duration_minutes"`

	// Slot context the booking consumes capacity from. Optional: a
	// booking may be taken outside any published slot.
	SlotKind string `json:"slot_kind"`
	SlotID   *uint  `json:"slot_id"`

	ServiceDoorNo      string `json:"service_door_no"`
	ServiceAddressLine string `json:"service_address_line"`
	ServiceCity        string `json:"service_city"`
	ServiceState       string `json:"service_state"`
	ServicePincode     string `json:"service_pincode"`

	CustomerNotes string `json:"customer_notes"`
	PaymentMethod string `json:"payment_method"`
}

type UpdateBookingStatusInput struct {
	Status             models.BookingStatus `json:"status"`
	ProviderNotes      string               `json:"provider_notes"`
	CancellationReason string               `json:"cancellation_reason"`
	CancelledBy        string               `json:"cancelled_by"`
}

// Create validates the request, resolves price and provider from the
// listing, claims the slot capacity and persists the booking — all in
// one transaction, so a capacity conflict leaves nothing behind.
func (s *BookingService) Create(in CreateBookingInput) (*models.Booking, error) {
	if err := utils.ParseClock(in.BookingTime); err != nil {
		return nil, utils.Validation("%v", err)
	}
	scheduledAt, err := utils.CombineDateAndClock(in.BookingDate, in.BookingTime)
	if err != nil {
		return nil, utils.Validation("%v", err)
	}
	if !scheduledAt.After(time.Now()) {
		return nil, utils.Validation("booking date and time must be in the future")
	}
	if in.ServiceDoorNo == "" || in.ServiceAddressLine == "" || in.ServiceCity == "" ||
		in.ServiceState == "" || in.ServicePincode == "" {
		return nil, utils.Validation("service address is required")
	}
	if in.SlotID != nil && in.SlotKind != models.SlotKindRecurring && in.SlotKind != models.SlotKindDate {
		return nil, utils.Validation("slot kind must be %q or %q", models.SlotKindRecurring, models.SlotKindDate)
	}

	var booking *models.Booking
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.User
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("customer not found with ID: %d", in.CustomerID)
			}
			return err
		}

		var listing models.ServiceListing
		if err := tx.First(&listing, in.ServiceListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("service listing not found with ID: %d", in.ServiceListingID)
			}
			return err
		}

		duration := listing.DurationMinutes
		if in.DurationMinutes != nil {
			if *in.DurationMinutes <= 0 {
				return utils.Validation("duration must be positive")
			}
			duration = *in.DurationMinutes
		}

		if in.SlotID != nil {
			if err := s.claimSlot(tx, in.SlotKind, *in.SlotID, &listing); err != nil {
				return err
			}
		}

		booking = &models.Booking{
			CustomerID:       customer.ID,
			ProviderID:       listing.ProviderID,
			ServiceListingID: listing.ID,
			BookingDate:      utils.DateOnly(in.BookingDate),
			BookingTime:      in.BookingTime,
			DurationMinutes:  duration,
			Status:           models.StatusPending,
			SlotKind:         in.SlotKind,
			SlotID:           in.SlotID,

			ServiceDoorNo:      in.ServiceDoorNo,
			ServiceAddressLine: in.ServiceAddressLine,
			ServiceCity:        in.ServiceCity,
			ServiceState:       in.ServiceState,
			ServicePincode:     in.ServicePincode,

			TotalAmount:   listing.Price,
			Currency:      listing.Currency,
			PaymentStatus: "Pending",
			PaymentMethod: in.PaymentMethod,
			CustomerNotes: in.CustomerNotes,
		}
		return insertWithReference(tx, booking)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// claimSlot verifies the slot belongs to the listing's provider, then
// performs the atomic capacity claim.
func (s *BookingService) claimSlot(tx *gorm.DB, kind string, slotID uint, listing *models.ServiceListing) error {
	switch kind {
	case models.SlotKindRecurring:
		var slot models.Availability
		if err := tx.First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", slotID)
			}
			return err
		}
		if slot.ProviderID != listing.ProviderID {
			return utils.Validation("availability slot does not belong to this provider")
		}
		return claimRecurringSlot(tx, slotID)
	case models.SlotKindDate:
		var slot models.SpecificAvailability
		if err := tx.First(&slot, slotID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", slotID)
			}
			return err
		}
		if slot.ProviderID != listing.ProviderID {
			return utils.Validation("availability slot does not belong to this provider")
		}
		if slot.ServiceListingID != nil && *slot.ServiceListingID != listing.ID {
			return utils.Validation("availability slot is reserved for a different listing")
		}
		return claimDateSlot(tx, slotID)
	default:
		return utils.Validation("slot kind must be %q or %q", models.SlotKindRecurring, models.SlotKindDate)
	}
}

// insertWithReference issues the human-readable reference, format
// BK-<year>-<sequence>, and persists the booking. Soft-deleted rows
// stay in the count so a sequence number is never reused. Concurrent
// creates can derive the same sequence; a collision on the unique index
// bumps the sequence and retries instead of surfacing a driver error.
func insertWithReference(tx *gorm.DB, booking *models.Booking) error {
	var count int64
	if err := tx.Unscoped().Model(&models.Booking{}).Count(&count).Error; err != nil {
		return err
	}
	for attempt := int64(0); attempt < 5; attempt++ {
		booking.BookingReference = fmt.Sprintf("BK-%d-%06d", time.Now().Year(), count+1+attempt)
		if err := tx.SavePoint("booking_ref").Error; err != nil {
			return err
		}
		err := tx.Create(booking).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		if err := tx.RollbackTo("booking_ref").Error; err != nil {
			return err
		}
		booking.ID = 0
	}
	return utils.Conflict("could not allocate a booking reference, please retry")
}

func (s *BookingService) GetByID(id uint) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.First(&booking, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("booking not found with ID: %d", id)
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) GetByReference(reference string) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Where("booking_reference = ?", reference).First(&booking).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("booking not found with reference: %s", reference)
		}
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) ListByCustomer(customerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListByProvider(providerID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListByListing(listingID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Where("service_listing_id = ?", listingID).
		Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

func (s *BookingService) ListByStatus(status models.BookingStatus) ([]models.Booking, error) {
	if !status.Valid() {
		return nil, utils.Validation("unknown booking status %q", status)
	}
	var bookings []models.Booking
	err := s.db.Where("status = ?", status).
		Order("created_at DESC").Find(&bookings).Error
	return bookings, err
}

// UpdateStatus applies one lifecycle transition. The transition table
// decides legality; side effects (timestamps, capacity release) happen
// in the same transaction as the status write.
func (s *BookingService) UpdateStatus(id, actorID uint, in UpdateBookingStatusInput) (*models.Booking, error) {
	if !in.Status.Valid() {
		return nil, utils.Validation("unknown booking status %q", in.Status)
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("booking not found with ID: %d", id)
			}
			return err
		}
		if actorID != 0 && actorID != booking.CustomerID && actorID != booking.ProviderID {
			return utils.Unauthorized("you are not a party to this booking")
		}
		if !booking.Status.CanTransitionTo(in.Status) {
			return utils.InvalidTransition("cannot transition booking from %s to %s", booking.Status, in.Status)
		}

		now := time.Now()
		switch in.Status {
		case models.StatusConfirmed:
			booking.ConfirmedAt = &now
		case models.StatusCompleted:
			booking.CompletedAt = &now
		case models.StatusCancelled:
			booking.CancelledAt = &now
			booking.CancellationReason = in.CancellationReason
			booking.CancelledBy = in.CancelledBy
			if err := s.releaseSlot(tx, &booking); err != nil {
				return err
			}
		case models.StatusRejected:
			booking.CancelledAt = &now
			booking.ProviderNotes = in.CancellationReason
		}
		if in.ProviderNotes != "" {
			booking.ProviderNotes = in.ProviderNotes
		}

		booking.Status = in.Status
		return tx.Save(&booking).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) releaseSlot(tx *gorm.DB, booking *models.Booking) error {
	if booking.SlotID == nil {
		return nil
	}
	switch booking.SlotKind {
	case models.SlotKindRecurring:
		return releaseRecurringSlot(tx, *booking.SlotID)
	case models.SlotKindDate:
		return releaseDateSlot(tx, *booking.SlotID)
	}
	return nil
}

func (s *BookingService) Confirm(id, actorID uint) (*models.Booking, error) {
	return s.UpdateStatus(id, actorID, UpdateBookingStatusInput{Status: models.StatusConfirmed})
}

func (s *BookingService) Start(id, actorID uint) (*models.Booking, error) {
	return s.UpdateStatus(id, actorID, UpdateBookingStatusInput{Status: models.StatusInProgress})
}

func (s *BookingService) Complete(id, actorID uint) (*models.Booking, error) {
	return s.UpdateStatus(id, actorID, UpdateBookingStatusInput{Status: models.StatusCompleted})
}

func (s *BookingService) Cancel(id, actorID uint, reason, cancelledBy string) (*models.Booking, error) {
	return s.UpdateStatus(id, actorID, UpdateBookingStatusInput{
		Status:             models.StatusCancelled,
		CancellationReason: reason,
		CancelledBy:        cancelledBy,
	})
}

func (s *BookingService) Reject(id, actorID uint, reason string) (*models.Booking, error) {
	return s.UpdateStatus(id, actorID, UpdateBookingStatusInput{
		Status:             models.StatusRejected,
		CancellationReason: reason,
	})
}

// Delete is the administrative hard delete. A still-active booking
// releases its slot capacity on the way out so the counters don't
// drift.
func (s *BookingService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("booking not found with ID: %d", id)
			}
			return err
		}
		if !booking.Status.IsTerminal() {
			if err := s.releaseSlot(tx, &booking); err != nil {
				return err
			}
		}
		return tx.Unscoped().Delete(&booking).Error
	})
}
