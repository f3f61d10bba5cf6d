package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

func bookingInput(customerID, listingID uint) CreateBookingInput {
	return CreateBookingInput{
		CustomerID:         customerID,
		ServiceListingID:   listingID,
		BookingDate:        tomorrow(),
		BookingTime:        "10:00",
		ServiceDoorNo:      "12A",
		ServiceAddressLine: "MG Road",
		ServiceCity:        "Bengaluru",
		ServiceState:       "Karnataka",
		ServicePincode:     "560001",
	}
}

func TestCreateBooking(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, booking.Status)
	assert.Equal(t, provider.ID, booking.ProviderID)
	assert.Equal(t, listing.Price, booking.TotalAmount)
	assert.Equal(t, "INR", booking.Currency)
	assert.Equal(t, "Pending", booking.PaymentStatus)
	assert.Equal(t, listing.DurationMinutes, booking.DurationMinutes)
	assert.Equal(t, fmt.Sprintf("BK-%d-%06d", time.Now().Year(), 1), booking.BookingReference)

	second, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("BK-%d-%06d", time.Now().Year(), 2), second.BookingReference)
}

func TestCreateBookingReferenceCollisionRetries(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	// One row exists and already holds the reference the count would
	// derive next, the situation two concurrent creates produce.
	taken := fmt.Sprintf("BK-%d-%06d", time.Now().Year(), 2)
	seedBooking(t, db, taken, customer.ID, provider.ID, listing.ID, models.StatusPending)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("BK-%d-%06d", time.Now().Year(), 3), booking.BookingReference)
}

func TestCreateBookingValidation(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	in := bookingInput(customer.ID, listing.ID)
	in.BookingDate = utils.Today().AddDate(0, 0, -1)
	_, err := svc.Create(in)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	in = bookingInput(customer.ID, listing.ID)
	in.ServiceCity = ""
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	in = bookingInput(customer.ID, listing.ID)
	in.SlotKind = "weekly"
	in.SlotID = uintPtr(1)
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	in = bookingInput(customer.ID, 9999)
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	in = bookingInput(9999, listing.ID)
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}

func TestCreateBookingClaimsSlotCapacity(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	slots := NewAvailabilityService(db)
	svc := NewBookingService(db)

	slot, err := slots.Create(CreateAvailabilityInput{
		ProviderID: provider.ID, DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	in := bookingInput(customer.ID, listing.ID)
	in.SlotKind = models.SlotKindRecurring
	in.SlotID = &slot.ID
	booking, err := svc.Create(in)
	require.NoError(t, err)
	assert.Equal(t, models.SlotKindRecurring, booking.SlotKind)

	got, err := slots.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentBookings)
	assert.False(t, got.IsAvailable)

	// A second booking against the full slot fails and leaves no row
	// behind.
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateBookingRejectsForeignSlot(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	other := seedUser(t, db, "suresh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	slots := NewAvailabilityService(db)
	svc := NewBookingService(db)

	slot, err := slots.Create(CreateAvailabilityInput{
		ProviderID: other.ID, DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	in := bookingInput(customer.ID, listing.ID)
	in.SlotKind = models.SlotKindRecurring
	in.SlotID = &slot.ID
	_, err = svc.Create(in)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestBookingLifecycle(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)

	booking, err = svc.Confirm(booking.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, booking.Status)
	assert.NotNil(t, booking.ConfirmedAt)

	booking, err = svc.Start(booking.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, booking.Status)

	booking, err = svc.Complete(booking.ID, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, booking.Status)
	assert.NotNil(t, booking.CompletedAt)

	// Completed is terminal.
	_, err = svc.Cancel(booking.ID, customer.ID, "changed my mind", models.RoleCustomer)
	assert.Equal(t, utils.KindInvalidTransition, utils.KindOf(err))
}

func TestCancelReleasesSlotCapacity(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	slots := NewAvailabilityService(db)
	svc := NewBookingService(db)

	slot, err := slots.Create(CreateAvailabilityInput{
		ProviderID: provider.ID, DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	in := bookingInput(customer.ID, listing.ID)
	in.SlotKind = models.SlotKindRecurring
	in.SlotID = &slot.ID
	booking, err := svc.Create(in)
	require.NoError(t, err)

	booking, err = svc.Confirm(booking.ID, provider.ID)
	require.NoError(t, err)

	booking, err = svc.Cancel(booking.ID, customer.ID, "plans changed", models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, booking.Status)
	assert.Equal(t, "plans changed", booking.CancellationReason)
	assert.Equal(t, models.RoleCustomer, booking.CancelledBy)
	assert.NotNil(t, booking.CancelledAt)

	got, err := slots.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentBookings)
	assert.True(t, got.IsAvailable)
}

func TestRejectBooking(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)

	booking, err = svc.Reject(booking.ID, provider.ID, "fully booked that day")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, booking.Status)
	assert.Equal(t, "fully booked that day", booking.ProviderNotes)
	assert.NotNil(t, booking.CancelledAt)

	// Rejected is terminal.
	_, err = svc.Confirm(booking.ID, provider.ID)
	assert.Equal(t, utils.KindInvalidTransition, utils.KindOf(err))
}

func TestUpdateStatusOwnership(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	stranger := seedUser(t, db, "vikram", models.RoleCustomer)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)

	_, err = svc.Confirm(booking.ID, stranger.ID)
	assert.Equal(t, utils.KindUnauthorized, utils.KindOf(err))

	// Admin path skips the check.
	_, err = svc.Confirm(booking.ID, 0)
	assert.NoError(t, err)
}

func TestBookingLookups(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewBookingService(db)

	booking, err := svc.Create(bookingInput(customer.ID, listing.ID))
	require.NoError(t, err)

	byRef, err := svc.GetByReference(booking.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, booking.ID, byRef.ID)

	_, err = svc.GetByReference("BK-0000-000000")
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))

	mine, err := svc.ListByCustomer(customer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	pending, err := svc.ListByStatus(models.StatusPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.ListByStatus("archived")
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestDeleteBookingReleasesActiveSlot(t *testing.T) {
	db := newTestDB(t)
	customer := seedUser(t, db, "anita", models.RoleCustomer)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	slots := NewAvailabilityService(db)
	svc := NewBookingService(db)

	slot, err := slots.Create(CreateAvailabilityInput{
		ProviderID: provider.ID, DayOfWeek: models.Monday, StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	in := bookingInput(customer.ID, listing.ID)
	in.SlotKind = models.SlotKindRecurring
	in.SlotID = &slot.ID
	booking, err := svc.Create(in)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(booking.ID))

	got, err := slots.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.CurrentBookings)

	_, err = svc.GetByID(booking.ID)
	assert.Equal(t, utils.KindNotFound, utils.KindOf(err))
}
