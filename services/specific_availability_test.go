package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

func seedDateSlot(t *testing.T, db *gorm.DB, providerID uint, date time.Time, start, end string) *models.SpecificAvailability {
	t.Helper()
	slot := &models.SpecificAvailability{
		ProviderID:    providerID,
		AvailableDate: utils.DateOnly(date),
		StartTime:     start,
		EndTime:       end,
		IsAvailable:   true,
	}
	require.NoError(t, db.Create(slot).Error)
	return slot
}

func TestCreateSpecificAvailabilityRequiresFutureDate(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	_, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: utils.Today().AddDate(0, 0, -1),
		StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	_, err = svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: utils.Today(),
		StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	slot, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)
	assert.Nil(t, slot.MaxBookings)
}

func TestCreateSpecificAvailabilityListingOwnership(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	other := seedUser(t, db, "suresh", models.RoleProvider)
	listing := seedListing(t, db, other.ID)
	svc := NewSpecificAvailabilityService(db)

	_, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, ServiceListingID: &listing.ID,
		AvailableDate: tomorrow(), StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, utils.KindUnauthorized, utils.KindOf(err))
}

func TestCreateSpecificAvailabilityRejectsOverlap(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	_, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	_, err = svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "11:00", EndTime: "13:00",
	})
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	// Same window the next day is fine.
	_, err = svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow().AddDate(0, 0, 1),
		StartTime: "11:00", EndTime: "13:00",
	})
	assert.NoError(t, err)
}

func TestDateSlotUnlimitedCapacity(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	slot, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "09:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.IncrementBooking(slot.ID))
	}
	got, err := svc.GetByID(slot.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.CurrentBookings)
	assert.True(t, got.IsAvailable)
}

func TestDateSlotCapacityCeiling(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	slot, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "09:00", EndTime: "12:00", MaxBookings: intPtr(1),
	})
	require.NoError(t, err)

	require.NoError(t, svc.IncrementBooking(slot.ID))
	got, err := svc.GetByID(slot.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAvailable)

	err = svc.IncrementBooking(slot.ID)
	assert.Equal(t, utils.KindConflict, utils.KindOf(err))

	require.NoError(t, svc.DecrementBooking(slot.ID))
	got, err = svc.GetByID(slot.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAvailable)
	assert.Equal(t, 0, got.CurrentBookings)
}

func TestClaimPastDateSlot(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	past := seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -1), "09:00", "12:00")
	err := svc.IncrementBooking(past.ID)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))
}

func TestAvailableDatesDistinctAndSorted(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	day1 := tomorrow()
	day2 := tomorrow().AddDate(0, 0, 1)
	day3 := tomorrow().AddDate(0, 0, 2)

	// Two slots on day1, one on day2, a closed one on day3.
	for _, in := range []CreateSpecificAvailabilityInput{
		{ProviderID: provider.ID, AvailableDate: day2, StartTime: "09:00", EndTime: "10:00"},
		{ProviderID: provider.ID, AvailableDate: day1, StartTime: "09:00", EndTime: "10:00"},
		{ProviderID: provider.ID, AvailableDate: day1, StartTime: "10:00", EndTime: "11:00"},
	} {
		_, err := svc.Create(in)
		require.NoError(t, err)
	}
	closed, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: day3, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
	_, err = svc.MarkUnavailable(closed.ID, provider.ID)
	require.NoError(t, err)

	dates, err := svc.AvailableDates(provider.ID, utils.Today(), day3)
	require.NoError(t, err)
	require.Len(t, dates, 2)
	assert.Equal(t, day1.Format("2006-01-02"), dates[0].Format("2006-01-02"))
	assert.Equal(t, day2.Format("2006-01-02"), dates[1].Format("2006-01-02"))
}

func TestAvailableDatesForListingIncludesProviderWideSlots(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	listing := seedListing(t, db, provider.ID)
	svc := NewSpecificAvailabilityService(db)

	day1 := tomorrow()
	day2 := tomorrow().AddDate(0, 0, 1)

	// Listing-bound slot plus a provider-wide one.
	_, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, ServiceListingID: &listing.ID,
		AvailableDate: day1, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)
	_, err = svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: day2, StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)

	dates, err := svc.AvailableDatesForListing(listing.ID, utils.Today(), day2)
	require.NoError(t, err)
	assert.Len(t, dates, 2)
}

func TestTimeSlotsForDateFiltersBookable(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	open, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "09:00", EndTime: "10:00",
	})
	require.NoError(t, err)

	full, err := svc.Create(CreateSpecificAvailabilityInput{
		ProviderID: provider.ID, AvailableDate: tomorrow(),
		StartTime: "10:00", EndTime: "11:00", MaxBookings: intPtr(1),
	})
	require.NoError(t, err)
	require.NoError(t, svc.IncrementBooking(full.ID))

	slots, err := svc.TimeSlotsForDate(provider.ID, tomorrow())
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, open.ID, slots[0].ID)
}

func TestTimeSlotsForPastDateListsNothing(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	// An open slot on a past date is not claimable, so it must not be
	// listed as bookable either.
	yesterday := utils.Today().AddDate(0, 0, -1)
	seedDateSlot(t, db, provider.ID, yesterday, "09:00", "12:00")

	slots, err := svc.TimeSlotsForDate(provider.ID, yesterday)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestCleanupPastIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -2), "09:00", "10:00")
	seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -1), "09:00", "10:00")
	today := seedDateSlot(t, db, provider.ID, utils.Today(), "09:00", "10:00")
	future := seedDateSlot(t, db, provider.ID, tomorrow(), "09:00", "10:00")

	deleted, err := svc.CleanupPast()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// Today's slot and the future one survive.
	_, err = svc.GetByID(today.ID)
	assert.NoError(t, err)
	_, err = svc.GetByID(future.ID)
	assert.NoError(t, err)

	// The second run finds nothing to purge.
	deleted, err = svc.CleanupPast()
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestCleanupOlderThan(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	_, err := svc.CleanupOlderThan(-1)
	assert.Equal(t, utils.KindValidation, utils.KindOf(err))

	seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -10), "09:00", "10:00")
	recent := seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -3), "09:00", "10:00")

	deleted, err := svc.CleanupOlderThan(7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	_, err = svc.GetByID(recent.ID)
	assert.NoError(t, err)
}

func TestDeleteByDate(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	seedDateSlot(t, db, provider.ID, tomorrow(), "09:00", "10:00")
	seedDateSlot(t, db, provider.ID, tomorrow(), "10:00", "11:00")
	other := seedDateSlot(t, db, provider.ID, tomorrow().AddDate(0, 0, 1), "09:00", "10:00")

	deleted, err := svc.DeleteByDate(tomorrow())
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	_, err = svc.GetByID(other.ID)
	assert.NoError(t, err)
}

func TestMaintenanceStats(t *testing.T) {
	db := newTestDB(t)
	provider := seedUser(t, db, "rajesh", models.RoleProvider)
	svc := NewSpecificAvailabilityService(db)

	seedDateSlot(t, db, provider.ID, utils.Today().AddDate(0, 0, -1), "09:00", "10:00")
	seedDateSlot(t, db, provider.ID, utils.Today(), "09:00", "10:00")
	seedDateSlot(t, db, provider.ID, tomorrow(), "09:00", "10:00")

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalSlots)
	assert.Equal(t, int64(2), stats.FutureSlots)
	assert.Equal(t, int64(1), stats.PastSlots)
}
