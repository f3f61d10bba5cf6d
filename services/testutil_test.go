package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	// One connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.ServiceListing{},
		&models.Availability{},
		&models.SpecificAvailability{},
		&models.Booking{},
		&models.Review{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name, role string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: name + "@example.com", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedListing(t *testing.T, db *gorm.DB, providerID uint) *models.ServiceListing {
	t.Helper()
	listing := &models.ServiceListing{
		ProviderID:      providerID,
		Name:            "Deep Cleaning",
		Price:           499,
		Currency:        "INR",
		DurationMinutes: 60,
		IsActive:        true,
	}
	require.NoError(t, db.Create(listing).Error)
	return listing
}

func seedBooking(t *testing.T, db *gorm.DB, ref string, customerID, providerID, listingID uint, status models.BookingStatus) *models.Booking {
	t.Helper()
	booking := &models.Booking{
		BookingReference: ref,
		CustomerID:       customerID,
		ProviderID:       providerID,
		ServiceListingID: listingID,
		BookingDate:      tomorrow(),
		BookingTime:      "10:00",
		DurationMinutes:  60,
		Status:           status,
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func tomorrow() time.Time {
	return utils.Today().AddDate(0, 0, 1)
}

func intPtr(v int) *int    { return &v }
func uintPtr(v uint) *uint { return &v }
func boolPtr(v bool) *bool { return &v }
func strPtr(v string) *string {
	return &v
}
