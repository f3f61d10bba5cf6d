package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

// SpecificAvailabilityService manages one-off slots bound to calendar
// dates, and the retention of slots whose date has passed.
type SpecificAvailabilityService struct {
	db *gorm.DB
}

func NewSpecificAvailabilityService(db *gorm.DB) *SpecificAvailabilityService {
	return &SpecificAvailabilityService{db: db}
}

type CreateSpecificAvailabilityInput struct {
	ProviderID       uint      `json:"provider_id"`
	ServiceListingID *uint     `json:"service_listing_id"`
	AvailableDate    time.Time `json:"available_date"`
	StartTime        string    `json:"start_time"`
	EndTime          string    `json:"end_time"`
	MaxBookings      *int      `json:"max_bookings"`
	Notes            string    `json:"notes"`
}

type UpdateSpecificAvailabilityInput struct {
	AvailableDate *time.Time `json:"available_date"`
	StartTime     *string    `json:"start_time"`
	EndTime       *string    `json:"end_time"`
	MaxBookings   *int       `json:"max_bookings"`
	Notes         *string    `json:"notes"`
}

// Create stores a date-specific slot after checking the provider, the
// optional listing ownership, the time range and overlap against every
// slot the provider already has on that date.
func (s *SpecificAvailabilityService) Create(in CreateSpecificAvailabilityInput) (*models.SpecificAvailability, error) {
	var provider models.User
	if err := s.db.First(&provider, in.ProviderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("provider not found with ID: %d", in.ProviderID)
		}
		return nil, err
	}

	if in.ServiceListingID != nil {
		var listing models.ServiceListing
		if err := s.db.First(&listing, *in.ServiceListingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, utils.NotFound("service listing not found with ID: %d", *in.ServiceListingID)
			}
			return nil, err
		}
		if listing.ProviderID != in.ProviderID {
			return nil, utils.Unauthorized("service listing does not belong to this provider")
		}
	}

	date := utils.DateOnly(in.AvailableDate)
	if !date.After(utils.Today()) {
		return nil, utils.Validation("available date must be in the future")
	}
	if err := utils.ParseClock(in.StartTime); err != nil {
		return nil, utils.Validation("%v", err)
	}
	if err := utils.ParseClock(in.EndTime); err != nil {
		return nil, utils.Validation("%v", err)
	}
	if in.EndTime <= in.StartTime {
		return nil, utils.Validation("end time must be after start time")
	}
	if in.MaxBookings != nil && *in.MaxBookings < 1 {
		return nil, utils.Validation("max bookings must be at least 1")
	}

	var existing []models.SpecificAvailability
	if err := s.db.Where("provider_id = ? AND available_date = ?", in.ProviderID, date).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, slot := range existing {
		if utils.ClockRangesOverlap(in.StartTime, in.EndTime, slot.StartTime, slot.EndTime) {
			return nil, utils.Conflict("time slot overlaps with existing availability")
		}
	}

	slot := models.SpecificAvailability{
		ProviderID:       in.ProviderID,
		ServiceListingID: in.ServiceListingID,
		AvailableDate:    date,
		StartTime:        in.StartTime,
		EndTime:          in.EndTime,
		IsAvailable:      true,
		MaxBookings:      in.MaxBookings,
		CurrentBookings:  0,
		Notes:            in.Notes,
	}
	if err := s.db.Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *SpecificAvailabilityService) GetByID(id uint) (*models.SpecificAvailability, error) {
	var slot models.SpecificAvailability
	if err := s.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("availability not found with ID: %d", id)
		}
		return nil, err
	}
	return &slot, nil
}

func (s *SpecificAvailabilityService) Update(id, actorID uint, in UpdateSpecificAvailabilityInput) (*models.SpecificAvailability, error) {
	slot, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actorID != 0 && actorID != slot.ProviderID {
		return nil, utils.Unauthorized("you can only update your own availability")
	}

	if in.AvailableDate != nil {
		date := utils.DateOnly(*in.AvailableDate)
		if !date.After(utils.Today()) {
			return nil, utils.Validation("available date must be in the future")
		}
		slot.AvailableDate = date
	}
	if in.StartTime != nil {
		if err := utils.ParseClock(*in.StartTime); err != nil {
			return nil, utils.Validation("%v", err)
		}
		slot.StartTime = *in.StartTime
	}
	if in.EndTime != nil {
		if err := utils.ParseClock(*in.EndTime); err != nil {
			return nil, utils.Validation("%v", err)
		}
		slot.EndTime = *in.EndTime
	}
	if slot.EndTime <= slot.StartTime {
		return nil, utils.Validation("end time must be after start time")
	}
	if in.MaxBookings != nil {
		if *in.MaxBookings < 1 {
			return nil, utils.Validation("max bookings must be at least 1")
		}
		if *in.MaxBookings < slot.CurrentBookings {
			return nil, utils.StateConflict("max bookings cannot drop below current bookings (%d)", slot.CurrentBookings)
		}
		slot.MaxBookings = in.MaxBookings
	}
	if in.Notes != nil {
		slot.Notes = *in.Notes
	}

	if in.AvailableDate != nil || in.StartTime != nil || in.EndTime != nil {
		var siblings []models.SpecificAvailability
		if err := s.db.Where("provider_id = ? AND available_date = ? AND id <> ?",
			slot.ProviderID, slot.AvailableDate, slot.ID).Find(&siblings).Error; err != nil {
			return nil, err
		}
		for _, other := range siblings {
			if utils.ClockRangesOverlap(slot.StartTime, slot.EndTime, other.StartTime, other.EndTime) {
				return nil, utils.Conflict("time slot overlaps with existing availability")
			}
		}
	}

	if err := s.db.Save(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *SpecificAvailabilityService) Delete(id, actorID uint) error {
	slot, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if actorID != 0 && actorID != slot.ProviderID {
		return utils.Unauthorized("you can only delete your own availability")
	}
	return s.db.Delete(slot).Error
}

func (s *SpecificAvailabilityService) setAvailable(id, actorID uint, available bool) (*models.SpecificAvailability, error) {
	slot, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actorID != 0 && actorID != slot.ProviderID {
		return nil, utils.Unauthorized("you can only update your own availability")
	}
	slot.IsAvailable = available
	if err := s.db.Save(slot).Error; err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *SpecificAvailabilityService) MarkAvailable(id, actorID uint) (*models.SpecificAvailability, error) {
	return s.setAvailable(id, actorID, true)
}

func (s *SpecificAvailabilityService) MarkUnavailable(id, actorID uint) (*models.SpecificAvailability, error) {
	return s.setAvailable(id, actorID, false)
}

func (s *SpecificAvailabilityService) ListByProvider(providerID uint) ([]models.SpecificAvailability, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ?", providerID).
		Order("available_date, start_time").Find(&slots).Error
	return slots, err
}

func (s *SpecificAvailabilityService) FutureByProvider(providerID uint) ([]models.SpecificAvailability, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ? AND available_date >= ?", providerID, utils.Today()).
		Order("available_date, start_time").Find(&slots).Error
	return slots, err
}

func (s *SpecificAvailabilityService) ListByListing(listingID uint) ([]models.SpecificAvailability, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("service_listing_id = ?", listingID).
		Order("available_date, start_time").Find(&slots).Error
	return slots, err
}

func (s *SpecificAvailabilityService) FutureByListing(listingID uint) ([]models.SpecificAvailability, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("service_listing_id = ? AND available_date >= ?", listingID, utils.Today()).
		Order("available_date, start_time").Find(&slots).Error
	return slots, err
}

// AvailableDates returns the distinct, sorted dates within the range on
// which the provider has at least one bookable slot.
func (s *SpecificAvailabilityService) AvailableDates(providerID uint, from, to time.Time) ([]time.Time, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ? AND available_date >= ? AND available_date <= ?",
		providerID, utils.DateOnly(from), utils.DateOnly(to)).
		Order("available_date, start_time").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return distinctBookableDates(slots), nil
}

// AvailableDatesForListing is AvailableDates scoped to one listing,
// including the provider-wide slots that apply to every listing.
func (s *SpecificAvailabilityService) AvailableDatesForListing(listingID uint, from, to time.Time) ([]time.Time, error) {
	var listing models.ServiceListing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("service listing not found with ID: %d", listingID)
		}
		return nil, err
	}
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ? AND (service_listing_id = ? OR service_listing_id IS NULL)", listing.ProviderID, listingID).
		Where("available_date >= ? AND available_date <= ?", utils.DateOnly(from), utils.DateOnly(to)).
		Order("available_date, start_time").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return distinctBookableDates(slots), nil
}

func distinctBookableDates(slots []models.SpecificAvailability) []time.Time {
	dates := make([]time.Time, 0)
	seen := make(map[string]bool)
	for _, slot := range slots {
		if !slot.CanAcceptBooking() {
			continue
		}
		key := slot.AvailableDate.Format("2006-01-02")
		if !seen[key] {
			seen[key] = true
			dates = append(dates, slot.AvailableDate)
		}
	}
	return dates
}

// TimeSlotsForDate returns the bookable slots for one exact date,
// sorted by start time.
func (s *SpecificAvailabilityService) TimeSlotsForDate(providerID uint, date time.Time) ([]models.SpecificAvailability, error) {
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ? AND available_date = ?", providerID, utils.DateOnly(date)).
		Order("start_time").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return filterBookable(slots), nil
}

func (s *SpecificAvailabilityService) TimeSlotsForDateAndListing(listingID uint, date time.Time) ([]models.SpecificAvailability, error) {
	var listing models.ServiceListing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("service listing not found with ID: %d", listingID)
		}
		return nil, err
	}
	var slots []models.SpecificAvailability
	err := s.db.Where("provider_id = ? AND (service_listing_id = ? OR service_listing_id IS NULL)", listing.ProviderID, listingID).
		Where("available_date = ?", utils.DateOnly(date)).
		Order("start_time").Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return filterBookable(slots), nil
}

// filterBookable applies the same rule the claim path enforces, so a
// slot listed here is one a booking could actually take.
func filterBookable(slots []models.SpecificAvailability) []models.SpecificAvailability {
	out := make([]models.SpecificAvailability, 0, len(slots))
	for _, slot := range slots {
		if slot.CanAcceptBooking() {
			out = append(out, slot)
		}
	}
	return out
}

// IncrementBooking claims one unit of capacity atomically; slots with a
// nil max accept any number of bookings.
func (s *SpecificAvailabilityService) IncrementBooking(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return claimDateSlot(tx, id)
	})
}

func (s *SpecificAvailabilityService) DecrementBooking(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return releaseDateSlot(tx, id)
	})
}

func claimDateSlot(tx *gorm.DB, id uint) error {
	res := tx.Model(&models.SpecificAvailability{}).
		Where("id = ? AND is_available = ? AND (max_bookings IS NULL OR current_bookings < max_bookings)", id, true).
		Where("available_date >= ?", utils.Today()).
		Update("current_bookings", gorm.Expr("current_bookings + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var slot models.SpecificAvailability
		if err := tx.First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", id)
			}
			return err
		}
		if slot.AvailableDate.Before(utils.Today()) {
			return utils.Validation("availability date has already passed")
		}
		return utils.Conflict("availability slot is fully booked")
	}
	return tx.Model(&models.SpecificAvailability{}).
		Where("id = ? AND max_bookings IS NOT NULL AND current_bookings >= max_bookings", id).
		Update("is_available", false).Error
}

func releaseDateSlot(tx *gorm.DB, id uint) error {
	res := tx.Model(&models.SpecificAvailability{}).
		Where("id = ? AND current_bookings > 0", id).
		Update("current_bookings", gorm.Expr("current_bookings - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var slot models.SpecificAvailability
		if err := tx.First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", id)
			}
			return err
		}
		return nil
	}
	return tx.Model(&models.SpecificAvailability{}).
		Where("id = ? AND (max_bookings IS NULL OR current_bookings < max_bookings)", id).
		Update("is_available", true).Error
}
