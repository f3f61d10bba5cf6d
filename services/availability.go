package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

// AvailabilityService manages the recurring weekly slot template.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

type CreateAvailabilityInput struct {
	ProviderID    uint             `json:"provider_id"`
	DayOfWeek     models.DayOfWeek `json:"day_of_week"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	IsAvailable   *bool            `json:"is_available"`
	MaxBookings   *int             `json:"max_bookings"`
	BreakDuration *int             `json:"break_duration"`
	Notes         string           `json:"notes"`
}

type UpdateAvailabilityInput struct {
	DayOfWeek     *models.DayOfWeek `json:"day_of_week"`
	StartTime     *string           `json:"start_time"`
	EndTime       *string           `json:"end_time"`
	IsAvailable   *bool             `json:"is_available"`
	MaxBookings   *int              `json:"max_bookings"`
	BreakDuration *int              `json:"break_duration"`
	Notes         *string           `json:"notes"`
}

// Create validates the time range against every existing slot for the
// provider on that day before storing a fresh slot with zero bookings.
func (s *AvailabilityService) Create(in CreateAvailabilityInput) (*models.Availability, error) {
	var provider models.User
	if err := s.db.First(&provider, in.ProviderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("provider not found with ID: %d", in.ProviderID)
		}
		return nil, err
	}

	if in.DayOfWeek < models.Sunday || in.DayOfWeek > models.Saturday {
		return nil, utils.Validation("day of week must be between 0 (Sunday) and 6 (Saturday)")
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

	maxBookings := 1
	if in.MaxBookings != nil {
		if *in.MaxBookings < 1 {
			return nil, utils.Validation("max bookings must be at least 1")
		}
		maxBookings = *in.MaxBookings
	}
	if in.BreakDuration != nil && *in.BreakDuration < 0 {
		return nil, utils.Validation("break duration cannot be negative")
	}

	var existing []models.Availability
	if err := s.db.Where("provider_id = ? AND day_of_week = ?", in.ProviderID, in.DayOfWeek).
		Find(&existing).Error; err != nil {
		return nil, err
	}
	for _, slot := range existing {
		if slot.StartTime == in.StartTime {
			return nil, utils.Conflict("availability slot already exists at this start time")
		}
		if utils.ClockRangesOverlap(in.StartTime, in.EndTime, slot.StartTime, slot.EndTime) {
			return nil, utils.Conflict("time slot overlaps with existing availability")
		}
	}

	slot := models.Availability{
		ProviderID:      in.ProviderID,
		DayOfWeek:       in.DayOfWeek,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		IsAvailable:     true,
		MaxBookings:     maxBookings,
		CurrentBookings: 0,
		BreakDuration:   in.BreakDuration,
		Notes:           in.Notes,
	}
	if in.IsAvailable != nil {
		slot.IsAvailable = *in.IsAvailable
	}

	if err := s.db.Create(&slot).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *AvailabilityService) GetByID(id uint) (*models.Availability, error) {
	var slot models.Availability
	if err := s.db.First(&slot, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("availability not found with ID: %d", id)
		}
		return nil, err
	}
	return &slot, nil
}

// Update applies only the supplied fields and re-validates the merged
// time range. actorID 0 skips the ownership check (admin paths).
func (s *AvailabilityService) Update(id, actorID uint, in UpdateAvailabilityInput) (*models.Availability, error) {
	slot, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if actorID != 0 && actorID != slot.ProviderID {
		return nil, utils.Unauthorized("you can only update your own availability")
	}

	if in.DayOfWeek != nil {
		if *in.DayOfWeek < models.Sunday || *in.DayOfWeek > models.Saturday {
			return nil, utils.Validation("day of week must be between 0 (Sunday) and 6 (Saturday)")
		}
		slot.DayOfWeek = *in.DayOfWeek
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
	if in.IsAvailable != nil {
		slot.IsAvailable = *in.IsAvailable
	}
	if in.MaxBookings != nil {
		if *in.MaxBookings < 1 {
			return nil, utils.Validation("max bookings must be at least 1")
		}
		if *in.MaxBookings < slot.CurrentBookings {
			return nil, utils.StateConflict("max bookings cannot drop below current bookings (%d)", slot.CurrentBookings)
		}
		slot.MaxBookings = *in.MaxBookings
	}
	if in.BreakDuration != nil {
		slot.BreakDuration = in.BreakDuration
	}
	if in.Notes != nil {
		slot.Notes = *in.Notes
	}

	// Moving the slot must not introduce an overlap with its siblings.
	if in.DayOfWeek != nil || in.StartTime != nil || in.EndTime != nil {
		var siblings []models.Availability
		if err := s.db.Where("provider_id = ? AND day_of_week = ? AND id <> ?",
			slot.ProviderID, slot.DayOfWeek, slot.ID).Find(&siblings).Error; err != nil {
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

// Delete refuses while bookings still hold capacity on the slot.
func (s *AvailabilityService) Delete(id, actorID uint) error {
	slot, err := s.GetByID(id)
	if err != nil {
		return err
	}
	if actorID != 0 && actorID != slot.ProviderID {
		return utils.Unauthorized("you can only delete your own availability")
	}
	if slot.CurrentBookings > 0 {
		return utils.StateConflict("availability has %d active bookings", slot.CurrentBookings)
	}
	return s.db.Delete(slot).Error
}

// DeleteProviderAvailability removes the provider's whole weekly
// template, provided none of the slots hold active bookings.
func (s *AvailabilityService) DeleteProviderAvailability(providerID, actorID uint) error {
	if actorID != 0 && actorID != providerID {
		return utils.Unauthorized("you can only delete your own availability")
	}
	var busy int64
	if err := s.db.Model(&models.Availability{}).
		Where("provider_id = ? AND current_bookings > 0", providerID).
		Count(&busy).Error; err != nil {
		return err
	}
	if busy > 0 {
		return utils.StateConflict("provider has %d slots with active bookings", busy)
	}
	return s.db.Where("provider_id = ?", providerID).Delete(&models.Availability{}).Error
}

func (s *AvailabilityService) ListByProvider(providerID uint) ([]models.Availability, error) {
	var slots []models.Availability
	err := s.db.Where("provider_id = ?", providerID).
		Order("day_of_week, start_time").Find(&slots).Error
	return slots, err
}

func (s *AvailabilityService) ListByDay(providerID uint, day models.DayOfWeek) ([]models.Availability, error) {
	var slots []models.Availability
	err := s.db.Where("provider_id = ? AND day_of_week = ?", providerID, day).
		Order("start_time").Find(&slots).Error
	return slots, err
}

// AvailableSlots returns the bookable slots for a provider, optionally
// narrowed to one day, ordered by day then start time.
func (s *AvailabilityService) AvailableSlots(providerID uint, day *models.DayOfWeek) ([]models.Availability, error) {
	q := s.db.Where("provider_id = ? AND is_available = ? AND current_bookings < max_bookings",
		providerID, true)
	if day != nil {
		q = q.Where("day_of_week = ?", *day)
	}
	var slots []models.Availability
	err := q.Order("day_of_week, start_time").Find(&slots).Error
	return slots, err
}

func (s *AvailabilityService) IsSlotAvailable(providerID uint, day models.DayOfWeek, startTime string) (bool, error) {
	var slot models.Availability
	err := s.db.Where("provider_id = ? AND day_of_week = ? AND start_time = ?",
		providerID, day, startTime).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return slot.CanAcceptBooking(), nil
}

// IncrementBooking claims one unit of capacity with a single conditional
// update so concurrent claims cannot over-book the slot.
func (s *AvailabilityService) IncrementBooking(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return claimRecurringSlot(tx, id)
	})
}

// DecrementBooking releases one unit of capacity, never dropping the
// counter below zero.
func (s *AvailabilityService) DecrementBooking(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return releaseRecurringSlot(tx, id)
	})
}

// claimRecurringSlot performs the atomic check-and-increment inside the
// caller's transaction. Zero rows affected means the slot is either
// missing, closed or already at capacity.
func claimRecurringSlot(tx *gorm.DB, id uint) error {
	res := tx.Model(&models.Availability{}).
		Where("id = ? AND is_available = ? AND current_bookings < max_bookings", id, true).
		Update("current_bookings", gorm.Expr("current_bookings + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var slot models.Availability
		if err := tx.First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", id)
			}
			return err
		}
		return utils.Conflict("availability slot is fully booked")
	}
	// Close the slot once the ceiling is reached.
	return tx.Model(&models.Availability{}).
		Where("id = ? AND current_bookings >= max_bookings", id).
		Update("is_available", false).Error
}

func releaseRecurringSlot(tx *gorm.DB, id uint) error {
	res := tx.Model(&models.Availability{}).
		Where("id = ? AND current_bookings > 0", id).
		Update("current_bookings", gorm.Expr("current_bookings - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var slot models.Availability
		if err := tx.First(&slot, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("availability not found with ID: %d", id)
			}
			return err
		}
		return nil // already at zero
	}
	return tx.Model(&models.Availability{}).
		Where("id = ? AND current_bookings < max_bookings", id).
		Update("is_available", true).Error
}
