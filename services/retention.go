package services

import (
	"time"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

// Retention operations purge date-specific slots whose date has passed.
// Deletes are unconditional: capacity counters and referencing bookings
// are not consulted, the slot date alone decides.

// CleanupPast removes every slot dated strictly before today and
// reports how many went. Running it twice on the same day deletes
// nothing the second time.
func (s *SpecificAvailabilityService) CleanupPast() (int64, error) {
	return s.deleteBefore(utils.Today())
}

// CleanupOlderThan is the administrative variant taking an explicit
// cutoff in days before today.
func (s *SpecificAvailabilityService) CleanupOlderThan(days int) (int64, error) {
	if days < 0 {
		return 0, utils.Validation("cutoff days cannot be negative")
	}
	return s.deleteBefore(utils.Today().AddDate(0, 0, -days))
}

// DeleteByDate removes every slot on one exact date.
func (s *SpecificAvailabilityService) DeleteByDate(date time.Time) (int64, error) {
	res := s.db.Unscoped().
		Where("available_date = ?", utils.DateOnly(date)).
		Delete(&models.SpecificAvailability{})
	return res.RowsAffected, res.Error
}

func (s *SpecificAvailabilityService) deleteBefore(cutoff time.Time) (int64, error) {
	res := s.db.Unscoped().
		Where("available_date < ?", cutoff).
		Delete(&models.SpecificAvailability{})
	return res.RowsAffected, res.Error
}

// MaintenanceStats summarises what the retention job would act on.
type MaintenanceStats struct {
	TotalSlots  int64 `json:"total_slots"`
	FutureSlots int64 `json:"future_slots"`
	PastSlots   int64 `json:"past_slots"`
}

func (s *SpecificAvailabilityService) Stats() (*MaintenanceStats, error) {
	var stats MaintenanceStats
	today := utils.Today()
	if err := s.db.Model(&models.SpecificAvailability{}).Count(&stats.TotalSlots).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.SpecificAvailability{}).
		Where("available_date >= ?", today).Count(&stats.FutureSlots).Error; err != nil {
		return nil, err
	}
	stats.PastSlots = stats.TotalSlots - stats.FutureSlots
	return &stats, nil
}
