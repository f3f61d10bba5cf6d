package models

import (
	"time"
)

// ServiceListing is the catalog record a booking resolves its price,
// provider and default duration from.
type ServiceListing struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	ProviderID      uint      `json:"provider_id" gorm:"index"`
	Provider        User      `json:"provider,omitempty" gorm:"foreignKey:ProviderID"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	Currency        string    `json:"currency" gorm:"size:3;default:INR"`
	PriceUnit       string    `json:"price_unit,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	AverageRating   float64   `json:"average_rating" gorm:"default:0"`
	ReviewCount     int       `json:"review_count" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ApplyRating folds a new rating into the listing's running average.
func (s *ServiceListing) ApplyRating(rating int) {
	total := s.AverageRating*float64(s.ReviewCount) + float64(rating)
	s.ReviewCount++
	s.AverageRating = total / float64(s.ReviewCount)
}
