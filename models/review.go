package models

import (
	"gorm.io/gorm"
)

// Review is a customer's rating of a provider. When linked to a booking
// it is marked verified; at most one review may exist per booking.
type Review struct {
	gorm.Model
	CustomerID uint  `json:"customer_id" gorm:"index"`
	ProviderID uint  `json:"provider_id" gorm:"index"`
	BookingID  *uint `json:"booking_id,omitempty" gorm:"uniqueIndex"`

	Rating         int    `json:"rating" gorm:"not null"`
	Title          string `json:"title,omitempty" gorm:"size:200"`
	Comment        string `json:"comment" gorm:"size:2000"`
	OnTime         *bool  `json:"on_time,omitempty"`
	WouldRecommend *bool  `json:"would_recommend,omitempty"`

	Verified   bool   `json:"verified" gorm:"default:false"`
	Flagged    bool   `json:"flagged" gorm:"default:false"`
	FlagReason string `json:"flag_reason,omitempty"`
}
