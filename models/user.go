package models

import (
	"time"
)

const (
	RoleCustomer = "customer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// User is the local record backing the user directory. Identity and
// authentication live upstream; this core only needs existence, role and
// the provider rating aggregate.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name"`
	Email         string    `json:"email" gorm:"unique"`
	Phone         string    `json:"phone,omitempty"`
	Role          string    `json:"role" gorm:"default:customer"`
	AverageRating float64   `json:"average_rating" gorm:"default:0"`
	ReviewCount   int       `json:"review_count" gorm:"default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (u *User) IsProvider() bool {
	return u.Role == RoleProvider
}

// ApplyRating folds a new rating into the running average.
func (u *User) ApplyRating(rating int) {
	total := u.AverageRating*float64(u.ReviewCount) + float64(rating)
	u.ReviewCount++
	u.AverageRating = total / float64(u.ReviewCount)
}
