package services

import (
	"errors"
	"math"

	"gorm.io/gorm"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

// ReviewService owns review submission and the rating aggregates it
// maintains on providers and listings.
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type CreateReviewInput struct {
	CustomerID     uint   `json:"customer_id"`
	ProviderID     uint   `json:"provider_id"`
	BookingID      *uint  `json:"booking_id"`
	Rating         int    `json:"rating"`
	Title          string `json:"title"`
	Comment        string `json:"comment"`
	OnTime         *bool  `json:"on_time"`
	WouldRecommend *bool  `json:"would_recommend"`
}

// Create validates the review, marks it verified when it is tied to a
// booking, and folds the rating into the provider's and listing's
// running averages in the same transaction.
func (s *ReviewService) Create(in CreateReviewInput) (*models.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, utils.Validation("rating must be between 1 and 5")
	}
	if len(in.Comment) < 10 || len(in.Comment) > 2000 {
		return nil, utils.Validation("comment must be between 10 and 2000 characters")
	}

	var review *models.Review
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var customer models.User
		if err := tx.First(&customer, in.CustomerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("customer not found with ID: %d", in.CustomerID)
			}
			return err
		}
		var provider models.User
		if err := tx.First(&provider, in.ProviderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("provider not found with ID: %d", in.ProviderID)
			}
			return err
		}

		var listingID *uint
		verified := false
		if in.BookingID != nil {
			var booking models.Booking
			if err := tx.First(&booking, *in.BookingID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return utils.NotFound("booking not found with ID: %d", *in.BookingID)
				}
				return err
			}
			if booking.CustomerID != customer.ID {
				return utils.Unauthorized("booking does not belong to this customer")
			}
			if booking.ProviderID != provider.ID {
				return utils.Validation("booking does not belong to this provider")
			}
			if booking.Status != models.StatusCompleted {
				return utils.Validation("only completed bookings can be reviewed")
			}
			var count int64
			if err := tx.Model(&models.Review{}).
				Where("booking_id = ?", *in.BookingID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return utils.Conflict("this booking has already been reviewed")
			}
			verified = true
			listingID = &booking.ServiceListingID
		}

		review = &models.Review{
			CustomerID:     customer.ID,
			ProviderID:     provider.ID,
			BookingID:      in.BookingID,
			Rating:         in.Rating,
			Title:          in.Title,
			Comment:        in.Comment,
			OnTime:         in.OnTime,
			WouldRecommend: in.WouldRecommend,
			Verified:       verified,
		}
		if err := tx.Create(review).Error; err != nil {
			return err
		}

		provider.ApplyRating(in.Rating)
		if err := tx.Model(&provider).
			Updates(map[string]interface{}{
				"average_rating": provider.AverageRating,
				"review_count":   provider.ReviewCount,
			}).Error; err != nil {
			return err
		}

		if listingID != nil {
			var listing models.ServiceListing
			if err := tx.First(&listing, *listingID).Error; err != nil {
				return err
			}
			listing.ApplyRating(in.Rating)
			if err := tx.Model(&listing).
				Updates(map[string]interface{}{
					"average_rating": listing.AverageRating,
					"review_count":   listing.ReviewCount,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) GetByID(id uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("review not found with ID: %d", id)
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) GetByBooking(bookingID uint) (*models.Review, error) {
	var review models.Review
	if err := s.db.Where("booking_id = ?", bookingID).First(&review).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("review not found for booking ID: %d", bookingID)
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewService) HasBookingReview(bookingID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, err
}

func (s *ReviewService) ListByProvider(providerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("provider_id = ?", providerID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) ListByCustomer(customerID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&reviews).Error
	return reviews, err
}

func (s *ReviewService) Flag(id uint, reason string) (*models.Review, error) {
	review, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	review.Flagged = true
	review.FlagReason = reason
	if err := s.db.Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Unflag(id uint) (*models.Review, error) {
	review, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	review.Flagged = false
	review.FlagReason = ""
	if err := s.db.Save(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// Delete removes a review and recomputes the affected aggregates from
// the remaining population, a full rescan rather than a formula
// inversion. The delete is a hard one: a soft-deleted row would keep
// its booking_id under the unique index and block the booking from
// ever being reviewed again.
func (s *ReviewService) Delete(id, actorID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var review models.Review
		if err := tx.First(&review, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NotFound("review not found with ID: %d", id)
			}
			return err
		}
		if actorID != 0 && actorID != review.CustomerID {
			return utils.Unauthorized("you can only delete your own reviews")
		}
		if err := tx.Unscoped().Delete(&review).Error; err != nil {
			return err
		}
		if err := recomputeProviderRating(tx, review.ProviderID); err != nil {
			return err
		}
		if review.BookingID != nil {
			var booking models.Booking
			if err := tx.First(&booking, *review.BookingID).Error; err == nil {
				if err := recomputeListingRating(tx, booking.ServiceListingID); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

type ratingAggregate struct {
	Average float64
	Count   int64
}

func recomputeProviderRating(tx *gorm.DB, providerID uint) error {
	var agg ratingAggregate
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("provider_id = ?", providerID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.User{}).Where("id = ?", providerID).
		Updates(map[string]interface{}{
			"average_rating": agg.Average,
			"review_count":   agg.Count,
		}).Error
}

func recomputeListingRating(tx *gorm.DB, listingID uint) error {
	var agg ratingAggregate
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(reviews.rating), 0) AS average, COUNT(*) AS count").
		Joins("JOIN bookings ON bookings.id = reviews.booking_id").
		Where("bookings.service_listing_id = ?", listingID).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&models.ServiceListing{}).Where("id = ?", listingID).
		Updates(map[string]interface{}{
			"average_rating": agg.Average,
			"review_count":   agg.Count,
		}).Error
}

// ProviderStatistics is the customer-facing rating summary. Averages
// and rates are rounded to one decimal place; raw storage keeps full
// precision.
type ProviderStatistics struct {
	ProviderID         uint    `json:"provider_id"`
	ProviderName       string  `json:"provider_name"`
	AverageRating      float64 `json:"average_rating"`
	TotalReviews       int64   `json:"total_reviews"`
	PositiveReviews    int64   `json:"positive_reviews"`
	FiveStars          int64   `json:"five_stars"`
	FourStars          int64   `json:"four_stars"`
	ThreeStars         int64   `json:"three_stars"`
	TwoStars           int64   `json:"two_stars"`
	OneStar            int64   `json:"one_star"`
	RecommendationRate float64 `json:"recommendation_rate"`
	OnTimeRate         float64 `json:"on_time_rate"`
}

func (s *ReviewService) ProviderStatistics(providerID uint) (*ProviderStatistics, error) {
	var provider models.User
	if err := s.db.First(&provider, providerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("provider not found with ID: %d", providerID)
		}
		return nil, err
	}

	stats := ProviderStatistics{ProviderID: providerID, ProviderName: provider.Name}

	var agg ratingAggregate
	if err := s.db.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("provider_id = ?", providerID).
		Scan(&agg).Error; err != nil {
		return nil, err
	}
	stats.AverageRating = round1(agg.Average)
	stats.TotalReviews = agg.Count

	starCounts := map[int]*int64{
		5: &stats.FiveStars, 4: &stats.FourStars, 3: &stats.ThreeStars,
		2: &stats.TwoStars, 1: &stats.OneStar,
	}
	for star, dest := range starCounts {
		if err := s.db.Model(&models.Review{}).
			Where("provider_id = ? AND rating = ?", providerID, star).
			Count(dest).Error; err != nil {
			return nil, err
		}
	}
	stats.PositiveReviews = stats.FourStars + stats.FiveStars

	if stats.TotalReviews > 0 {
		var recommend, onTime int64
		if err := s.db.Model(&models.Review{}).
			Where("provider_id = ? AND would_recommend = ?", providerID, true).
			Count(&recommend).Error; err != nil {
			return nil, err
		}
		if err := s.db.Model(&models.Review{}).
			Where("provider_id = ? AND on_time = ?", providerID, true).
			Count(&onTime).Error; err != nil {
			return nil, err
		}
		stats.RecommendationRate = round1(float64(recommend) * 100 / float64(stats.TotalReviews))
		stats.OnTimeRate = round1(float64(onTime) * 100 / float64(stats.TotalReviews))
	}
	return &stats, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
