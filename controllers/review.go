package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/services"
	"github.com/servicespot/booking-app/utils"
)

// CreateReview submits a review from the logged-in customer.
func CreateReview(c *fiber.Ctx) error {
	var in services.CreateReviewInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	if userID := actor(c); userID != 0 {
		in.CustomerID = userID
	}

	review, err := services.NewReviewService(db.GetDB()).Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func GetReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}
	review, err := services.NewReviewService(db.GetDB()).GetByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func GetBookingReview(c *fiber.Ctx) error {
	bookingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}
	review, err := services.NewReviewService(db.GetDB()).GetByBooking(uint(bookingID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func GetProviderReviews(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}
	reviews, err := services.NewReviewService(db.GetDB()).ListByProvider(uint(providerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}

func GetCustomerReviews(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	reviews, err := services.NewReviewService(db.GetDB()).ListByCustomer(uint(customerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reviews)
}

// GetProviderStatistics is the public rating summary for one provider.
func GetProviderStatistics(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}
	stats, err := services.NewReviewService(db.GetDB()).ProviderStatistics(uint(providerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// FlagReview marks a review for moderation; admin-only via the route.
func FlagReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	review, err := services.NewReviewService(db.GetDB()).Flag(uint(id), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func UnflagReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}
	review, err := services.NewReviewService(db.GetDB()).Unflag(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(review)
}

func DeleteReview(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid review ID"})
	}
	if err := services.NewReviewService(db.GetDB()).Delete(uint(id), actor(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
