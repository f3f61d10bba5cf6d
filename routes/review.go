package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/controllers"
	"github.com/servicespot/booking-app/middleware"
	"github.com/servicespot/booking-app/models"
)

// SetupReviewRoutes configures review and rating statistics routes
func SetupReviewRoutes(app *fiber.App) {
	review := app.Group("/reviews")
	review.Get("/:id", controllers.GetReview)
	review.Get("/booking/:id", controllers.GetBookingReview)
	review.Get("/provider/:id", controllers.GetProviderReviews)
	review.Get("/provider/:id/statistics", controllers.GetProviderStatistics)
	review.Get("/customer/:id", middleware.Protected(), controllers.GetCustomerReviews)
	review.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleCustomer, models.RoleAdmin), controllers.CreateReview)
	review.Patch("/:id/flag", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.FlagReview)
	review.Patch("/:id/unflag", middleware.Protected(), middleware.RequireRole(models.RoleAdmin), controllers.UnflagReview)
	review.Delete("/:id", middleware.Protected(), controllers.DeleteReview)
}
