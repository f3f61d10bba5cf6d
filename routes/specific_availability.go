package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/controllers"
	"github.com/servicespot/booking-app/middleware"
	"github.com/servicespot/booking-app/models"
)

// SetupSpecificAvailabilityRoutes configures the date-specific slot routes
func SetupSpecificAvailabilityRoutes(app *fiber.App) {
	specific := app.Group("/specific-availability")
	specific.Get("/:id", controllers.GetSpecificAvailability)
	specific.Get("/provider/:id", controllers.GetProviderSpecificAvailability)
	specific.Get("/provider/:id/dates", controllers.GetAvailableDates)
	specific.Get("/provider/:id/slots", controllers.GetTimeSlotsForDate)
	specific.Get("/listing/:id", controllers.GetListingSpecificAvailability)
	specific.Get("/listing/:id/dates", controllers.GetAvailableDatesForListing)
	specific.Get("/listing/:id/slots", controllers.GetTimeSlotsForListing)
	specific.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.CreateSpecificAvailability)
	specific.Put("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.UpdateSpecificAvailability)
	specific.Patch("/:id/availability", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.MarkSpecificAvailability)
	specific.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.DeleteSpecificAvailability)
}
