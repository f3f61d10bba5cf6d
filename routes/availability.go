package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/controllers"
	"github.com/servicespot/booking-app/middleware"
	"github.com/servicespot/booking-app/models"
)

// SetupAvailabilityRoutes configures the recurring weekly slot routes
func SetupAvailabilityRoutes(app *fiber.App) {
	availability := app.Group("/availability")
	availability.Get("/:id", controllers.GetAvailability)
	availability.Get("/provider/:id", controllers.GetProviderAvailability)
	availability.Get("/provider/:id/slots", controllers.GetAvailableSlots)
	availability.Post("/", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.CreateAvailability)
	availability.Put("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.UpdateAvailability)
	availability.Delete("/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.DeleteAvailability)
	availability.Delete("/provider/:id", middleware.Protected(), middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.DeleteProviderAvailability)
}
