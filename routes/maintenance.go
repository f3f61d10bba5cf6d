package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/controllers"
	"github.com/servicespot/booking-app/middleware"
	"github.com/servicespot/booking-app/models"
)

// SetupMaintenanceRoutes configures the admin-only retention endpoints
func SetupMaintenanceRoutes(app *fiber.App) {
	maintenance := app.Group("/maintenance", middleware.Protected(), middleware.RequireRole(models.RoleAdmin))
	maintenance.Get("/stats", controllers.GetMaintenanceStats)
	maintenance.Post("/cleanup", controllers.CleanupPastAvailability)
	maintenance.Post("/cleanup/older-than", controllers.CleanupOldAvailability)
	maintenance.Delete("/availability", controllers.DeleteAvailabilityByDate)
}
