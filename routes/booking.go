package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/controllers"
	"github.com/servicespot/booking-app/middleware"
	"github.com/servicespot/booking-app/models"
)

// SetupBookingRoutes configures all booking lifecycle routes
func SetupBookingRoutes(app *fiber.App) {
	booking := app.Group("/bookings", middleware.Protected())
	booking.Post("/", middleware.RequireRole(models.RoleCustomer, models.RoleAdmin), controllers.CreateBooking)
	booking.Get("/me", controllers.GetMyBookings)
	booking.Get("/reference/:reference", controllers.GetBookingByReference)
	booking.Get("/status/:status", middleware.RequireRole(models.RoleAdmin), controllers.GetBookingsByStatus)
	booking.Get("/customer/:id", middleware.RequireRole(models.RoleAdmin), controllers.GetCustomerBookings)
	booking.Get("/provider/:id", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.GetProviderBookings)
	booking.Get("/:id", controllers.GetBooking)

	booking.Patch("/:id/status", controllers.UpdateBookingStatus)
	booking.Patch("/:id/confirm", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.ConfirmBooking)
	booking.Patch("/:id/start", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.StartBooking)
	booking.Patch("/:id/complete", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.CompleteBooking)
	booking.Patch("/:id/reject", middleware.RequireRole(models.RoleProvider, models.RoleAdmin), controllers.RejectBooking)
	booking.Patch("/:id/cancel", controllers.CancelBooking)

	booking.Delete("/:id", middleware.RequireRole(models.RoleAdmin), controllers.DeleteBooking)
}
