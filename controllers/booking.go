package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/services"
	"github.com/servicespot/booking-app/utils"
)

type createBookingRequest struct {
	CustomerID       uint   `json:"customer_id"`
	ServiceListingID uint   `json:"service_listing_id"`
	BookingDate      string `json:"booking_date"` // "2006-01-02"
	BookingTime      string `json:"booking_time"`
	DurationMinutes  *int   `json:"duration_minutes"`

	SlotKind string `json:"slot_kind"`
	SlotID   *uint  `json:"slot_id"`

	ServiceDoorNo      string `json:"service_door_no"`
	ServiceAddressLine string `json:"service_address_line"`
	ServiceCity        string `json:"service_city"`
	ServiceState       string `json:"service_state"`
	ServicePincode     string `json:"service_pincode"`

	CustomerNotes string `json:"customer_notes"`
	PaymentMethod string `json:"payment_method"`
}

// CreateBooking places a new booking for the logged-in customer.
func CreateBooking(c *fiber.Ctx) error {
	var req createBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := parseDate(req.BookingDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking_date, expected YYYY-MM-DD"})
	}

	in := services.CreateBookingInput{
		CustomerID:       req.CustomerID,
		ServiceListingID: req.ServiceListingID,
		BookingDate:      date,
		BookingTime:      req.BookingTime,
		DurationMinutes:  req.DurationMinutes,
		SlotKind:         req.SlotKind,
		SlotID:           req.SlotID,

		ServiceDoorNo:      req.ServiceDoorNo,
		ServiceAddressLine: req.ServiceAddressLine,
		ServiceCity:        req.ServiceCity,
		ServiceState:       req.ServiceState,
		ServicePincode:     req.ServicePincode,

		CustomerNotes: req.CustomerNotes,
		PaymentMethod: req.PaymentMethod,
	}
	// Customers always book for themselves; admins may book on behalf
	// of any customer.
	if userID := actor(c); userID != 0 {
		in.CustomerID = userID
	}

	booking, err := services.NewBookingService(db.GetDB()).Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

func GetBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}
	booking, err := services.NewBookingService(db.GetDB()).GetByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

func GetBookingByReference(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Booking reference is required"})
	}
	booking, err := services.NewBookingService(db.GetDB()).GetByReference(reference)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

// GetMyBookings lists the logged-in user's bookings, on whichever side
// of the marketplace their role puts them.
func GetMyBookings(c *fiber.Ctx) error {
	userID, ok := currentUser(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "User not found in context"})
	}

	svc := services.NewBookingService(db.GetDB())
	role, _ := c.Locals("role").(string)
	if role == models.RoleProvider {
		bookings, err := svc.ListByProvider(userID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(bookings)
	}
	bookings, err := svc.ListByCustomer(userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bookings)
}

func GetCustomerBookings(c *fiber.Ctx) error {
	customerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid customer ID"})
	}
	bookings, err := services.NewBookingService(db.GetDB()).ListByCustomer(uint(customerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bookings)
}

func GetProviderBookings(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}
	bookings, err := services.NewBookingService(db.GetDB()).ListByProvider(uint(providerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bookings)
}

func GetBookingsByStatus(c *fiber.Ctx) error {
	status := models.BookingStatus(c.Params("status"))
	bookings, err := services.NewBookingService(db.GetDB()).ListByStatus(status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(bookings)
}

// UpdateBookingStatus applies one lifecycle transition to a booking.
func UpdateBookingStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var in services.UpdateBookingStatusInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	booking, err := services.NewBookingService(db.GetDB()).UpdateStatus(uint(id), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

// CancelBooking cancels a booking and records which side asked for it.
func CancelBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	cancelledBy, _ := c.Locals("role").(string)
	if cancelledBy == "" {
		cancelledBy = models.RoleCustomer
	}

	booking, err := services.NewBookingService(db.GetDB()).Cancel(uint(id), actor(c), req.Reason, cancelledBy)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

// RejectBooking lets the provider decline a pending booking.
func RejectBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	booking, err := services.NewBookingService(db.GetDB()).Reject(uint(id), actor(c), req.Reason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

func ConfirmBooking(c *fiber.Ctx) error {
	return applyTransition(c, services.NewBookingService(db.GetDB()).Confirm)
}

func StartBooking(c *fiber.Ctx) error {
	return applyTransition(c, services.NewBookingService(db.GetDB()).Start)
}

func CompleteBooking(c *fiber.Ctx) error {
	return applyTransition(c, services.NewBookingService(db.GetDB()).Complete)
}

func applyTransition(c *fiber.Ctx, fn func(id, actorID uint) (*models.Booking, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}
	booking, err := fn(uint(id), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(booking)
}

// DeleteBooking is admin-only; the route wires the role check.
func DeleteBooking(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid booking ID"})
	}
	if err := services.NewBookingService(db.GetDB()).Delete(uint(id)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
