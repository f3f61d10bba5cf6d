package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/services"
	"github.com/servicespot/booking-app/utils"
)

type createSpecificAvailabilityRequest struct {
	ProviderID       uint   `json:"provider_id"`
	ServiceListingID *uint  `json:"service_listing_id"`
	AvailableDate    string `json:"available_date"` // "2006-01-02"
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	MaxBookings      *int   `json:"max_bookings"`
	Notes            string `json:"notes"`
}

type updateSpecificAvailabilityRequest struct {
	AvailableDate *string `json:"available_date"`
	StartTime     *string `json:"start_time"`
	EndTime       *string `json:"end_time"`
	MaxBookings   *int    `json:"max_bookings"`
	Notes         *string `json:"notes"`
}

// CreateSpecificAvailability creates a one-off slot for an exact date.
func CreateSpecificAvailability(c *fiber.Ctx) error {
	var req createSpecificAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	date, err := parseDate(req.AvailableDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid available_date, expected YYYY-MM-DD"})
	}

	in := services.CreateSpecificAvailabilityInput{
		ProviderID:       req.ProviderID,
		ServiceListingID: req.ServiceListingID,
		AvailableDate:    date,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		MaxBookings:      req.MaxBookings,
		Notes:            req.Notes,
	}
	if ownerID := actor(c); ownerID != 0 {
		in.ProviderID = ownerID
	}

	slot, err := services.NewSpecificAvailabilityService(db.GetDB()).Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func GetSpecificAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}
	slot, err := services.NewSpecificAvailabilityService(db.GetDB()).GetByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slot)
}

func UpdateSpecificAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}

	var req updateSpecificAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	in := services.UpdateSpecificAvailabilityInput{
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		MaxBookings: req.MaxBookings,
		Notes:       req.Notes,
	}
	if req.AvailableDate != nil {
		date, err := parseDate(*req.AvailableDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid available_date, expected YYYY-MM-DD"})
		}
		in.AvailableDate = &date
	}

	slot, err := services.NewSpecificAvailabilityService(db.GetDB()).Update(uint(id), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slot)
}

func DeleteSpecificAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}
	if err := services.NewSpecificAvailabilityService(db.GetDB()).Delete(uint(id), actor(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func MarkSpecificAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}

	var req struct {
		IsAvailable bool `json:"is_available"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Failed to parse request body"})
	}

	svc := services.NewSpecificAvailabilityService(db.GetDB())
	var slot interface{}
	if req.IsAvailable {
		slot, err = svc.MarkAvailable(uint(id), actor(c))
	} else {
		slot, err = svc.MarkUnavailable(uint(id), actor(c))
	}
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slot)
}

// GetProviderSpecificAvailability lists a provider's date slots;
// ?future=true narrows to today onwards.
func GetProviderSpecificAvailability(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	svc := services.NewSpecificAvailabilityService(db.GetDB())
	if c.QueryBool("future") {
		slots, err := svc.FutureByProvider(uint(providerID))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(slots)
	}
	slots, err := svc.ListByProvider(uint(providerID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slots)
}

func GetListingSpecificAvailability(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID"})
	}

	svc := services.NewSpecificAvailabilityService(db.GetDB())
	if c.QueryBool("future") {
		slots, err := svc.FutureByListing(uint(listingID))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(slots)
	}
	slots, err := svc.ListByListing(uint(listingID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slots)
}

// GetAvailableDates returns the distinct dates with at least one
// bookable slot in the ?from= / ?to= range (defaults: today + 30 days).
func GetAvailableDates(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dates, err := services.NewSpecificAvailabilityService(db.GetDB()).AvailableDates(uint(providerID), from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(formatDates(dates))
}

func GetAvailableDatesForListing(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID"})
	}

	from, to, err := dateRange(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	dates, err := services.NewSpecificAvailabilityService(db.GetDB()).AvailableDatesForListing(uint(listingID), from, to)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(formatDates(dates))
}

// GetTimeSlotsForDate lists the bookable slots on one exact ?date=.
func GetTimeSlotsForDate(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	slots, err := services.NewSpecificAvailabilityService(db.GetDB()).TimeSlotsForDate(uint(providerID), date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slots)
}

func GetTimeSlotsForListing(c *fiber.Ctx) error {
	listingID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid listing ID"})
	}
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}

	slots, err := services.NewSpecificAvailabilityService(db.GetDB()).TimeSlotsForDateAndListing(uint(listingID), date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slots)
}

func dateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	from := utils.Today()
	to := from.AddDate(0, 0, 30)
	var err error
	if c.Query("from") != "" {
		if from, err = parseDate(c.Query("from")); err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		}
	}
	if c.Query("to") != "" {
		if to, err = parseDate(c.Query("to")); err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
		}
	}
	return from, to, nil
}

func formatDates(dates []time.Time) []string {
	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Format(dateLayout))
	}
	return out
}
