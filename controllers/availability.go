package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/services"
	"github.com/servicespot/booking-app/utils"
)

// CreateAvailability creates a recurring weekly slot for the logged-in
// provider.
func CreateAvailability(c *fiber.Ctx) error {
	var in services.CreateAvailabilityInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	// Providers always create slots for themselves; admins may set any
	// provider in the body.
	if ownerID := actor(c); ownerID != 0 {
		in.ProviderID = ownerID
	}

	slot, err := services.NewAvailabilityService(db.GetDB()).Create(in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(slot)
}

func GetAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}
	slot, err := services.NewAvailabilityService(db.GetDB()).GetByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slot)
}

// GetProviderAvailability lists a provider's weekly template, optionally
// narrowed to one day via ?day=.
func GetProviderAvailability(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	svc := services.NewAvailabilityService(db.GetDB())
	if c.Query("day") != "" {
		day := models.DayOfWeek(c.QueryInt("day", -1))
		slots, err := svc.ListByDay(uint(providerID), day)
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

// GetAvailableSlots lists only the bookable slots (open and not full).
func GetAvailableSlots(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}

	var day *models.DayOfWeek
	if c.Query("day") != "" {
		d := models.DayOfWeek(c.QueryInt("day", -1))
		day = &d
	}

	slots, err := services.NewAvailabilityService(db.GetDB()).AvailableSlots(uint(providerID), day)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slots)
}

func UpdateAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}

	var in services.UpdateAvailabilityInput
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	slot, err := services.NewAvailabilityService(db.GetDB()).Update(uint(id), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(slot)
}

func DeleteAvailability(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid availability ID"})
	}
	if err := services.NewAvailabilityService(db.GetDB()).Delete(uint(id), actor(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteProviderAvailability clears the logged-in provider's weekly
// template.
func DeleteProviderAvailability(c *fiber.Ctx) error {
	providerID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid provider ID"})
	}
	if err := services.NewAvailabilityService(db.GetDB()).DeleteProviderAvailability(uint(providerID), actor(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
