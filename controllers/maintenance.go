package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/services"
)

// Maintenance endpoints mirror the scheduled retention job so admins
// can run or inspect the purge on demand.

func CleanupPastAvailability(c *fiber.Ctx) error {
	deleted, err := services.NewSpecificAvailabilityService(db.GetDB()).CleanupPast()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func CleanupOldAvailability(c *fiber.Ctx) error {
	days := c.QueryInt("days", 0)
	deleted, err := services.NewSpecificAvailabilityService(db.GetDB()).CleanupOlderThan(days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func DeleteAvailabilityByDate(c *fiber.Ctx) error {
	date, err := parseDate(c.Query("date"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date, expected YYYY-MM-DD"})
	}
	deleted, err := services.NewSpecificAvailabilityService(db.GetDB()).DeleteByDate(date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func GetMaintenanceStats(c *fiber.Ctx) error {
	stats, err := services.NewSpecificAvailabilityService(db.GetDB()).Stats()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
