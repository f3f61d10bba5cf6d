package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/servicespot/booking-app/models"
	"github.com/servicespot/booking-app/utils"
)

const dateLayout = "2006-01-02"

// actor returns the acting user for ownership checks. Admins get 0,
// which the services treat as "skip the ownership check".
func actor(c *fiber.Ctx) uint {
	if role, _ := c.Locals("role").(string); role == models.RoleAdmin {
		return 0
	}
	userID, _ := c.Locals("userID").(uint)
	return userID
}

func currentUser(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok
}

// fail maps a service error onto the HTTP boundary.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(utils.StatusFor(err)).JSON(utils.ErrorResponse{
		Message: err.Error(),
		Error:   string(utils.KindOf(err)),
	})
}

func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, value, time.Local)
}
