package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/servicespot/booking-app/cron"
	"github.com/servicespot/booking-app/db"
	"github.com/servicespot/booking-app/redis"
	"github.com/servicespot/booking-app/routes"
	"github.com/servicespot/booking-app/services"
)

func main() {
	app := fiber.New()
	db.Migrate()
	redis.InitRedis()

	cron.StartRetentionJob(services.NewSpecificAvailabilityService(db.GetDB()))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, World!")
	})
	routes.SetupAvailabilityRoutes(app)
	routes.SetupSpecificAvailabilityRoutes(app)
	routes.SetupBookingRoutes(app)
	routes.SetupReviewRoutes(app)
	routes.SetupMaintenanceRoutes(app)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	app.Listen(":" + port)
	fmt.Println("Server started on port " + port)
}
