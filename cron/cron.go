package cron

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/servicespot/booking-app/redis"
	"github.com/servicespot/booking-app/services"
)

// StartRetentionJob schedules the daily purge of date-specific
// availability whose date has passed. Failures are logged and wait for
// the next scheduled run; nothing propagates to live requests.
func StartRetentionJob(availability *services.SpecificAvailabilityService) {
	spec := os.Getenv("RETENTION_CRON")
	if spec == "" {
		spec = "0 2 * * *" // daily at 02:00
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		runRetention(availability)
	})
	if err != nil {
		log.Fatalf("Failed to add retention cron job: %v", err)
	}
	c.Start()
	log.Printf("Retention job scheduled (%s)", spec)
}

// runRetention purges past availability. When Redis is configured the
// run takes a per-date advisory lock first, so multiple instances purge
// once per day between them.
func runRetention(availability *services.SpecificAvailabilityService) {
	if !acquireRetentionLock() {
		log.Println("Retention run skipped: another instance holds today's lock")
		return
	}

	deleted, err := availability.CleanupPast()
	if err != nil {
		log.Printf("Retention run failed: %v", err)
		return
	}
	log.Printf("Retention run complete: deleted %d past availability records", deleted)
}

func acquireRetentionLock() bool {
	if redis.Client == nil {
		return true
	}
	key := fmt.Sprintf("retention:run:%s", time.Now().Format("2006-01-02"))
	ok, err := redis.Client.SetNX(redis.Ctx, key, 1, 23*time.Hour).Result()
	if err != nil {
		// Redis being down must not stop the purge.
		log.Printf("Retention lock unavailable, proceeding without it: %v", err)
		return true
	}
	return ok
}
