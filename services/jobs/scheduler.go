package jobs

import (
	"law_office_app_go/config"
	"law_office_app_go/services"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartScheduler runs the hourly session cleanup and the deadline digest.
// The returned cron must be stopped on shutdown.
func StartScheduler(database *gorm.DB, cfg *config.Config) (*cron.Cron, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Printf("[WARNING] Unknown TIMEZONE %q, using UTC", cfg.Timezone)
		loc = time.UTC
	}
	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc("@hourly", func() {
		if err := services.CleanupExpiredSessions(database); err != nil {
			log.Printf("Error cleaning up expired sessions: %v", err)
		}
	}); err != nil {
		return nil, err
	}

	if cfg.DigestSchedule != "off" {
		if _, err := c.AddFunc(cfg.DigestSchedule, func() {
			SendDeadlineDigests(database, cfg, time.Now().In(loc))
		}); err != nil {
			return nil, err
		}
	}

	c.Start()
	log.Printf("[CRON] Scheduler started (timezone %s, digest %q)", loc, cfg.DigestSchedule)
	return c, nil
}
