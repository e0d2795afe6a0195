package services

import (
	"time"

	"github.com/remstroy/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const auditRetentionDays = 90

// StartMaintenanceScheduler runs the periodic cleanup jobs: hourly sweep of
// expired revocation entries and daily audit log retention. Returns the cron
// runner so the caller can stop it on shutdown.
func StartMaintenanceScheduler(db *gorm.DB, revocations RevocationRegistry) *cron.Cron {
	c := cron.New()

	c.AddFunc("@hourly", func() {
		removed, err := revocations.Sweep(time.Now())
		if err != nil {
			logger.Error().Err(err).Msg("revocation sweep failed")
			return
		}
		if removed > 0 {
			logger.Info().Int64("removed", removed).Msg("swept expired revocation entries")
		}
	})

	c.AddFunc("@daily", func() {
		auditService := NewAuditLogService(db)
		deleted, err := auditService.CleanupOldEntries(auditRetentionDays)
		if err != nil {
			logger.Error().Err(err).Msg("audit log cleanup failed")
			return
		}
		if deleted > 0 {
			logger.Info().Int64("deleted", deleted).Int("retention_days", auditRetentionDays).Msg("cleaned up old audit logs")
		}
	})

	c.Start()
	return c
}
