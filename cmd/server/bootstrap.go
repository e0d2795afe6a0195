package main

import (
	"github.com/remstroy/backend/internal/config"
	"github.com/remstroy/backend/internal/handlers"
	"github.com/remstroy/backend/internal/models"
	"github.com/remstroy/backend/internal/services"
	"github.com/remstroy/backend/internal/utils"
	"github.com/remstroy/backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	scheduler       *cron.Cron
	authHandler     *handlers.AuthHandler
	userHandler     *handlers.UserHandler
	auditLogHandler *handlers.AuditLogHandler
}

// bootstrap initializes all application dependencies: database, token
// signing, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetTokenSecrets(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret)
	utils.SetTokenTTLs(cfg.JWT.AccessExpireMin, cfg.JWT.RefreshExpireHrs)
	utils.SetBcryptCost(cfg.Security.BcryptCost)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()
	services.InitAuditLogger(db)

	revocations := services.NewGormRevocationStore(db)
	scheduler := services.StartMaintenanceScheduler(db, revocations)

	authService := services.NewAuthService(db, revocations)
	if err := authService.CreateSuperAdminIfNotExists(cfg.Security.AdminEmail, cfg.Security.AdminPassword); err != nil {
		logger.Warn().Err(err).Msg("Failed to create super admin user")
	}

	return &appServices{
		scheduler:       scheduler,
		authHandler:     handlers.NewAuthHandler(authService),
		userHandler:     handlers.NewUserHandler(db),
		auditLogHandler: handlers.NewAuditLogHandler(db),
	}
}

// shutdown gracefully stops background jobs.
func (s *appServices) shutdown() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	logger.Info().Msg("Schedulers stopped")
}
