package main

import (
	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/config"
	"github.com/remstroy/backend/internal/middleware"
	"github.com/remstroy/backend/internal/models"
	"github.com/remstroy/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Rate limiter for credential endpoints
	loginLimiter := middleware.NewRateLimiter(cfg.Security.LoginRPS, cfg.Security.LoginBurst)

	db := models.GetDB()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "remstroy-backend"})
	})

	api := r.Group("/api")
	{
		// Auth routes. Logout stays outside the guard: it must succeed even
		// with an expired or already revoked token.
		auth := api.Group("/auth")
		{
			auth.POST("/login", loginLimiter.Middleware(), svc.authHandler.Login)
			auth.POST("/refresh", loginLimiter.Middleware(), svc.authHandler.Refresh)
			auth.POST("/logout", svc.authHandler.Logout)
		}

		// Routes behind the authorization guard
		protected := api.Group("", middleware.AuthRequired(db))
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/change-password", svc.authHandler.ChangePassword)
		}

		// Admin routes: each declares its admitted role set explicitly.
		admin := api.Group("", middleware.AuthRequired(db), middleware.AuditLog())
		{
			admin.GET("/users",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager),
				svc.userHandler.List)
			admin.GET("/users/:id",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin, models.RoleManager),
				svc.userHandler.GetByID)
			admin.POST("/users",
				middleware.RequireRoles(models.RoleSuperAdmin),
				svc.userHandler.Create)
			admin.PUT("/users/:id",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
				svc.userHandler.Update)
			admin.DELETE("/users/:id",
				middleware.RequireRoles(models.RoleSuperAdmin),
				svc.userHandler.Delete)

			admin.GET("/audit-logs",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
				svc.auditLogHandler.List)
			admin.GET("/audit-logs/modules",
				middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin),
				svc.auditLogHandler.GetModules)
		}
	}
}
