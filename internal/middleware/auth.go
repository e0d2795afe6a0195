package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/models"
	"github.com/remstroy/backend/internal/utils"
	"github.com/remstroy/backend/pkg/logger"
	"github.com/remstroy/backend/pkg/response"
	"gorm.io/gorm"
)

const (
	ContextUserID    = "user_id"
	ContextUserEmail = "user_email"
	ContextRole      = "role"
)

// AuthRequired verifies the bearer access token and attaches the principal
// to the request context. The account is reloaded on every request so
// deactivation takes effect immediately, not at token expiry.
func AuthRequired(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := utils.ParseAccessToken(parts[1])
		if err != nil {
			// The failure kind stays out of the response; it is only logged.
			logger.Debug().Err(err).Str("ip", c.ClientIP()).Msg("access token rejected")
			response.Unauthorized(c)
			c.Abort()
			return
		}

		var user models.User
		if err := db.Select("id", "email", "is_active").First(&user, claims.UserID).Error; err != nil || !user.IsActive {
			response.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, user.Email)
		c.Set(ContextRole, claims.Role)

		c.Next()
	}
}

// RequireRoles gates a route behind an explicit set of admitted roles.
// Membership is exact: no role implies another, and SUPER_ADMIN is admitted
// only where it is listed.
func RequireRoles(roles ...string) gin.HandlerFunc {
	admitted := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		admitted[role] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := admitted[GetRole(c)]; !ok {
			response.Forbidden(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID gets the current user ID from context.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextUserID); exists {
		return id.(uint)
	}
	return 0
}

// GetUserEmail gets the current user email from context.
func GetUserEmail(c *gin.Context) string {
	if email, exists := c.Get(ContextUserEmail); exists {
		return email.(string)
	}
	return ""
}

// GetRole gets the current user role from context.
func GetRole(c *gin.Context) string {
	if role, exists := c.Get(ContextRole); exists {
		return role.(string)
	}
	return ""
}
