package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/middleware"
	"github.com/remstroy/backend/internal/services"
	"github.com/remstroy/backend/internal/utils"
	"github.com/remstroy/backend/pkg/response"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles user login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			services.LogWarning("Auth", "Login", "login failed for "+req.Email, nil, c.ClientIP(), c.Request.UserAgent(), nil)
			response.UnauthorizedMsg(c, services.ErrInvalidCredentials.Error())
			return
		}
		response.ServerError(c, "login failed")
		return
	}

	services.LogInfo("Auth", "Login", "login succeeded for "+result.User.Email, &result.User.ID, c.ClientIP(), c.Request.UserAgent(), nil)
	response.OK(c, result)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh rotates a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		if isAuthFailure(err) {
			// The error kind goes to the audit trail, not the response.
			services.LogWarning("Auth", "Refresh", "refresh rejected: "+err.Error(), nil, c.ClientIP(), c.Request.UserAgent(), nil)
			response.Unauthorized(c)
			return
		}
		response.ServerError(c, "refresh failed")
		return
	}

	response.OK(c, tokens)
}

// Logout revokes the presented refresh token. Always returns 200: the
// client clears local state regardless of token validity.
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var candidates []string

	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			candidates = append(candidates, parts[1])
		}
	}

	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err == nil && body.RefreshToken != "" {
		candidates = append(candidates, body.RefreshToken)
	}

	h.authService.Logout(candidates...)
	services.LogInfo("Auth", "Logout", "logout", nil, c.ClientIP(), c.Request.UserAgent(), nil)
	response.OK(c, gin.H{})
}

// GetCurrentUser returns the current logged-in user
// GET /api/auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, err := h.authService.GetActiveUser(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, services.ErrAccountInactive) {
			response.Unauthorized(c)
			return
		}
		response.ServerError(c, "failed to load user")
		return
	}

	response.OK(c, gin.H{"user": user})
}

// ChangePassword updates the current user's password
// POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req services.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	if err := h.authService.ChangePassword(userID, &req); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			response.BadRequest(c, "incorrect old password")
		case errors.Is(err, services.ErrAccountInactive):
			response.Unauthorized(c)
		default:
			response.ServerError(c, "failed to change password")
		}
		return
	}

	services.LogInfo("Auth", "ChangePassword", "password changed", &userID, c.ClientIP(), c.Request.UserAgent(), nil)
	response.OK(c, gin.H{})
}

// isAuthFailure reports whether err is an expected verification failure
// rather than an unexpected internal error.
func isAuthFailure(err error) bool {
	return errors.Is(err, utils.ErrTokenMalformed) ||
		errors.Is(err, utils.ErrTokenBadSignature) ||
		errors.Is(err, utils.ErrTokenWrongType) ||
		errors.Is(err, utils.ErrTokenExpired) ||
		errors.Is(err, utils.ErrTokenRevoked) ||
		errors.Is(err, services.ErrAccountInactive)
}
