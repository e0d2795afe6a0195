package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/middleware"
	"github.com/remstroy/backend/internal/models"
	"github.com/remstroy/backend/internal/utils"
	"github.com/remstroy/backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{db: db}
}

func (h *UserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	email := c.Query("email")
	role := c.Query("role")
	isActive := c.Query("is_active")

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var users []models.User
	var total int64

	query := h.db.Model(&models.User{})

	if email != "" {
		query = query.Where("email LIKE ?", "%"+strings.ToLower(email)+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if isActive != "" {
		query = query.Where("is_active = ?", isActive == "true")
	}

	query.Count(&total)
	query.Order("id ASC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users)

	response.OK(c, gin.H{
		"items":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func (h *UserHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		response.NotFound(c, "user not found")
		return
	}

	response.OK(c, user)
}

type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role" binding:"required"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if !models.ValidRole(req.Role) {
		response.BadRequest(c, "invalid role")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	h.db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		response.Conflict(c, "email already in use")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		response.ServerError(c, "failed to create user")
		return
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		IsActive:     true,
	}
	if err := h.db.Create(&user).Error; err != nil {
		response.ServerError(c, "failed to create user")
		return
	}

	response.Created(c, user)
}

type UpdateUserRequest struct {
	Role      *string `json:"role"`
	IsActive  *bool   `json:"is_active"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Password  *string `json:"password"`
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if uint(id) == middleware.GetUserID(c) {
		response.BadRequest(c, "cannot modify your own account")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.ServerError(c, "failed to load user")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updates := make(map[string]interface{})
	if req.Role != nil {
		if !models.ValidRole(*req.Role) {
			response.BadRequest(c, "invalid role")
			return
		}
		// Only a SUPER_ADMIN may change roles.
		if middleware.GetRole(c) != models.RoleSuperAdmin {
			response.Forbidden(c)
			return
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Password != nil {
		if len(*req.Password) < 8 {
			response.BadRequest(c, "password must be at least 8 characters")
			return
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			response.ServerError(c, "failed to update user")
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) == 0 {
		response.BadRequest(c, "no fields to update")
		return
	}

	if err := h.db.Model(&user).Updates(updates).Error; err != nil {
		response.ServerError(c, "failed to update user")
		return
	}

	h.db.First(&user, id)
	response.OK(c, user)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid user id")
		return
	}

	if uint(id) == middleware.GetUserID(c) {
		response.BadRequest(c, "cannot delete your own account")
		return
	}

	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		response.NotFound(c, "user not found")
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		response.ServerError(c, "failed to delete user")
		return
	}

	response.OK(c, gin.H{"message": "user deleted"})
}
