package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/services"
	"github.com/remstroy/backend/pkg/response"
	"gorm.io/gorm"
)

type AuditLogHandler struct {
	service *services.AuditLogService
}

func NewAuditLogHandler(db *gorm.DB) *AuditLogHandler {
	return &AuditLogHandler{service: services.NewAuditLogService(db)}
}

// List returns a filtered page of audit entries
// GET /api/audit-logs
func (h *AuditLogHandler) List(c *gin.Context) {
	var req services.AuditLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.List(&req)
	if err != nil {
		response.ServerError(c, "failed to list audit logs")
		return
	}

	response.OK(c, result)
}

// GetModules returns the distinct module names present in the audit trail
// GET /api/audit-logs/modules
func (h *AuditLogHandler) GetModules(c *gin.Context) {
	modules, err := h.service.GetModules()
	if err != nil {
		response.ServerError(c, "failed to list modules")
		return
	}

	response.OK(c, gin.H{"modules": modules})
}
