package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/remstroy/backend/internal/middleware"
	"github.com/remstroy/backend/internal/models"
	"gorm.io/gorm"
)

// userAdminRouter mounts the full user management surface behind a
// simulated principal so role semantics inside handlers can be tested
// without minting tokens.
func userAdminRouter(db *gorm.DB, userID uint, role string) *gin.Engine {
	handler := NewUserHandler(db)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	})
	router.GET("/users", handler.List)
	router.GET("/users/:id", handler.GetByID)
	router.POST("/users", handler.Create)
	router.PUT("/users/:id", handler.Update)
	router.DELETE("/users/:id", handler.Delete)
	return router
}

func TestUserHandler_ListWithFilters(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "admin@b.com", "secret123", models.RoleAdmin, true)
	createTestUser(t, db, "editor1@b.com", "secret123", models.RoleEditor, true)
	createTestUser(t, db, "editor2@b.com", "secret123", models.RoleEditor, false)
	router := userAdminRouter(db, 1, models.RoleAdmin)

	tests := []struct {
		name  string
		query string
		total float64
	}{
		{"all", "", 3},
		{"by role", "?role=EDITOR", 2},
		{"by active", "?is_active=false", 1},
		{"by email fragment", "?email=editor1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "GET", "/users"+tt.query, nil, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var body map[string]interface{}
			json.Unmarshal(w.Body.Bytes(), &body)
			if body["total"] != tt.total {
				t.Errorf("total = %v, expected %v", body["total"], tt.total)
			}
		})
	}
}

func TestUserHandler_CreateValidation(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "taken@b.com", "secret123", models.RoleEditor, true)
	router := userAdminRouter(db, 1, models.RoleSuperAdmin)

	tests := []struct {
		name     string
		body     gin.H
		expected int
	}{
		{"valid", gin.H{"email": "new@b.com", "password": "secret123", "role": models.RoleEditor}, http.StatusCreated},
		{"short password", gin.H{"email": "short@b.com", "password": "short", "role": models.RoleEditor}, http.StatusBadRequest},
		{"bad email", gin.H{"email": "not-an-email", "password": "secret123", "role": models.RoleEditor}, http.StatusBadRequest},
		{"unknown role", gin.H{"email": "role@b.com", "password": "secret123", "role": "WIZARD"}, http.StatusBadRequest},
		{"duplicate email", gin.H{"email": "Taken@B.com", "password": "secret123", "role": models.RoleEditor}, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/users", tt.body, "")
			if w.Code != tt.expected {
				t.Errorf("expected %d, got %d: %s", tt.expected, w.Code, w.Body.String())
			}
		})
	}
}

func TestUserHandler_CreateStoresHashedPassword(t *testing.T) {
	db := newTestDB(t)
	router := userAdminRouter(db, 1, models.RoleSuperAdmin)

	w := doJSON(router, "POST", "/users", gin.H{
		"email": "hashed@b.com", "password": "secret123", "role": models.RoleManager,
	}, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "password") {
		t.Errorf("response must not leak password fields: %s", body)
	}

	var user models.User
	if err := db.Where("email = ?", "hashed@b.com").First(&user).Error; err != nil {
		t.Fatalf("loading created user: %v", err)
	}
	if user.PasswordHash == "secret123" || user.PasswordHash == "" {
		t.Error("password must be stored as a bcrypt hash")
	}
}

func TestUserHandler_UpdateRoleRequiresSuperAdmin(t *testing.T) {
	db := newTestDB(t)
	target := createTestUser(t, db, "target@b.com", "secret123", models.RoleEditor, true)

	adminRouter := userAdminRouter(db, 999, models.RoleAdmin)
	w := doJSON(adminRouter, "PUT", fmt.Sprintf("/users/%d", target.ID), gin.H{"role": models.RoleManager}, "")
	if w.Code != http.StatusForbidden {
		t.Errorf("admin role change: expected 403, got %d", w.Code)
	}

	superRouter := userAdminRouter(db, 999, models.RoleSuperAdmin)
	w = doJSON(superRouter, "PUT", fmt.Sprintf("/users/%d", target.ID), gin.H{"role": models.RoleManager}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("super admin role change: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.User
	db.First(&updated, target.ID)
	if updated.Role != models.RoleManager {
		t.Errorf("role = %q, expected %q", updated.Role, models.RoleManager)
	}
}

func TestUserHandler_OwnAccountGuard(t *testing.T) {
	db := newTestDB(t)
	self := createTestUser(t, db, "self@b.com", "secret123", models.RoleSuperAdmin, true)
	router := userAdminRouter(db, self.ID, models.RoleSuperAdmin)

	w := doJSON(router, "PUT", fmt.Sprintf("/users/%d", self.ID), gin.H{"is_active": false}, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("self update: expected 400, got %d", w.Code)
	}

	w = doJSON(router, "DELETE", fmt.Sprintf("/users/%d", self.ID), nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("self delete: expected 400, got %d", w.Code)
	}
}

func TestUserHandler_DeleteSoftDeletes(t *testing.T) {
	db := newTestDB(t)
	target := createTestUser(t, db, "gone@b.com", "secret123", models.RoleEditor, true)
	router := userAdminRouter(db, 999, models.RoleSuperAdmin)

	w := doJSON(router, "DELETE", fmt.Sprintf("/users/%d", target.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	var count int64
	db.Model(&models.User{}).Where("id = ?", target.ID).Count(&count)
	if count != 0 {
		t.Error("deleted user should be hidden from default queries")
	}

	var unscoped int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", target.ID).Count(&unscoped)
	if unscoped != 1 {
		t.Error("soft delete should keep the row")
	}
}

func TestUserHandler_GetByID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "one@b.com", "secret123", models.RoleEditor, true)
	router := userAdminRouter(db, 999, models.RoleAdmin)

	w := doJSON(router, "GET", fmt.Sprintf("/users/%d", user.ID), nil, "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/users/424242", nil, "")
	if w.Code != http.StatusNotFound {
		t.Errorf("missing user: expected 404, got %d", w.Code)
	}

	w = doJSON(router, "GET", "/users/abc", nil, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad id: expected 400, got %d", w.Code)
	}
}
