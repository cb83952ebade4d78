package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
)

type RoleController struct {
	Settings *services.SettingsService
	log      *logger.Logger
}

func NewRoleController(svc *services.SettingsService, log *logger.Logger) *RoleController {
	return &RoleController{Settings: svc, log: log.WithComponent("roles")}
}

// List (GET /api/roles) also returns the catalogue of grantable permissions.
func (ctrl *RoleController) List(c *gin.Context) {
	roles, err := ctrl.Settings.Roles(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles, "permissions": services.AllPermissions})
}

type permissionsPayload struct {
	Permissions []string `json:"permissions" binding:"required"`
}

// SetPermissions (PUT /api/roles/:id/permissions)
func (ctrl *RoleController) SetPermissions(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload permissionsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	role, err := ctrl.Settings.SetPermissions(c.Request.Context(), id, payload.Permissions)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	ctrl.log.Info("🔐 role permissions updated", "role_id", id, "count", len(role.Permissions))
	c.JSON(http.StatusOK, role)
}
