package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
)

type AdminController struct {
	Admins *services.AdminService
	log    *logger.Logger
}

func NewAdminController(svc *services.AdminService, log *logger.Logger) *AdminController {
	return &AdminController{Admins: svc, log: log.WithComponent("admins")}
}

type adminPayload struct {
	FullName string `json:"full_name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Create (POST /api/admins) registers a staff account in a role.
func (ctrl *AdminController) Create(c *gin.Context) {
	var payload adminPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	admin, err := ctrl.Admins.Create(c.Request.Context(), payload.FullName, payload.Username, payload.Password, payload.Role)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, admin)
}
