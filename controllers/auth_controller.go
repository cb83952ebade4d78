package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/middleware"
	"resort-backend/services"
	"resort-backend/utils"
)

type AuthController struct {
	Auth *services.AuthService
	log  *logger.Logger
}

func NewAuthController(auth *services.AuthService, log *logger.Logger) *AuthController {
	return &AuthController{Auth: auth, log: log.WithComponent("auth")}
}

type loginPayload struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login (POST /api/auth/login)
func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := ctrl.Auth.Login(c.Request.Context(), payload.Username, payload.Password)
	if err != nil {
		ctrl.log.Warn("login failed", "username", utils.MaskEmail(payload.Username))
		respondError(c, ctrl.log, err)
		return
	}
	ctrl.log.Info("🔓 staff logged in", "admin_id", res.Admin.ID)
	c.JSON(http.StatusOK, res)
}

// Me (GET /api/auth/me) echoes the verified token claims.
func (ctrl *AuthController) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	c.JSON(http.StatusOK, gin.H{
		"admin_id":    claims.AdminID,
		"username":    claims.Username,
		"roles":       claims.Roles,
		"permissions": claims.Permissions,
	})
}
