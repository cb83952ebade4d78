package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
)

type SettingsController struct {
	Settings *services.SettingsService
	log      *logger.Logger
}

func NewSettingsController(svc *services.SettingsService, log *logger.Logger) *SettingsController {
	return &SettingsController{Settings: svc, log: log.WithComponent("settings")}
}

// GetHotel (GET /api/settings/hotel)
func (ctrl *SettingsController) GetHotel(c *gin.Context) {
	h, err := ctrl.Settings.Hotel(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

// SaveHotel (PUT /api/settings/hotel)
func (ctrl *SettingsController) SaveHotel(c *gin.Context) {
	var payload models.HotelSetting
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	h, err := ctrl.Settings.SaveHotel(c.Request.Context(), payload)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, h)
}
