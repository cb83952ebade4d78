package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
	"resort-backend/utils"
)

type AvailabilityController struct {
	Availability *services.AvailabilityService
	log          *logger.Logger
}

func NewAvailabilityController(svc *services.AvailabilityService, log *logger.Logger) *AvailabilityController {
	return &AvailabilityController{Availability: svc, log: log.WithComponent("availability")}
}

type availabilityPayload struct {
	CheckIn  string `json:"check_in" binding:"required"`
	CheckOut string `json:"check_out" binding:"required"`
	Adults   int    `json:"adults"`
	Children int    `json:"children"`
}

// Search (POST /api/availability/search)
func (ctrl *AvailabilityController) Search(c *gin.Context) {
	var payload availabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	checkIn, err := utils.ParseDateTime(payload.CheckIn)
	if err != nil {
		invalidPayload(c, fmt.Errorf("check_in: %w", err))
		return
	}
	checkOut, err := utils.ParseDateTime(payload.CheckOut)
	if err != nil {
		invalidPayload(c, fmt.Errorf("check_out: %w", err))
		return
	}
	rooms, err := ctrl.Availability.Search(c.Request.Context(), services.StayRequest{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Adults:   payload.Adults,
		Children: payload.Children,
	})
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}
