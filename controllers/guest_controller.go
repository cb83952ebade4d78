package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
)

// AccessCodeHeader carries the guest's 6 digit code on portal requests.
const AccessCodeHeader = "X-Access-Code"

type GuestController struct {
	Guests      *services.GuestService
	Consumption *services.ConsumptionService
	log         *logger.Logger
}

func NewGuestController(guests *services.GuestService, consumption *services.ConsumptionService, log *logger.Logger) *GuestController {
	return &GuestController{Guests: guests, Consumption: consumption, log: log.WithComponent("guest")}
}

type guestLoginPayload struct {
	AccessCode string `json:"access_code" binding:"required"`
}

// Login (POST /api/guest/login)
func (ctrl *GuestController) Login(c *gin.Context) {
	var payload guestLoginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	session, err := ctrl.Guests.Session(c.Request.Context(), payload.AccessCode)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	ctrl.log.Info("🛎️  guest portal login", "reservation_id", session.ReservationID)
	c.JSON(http.StatusOK, session)
}

// Bill (GET /api/guest/bill)
func (ctrl *GuestController) Bill(c *gin.Context) {
	session, err := ctrl.Guests.Session(c.Request.Context(), c.GetHeader(AccessCodeHeader))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, session.Bill)
}

// Order (POST /api/guest/orders) places a self-service order from the catalog.
func (ctrl *GuestController) Order(c *gin.Context) {
	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	code := c.GetHeader(AccessCodeHeader)
	ctx := services.WithActor(c.Request.Context(), "guest")
	item, err := ctrl.Consumption.AddGuestItem(ctx, code, payload.input())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}
