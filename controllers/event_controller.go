package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
	"resort-backend/utils"
)

type EventController struct {
	Events *services.EventService
	log    *logger.Logger
}

func NewEventController(svc *services.EventService, log *logger.Logger) *EventController {
	return &EventController{Events: svc, log: log.WithComponent("events")}
}

type eventPayload struct {
	Title         string          `json:"title" binding:"required"`
	Venue         string          `json:"venue"`
	ClientName    string          `json:"client_name"`
	CustomerID    *uint           `json:"customer_id"`
	StartsAt      string          `json:"starts_at" binding:"required"`
	EndsAt        string          `json:"ends_at" binding:"required"`
	Guests        int             `json:"guests"`
	TotalValue    decimal.Decimal `json:"total_value"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	Notes         string          `json:"notes"`
}

func (ctrl *EventController) List(c *gin.Context) {
	list, err := ctrl.Events.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctrl *EventController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := ctrl.Events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

func (ctrl *EventController) Create(c *gin.Context) {
	var payload eventPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	starts, err := utils.ParseDateTime(payload.StartsAt)
	if err != nil {
		invalidPayload(c, fmt.Errorf("starts_at: %w", err))
		return
	}
	ends, err := utils.ParseDateTime(payload.EndsAt)
	if err != nil {
		invalidPayload(c, fmt.Errorf("ends_at: %w", err))
		return
	}
	e, err := ctrl.Events.Create(c.Request.Context(), services.EventInput{
		Title:         payload.Title,
		Venue:         payload.Venue,
		ClientName:    payload.ClientName,
		CustomerID:    payload.CustomerID,
		StartsAt:      starts,
		EndsAt:        ends,
		Guests:        payload.Guests,
		TotalValue:    payload.TotalValue,
		DepositAmount: payload.DepositAmount,
		Notes:         payload.Notes,
	})
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

func (ctrl *EventController) step(c *gin.Context, fn func(id uint) (models.Event, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	e, err := fn(id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// ConfirmDeposit (POST /api/events/:id/confirm-deposit)
func (ctrl *EventController) ConfirmDeposit(c *gin.Context) {
	ctrl.step(c, func(id uint) (models.Event, error) { return ctrl.Events.ConfirmDeposit(c.Request.Context(), id) })
}

// Complete (POST /api/events/:id/complete)
func (ctrl *EventController) Complete(c *gin.Context) {
	ctrl.step(c, func(id uint) (models.Event, error) { return ctrl.Events.Complete(c.Request.Context(), id) })
}

// Cancel (POST /api/events/:id/cancel)
func (ctrl *EventController) Cancel(c *gin.Context) {
	ctrl.step(c, func(id uint) (models.Event, error) { return ctrl.Events.Cancel(c.Request.Context(), id) })
}
