package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
)

type ConsumptionController struct {
	Consumption *services.ConsumptionService
	log         *logger.Logger
}

func NewConsumptionController(svc *services.ConsumptionService, log *logger.Logger) *ConsumptionController {
	return &ConsumptionController{Consumption: svc, log: log.WithComponent("consumption")}
}

type itemPayload struct {
	ProductID   *uint               `json:"product_id"`
	Description string              `json:"description"`
	Value       decimal.Decimal     `json:"value"`
	Quantity    int                 `json:"quantity" binding:"required,min=1"`
	Category    models.ItemCategory `json:"category"`
	Notes       string              `json:"notes"`
}

func (p itemPayload) input() services.AddItemInput {
	return services.AddItemInput{
		ProductID:   p.ProductID,
		Description: p.Description,
		Value:       p.Value,
		Quantity:    p.Quantity,
		Category:    p.Category,
		Notes:       p.Notes,
	}
}

// List (GET /api/reservations/:id/items)
func (ctrl *ConsumptionController) List(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	items, err := ctrl.Consumption.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Add (POST /api/reservations/:id/items)
func (ctrl *ConsumptionController) Add(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload itemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	item, err := ctrl.Consumption.AddItem(c.Request.Context(), id, payload.input())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Advance (POST /api/items/:id/advance)
func (ctrl *ConsumptionController) Advance(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	version, ok := bindVersion(c)
	if !ok {
		return
	}
	item, err := ctrl.Consumption.Advance(c.Request.Context(), id, version)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Cancel (DELETE /api/items/:id)
func (ctrl *ConsumptionController) Cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Consumption.Cancel(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// KitchenQueue (GET /api/kitchen/queue?category=bar)
func (ctrl *ConsumptionController) KitchenQueue(c *gin.Context) {
	category := models.ItemCategory(c.Query("category"))
	if category != "" && !category.Valid() {
		invalidPayload(c, errUnknownCategory(category))
		return
	}
	queue, err := ctrl.Consumption.KitchenQueue(c.Request.Context(), category)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, queue)
}
