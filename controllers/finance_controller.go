package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/services"
	"resort-backend/utils"
)

type FinanceController struct {
	Finance *services.FinanceService
	log     *logger.Logger
}

func NewFinanceController(svc *services.FinanceService, log *logger.Logger) *FinanceController {
	return &FinanceController{Finance: svc, log: log.WithComponent("finance")}
}

// List (GET /api/transactions?type=&status=&from=&to=&reservation_id=)
func (ctrl *FinanceController) List(c *gin.Context) {
	f := repository.TransactionFilter{
		Type:   models.TransactionType(c.Query("type")),
		Status: models.TransactionStatus(c.Query("status")),
	}
	var err error
	if f.ReservationID, err = queryUint(c, "reservation_id"); err != nil {
		invalidPayload(c, err)
		return
	}
	if f.EventID, err = queryUint(c, "event_id"); err != nil {
		invalidPayload(c, err)
		return
	}
	if f.From, err = queryTime(c, "from"); err != nil {
		invalidPayload(c, err)
		return
	}
	if f.To, err = queryTime(c, "to"); err != nil {
		invalidPayload(c, err)
		return
	}
	list, err := ctrl.Finance.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type transactionPayload struct {
	Description string                   `json:"description" binding:"required"`
	Amount      decimal.Decimal          `json:"amount"`
	Type        models.TransactionType   `json:"type" binding:"required"`
	Category    string                   `json:"category"`
	Date        string                   `json:"date"`
	Status      models.TransactionStatus `json:"status"`
}

func (ctrl *FinanceController) Create(c *gin.Context) {
	var payload transactionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	in := services.TransactionInput{
		Description: payload.Description,
		Amount:      payload.Amount,
		Type:        payload.Type,
		Category:    payload.Category,
		Status:      payload.Status,
	}
	if payload.Date != "" {
		d, err := utils.ParseDateTime(payload.Date)
		if err != nil {
			invalidPayload(c, fmt.Errorf("date: %w", err))
			return
		}
		in.Date = d
	}
	t, err := ctrl.Finance.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// MarkPaid (POST /api/transactions/:id/pay)
func (ctrl *FinanceController) MarkPaid(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	t, err := ctrl.Finance.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Summary (GET /api/finance/summary?from=&to=)
func (ctrl *FinanceController) Summary(c *gin.Context) {
	from, err := queryTime(c, "from")
	if err != nil {
		invalidPayload(c, err)
		return
	}
	to, err := queryTime(c, "to")
	if err != nil {
		invalidPayload(c, err)
		return
	}
	sum, err := ctrl.Finance.Summary(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, sum)
}
