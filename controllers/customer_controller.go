package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
)

type CustomerController struct {
	CustomerSvc *services.CustomerService
	log         *logger.Logger
}

func NewCustomerController(svc *services.CustomerService, log *logger.Logger) *CustomerController {
	return &CustomerController{CustomerSvc: svc, log: log.WithComponent("customers")}
}

// List (GET /api/customers?q=)
func (ctrl *CustomerController) List(c *gin.Context) {
	list, err := ctrl.CustomerSvc.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctrl *CustomerController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	customer, err := ctrl.CustomerSvc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// CreateCustomer (POST /api/customers)
func (ctrl *CustomerController) CreateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := c.ShouldBindJSON(&customer); err != nil {
		invalidPayload(c, err)
		return
	}
	created, err := ctrl.CustomerSvc.Create(c.Request.Context(), customer)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
