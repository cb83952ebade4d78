package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
)

type ProductController struct {
	Products *services.ProductService
	log      *logger.Logger
}

func NewProductController(svc *services.ProductService, log *logger.Logger) *ProductController {
	return &ProductController{Products: svc, log: log.WithComponent("products")}
}

func errUnknownCategory(c models.ItemCategory) error {
	return fmt.Errorf("unknown category %q", c)
}

// List (GET /api/products). Pass ?all=true to include inactive products.
func (ctrl *ProductController) List(c *gin.Context) {
	products, err := ctrl.Products.List(c.Request.Context(), c.Query("all") != "true")
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type productPayload struct {
	Name     string              `json:"name" binding:"required"`
	Category models.ItemCategory `json:"category" binding:"required"`
	Price    decimal.Decimal     `json:"price"`
}

func (ctrl *ProductController) Create(c *gin.Context) {
	var payload productPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := ctrl.Products.Create(c.Request.Context(), payload.Name, payload.Category, payload.Price)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

type activePayload struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive (PATCH /api/products/:id/active)
func (ctrl *ProductController) SetActive(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload activePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	p, err := ctrl.Products.SetActive(c.Request.Context(), id, *payload.Active)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
