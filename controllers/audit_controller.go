package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
)

type AuditController struct {
	Audit *services.AuditService
	log   *logger.Logger
}

func NewAuditController(svc *services.AuditService, log *logger.Logger) *AuditController {
	return &AuditController{Audit: svc, log: log.WithComponent("audit")}
}

// List (GET /api/audit?entity=reservation&entity_id=3&limit=50)
func (ctrl *AuditController) List(c *gin.Context) {
	id, err := queryUint(c, "entity_id")
	if err != nil {
		invalidPayload(c, err)
		return
	}
	var entityID uint
	if id != nil {
		entityID = *id
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	logs, err := ctrl.Audit.List(c.Request.Context(), c.Query("entity"), entityID, limit)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
