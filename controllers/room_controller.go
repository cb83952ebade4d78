package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/services"
)

type RoomController struct {
	Rooms *services.RoomService
	log   *logger.Logger
}

func NewRoomController(rooms *services.RoomService, log *logger.Logger) *RoomController {
	return &RoomController{Rooms: rooms, log: log.WithComponent("rooms")}
}

type roomPayload struct {
	Name        string            `json:"name" binding:"required"`
	Type        string            `json:"type"`
	Capacity    int               `json:"capacity" binding:"required,min=1"`
	Price       decimal.Decimal   `json:"price"`
	Status      models.RoomStatus `json:"status"`
	Description string            `json:"description"`
	Version     *int              `json:"version"`
}

func (p roomPayload) input() services.RoomInput {
	return services.RoomInput{
		Name:        p.Name,
		Type:        p.Type,
		Capacity:    p.Capacity,
		Price:       p.Price,
		Status:      p.Status,
		Description: p.Description,
		Version:     p.Version,
	}
}

// ----------------------------------------------------
// GET /api/rooms
// ----------------------------------------------------

func (ctrl *RoomController) List(c *gin.Context) {
	rooms, err := ctrl.Rooms.List(c.Request.Context())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (ctrl *RoomController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	room, err := ctrl.Rooms.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// POST /api/rooms, PUT /api/rooms/:id
// ----------------------------------------------------

func (ctrl *RoomController) Create(c *gin.Context) {
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	room, err := ctrl.Rooms.Create(c.Request.Context(), payload.input())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (ctrl *RoomController) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload roomPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	room, err := ctrl.Rooms.Update(c.Request.Context(), id, payload.input())
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

// ----------------------------------------------------
// PATCH /api/rooms/:id/status (housekeeping)
// ----------------------------------------------------

type roomStatusPayload struct {
	Status  models.RoomStatus `json:"status" binding:"required"`
	Version *int              `json:"version"`
}

func (ctrl *RoomController) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload roomStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		invalidPayload(c, err)
		return
	}
	room, err := ctrl.Rooms.UpdateStatus(c.Request.Context(), id, payload.Status, payload.Version)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	ctrl.log.Info("🧹 room status changed", "room_id", room.ID, "status", room.Status)
	c.JSON(http.StatusOK, room)
}

func (ctrl *RoomController) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
