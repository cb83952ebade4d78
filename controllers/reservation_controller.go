package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/services"
	"resort-backend/utils"
)

type ReservationController struct {
	Reservations *services.ReservationService
	log          *logger.Logger
}

func NewReservationController(svc *services.ReservationService, log *logger.Logger) *ReservationController {
	return &ReservationController{Reservations: svc, log: log.WithComponent("reservations")}
}

type reservationPayload struct {
	RoomID     uint   `json:"room_id" binding:"required"`
	CustomerID *uint  `json:"customer_id"`
	GuestName  string `json:"guest_name"`
	GuestEmail string `json:"guest_email"`
	CheckIn    string `json:"check_in" binding:"required"`
	CheckOut   string `json:"check_out" binding:"required"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	Notes      string `json:"notes"`
	Confirm    bool   `json:"confirm"`
}

func queryTime(c *gin.Context, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := utils.ParseDateTime(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &t, nil
}

func queryUint(c *gin.Context, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid id", key)
	}
	return utils.PtrUint(uint(v)), nil
}

// ----------------------------------------------------
// GET /api/reservations?status=Confirmed,Checked-in&room_id=&from=&to=
// ----------------------------------------------------

func (ctrl *ReservationController) List(c *gin.Context) {
	var f repository.ReservationFilter
	var err error
	if f.RoomID, err = queryUint(c, "room_id"); err != nil {
		invalidPayload(c, err)
		return
	}
	if f.CustomerID, err = queryUint(c, "customer_id"); err != nil {
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
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			st := models.ReservationStatus(strings.TrimSpace(s))
			if !st.Valid() {
				invalidPayload(c, fmt.Errorf("unknown status %q", st))
				return
			}
			f.Statuses = append(f.Statuses, st)
		}
	}

	list, err := ctrl.Reservations.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (ctrl *ReservationController) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	r, err := ctrl.Reservations.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// ----------------------------------------------------
// POST /api/reservations (honours Idempotency-Key)
// ----------------------------------------------------

func (ctrl *ReservationController) Create(c *gin.Context) {
	var payload reservationPayload
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

	r, err := ctrl.Reservations.Create(c.Request.Context(), services.CreateReservationInput{
		RoomID:         payload.RoomID,
		CustomerID:     payload.CustomerID,
		GuestName:      payload.GuestName,
		GuestEmail:     payload.GuestEmail,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Adults:         payload.Adults,
		Children:       payload.Children,
		Notes:          payload.Notes,
		Confirm:        payload.Confirm,
		IdempotencyKey: strings.TrimSpace(c.GetHeader("Idempotency-Key")),
	})
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// ----------------------------------------------------
// Lifecycle: confirm, check-in, check-out, cancel
// ----------------------------------------------------

func (ctrl *ReservationController) lifecycle(c *gin.Context, step func(id uint, version *int) (models.Reservation, error)) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	version, ok := bindVersion(c)
	if !ok {
		return
	}
	r, err := step(id, version)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (ctrl *ReservationController) Confirm(c *gin.Context) {
	ctrl.lifecycle(c, func(id uint, v *int) (models.Reservation, error) {
		return ctrl.Reservations.Confirm(c.Request.Context(), id, v)
	})
}

func (ctrl *ReservationController) CheckIn(c *gin.Context) {
	ctrl.lifecycle(c, func(id uint, v *int) (models.Reservation, error) {
		return ctrl.Reservations.CheckIn(c.Request.Context(), id, v)
	})
}

func (ctrl *ReservationController) Cancel(c *gin.Context) {
	ctrl.lifecycle(c, func(id uint, v *int) (models.Reservation, error) {
		return ctrl.Reservations.Cancel(c.Request.Context(), id, v)
	})
}

type checkoutPayload struct {
	Version         *int `json:"version"`
	PostTransaction bool `json:"post_transaction"`
}

func (ctrl *ReservationController) CheckOut(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var payload checkoutPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			invalidPayload(c, err)
			return
		}
	}
	res, err := ctrl.Reservations.CheckOut(c.Request.Context(), id, services.CheckoutInput{
		ExpectedVersion: payload.Version,
		PostTransaction: payload.PostTransaction,
	})
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Bill (GET /api/reservations/:id/bill) is the running bill of the stay.
func (ctrl *ReservationController) Bill(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	bill, err := ctrl.Reservations.Bill(c.Request.Context(), id)
	if err != nil {
		respondError(c, ctrl.log, err)
		return
	}
	c.JSON(http.StatusOK, bill)
}
