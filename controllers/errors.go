package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resort-backend/logger"
	"resort-backend/services"
	"resort-backend/utils"
)

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{services.ErrNotFound, http.StatusNotFound, "error.notFound"},
	{services.ErrValidation, http.StatusBadRequest, "error.invalidPayload"},
	{services.ErrInvalidStay, http.StatusBadRequest, "error.invalidStay"},
	{services.ErrDuplicate, http.StatusConflict, "error.duplicate"},
	{services.ErrConflict, http.StatusConflict, "error.versionConflict"},
	{services.ErrInvalidTransition, http.StatusConflict, "error.invalidTransition"},
	{services.ErrRoomUnavailable, http.StatusConflict, "error.roomUnavailable"},
	{services.ErrCapacityExceeded, http.StatusUnprocessableEntity, "error.capacityExceeded"},
	{services.ErrRoomBusy, http.StatusConflict, "error.roomBusy"},
	{services.ErrRoomInUse, http.StatusConflict, "error.roomInUse"},
	{services.ErrRequestInFlight, http.StatusConflict, "error.requestInFlight"},
	{services.ErrReservationClosed, http.StatusConflict, "error.reservationClosed"},
	{services.ErrInvalidAccessCode, http.StatusUnauthorized, "error.invalidOrExpiredCode"},
	{services.ErrUnauthorized, http.StatusUnauthorized, "error.unauthorized"},
}

// respondError maps service errors onto the error envelope. Anything
// unrecognised is logged and reported as error.internal.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			utils.JSONError(c, e.status, e.code, err.Error())
			return
		}
	}
	_ = c.Error(err)
	log.Error("❌ request failed", "path", c.FullPath(), "request_id", c.GetString("request_id"), "error", err)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "internal server error")
}

func invalidPayload(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", err.Error())
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// versionBody is the optional optimistic-locking token carried by state changes.
type versionBody struct {
	Version *int `json:"version"`
}

func bindVersion(c *gin.Context) (*int, bool) {
	var body versionBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			invalidPayload(c, err)
			return nil, false
		}
	}
	return body.Version, true
}
