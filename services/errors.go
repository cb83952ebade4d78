package services

import (
	"errors"
	"fmt"

	"resort-backend/repository"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrDuplicate         = errors.New("already exists")
	ErrConflict          = errors.New("record was modified by another request")
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrRoomUnavailable  = errors.New("room is not available for the requested dates")
	ErrCapacityExceeded = errors.New("party exceeds room capacity")
	ErrInvalidStay      = errors.New("check-out must not be before check-in")
	ErrRoomBusy         = errors.New("room is being booked by another request")
	ErrRoomInUse        = errors.New("room has active reservations")
	ErrRequestInFlight  = errors.New("a request with this idempotency key is still being processed")

	ErrReservationClosed = errors.New("reservation does not accept consumption")
	ErrInvalidAccessCode = errors.New("invalid access code")
	ErrUnauthorized      = errors.New("invalid credentials")
)

func validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// storeErr converts repository sentinels into service sentinels, prefixed with what failed.
func storeErr(what string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	case errors.Is(err, repository.ErrVersionConflict):
		return fmt.Errorf("%s: %w", what, ErrConflict)
	case errors.Is(err, repository.ErrDuplicate):
		return fmt.Errorf("%s: %w", what, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// checkVersion rejects a write whose caller read an older version.
func checkVersion(expected *int, current int) error {
	if expected != nil && *expected != current {
		return fmt.Errorf("expected version %d, found %d: %w", *expected, current, ErrConflict)
	}
	return nil
}
