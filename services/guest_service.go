package services

import (
	"context"
	"errors"

	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/utils"
)

// GuestService backs the in-room guest portal, authenticated by access code.
type GuestService struct {
	store repository.Store
}

func NewGuestService(store repository.Store) *GuestService {
	return &GuestService{store: store}
}

// GuestSession is what a guest sees after entering the code: no staff-only fields.
type GuestSession struct {
	ReservationID uint                     `json:"reservation_id"`
	ReferenceCode string                   `json:"reference_code"`
	GuestName     string                   `json:"guest_name"`
	RoomName      string                   `json:"room_name"`
	CheckIn       string                   `json:"check_in"`
	CheckOut      string                   `json:"check_out"`
	Items         []models.ConsumptionItem `json:"items"`
	Bill          Bill                     `json:"bill"`
}

// Reservation resolves a code to its checked-in reservation.
func (s *GuestService) Reservation(ctx context.Context, accessCode string) (models.Reservation, error) {
	code := utils.NormalizeAccessCode(accessCode)
	if !utils.IsValidAccessCode(code) {
		return models.Reservation{}, ErrInvalidAccessCode
	}
	r, err := s.store.FindCheckedInByAccessCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return models.Reservation{}, ErrInvalidAccessCode
	}
	return r, storeErr("load reservation", err)
}

func (s *GuestService) Session(ctx context.Context, accessCode string) (GuestSession, error) {
	r, err := s.Reservation(ctx, accessCode)
	if err != nil {
		return GuestSession{}, err
	}
	room, err := billingRoom(ctx, s.store, r)
	if err != nil {
		return GuestSession{}, err
	}
	items := r.Items
	if items == nil {
		items = []models.ConsumptionItem{}
	}
	return GuestSession{
		ReservationID: r.ID,
		ReferenceCode: r.ReferenceCode,
		GuestName:     r.GuestName,
		RoomName:      room.Name,
		CheckIn:       r.CheckIn.Format(receiptDateFormat),
		CheckOut:      r.CheckOut.Format(receiptDateFormat),
		Items:         items,
		Bill:          Aggregate(r, room, r.Items),
	}, nil
}
