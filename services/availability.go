package services

import (
	"context"
	"time"

	"resort-backend/models"
	"resort-backend/repository"
)

// DefaultCleaningBuffer is kept free after every checkout before the room can be sold again.
const DefaultCleaningBuffer = time.Hour

type StayRequest struct {
	CheckIn  time.Time
	CheckOut time.Time
	Adults   int
	Children int
}

func (r StayRequest) PartySize() int {
	return r.Adults + r.Children
}

// Conflicts returns the active reservations on roomID that collide with
// [start, end) once buffer is appended to their checkout.
func Conflicts(reservations []models.Reservation, roomID uint, start, end time.Time, buffer time.Duration) []models.Reservation {
	var out []models.Reservation
	for _, r := range reservations {
		if r.RoomID != roomID || !r.Status.Active() {
			continue
		}
		if r.Overlaps(start, end, buffer) {
			out = append(out, r)
		}
	}
	return out
}

// AvailableRooms keeps the rooms that fit the party and have no conflicting
// reservation. Rooms under maintenance are never offered. Input order is kept.
func AvailableRooms(rooms []models.Room, reservations []models.Reservation, req StayRequest, buffer time.Duration) []models.Room {
	out := []models.Room{}
	for _, room := range rooms {
		if room.Status == models.RoomMaintenance || !room.Fits(req.PartySize()) {
			continue
		}
		if len(Conflicts(reservations, room.ID, req.CheckIn, req.CheckOut, buffer)) > 0 {
			continue
		}
		out = append(out, room)
	}
	return out
}

type AvailabilityService struct {
	store  repository.Store
	buffer time.Duration
}

func NewAvailabilityService(store repository.Store, buffer time.Duration) *AvailabilityService {
	return &AvailabilityService{store: store, buffer: buffer}
}

// candidateFilter narrows the reservation scan to stays that can possibly collide.
func candidateFilter(req StayRequest, buffer time.Duration) repository.ReservationFilter {
	from := req.CheckIn.Add(-buffer)
	to := req.CheckOut
	return repository.ReservationFilter{
		Statuses: models.ActiveReservationStatuses,
		From:     &from,
		To:       &to,
	}
}

func (s *AvailabilityService) Search(ctx context.Context, req StayRequest) ([]models.Room, error) {
	if req.Adults < 1 {
		return nil, validationf("at least one adult is required")
	}
	if req.Children < 0 {
		return nil, validationf("children must not be negative")
	}
	if req.CheckIn.IsZero() || req.CheckOut.IsZero() {
		return nil, validationf("check_in and check_out are required")
	}
	if req.CheckOut.Before(req.CheckIn) {
		return nil, ErrInvalidStay
	}

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	reservations, err := s.store.ListReservations(ctx, candidateFilter(req, s.buffer))
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	return AvailableRooms(rooms, reservations, req, s.buffer), nil
}
