package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/repository"
)

type RoomService struct {
	store repository.Store
}

func NewRoomService(store repository.Store) *RoomService {
	return &RoomService{store: store}
}

type RoomInput struct {
	Name        string
	Type        string
	Capacity    int
	Price       decimal.Decimal
	Status      models.RoomStatus
	Description string
	Version     *int
}

func (in RoomInput) validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return validationf("name is required")
	case in.Capacity < 1:
		return validationf("capacity must be at least 1")
	case in.Price.IsNegative():
		return validationf("price must not be negative")
	case in.Status != "" && !in.Status.Valid():
		return validationf("unknown room status %q", in.Status)
	}
	return nil
}

func (s *RoomService) List(ctx context.Context) ([]models.Room, error) {
	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		return nil, storeErr("list rooms", err)
	}
	if rooms == nil {
		rooms = []models.Room{}
	}
	return rooms, nil
}

func (s *RoomService) Get(ctx context.Context, id uint) (models.Room, error) {
	room, err := s.store.GetRoom(ctx, id)
	return room, storeErr("load room", err)
}

func (s *RoomService) Create(ctx context.Context, in RoomInput) (models.Room, error) {
	if err := in.validate(); err != nil {
		return models.Room{}, err
	}
	room := models.Room{
		Name:        strings.TrimSpace(in.Name),
		Type:        strings.TrimSpace(in.Type),
		Capacity:    in.Capacity,
		Price:       in.Price,
		Status:      in.Status,
		Description: in.Description,
	}
	if room.Status == "" {
		room.Status = models.RoomAvailable
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateRoom(ctx, &room); err != nil {
			return storeErr("create room", err)
		}
		return recordAudit(ctx, tx, "room", room.ID, "created", nil, room)
	})
	return room, err
}

func (s *RoomService) Update(ctx context.Context, id uint, in RoomInput) (models.Room, error) {
	if err := in.validate(); err != nil {
		return models.Room{}, err
	}
	var room models.Room
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		room, err = tx.GetRoom(ctx, id)
		if err != nil {
			return storeErr("load room", err)
		}
		if err := checkVersion(in.Version, room.Version); err != nil {
			return err
		}
		before := room
		room.Name = strings.TrimSpace(in.Name)
		room.Type = strings.TrimSpace(in.Type)
		room.Capacity = in.Capacity
		room.Price = in.Price
		room.Description = in.Description
		if in.Status != "" {
			room.Status = in.Status
		}
		if err := tx.UpdateRoom(ctx, &room); err != nil {
			return storeErr("update room", err)
		}
		return recordAudit(ctx, tx, "room", room.ID, "updated", before, room)
	})
	if err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// UpdateStatus is the housekeeping action (Cleaning -> Available, Maintenance, ...).
func (s *RoomService) UpdateStatus(ctx context.Context, id uint, status models.RoomStatus, expectedVersion *int) (models.Room, error) {
	if !status.Valid() {
		return models.Room{}, validationf("unknown room status %q", status)
	}
	var room models.Room
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		current, err := tx.GetRoom(ctx, id)
		if err != nil {
			return storeErr("load room", err)
		}
		if err := checkVersion(expectedVersion, current.Version); err != nil {
			return err
		}
		room, err = setRoomStatus(ctx, tx, id, status, "status:"+string(status))
		return err
	})
	if err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Delete refuses while the room still has open reservations.
func (s *RoomService) Delete(ctx context.Context, id uint) error {
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		room, err := tx.LockRoom(ctx, id)
		if err != nil {
			return storeErr("load room", err)
		}
		open, err := tx.ListReservations(ctx, repository.ReservationFilter{
			RoomID:   &id,
			Statuses: models.ActiveReservationStatuses,
		})
		if err != nil {
			return storeErr("list reservations", err)
		}
		if len(open) > 0 {
			return fmt.Errorf("room %s has %d open reservation(s): %w", room.Name, len(open), ErrRoomInUse)
		}
		if err := tx.DeleteRoom(ctx, id); err != nil {
			return storeErr("delete room", err)
		}
		return recordAudit(ctx, tx, "room", id, "deleted", room, nil)
	})
}
