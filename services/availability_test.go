package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
)

func TestAvailableRoomsExcludesOverlappingRoom(t *testing.T) {
	roomA := models.Room{ID: 1, Name: "A", Capacity: 2, Price: decimal.NewFromInt(300)}
	roomB := models.Room{ID: 2, Name: "B", Capacity: 4, Price: decimal.NewFromInt(600)}
	existing := []models.Reservation{{ID: 7, RoomID: 1, CheckIn: day(1), CheckOut: day(3), Status: models.ReservationConfirmed}}

	got := AvailableRooms([]models.Room{roomA, roomB}, existing, StayRequest{CheckIn: day(2), CheckOut: day(4), Adults: 2}, DefaultCleaningBuffer)
	if len(got) != 1 || got[0].ID != roomB.ID {
		t.Fatalf("expected only room B, got %+v", got)
	}
}

func TestAvailableRoomsSkipsSmallAndMaintenanceRooms(t *testing.T) {
	rooms := []models.Room{
		{ID: 1, Capacity: 2},
		{ID: 2, Capacity: 4, Status: models.RoomMaintenance},
		{ID: 3, Capacity: 4},
	}
	got := AvailableRooms(rooms, nil, StayRequest{CheckIn: day(1), CheckOut: day(2), Adults: 2, Children: 1}, DefaultCleaningBuffer)
	if len(got) != 1 || got[0].ID != 3 {
		t.Fatalf("expected room 3 only, got %+v", got)
	}
}

func TestConflictsHonourCleaningBuffer(t *testing.T) {
	existing := []models.Reservation{{RoomID: 1, CheckIn: day(1), CheckOut: day(3), Status: models.ReservationCheckedIn}}

	if c := Conflicts(existing, 1, day(3).Add(30*time.Minute), day(5), DefaultCleaningBuffer); len(c) != 1 {
		t.Fatalf("arrival 30 minutes after checkout must conflict, got %d", len(c))
	}
	if c := Conflicts(existing, 1, day(3).Add(DefaultCleaningBuffer), day(5), DefaultCleaningBuffer); len(c) != 0 {
		t.Fatalf("arrival exactly one buffer after checkout must be free, got %d", len(c))
	}
	if c := Conflicts(existing, 2, day(2), day(4), DefaultCleaningBuffer); len(c) != 0 {
		t.Fatal("other rooms never conflict")
	}
}

func TestConflictsIgnoreClosedReservations(t *testing.T) {
	existing := []models.Reservation{
		{RoomID: 1, CheckIn: day(1), CheckOut: day(3), Status: models.ReservationCancelled},
		{RoomID: 1, CheckIn: day(1), CheckOut: day(3), Status: models.ReservationCheckedOut},
	}
	if c := Conflicts(existing, 1, day(2), day(4), DefaultCleaningBuffer); len(c) != 0 {
		t.Fatalf("cancelled and checked-out stays must not block, got %d", len(c))
	}
}

func TestAvailabilitySearch(t *testing.T) {
	f := newFixture(t)
	roomA := mustRoom(t, f.store, "A", 2, 300)
	roomB := mustRoom(t, f.store, "B", 4, 600)
	f.book(t, roomA.ID, day(1), day(3))

	svc := NewAvailabilityService(f.store, DefaultCleaningBuffer)
	got, err := svc.Search(context.Background(), StayRequest{CheckIn: day(2), CheckOut: day(4), Adults: 2})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != roomB.ID {
		t.Fatalf("expected room B, got %+v", got)
	}

	got, err = svc.Search(context.Background(), StayRequest{CheckIn: day(4), CheckOut: day(6), Adults: 1})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected both rooms after the stay, got %d", len(got))
	}
}

func TestAvailabilitySearchRequiresAnAdult(t *testing.T) {
	svc := NewAvailabilityService(newFixture(t).store, DefaultCleaningBuffer)
	if _, err := svc.Search(context.Background(), StayRequest{CheckIn: day(1), CheckOut: day(2)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
