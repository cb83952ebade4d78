package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
)

func TestMemoryStoreWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	room := models.Room{Name: "101", Capacity: 2, Price: decimal.NewFromInt(100)}
	if err := store.CreateRoom(ctx, &room); err != nil {
		t.Fatalf("create room: %v", err)
	}

	boom := errors.New("boom")
	err := store.WithinTx(ctx, func(tx Store) error {
		r := models.Reservation{RoomID: room.ID, Status: models.ReservationPending}
		if err := tx.CreateReservation(ctx, &r); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	list, _ := store.ListReservations(ctx, ReservationFilter{})
	if len(list) != 0 {
		t.Fatalf("expected rollback to discard the reservation, got %d", len(list))
	}
}

func TestMemoryStoreWithinTxCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.WithinTx(ctx, func(tx Store) error {
		r := models.Reservation{RoomID: 1, Status: models.ReservationPending}
		if err := tx.CreateReservation(ctx, &r); err != nil {
			return err
		}
		id := r.ID
		return tx.CreateTransaction(ctx, &models.Transaction{
			Amount:        decimal.NewFromInt(50),
			Type:          models.TransactionIncome,
			Status:        models.TransactionPending,
			ReservationID: &id,
			Date:          time.Now(),
		})
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, _ := store.ListReservations(ctx, ReservationFilter{})
	txs, _ := store.ListTransactions(ctx, TransactionFilter{})
	if len(res) != 1 || len(txs) != 1 {
		t.Fatalf("expected 1 reservation and 1 transaction, got %d and %d", len(res), len(txs))
	}
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	room := models.Room{Name: "201", Capacity: 3}
	_ = store.CreateRoom(ctx, &room)

	first, _ := store.GetRoom(ctx, room.ID)
	second, _ := store.GetRoom(ctx, room.ID)

	first.Status = models.RoomMaintenance
	if err := store.UpdateRoom(ctx, &first); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if first.Version != 2 {
		t.Fatalf("expected version 2, got %d", first.Version)
	}

	second.Status = models.RoomCleaning
	if err := store.UpdateRoom(ctx, &second); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	got, _ := store.GetRoom(ctx, room.ID)
	if got.Status != models.RoomMaintenance {
		t.Fatalf("stale write must not land, got %s", got.Status)
	}
}

func TestMemoryStoreDuplicateRoomName(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_ = store.CreateRoom(ctx, &models.Room{Name: "Suite"})
	if err := store.CreateRoom(ctx, &models.Room{Name: "suite"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMemoryStoreReservationWindowFilter(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2025, 5, 1, 14, 0, 0, 0, time.Local)

	for i := 0; i < 3; i++ {
		r := models.Reservation{
			RoomID:   1,
			Status:   models.ReservationConfirmed,
			CheckIn:  base.AddDate(0, 0, i*3),
			CheckOut: base.AddDate(0, 0, i*3+2),
		}
		_ = store.CreateReservation(ctx, &r)
	}

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 4)
	list, _ := store.ListReservations(ctx, ReservationFilter{From: &from, To: &to})
	if len(list) != 2 {
		t.Fatalf("expected 2 reservations intersecting the window, got %d", len(list))
	}
}

func TestMemoryStoreGetReservationLoadsItems(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	r := models.Reservation{RoomID: 1, Status: models.ReservationCheckedIn, AccessCode: "123456"}
	_ = store.CreateReservation(ctx, &r)
	_ = store.CreateItem(ctx, &models.ConsumptionItem{ReservationID: r.ID, Description: "Water", Value: decimal.NewFromInt(5), Quantity: 2})

	got, err := store.FindCheckedInByAccessCode(ctx, "123456")
	if err != nil {
		t.Fatalf("find by code: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].Description != "Water" {
		t.Fatalf("expected the reservation's item to be loaded, got %+v", got.Items)
	}

	if _, err := store.FindCheckedInByAccessCode(ctx, "000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown code, got %v", err)
	}
}
