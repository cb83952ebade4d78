package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/gateways"
	"resort-backend/models"
	"resort-backend/repository"
)

// day returns 14:00 UTC on the given day of March 2026.
func day(n int) time.Time {
	return time.Date(2026, 3, n, 14, 0, 0, 0, time.UTC)
}

func mustRoom(t *testing.T, store repository.Store, name string, capacity int, price int64) models.Room {
	t.Helper()
	room := models.Room{Name: name, Capacity: capacity, Price: decimal.NewFromInt(price), Status: models.RoomAvailable}
	if err := store.CreateRoom(context.Background(), &room); err != nil {
		t.Fatalf("create room %s: %v", name, err)
	}
	return room
}

func mustProduct(t *testing.T, store repository.Store, name string, category models.ItemCategory, price int64) models.Product {
	t.Helper()
	p := models.Product{Name: name, Category: category, Price: decimal.NewFromInt(price), Active: true}
	if err := store.CreateProduct(context.Background(), &p); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

type fakeMailer struct {
	mu       sync.Mutex
	receipts []gateways.Receipt
}

func (m *fakeMailer) SendCheckoutReceipt(_ context.Context, r gateways.Receipt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receipts = append(m.receipts, r)
	return nil
}

type fakeKitchen struct {
	mu     sync.Mutex
	events []gateways.KitchenEvent
}

func (k *fakeKitchen) Publish(_ context.Context, e gateways.KitchenEvent) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.events = append(k.events, e)
	return nil
}

var errInjected = errors.New("injected failure")

// failingStore breaks CreateTransaction, inside and outside transactions.
type failingStore struct {
	repository.Store
}

func (f failingStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return f.Store.WithinTx(ctx, func(tx repository.Store) error {
		return fn(failingStore{Store: tx})
	})
}

func (f failingStore) CreateTransaction(context.Context, *models.Transaction) error {
	return errInjected
}

type fixture struct {
	store        *repository.MemoryStore
	reservations *ReservationService
	consumption  *ConsumptionService
	mailer       *fakeMailer
	kitchen      *fakeKitchen
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := repository.NewMemoryStore()
	mailer := &fakeMailer{}
	kitchen := &fakeKitchen{}
	return &fixture{
		store: store,
		reservations: NewReservationService(ReservationDeps{
			Store:  store,
			Mailer: mailer,
			Buffer: DefaultCleaningBuffer,
		}),
		consumption: NewConsumptionService(store, kitchen, nil),
		mailer:      mailer,
		kitchen:     kitchen,
	}
}

func (f *fixture) book(t *testing.T, roomID uint, from, to time.Time) models.Reservation {
	t.Helper()
	r, err := f.reservations.Create(context.Background(), CreateReservationInput{
		RoomID:     roomID,
		GuestName:  "Maria Silva",
		GuestEmail: "maria@example.com",
		CheckIn:    from,
		CheckOut:   to,
		Adults:     2,
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}
	return r
}

// checkedIn books, confirms and checks in a stay.
func (f *fixture) checkedIn(t *testing.T, roomID uint, from, to time.Time) models.Reservation {
	t.Helper()
	ctx := context.Background()
	r := f.book(t, roomID, from, to)
	if _, err := f.reservations.Confirm(ctx, r.ID, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	r, err := f.reservations.CheckIn(ctx, r.ID, nil)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	return r
}
