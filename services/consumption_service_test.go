package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"resort-backend/gateways"
	"resort-backend/models"
)

func TestAddItemRequiresOpenStay(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.book(t, room.ID, day(1), day(2))

	in := AddItemInput{Description: "Water", Value: decimal.NewFromInt(5), Quantity: 1}
	if _, err := f.consumption.AddItem(ctx, r.ID, in); !errors.Is(err, ErrReservationClosed) {
		t.Fatalf("pending reservations must reject items, got %v", err)
	}
	if _, err := f.reservations.Confirm(ctx, r.ID, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	item, err := f.consumption.AddItem(ctx, r.ID, in)
	if err != nil {
		t.Fatalf("add item to confirmed stay: %v", err)
	}
	if item.Status != models.ItemPending || item.Category != models.CategoryOther || item.Source != models.SourceStaff {
		t.Fatalf("unexpected defaults %+v", item)
	}
	if len(f.kitchen.events) != 1 || f.kitchen.events[0].Type != gateways.KitchenItemCreated {
		t.Fatalf("expected one created event, got %+v", f.kitchen.events)
	}
}

func TestAddItemValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.checkedIn(t, room.ID, day(1), day(2))

	bad := []AddItemInput{
		{Value: decimal.NewFromInt(5), Quantity: 1},
		{Description: "x", Value: decimal.NewFromInt(5), Quantity: 0},
		{Description: "x", Value: decimal.NewFromInt(-1), Quantity: 1},
		{Description: "x", Value: decimal.NewFromInt(1), Quantity: 1, Category: "spa"},
	}
	for i, in := range bad {
		if _, err := f.consumption.AddItem(ctx, r.ID, in); !errors.Is(err, ErrValidation) {
			t.Fatalf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestAddItemUsesCatalogDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	p := mustProduct(t, f.store, "Moqueca", models.CategoryRestaurant, 80)
	r := f.checkedIn(t, room.ID, day(1), day(2))

	item, err := f.consumption.AddItem(ctx, r.ID, AddItemInput{ProductID: &p.ID, Quantity: 2})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if item.Description != "Moqueca" || !item.Value.Equal(decimal.NewFromInt(80)) || item.Category != models.CategoryRestaurant {
		t.Fatalf("catalog defaults not applied: %+v", item)
	}
}

func TestGuestOrderUsesAccessCodeAndCatalogPrice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	p := mustProduct(t, f.store, "Agua de coco", models.CategoryBar, 12)
	r := f.checkedIn(t, room.ID, day(1), day(2))

	item, err := f.consumption.AddGuestItem(ctx, r.AccessCode, AddItemInput{ProductID: &p.ID, Value: decimal.NewFromInt(1), Quantity: 1})
	if err != nil {
		t.Fatalf("guest order: %v", err)
	}
	if !item.Value.Equal(decimal.NewFromInt(12)) || item.Source != models.SourceGuest || item.ReservationID != r.ID {
		t.Fatalf("guest order must be priced from the catalog: %+v", item)
	}

	if _, err := f.consumption.AddGuestItem(ctx, "000000", AddItemInput{ProductID: &p.ID, Quantity: 1}); !errors.Is(err, ErrInvalidAccessCode) {
		t.Fatalf("expected ErrInvalidAccessCode, got %v", err)
	}
	if _, err := f.consumption.AddGuestItem(ctx, r.AccessCode, AddItemInput{Description: "free text", Quantity: 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("guest orders need a product, got %v", err)
	}
}

func TestAdvanceWalksKitchenStatuses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.checkedIn(t, room.ID, day(1), day(2))
	item, err := f.consumption.AddItem(ctx, r.ID, AddItemInput{Description: "Burger", Value: decimal.NewFromInt(40), Quantity: 1, Category: models.CategoryRestaurant})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	for _, want := range []models.ItemStatus{models.ItemPreparing, models.ItemReady, models.ItemDelivered} {
		item, err = f.consumption.Advance(ctx, item.ID, nil)
		if err != nil {
			t.Fatalf("advance to %s: %v", want, err)
		}
		if item.Status != want {
			t.Fatalf("status = %s, want %s", item.Status, want)
		}
	}
	if _, err := f.consumption.Advance(ctx, item.ID, nil); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("delivered items cannot advance, got %v", err)
	}
	if err := f.consumption.Cancel(ctx, item.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("delivered items cannot be cancelled, got %v", err)
	}
}

func TestAdvanceRejectsStaleVersion(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.checkedIn(t, room.ID, day(1), day(2))
	item, _ := f.consumption.AddItem(ctx, r.ID, AddItemInput{Description: "Tea", Value: decimal.NewFromInt(8), Quantity: 1})

	v := item.Version
	if _, err := f.consumption.Advance(ctx, item.ID, &v); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if _, err := f.consumption.Advance(ctx, item.ID, &v); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCancelRemovesItemFromBill(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.checkedIn(t, room.ID, day(1), day(2))
	item, _ := f.consumption.AddItem(ctx, r.ID, AddItemInput{Description: "Wine", Value: decimal.NewFromInt(120), Quantity: 1, Category: models.CategoryBar})

	if err := f.consumption.Cancel(ctx, item.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	bill, err := f.reservations.Bill(ctx, r.ID)
	if err != nil {
		t.Fatalf("bill: %v", err)
	}
	if !bill.GrandTotal.Equal(decimal.NewFromInt(300)) || len(bill.Lines) != 0 {
		t.Fatalf("cancelled item still billed: %+v", bill)
	}
	last := f.kitchen.events[len(f.kitchen.events)-1]
	if last.Type != gateways.KitchenItemCancelled {
		t.Fatalf("expected cancelled event, got %s", last.Type)
	}
}

func TestCancelRejectedOnClosedReservation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.book(t, room.ID, day(1), day(2))
	if _, err := f.reservations.Confirm(ctx, r.ID, nil); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	item, err := f.consumption.AddItem(ctx, r.ID, AddItemInput{Description: "Welcome drink", Value: decimal.NewFromInt(18), Quantity: 1, Category: models.CategoryBar})
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.reservations.Cancel(ctx, r.ID, nil); err != nil {
		t.Fatalf("cancel reservation: %v", err)
	}

	if err := f.consumption.Cancel(ctx, item.ID); !errors.Is(err, ErrReservationClosed) {
		t.Fatalf("expected ErrReservationClosed, got %v", err)
	}
	items, err := f.consumption.List(ctx, r.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("item must stay on the closed reservation, got %+v", items)
	}
}

func TestInactiveProductCannotBeOrdered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	p := mustProduct(t, f.store, "Lagosta", models.CategoryRestaurant, 150)
	r := f.checkedIn(t, room.ID, day(1), day(2))
	products := NewProductService(f.store)

	off, err := products.SetActive(ctx, p.ID, false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if off.Active {
		t.Fatalf("product still active: %+v", off)
	}
	menu, err := products.List(ctx, true)
	if err != nil || len(menu) != 0 {
		t.Fatalf("inactive product listed on the menu: %+v %v", menu, err)
	}
	all, _ := products.List(ctx, false)
	if len(all) != 1 {
		t.Fatalf("inactive product missing from the full catalog: %+v", all)
	}
	if _, err := f.consumption.AddGuestItem(ctx, r.AccessCode, AddItemInput{ProductID: &p.ID, Quantity: 1}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for inactive product, got %v", err)
	}

	if _, err := products.SetActive(ctx, p.ID, true); err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if _, err := f.consumption.AddGuestItem(ctx, r.AccessCode, AddItemInput{ProductID: &p.ID, Quantity: 1}); err != nil {
		t.Fatalf("order after reactivation: %v", err)
	}
	if _, err := products.SetActive(ctx, p.ID+50, false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKitchenQueueListsOpenItemsOldestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	roomA := mustRoom(t, f.store, "A", 2, 300)
	roomB := mustRoom(t, f.store, "B", 2, 300)
	ra := f.checkedIn(t, roomA.ID, day(1), day(3))
	rb := f.checkedIn(t, roomB.ID, day(1), day(3))

	first, _ := f.consumption.AddItem(ctx, ra.ID, AddItemInput{Description: "Soup", Value: decimal.NewFromInt(20), Quantity: 1, Category: models.CategoryRestaurant})
	_, _ = f.consumption.AddItem(ctx, rb.ID, AddItemInput{Description: "Beer", Value: decimal.NewFromInt(15), Quantity: 2, Category: models.CategoryBar})
	done, _ := f.consumption.AddItem(ctx, rb.ID, AddItemInput{Description: "Salad", Value: decimal.NewFromInt(30), Quantity: 1, Category: models.CategoryRestaurant})
	for i := 0; i < 3; i++ {
		if _, err := f.consumption.Advance(ctx, done.ID, nil); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	queue, err := f.consumption.KitchenQueue(ctx, "")
	if err != nil {
		t.Fatalf("queue: %v", err)
	}
	if len(queue) != 2 || queue[0].ID != first.ID || queue[0].RoomID != roomA.ID {
		t.Fatalf("unexpected queue %+v", queue)
	}

	bar, _ := f.consumption.KitchenQueue(ctx, models.CategoryBar)
	if len(bar) != 1 || bar[0].Description != "Beer" {
		t.Fatalf("category filter failed: %+v", bar)
	}
}
