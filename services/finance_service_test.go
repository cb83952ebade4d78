package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/repository"
)

func TestFinanceCreateMarkPaidAndSummary(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	svc := NewFinanceService(store)

	if _, err := svc.Create(ctx, TransactionInput{Description: "x", Amount: decimal.Zero, Type: models.TransactionIncome}); !errors.Is(err, ErrValidation) {
		t.Fatalf("zero amount must be rejected, got %v", err)
	}

	income, err := svc.Create(ctx, TransactionInput{Description: "Walk-in lunch", Amount: decimal.NewFromInt(200), Type: models.TransactionIncome, Category: "Restaurant"})
	if err != nil {
		t.Fatalf("create income: %v", err)
	}
	if income.Status != models.TransactionPending {
		t.Fatalf("default status = %s", income.Status)
	}
	if _, err := svc.Create(ctx, TransactionInput{Description: "Laundry", Amount: decimal.NewFromInt(50), Type: models.TransactionExpense, Status: models.TransactionPaid}); err != nil {
		t.Fatalf("create expense: %v", err)
	}

	paid, err := svc.MarkPaid(ctx, income.ID)
	if err != nil || paid.Status != models.TransactionPaid {
		t.Fatalf("mark paid: %+v %v", paid, err)
	}
	if _, err := svc.MarkPaid(ctx, income.ID); err != nil {
		t.Fatalf("paying twice must be a no-op, got %v", err)
	}

	sum, err := svc.Summary(ctx, nil, nil)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if !sum.IncomePaid.Equal(decimal.NewFromInt(200)) || !sum.ExpensePaid.Equal(decimal.NewFromInt(50)) || !sum.Balance.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected summary %+v", sum)
	}
}

func TestFinanceMarkPaidRejectsCancelled(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room := mustRoom(t, f.store, "A", 2, 300)
	r := f.book(t, room.ID, day(1), day(2))
	if _, err := f.reservations.Cancel(ctx, r.ID, nil); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	rid := r.ID
	txs, _ := f.store.ListTransactions(ctx, repository.TransactionFilter{ReservationID: &rid})
	if _, err := NewFinanceService(f.store).MarkPaid(ctx, txs[0].ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
