package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/repository"
)

type FinanceService struct {
	store repository.Store
	now   func() time.Time
}

func NewFinanceService(store repository.Store) *FinanceService {
	return &FinanceService{store: store, now: time.Now}
}

type TransactionInput struct {
	Description string
	Amount      decimal.Decimal
	Type        models.TransactionType
	Category    string
	Date        time.Time
	Status      models.TransactionStatus
}

func (s *FinanceService) List(ctx context.Context, f repository.TransactionFilter) ([]models.Transaction, error) {
	list, err := s.store.ListTransactions(ctx, f)
	if err != nil {
		return nil, storeErr("list transactions", err)
	}
	if list == nil {
		list = []models.Transaction{}
	}
	return list, nil
}

// Create posts a manual ledger entry (supplier payment, walk-in sale, ...).
func (s *FinanceService) Create(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	switch {
	case strings.TrimSpace(in.Description) == "":
		return models.Transaction{}, validationf("description is required")
	case !in.Amount.IsPositive():
		return models.Transaction{}, validationf("amount must be positive")
	case in.Type != models.TransactionIncome && in.Type != models.TransactionExpense:
		return models.Transaction{}, validationf("type must be Income or Expense")
	}
	if in.Status == "" {
		in.Status = models.TransactionPending
	}
	if in.Status != models.TransactionPending && in.Status != models.TransactionPaid {
		return models.Transaction{}, validationf("status must be Pending or Paid")
	}
	if in.Date.IsZero() {
		in.Date = s.now()
	}

	t := models.Transaction{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount.Round(2),
		Type:        in.Type,
		Category:    strings.TrimSpace(in.Category),
		Date:        in.Date,
		Status:      in.Status,
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if err := tx.CreateTransaction(ctx, &t); err != nil {
			return storeErr("create transaction", err)
		}
		return recordAudit(ctx, tx, "transaction", t.ID, "created", nil, t)
	})
	return t, err
}

// MarkPaid settles a pending entry. Paying twice is a no-op.
func (s *FinanceService) MarkPaid(ctx context.Context, id uint) (models.Transaction, error) {
	var t models.Transaction
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		t, err = tx.GetTransaction(ctx, id)
		if err != nil {
			return storeErr("load transaction", err)
		}
		switch t.Status {
		case models.TransactionPaid:
			return nil
		case models.TransactionCancelled:
			return validationf("transaction %d was cancelled", id)
		}
		before := t
		t.Status = models.TransactionPaid
		if err := tx.UpdateTransaction(ctx, &t); err != nil {
			return storeErr("update transaction", err)
		}
		return recordAudit(ctx, tx, "transaction", t.ID, "status:Paid", before, t)
	})
	if err != nil {
		return models.Transaction{}, err
	}
	return t, nil
}

type FinanceSummary struct {
	From           *time.Time      `json:"from,omitempty"`
	To             *time.Time      `json:"to,omitempty"`
	IncomePaid     decimal.Decimal `json:"income_paid"`
	IncomePending  decimal.Decimal `json:"income_pending"`
	ExpensePaid    decimal.Decimal `json:"expense_paid"`
	ExpensePending decimal.Decimal `json:"expense_pending"`
	// Balance is paid income minus paid expenses.
	Balance decimal.Decimal `json:"balance"`
}

// Summary totals the ledger over [from, to]; cancelled entries are ignored.
func (s *FinanceService) Summary(ctx context.Context, from, to *time.Time) (FinanceSummary, error) {
	list, err := s.store.ListTransactions(ctx, repository.TransactionFilter{From: from, To: to})
	if err != nil {
		return FinanceSummary{}, storeErr("list transactions", err)
	}
	sum := FinanceSummary{From: from, To: to}
	for _, t := range list {
		switch {
		case t.Type == models.TransactionIncome && t.Status == models.TransactionPaid:
			sum.IncomePaid = sum.IncomePaid.Add(t.Amount)
		case t.Type == models.TransactionIncome && t.Status == models.TransactionPending:
			sum.IncomePending = sum.IncomePending.Add(t.Amount)
		case t.Type == models.TransactionExpense && t.Status == models.TransactionPaid:
			sum.ExpensePaid = sum.ExpensePaid.Add(t.Amount)
		case t.Type == models.TransactionExpense && t.Status == models.TransactionPending:
			sum.ExpensePending = sum.ExpensePending.Add(t.Amount)
		}
	}
	sum.Balance = sum.IncomePaid.Sub(sum.ExpensePaid)
	return sum, nil
}
