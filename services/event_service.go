package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/utils"
)

const eventLedger = "Events"

// EventService manages venue bookings. The deposit is posted to the ledger
// when confirmed; the remainder when the event is completed.
type EventService struct {
	store repository.Store
	now   func() time.Time
}

func NewEventService(store repository.Store) *EventService {
	return &EventService{store: store, now: time.Now}
}

type EventInput struct {
	Title         string
	Venue         string
	ClientName    string
	CustomerID    *uint
	StartsAt      time.Time
	EndsAt        time.Time
	Guests        int
	TotalValue    decimal.Decimal
	DepositAmount decimal.Decimal
	Notes         string
}

func (in EventInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return validationf("title is required")
	case strings.TrimSpace(in.ClientName) == "" && in.CustomerID == nil:
		return validationf("client_name or customer_id is required")
	case in.StartsAt.IsZero() || in.EndsAt.IsZero():
		return validationf("starts_at and ends_at are required")
	case in.EndsAt.Before(in.StartsAt):
		return validationf("ends_at must not be before starts_at")
	case in.Guests < 0:
		return validationf("guests must not be negative")
	case in.TotalValue.IsNegative() || in.DepositAmount.IsNegative():
		return validationf("amounts must not be negative")
	case in.DepositAmount.GreaterThan(in.TotalValue):
		return validationf("deposit must not exceed the total value")
	}
	return nil
}

func (s *EventService) Create(ctx context.Context, in EventInput) (models.Event, error) {
	if err := in.validate(); err != nil {
		return models.Event{}, err
	}
	e := models.Event{
		Title:         strings.TrimSpace(in.Title),
		Venue:         strings.TrimSpace(in.Venue),
		ClientName:    strings.TrimSpace(in.ClientName),
		CustomerID:    in.CustomerID,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
		Guests:        in.Guests,
		TotalValue:    in.TotalValue.Round(2),
		DepositAmount: in.DepositAmount.Round(2),
		Status:        models.EventPending,
		Notes:         in.Notes,
	}
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		if e.CustomerID != nil {
			c, err := tx.GetCustomer(ctx, *e.CustomerID)
			if err != nil {
				return storeErr("load customer", err)
			}
			if e.ClientName == "" {
				e.ClientName = c.FullName
			}
		}
		if err := tx.CreateEvent(ctx, &e); err != nil {
			return storeErr("create event", err)
		}
		return recordAudit(ctx, tx, "event", e.ID, "created", nil, e)
	})
	return e, err
}

func (s *EventService) List(ctx context.Context) ([]models.Event, error) {
	list, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, storeErr("list events", err)
	}
	if list == nil {
		list = []models.Event{}
	}
	return list, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (models.Event, error) {
	e, err := s.store.GetEvent(ctx, id)
	return e, storeErr("load event", err)
}

func (s *EventService) change(ctx context.Context, id uint, from []models.EventStatus, to models.EventStatus, apply func(tx repository.Store, e *models.Event) error) (models.Event, error) {
	var e models.Event
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		e, err = tx.GetEvent(ctx, id)
		if err != nil {
			return storeErr("load event", err)
		}
		allowed := false
		for _, st := range from {
			allowed = allowed || e.Status == st
		}
		if !allowed {
			return fmt.Errorf("event is %s, cannot move to %s: %w", e.Status, to, ErrInvalidTransition)
		}
		before := e
		e.Status = to
		if apply != nil {
			if err := apply(tx, &e); err != nil {
				return err
			}
		}
		if err := tx.UpdateEvent(ctx, &e); err != nil {
			return storeErr("update event", err)
		}
		return recordAudit(ctx, tx, "event", e.ID, "status:"+string(to), before, e)
	})
	if err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *EventService) post(ctx context.Context, tx repository.Store, e *models.Event, amount decimal.Decimal, what string) error {
	if !amount.IsPositive() {
		return nil
	}
	id := e.ID
	t := models.Transaction{
		Description: fmt.Sprintf("%s - %s", what, e.Title),
		Amount:      amount,
		Type:        models.TransactionIncome,
		Category:    eventLedger,
		Date:        s.now(),
		Status:      models.TransactionPaid,
		EventID:     &id,
	}
	return storeErr("post event income", tx.CreateTransaction(ctx, &t))
}

// ConfirmDeposit records the deposit as paid income and confirms the event.
func (s *EventService) ConfirmDeposit(ctx context.Context, id uint) (models.Event, error) {
	return s.change(ctx, id, []models.EventStatus{models.EventPending}, models.EventConfirmed, func(tx repository.Store, e *models.Event) error {
		e.DepositPaidAt = utils.PtrTime(s.now())
		return s.post(ctx, tx, e, e.DepositAmount, "Deposit")
	})
}

// Complete posts what is left of the total value after the deposit.
func (s *EventService) Complete(ctx context.Context, id uint) (models.Event, error) {
	return s.change(ctx, id, []models.EventStatus{models.EventConfirmed}, models.EventCompleted, func(tx repository.Store, e *models.Event) error {
		return s.post(ctx, tx, e, e.TotalValue.Sub(e.DepositAmount), "Balance")
	})
}

func (s *EventService) Cancel(ctx context.Context, id uint) (models.Event, error) {
	return s.change(ctx, id, []models.EventStatus{models.EventPending, models.EventConfirmed}, models.EventCancelled, func(tx repository.Store, e *models.Event) error {
		eid := e.ID
		return voidPending(ctx, tx, repository.TransactionFilter{EventID: &eid})
	})
}
