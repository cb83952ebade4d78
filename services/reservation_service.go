package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"resort-backend/gateways"
	"resort-backend/logger"
	"resort-backend/metrics"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/tracing"
	"resort-backend/utils"
)

const (
	roomLockTTL         = 10 * time.Second
	accessCodeAttempts  = 10
	accommodationLedger = "Accommodation"
	receiptDateFormat   = "2006-01-02 15:04"
)

type ReservationDeps struct {
	Store       repository.Store
	Locker      RoomLocker
	Idempotency IdempotencyStore
	Mailer      Mailer
	Log         *logger.Logger
	Buffer      time.Duration
}

// ReservationService drives the reservation lifecycle:
// Pending -> Confirmed -> Checked-in -> Checked-out, or Cancelled before check-in.
type ReservationService struct {
	store  repository.Store
	locker RoomLocker
	idem   IdempotencyStore
	mailer Mailer
	log    *logger.Logger
	buffer time.Duration
	now    func() time.Time
}

func NewReservationService(d ReservationDeps) *ReservationService {
	if d.Locker == nil {
		d.Locker = gateways.NewLockMemory()
	}
	if d.Idempotency == nil {
		d.Idempotency = gateways.NewIdempotencyMemory()
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	return &ReservationService{
		store:  d.Store,
		locker: d.Locker,
		idem:   d.Idempotency,
		mailer: d.Mailer,
		log:    d.Log.WithComponent("reservations"),
		buffer: d.Buffer,
		now:    time.Now,
	}
}

type CreateReservationInput struct {
	RoomID         uint
	CustomerID     *uint
	GuestName      string
	GuestEmail     string
	CheckIn        time.Time
	CheckOut       time.Time
	Adults         int
	Children       int
	Notes          string
	Confirm        bool
	IdempotencyKey string
}

func (in CreateReservationInput) validate() error {
	if in.RoomID == 0 {
		return validationf("room_id is required")
	}
	if in.Adults < 1 {
		return validationf("at least one adult is required")
	}
	if in.Children < 0 {
		return validationf("children must not be negative")
	}
	if in.CheckIn.IsZero() || in.CheckOut.IsZero() {
		return validationf("check_in and check_out are required")
	}
	if in.CheckOut.Before(in.CheckIn) {
		return ErrInvalidStay
	}
	if strings.TrimSpace(in.GuestName) == "" && in.CustomerID == nil {
		return validationf("guest_name or customer_id is required")
	}
	return nil
}

func newReferenceCode() string {
	return "RSV-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

// Create books a room. The overlap check, the reservation insert and its
// pending room-income posting commit together, under the room's lock.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (res models.Reservation, err error) {
	ctx, span := tracing.StartSpan(ctx, "reservation.create")
	defer span.End()

	if err := in.validate(); err != nil {
		return models.Reservation{}, err
	}

	if in.IdempotencyKey != "" {
		prior, rErr := s.idem.Reserve(ctx, in.IdempotencyKey)
		if errors.Is(rErr, gateways.ErrKeyInProgress) {
			return models.Reservation{}, ErrRequestInFlight
		}
		if rErr != nil {
			return models.Reservation{}, fmt.Errorf("idempotency: %w", rErr)
		}
		if prior != nil {
			r, gErr := s.store.GetReservation(ctx, prior.ReservationID)
			return r, storeErr("load reservation", gErr)
		}
		// err and res are the named results
		defer func() {
			if err != nil {
				_ = s.idem.MarkFailure(context.WithoutCancel(ctx), in.IdempotencyKey)
				return
			}
			if mErr := s.idem.MarkSuccess(context.WithoutCancel(ctx), in.IdempotencyKey, res.ID); mErr != nil {
				s.log.Warn("failed to store idempotency result", "key", in.IdempotencyKey, "error", mErr)
			}
		}()
	}

	release, err := s.locker.LockRoom(ctx, in.RoomID, roomLockTTL)
	if errors.Is(err, gateways.ErrLockHeld) {
		return models.Reservation{}, ErrRoomBusy
	}
	if err != nil {
		return models.Reservation{}, fmt.Errorf("lock room: %w", err)
	}
	defer release()

	err = s.store.WithinTx(ctx, func(tx repository.Store) error {
		room, err := tx.LockRoom(ctx, in.RoomID)
		if err != nil {
			return storeErr("load room", err)
		}
		if room.Status == models.RoomMaintenance {
			return fmt.Errorf("room %s is under maintenance: %w", room.Name, ErrRoomUnavailable)
		}
		party := in.Adults + in.Children
		if !room.Fits(party) {
			return fmt.Errorf("room %s holds %d, party is %d: %w", room.Name, room.Capacity, party, ErrCapacityExceeded)
		}

		stay := StayRequest{CheckIn: in.CheckIn, CheckOut: in.CheckOut}
		filter := candidateFilter(stay, s.buffer)
		filter.RoomID = &room.ID
		existing, err := tx.ListReservations(ctx, filter)
		if err != nil {
			return storeErr("list reservations", err)
		}
		if c := Conflicts(existing, room.ID, in.CheckIn, in.CheckOut, s.buffer); len(c) > 0 {
			metrics.ReservationConflicts.Inc()
			return fmt.Errorf("room %s overlaps reservation %s: %w", room.Name, c[0].ReferenceCode, ErrRoomUnavailable)
		}

		guestName := strings.TrimSpace(in.GuestName)
		guestEmail := strings.TrimSpace(in.GuestEmail)
		if in.CustomerID != nil {
			customer, err := tx.GetCustomer(ctx, *in.CustomerID)
			if err != nil {
				return storeErr("load customer", err)
			}
			if guestName == "" {
				guestName = customer.FullName
			}
			if guestEmail == "" {
				guestEmail = customer.Email
			}
		}

		status := models.ReservationPending
		if in.Confirm {
			status = models.ReservationConfirmed
		}
		res = models.Reservation{
			ReferenceCode: newReferenceCode(),
			CustomerID:    in.CustomerID,
			GuestName:     guestName,
			GuestEmail:    guestEmail,
			RoomID:        room.ID,
			Notes:         strings.TrimSpace(in.Notes),
			CheckIn:       in.CheckIn,
			CheckOut:      in.CheckOut,
			Adults:        in.Adults,
			Children:      in.Children,
			Status:        status,
			TotalAmount:   RoomTotal(room.Price, in.CheckIn, in.CheckOut),
			FinalAmount:   decimal.Zero,
		}
		if err := tx.CreateReservation(ctx, &res); err != nil {
			return storeErr("create reservation", err)
		}

		id := res.ID
		income := models.Transaction{
			Description:   fmt.Sprintf("Reservation %s - room %s", res.ReferenceCode, room.Name),
			Amount:        res.TotalAmount,
			Type:          models.TransactionIncome,
			Category:      accommodationLedger,
			Date:          s.now(),
			Status:        models.TransactionPending,
			ReservationID: &id,
		}
		if err := tx.CreateTransaction(ctx, &income); err != nil {
			return storeErr("post pending income", err)
		}
		return recordAudit(ctx, tx, "reservation", res.ID, "created", nil, res)
	})
	if err != nil {
		return models.Reservation{}, err
	}

	metrics.ReservationTransitions.WithLabelValues(string(res.Status)).Inc()
	s.log.Info("✅ reservation created", "reservation_id", res.ID, "reference", res.ReferenceCode, "room_id", res.RoomID)
	return res, nil
}

// transition loads the reservation inside a transaction, enforces the state
// machine and the caller's version, lets apply add side effects, then saves.
func (s *ReservationService) transition(
	ctx context.Context,
	id uint,
	expectedVersion *int,
	next models.ReservationStatus,
	apply func(tx repository.Store, r *models.Reservation) error,
) (models.Reservation, error) {
	var out models.Reservation
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		r, err := tx.GetReservation(ctx, id)
		if err != nil {
			return storeErr("load reservation", err)
		}
		if err := checkVersion(expectedVersion, r.Version); err != nil {
			return err
		}
		if !r.Status.CanTransitionTo(next) {
			return fmt.Errorf("cannot move reservation from %s to %s: %w", r.Status, next, ErrInvalidTransition)
		}

		before := r
		r.Status = next
		if apply != nil {
			if err := apply(tx, &r); err != nil {
				return err
			}
		}
		if err := tx.UpdateReservation(ctx, &r); err != nil {
			return storeErr("update reservation", err)
		}
		if err := recordAudit(ctx, tx, "reservation", r.ID, "status:"+string(next), before, r); err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return models.Reservation{}, err
	}
	metrics.ReservationTransitions.WithLabelValues(string(next)).Inc()
	return out, nil
}

func (s *ReservationService) Confirm(ctx context.Context, id uint, expectedVersion *int) (models.Reservation, error) {
	return s.transition(ctx, id, expectedVersion, models.ReservationConfirmed, nil)
}

// setRoomStatus changes the room inside tx and audits it.
func setRoomStatus(ctx context.Context, tx repository.Store, roomID uint, status models.RoomStatus, reason string) (models.Room, error) {
	room, err := tx.LockRoom(ctx, roomID)
	if err != nil {
		return models.Room{}, storeErr("load room", err)
	}
	before := room
	room.Status = status
	if err := tx.UpdateRoom(ctx, &room); err != nil {
		return models.Room{}, storeErr("update room", err)
	}
	return room, recordAudit(ctx, tx, "room", room.ID, reason, before, room)
}

// uniqueAccessCode draws codes until one is not held by any open reservation.
func uniqueAccessCode(ctx context.Context, tx repository.Store) (string, error) {
	open, err := tx.ListReservations(ctx, repository.ReservationFilter{Statuses: models.ActiveReservationStatuses})
	if err != nil {
		return "", storeErr("list reservations", err)
	}
	taken := make(map[string]bool, len(open))
	for _, r := range open {
		if r.AccessCode != "" {
			taken[r.AccessCode] = true
		}
	}
	for i := 0; i < accessCodeAttempts; i++ {
		code, err := utils.GenerateAccessCode()
		if err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		if !taken[code] {
			return code, nil
		}
	}
	return "", errors.New("could not allocate a unique access code")
}

// CheckIn issues the guest's access code and marks the room Occupied.
func (s *ReservationService) CheckIn(ctx context.Context, id uint, expectedVersion *int) (models.Reservation, error) {
	r, err := s.transition(ctx, id, expectedVersion, models.ReservationCheckedIn, func(tx repository.Store, r *models.Reservation) error {
		room, err := tx.GetRoom(ctx, r.RoomID)
		if err != nil {
			return storeErr("load room", err)
		}
		if room.Status == models.RoomMaintenance {
			return fmt.Errorf("room %s is under maintenance: %w", room.Name, ErrRoomUnavailable)
		}

		code, err := uniqueAccessCode(ctx, tx)
		if err != nil {
			return err
		}
		r.AccessCode = code
		r.CheckedInAt = utils.PtrTime(s.now())

		_, err = setRoomStatus(ctx, tx, r.RoomID, models.RoomOccupied, "status:check-in")
		return err
	})
	if err == nil {
		s.log.Info("🛎️  guest checked in", "reservation_id", r.ID, "room_id", r.RoomID)
	}
	return r, err
}

type CheckoutInput struct {
	ExpectedVersion *int
	// PostTransaction settles the stay in the ledger: pending room income is
	// voided and one Paid income for the grand total is posted.
	PostTransaction bool
}

type CheckoutResult struct {
	Reservation models.Reservation  `json:"reservation"`
	Bill        Bill                `json:"bill"`
	Transaction *models.Transaction `json:"transaction,omitempty"`
}

func voidPending(ctx context.Context, tx repository.Store, filter repository.TransactionFilter) error {
	filter.Status = models.TransactionPending
	pending, err := tx.ListTransactions(ctx, filter)
	if err != nil {
		return storeErr("list transactions", err)
	}
	for i := range pending {
		pending[i].Status = models.TransactionCancelled
		if err := tx.UpdateTransaction(ctx, &pending[i]); err != nil {
			return storeErr("void transaction", err)
		}
	}
	return nil
}

// CheckOut closes the stay: room to Cleaning, bill computed and frozen as the
// final amount, optional settlement posting.
func (s *ReservationService) CheckOut(ctx context.Context, id uint, in CheckoutInput) (CheckoutResult, error) {
	ctx, span := tracing.StartSpan(ctx, "reservation.checkout")
	defer span.End()

	var result CheckoutResult
	var room models.Room
	r, err := s.transition(ctx, id, in.ExpectedVersion, models.ReservationCheckedOut, func(tx repository.Store, r *models.Reservation) error {
		var err error
		room, err = setRoomStatus(ctx, tx, r.RoomID, models.RoomCleaning, "status:check-out")
		if err != nil {
			return err
		}

		result.Bill = Aggregate(*r, room, r.Items)
		r.FinalAmount = result.Bill.GrandTotal
		r.CheckedOutAt = utils.PtrTime(s.now())

		if !in.PostTransaction {
			return nil
		}
		rid := r.ID
		if err := voidPending(ctx, tx, repository.TransactionFilter{ReservationID: &rid}); err != nil {
			return err
		}
		paid := models.Transaction{
			Description:   fmt.Sprintf("Checkout %s - room %s", r.ReferenceCode, room.Name),
			Amount:        result.Bill.GrandTotal,
			Type:          models.TransactionIncome,
			Category:      accommodationLedger,
			Date:          s.now(),
			Status:        models.TransactionPaid,
			ReservationID: &rid,
		}
		if err := tx.CreateTransaction(ctx, &paid); err != nil {
			return storeErr("post checkout income", err)
		}
		result.Transaction = &paid
		return nil
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	result.Reservation = r

	revenue, _ := result.Bill.GrandTotal.Float64()
	metrics.CheckoutRevenue.Add(revenue)
	s.log.Info("🧾 guest checked out", "reservation_id", r.ID, "grand_total", result.Bill.GrandTotal.StringFixed(2))

	s.sendReceipt(ctx, r, room, result.Bill)
	return result, nil
}

func (s *ReservationService) sendReceipt(ctx context.Context, r models.Reservation, room models.Room, bill Bill) {
	if s.mailer == nil || r.GuestEmail == "" {
		return
	}
	hotel, err := s.store.GetHotelSetting(ctx)
	if err != nil {
		hotel = models.HotelSetting{Name: "Resort", Currency: "BRL"}
	}

	lines := []gateways.ReceiptLine{{
		Description: fmt.Sprintf("Room %s (%d day(s))", room.Name, bill.Days),
		Quantity:    1,
		Amount:      bill.RoomTotal.StringFixed(2),
	}}
	for _, l := range bill.Lines {
		lines = append(lines, gateways.ReceiptLine{Description: l.Description, Quantity: l.Quantity, Amount: l.Subtotal.StringFixed(2)})
	}

	err = s.mailer.SendCheckoutReceipt(ctx, gateways.Receipt{
		Recipient:     r.GuestEmail,
		GuestName:     r.GuestName,
		HotelName:     hotel.Name,
		ReferenceCode: r.ReferenceCode,
		RoomName:      room.Name,
		CheckIn:       r.CheckIn.Format(receiptDateFormat),
		CheckOut:      r.CheckOut.Format(receiptDateFormat),
		Currency:      hotel.Currency,
		Lines:         lines,
		Total:         bill.GrandTotal.StringFixed(2),
	})
	if err != nil {
		s.log.Warn("receipt not sent", "reservation_id", r.ID, "error", err)
	}
}

// Cancel closes a reservation that has not started; its pending postings are voided.
func (s *ReservationService) Cancel(ctx context.Context, id uint, expectedVersion *int) (models.Reservation, error) {
	return s.transition(ctx, id, expectedVersion, models.ReservationCancelled, func(tx repository.Store, r *models.Reservation) error {
		r.CancelledAt = utils.PtrTime(s.now())
		rid := r.ID
		return voidPending(ctx, tx, repository.TransactionFilter{ReservationID: &rid})
	})
}

// billingRoom returns the reservation's room. A room deleted after the stay
// is rebuilt from the amount frozen at booking.
func billingRoom(ctx context.Context, store repository.Store, r models.Reservation) (models.Room, error) {
	room, err := store.GetRoom(ctx, r.RoomID)
	if errors.Is(err, repository.ErrNotFound) {
		days := decimal.NewFromInt(StayDays(r.CheckIn, r.CheckOut))
		return models.Room{ID: r.RoomID, Price: r.TotalAmount.Div(days)}, nil
	}
	return room, storeErr("load room", err)
}

func (s *ReservationService) Bill(ctx context.Context, id uint) (Bill, error) {
	r, err := s.store.GetReservation(ctx, id)
	if err != nil {
		return Bill{}, storeErr("load reservation", err)
	}
	room, err := billingRoom(ctx, s.store, r)
	if err != nil {
		return Bill{}, err
	}
	return Aggregate(r, room, r.Items), nil
}

func (s *ReservationService) Get(ctx context.Context, id uint) (models.Reservation, error) {
	r, err := s.store.GetReservation(ctx, id)
	return r, storeErr("load reservation", err)
}

func (s *ReservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	list, err := s.store.ListReservations(ctx, filter)
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	if list == nil {
		list = []models.Reservation{}
	}
	return list, nil
}
