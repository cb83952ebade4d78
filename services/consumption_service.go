package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/gateways"
	"resort-backend/logger"
	"resort-backend/metrics"
	"resort-backend/models"
	"resort-backend/repository"
	"resort-backend/utils"
)

// ConsumptionService keeps the per-reservation ledger of POS items and
// routes them to the kitchen.
type ConsumptionService struct {
	store   repository.Store
	kitchen KitchenPublisher
	log     *logger.Logger
	now     func() time.Time
}

func NewConsumptionService(store repository.Store, kitchen KitchenPublisher, log *logger.Logger) *ConsumptionService {
	if log == nil {
		log = logger.Discard()
	}
	if kitchen == nil {
		kitchen = gateways.NewKitchenLog(log)
	}
	return &ConsumptionService{store: store, kitchen: kitchen, log: log.WithComponent("consumption"), now: time.Now}
}

type AddItemInput struct {
	ProductID   *uint
	Description string
	Value       decimal.Decimal
	Quantity    int
	Category    models.ItemCategory
	Notes       string
}

// buildItem applies catalog defaults and validates the line. Guest orders
// always take name, price and category from the catalog.
func buildItem(ctx context.Context, tx repository.Store, in AddItemInput, source models.ItemSource) (models.ConsumptionItem, error) {
	item := models.ConsumptionItem{
		ProductID:   in.ProductID,
		Description: strings.TrimSpace(in.Description),
		Value:       in.Value,
		Quantity:    in.Quantity,
		Category:    in.Category,
		Status:      models.ItemPending,
		Source:      source,
		Notes:       strings.TrimSpace(in.Notes),
	}

	if in.ProductID != nil {
		p, err := tx.GetProduct(ctx, *in.ProductID)
		if err != nil {
			return item, storeErr("load product", err)
		}
		if !p.Active {
			return item, validationf("product %s is not available", p.Name)
		}
		if item.Description == "" || source == models.SourceGuest {
			item.Description = p.Name
		}
		if item.Value.IsZero() || source == models.SourceGuest {
			item.Value = p.Price
		}
		if item.Category == "" || source == models.SourceGuest {
			item.Category = p.Category
		}
	} else if source == models.SourceGuest {
		return item, validationf("product_id is required")
	}

	if item.Category == "" {
		item.Category = models.CategoryOther
	}
	switch {
	case item.Description == "":
		return item, validationf("description is required")
	case item.Quantity < 1:
		return item, validationf("quantity must be at least 1")
	case item.Value.IsNegative():
		return item, validationf("value must not be negative")
	case !item.Category.Valid():
		return item, validationf("unknown category %q", item.Category)
	}
	return item, nil
}

func (s *ConsumptionService) add(ctx context.Context, load func(tx repository.Store) (models.Reservation, error), in AddItemInput, source models.ItemSource) (models.ConsumptionItem, error) {
	var item models.ConsumptionItem
	var roomName string
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		r, err := load(tx)
		if err != nil {
			return err
		}
		if !r.Status.AcceptsConsumption() {
			return ErrReservationClosed
		}

		item, err = buildItem(ctx, tx, in, source)
		if err != nil {
			return err
		}
		item.ReservationID = r.ID
		if err := tx.CreateItem(ctx, &item); err != nil {
			return storeErr("create item", err)
		}
		if room, err := tx.GetRoom(ctx, r.RoomID); err == nil {
			roomName = room.Name
		}
		return recordAudit(ctx, tx, "consumption_item", item.ID, "created", nil, item)
	})
	if err != nil {
		return models.ConsumptionItem{}, err
	}

	metrics.ConsumptionItems.WithLabelValues(string(item.Category), string(item.Status)).Inc()
	s.publish(ctx, gateways.KitchenItemCreated, item, roomName)
	return item, nil
}

// AddItem charges an item to a reservation from the staff POS.
func (s *ConsumptionService) AddItem(ctx context.Context, reservationID uint, in AddItemInput) (models.ConsumptionItem, error) {
	return s.add(ctx, func(tx repository.Store) (models.Reservation, error) {
		r, err := tx.GetReservation(ctx, reservationID)
		return r, storeErr("load reservation", err)
	}, in, models.SourceStaff)
}

// AddGuestItem is a self-order placed with the guest's access code.
func (s *ConsumptionService) AddGuestItem(ctx context.Context, accessCode string, in AddItemInput) (models.ConsumptionItem, error) {
	code := utils.NormalizeAccessCode(accessCode)
	if !utils.IsValidAccessCode(code) {
		return models.ConsumptionItem{}, ErrInvalidAccessCode
	}
	return s.add(ctx, func(tx repository.Store) (models.Reservation, error) {
		r, err := tx.FindCheckedInByAccessCode(ctx, code)
		if errors.Is(err, repository.ErrNotFound) {
			return r, ErrInvalidAccessCode
		}
		return r, storeErr("load reservation", err)
	}, in, models.SourceGuest)
}

// Advance moves an item one step along Pending -> Preparing -> Ready -> Delivered.
func (s *ConsumptionService) Advance(ctx context.Context, itemID uint, expectedVersion *int) (models.ConsumptionItem, error) {
	var item models.ConsumptionItem
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		item, err = tx.GetItem(ctx, itemID)
		if err != nil {
			return storeErr("load item", err)
		}
		if err := checkVersion(expectedVersion, item.Version); err != nil {
			return err
		}
		next, ok := item.Status.Next()
		if !ok {
			return itemTransitionErr(item.Status)
		}
		before := item
		item.Status = next
		if err := tx.UpdateItem(ctx, &item); err != nil {
			return storeErr("update item", err)
		}
		return recordAudit(ctx, tx, "consumption_item", item.ID, "status:"+string(next), before, item)
	})
	if err != nil {
		return models.ConsumptionItem{}, err
	}

	metrics.ConsumptionItems.WithLabelValues(string(item.Category), string(item.Status)).Inc()
	s.publish(ctx, gateways.KitchenItemAdvanced, item, "")
	return item, nil
}

// Cancel drops an item the kitchen has not finished. Items of a closed stay stay on the bill.
func (s *ConsumptionService) Cancel(ctx context.Context, itemID uint) error {
	var item models.ConsumptionItem
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		item, err = tx.GetItem(ctx, itemID)
		if err != nil {
			return storeErr("load item", err)
		}
		if !item.Status.Cancellable() {
			return itemTransitionErr(item.Status)
		}
		r, err := tx.GetReservation(ctx, item.ReservationID)
		if err != nil {
			return storeErr("load reservation", err)
		}
		if !r.Status.AcceptsConsumption() {
			return ErrReservationClosed
		}
		if err := tx.DeleteItem(ctx, item.ID); err != nil {
			return storeErr("delete item", err)
		}
		return recordAudit(ctx, tx, "consumption_item", item.ID, "cancelled", item, nil)
	})
	if err != nil {
		return err
	}

	metrics.ConsumptionItems.WithLabelValues(string(item.Category), "Cancelled").Inc()
	s.publish(ctx, gateways.KitchenItemCancelled, item, "")
	return nil
}

func (s *ConsumptionService) List(ctx context.Context, reservationID uint) ([]models.ConsumptionItem, error) {
	if _, err := s.store.GetReservation(ctx, reservationID); err != nil {
		return nil, storeErr("load reservation", err)
	}
	items, err := s.store.ListItems(ctx, repository.ItemFilter{ReservationID: &reservationID})
	if err != nil {
		return nil, storeErr("list items", err)
	}
	if items == nil {
		items = []models.ConsumptionItem{}
	}
	return items, nil
}

type KitchenTicket struct {
	models.ConsumptionItem
	RoomID    uint   `json:"room_id"`
	GuestName string `json:"guest_name"`
}

// KitchenQueue lists undelivered items of open stays, oldest first.
func (s *ConsumptionService) KitchenQueue(ctx context.Context, category models.ItemCategory) ([]KitchenTicket, error) {
	open, err := s.store.ListReservations(ctx, repository.ReservationFilter{
		Statuses: []models.ReservationStatus{models.ReservationConfirmed, models.ReservationCheckedIn},
	})
	if err != nil {
		return nil, storeErr("list reservations", err)
	}
	tickets := []KitchenTicket{}
	if len(open) == 0 {
		return tickets, nil
	}

	byID := make(map[uint]models.Reservation, len(open))
	ids := make([]uint, 0, len(open))
	for _, r := range open {
		byID[r.ID] = r
		ids = append(ids, r.ID)
	}
	filter := repository.ItemFilter{
		ReservationIDs: ids,
		Statuses:       []models.ItemStatus{models.ItemPending, models.ItemPreparing, models.ItemReady},
	}
	if category != "" {
		filter.Categories = []models.ItemCategory{category}
	}
	items, err := s.store.ListItems(ctx, filter)
	if err != nil {
		return nil, storeErr("list items", err)
	}

	for _, it := range items {
		r := byID[it.ReservationID]
		tickets = append(tickets, KitchenTicket{ConsumptionItem: it, RoomID: r.RoomID, GuestName: r.GuestName})
	}
	sort.SliceStable(tickets, func(i, j int) bool {
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
	return tickets, nil
}

func itemTransitionErr(status models.ItemStatus) error {
	return fmt.Errorf("item is %s: %w", status, ErrInvalidTransition)
}

func (s *ConsumptionService) publish(ctx context.Context, typ gateways.KitchenEventType, item models.ConsumptionItem, roomName string) {
	err := s.kitchen.Publish(ctx, gateways.KitchenEvent{
		Type:          typ,
		ItemID:        item.ID,
		ReservationID: item.ReservationID,
		RoomName:      roomName,
		Description:   item.Description,
		Quantity:      item.Quantity,
		Category:      string(item.Category),
		Status:        string(item.Status),
		Notes:         item.Notes,
		OccurredAt:    s.now(),
	})
	if err != nil {
		s.log.Warn("kitchen event not delivered", "item_id", item.ID, "type", typ, "error", err)
	}
}
