package services

import (
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
)

const billingDay = 24 * time.Hour

// StayDays is the number of billable days: the stay length rounded up to
// whole 24h periods, never less than one.
func StayDays(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 1
	}
	days := int64(d / billingDay)
	if d%billingDay != 0 {
		days++
	}
	return days
}

func RoomTotal(nightly decimal.Decimal, checkIn, checkOut time.Time) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(StayDays(checkIn, checkOut)))
}

type BillLine struct {
	ItemID      uint                `json:"item_id"`
	Description string              `json:"description"`
	Category    models.ItemCategory `json:"category"`
	Status      models.ItemStatus   `json:"status"`
	Quantity    int                 `json:"quantity"`
	UnitValue   decimal.Decimal     `json:"unit_value"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
}

type Bill struct {
	ReservationID    uint            `json:"reservation_id"`
	ReferenceCode    string          `json:"reference_code"`
	RoomID           uint            `json:"room_id"`
	RoomName         string          `json:"room_name"`
	Days             int64           `json:"days"`
	NightlyRate      decimal.Decimal `json:"nightly_rate"`
	RoomTotal        decimal.Decimal `json:"room_total"`
	Lines            []BillLine      `json:"lines"`
	ConsumptionTotal decimal.Decimal `json:"consumption_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}

// Aggregate bills the stay at the room's nightly rate plus every item still
// on the ledger, whatever its fulfillment status.
func Aggregate(r models.Reservation, room models.Room, items []models.ConsumptionItem) Bill {
	days := StayDays(r.CheckIn, r.CheckOut)
	roomTotal := room.Price.Mul(decimal.NewFromInt(days))

	consumption := decimal.Zero
	lines := make([]BillLine, 0, len(items))
	for _, it := range items {
		sub := it.Subtotal()
		consumption = consumption.Add(sub)
		lines = append(lines, BillLine{
			ItemID:      it.ID,
			Description: it.Description,
			Category:    it.Category,
			Status:      it.Status,
			Quantity:    it.Quantity,
			UnitValue:   it.Value,
			Subtotal:    sub.Round(2),
		})
	}

	return Bill{
		ReservationID:    r.ID,
		ReferenceCode:    r.ReferenceCode,
		RoomID:           room.ID,
		RoomName:         room.Name,
		Days:             days,
		NightlyRate:      room.Price,
		RoomTotal:        roomTotal.Round(2),
		Lines:            lines,
		ConsumptionTotal: consumption.Round(2),
		GrandTotal:       roomTotal.Add(consumption).Round(2),
	}
}
