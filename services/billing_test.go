package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"resort-backend/models"
)

func TestStayDays(t *testing.T) {
	cases := []struct {
		name string
		dur  time.Duration
		want int64
	}{
		{"zero length bills one day", 0, 1},
		{"one hour", time.Hour, 1},
		{"exactly 24h", 24 * time.Hour, 1},
		{"25h rounds up", 25 * time.Hour, 2},
		{"four nights", 96 * time.Hour, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StayDays(day(1), day(1).Add(tc.dur)); got != tc.want {
				t.Fatalf("StayDays(%s) = %d, want %d", tc.dur, got, tc.want)
			}
		})
	}
}

func TestAggregateGrandTotal(t *testing.T) {
	room := models.Room{ID: 1, Name: "A", Price: decimal.NewFromInt(300)}
	r := models.Reservation{ID: 9, RoomID: 1, CheckIn: day(1), CheckOut: day(5)}
	items := []models.ConsumptionItem{
		{ID: 1, Description: "Caipirinha", Value: decimal.NewFromInt(25), Quantity: 3, Status: models.ItemDelivered},
	}

	bill := Aggregate(r, room, items)
	if bill.Days != 4 {
		t.Fatalf("expected 4 days, got %d", bill.Days)
	}
	if !bill.RoomTotal.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("room total = %s", bill.RoomTotal)
	}
	if !bill.ConsumptionTotal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("consumption total = %s", bill.ConsumptionTotal)
	}
	if !bill.GrandTotal.Equal(decimal.NewFromInt(1275)) {
		t.Fatalf("grand total = %s, want 1275", bill.GrandTotal)
	}
	if len(bill.Lines) != 1 || !bill.Lines[0].Subtotal.Equal(decimal.NewFromInt(75)) {
		t.Fatalf("unexpected lines %+v", bill.Lines)
	}
}

func TestAggregateCountsUndeliveredItems(t *testing.T) {
	room := models.Room{Price: decimal.RequireFromString("99.90")}
	r := models.Reservation{CheckIn: day(1), CheckOut: day(1).Add(2 * time.Hour)}
	items := []models.ConsumptionItem{
		{Value: decimal.RequireFromString("10.05"), Quantity: 2, Status: models.ItemPending},
	}
	bill := Aggregate(r, room, items)
	if want := decimal.RequireFromString("120.00"); !bill.GrandTotal.Equal(want) {
		t.Fatalf("grand total = %s, want %s", bill.GrandTotal, want)
	}
}
