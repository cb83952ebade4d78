package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ItemStatus string

const (
	ItemPending   ItemStatus = "Pending"
	ItemPreparing ItemStatus = "Preparing"
	ItemReady     ItemStatus = "Ready"
	ItemDelivered ItemStatus = "Delivered"
)

// Next returns the single forward step; Delivered has none.
func (s ItemStatus) Next() (ItemStatus, bool) {
	switch s {
	case ItemPending:
		return ItemPreparing, true
	case ItemPreparing:
		return ItemReady, true
	case ItemReady:
		return ItemDelivered, true
	}
	return "", false
}

// Cancellable reports whether the kitchen may still drop the item.
func (s ItemStatus) Cancellable() bool {
	return s == ItemPending || s == ItemPreparing
}

type ItemCategory string

const (
	CategoryRestaurant  ItemCategory = "restaurant"
	CategoryBar         ItemCategory = "bar"
	CategoryRoomService ItemCategory = "room-service"
	CategoryOther       ItemCategory = "other"
)

func (c ItemCategory) Valid() bool {
	switch c {
	case CategoryRestaurant, CategoryBar, CategoryRoomService, CategoryOther:
		return true
	}
	return false
}

type ItemSource string

const (
	SourceStaff ItemSource = "staff"
	SourceGuest ItemSource = "guest"
)

type ConsumptionItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"index;not null" json:"reservation_id"`
	ProductID     *uint           `gorm:"index" json:"product_id,omitempty"`
	Description   string          `gorm:"size:255" json:"description"`
	Value         decimal.Decimal `gorm:"type:decimal(12,2)" json:"value"`
	Quantity      int             `json:"quantity"`
	Category      ItemCategory    `gorm:"size:32;index" json:"category"`
	Status        ItemStatus      `gorm:"size:32;index" json:"status"`
	Source        ItemSource      `gorm:"size:16" json:"source"`
	Notes         string          `gorm:"size:255" json:"notes,omitempty"`

	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i ConsumptionItem) Subtotal() decimal.Decimal {
	return i.Value.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
