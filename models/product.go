package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable POS item (dish, drink, room-service offer).
type Product struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Name      string          `gorm:"size:150" json:"name"`
	Category  ItemCategory    `gorm:"size:32;index" json:"category"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Active    bool            `gorm:"default:true" json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
