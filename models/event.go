package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type EventStatus string

const (
	EventPending   EventStatus = "Pending"
	EventConfirmed EventStatus = "Confirmed"
	EventCompleted EventStatus = "Completed"
	EventCancelled EventStatus = "Cancelled"
)

// Event is a venue booking (wedding, conference, party) billed through a deposit.
type Event struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Title         string          `gorm:"size:255" json:"title"`
	Venue         string          `gorm:"size:150" json:"venue"`
	ClientName    string          `gorm:"size:255" json:"client_name"`
	CustomerID    *uint           `gorm:"index" json:"customer_id,omitempty"`
	StartsAt      time.Time       `gorm:"index" json:"starts_at"`
	EndsAt        time.Time       `json:"ends_at"`
	Guests        int             `json:"guests"`
	TotalValue    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_value"`
	DepositAmount decimal.Decimal `gorm:"type:decimal(12,2)" json:"deposit_amount"`
	Status        EventStatus     `gorm:"size:16;index" json:"status"`
	DepositPaidAt *time.Time      `json:"deposit_paid_at,omitempty"`
	Notes         string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
