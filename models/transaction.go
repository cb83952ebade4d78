package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionIncome  TransactionType = "Income"
	TransactionExpense TransactionType = "Expense"
)

type TransactionStatus string

const (
	TransactionPaid    TransactionStatus = "Paid"
	TransactionPending TransactionStatus = "Pending"
	// TransactionCancelled marks a voided posting, e.g. the pending income of a cancelled reservation.
	TransactionCancelled TransactionStatus = "Cancelled"
)

type Transaction struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Description   string            `gorm:"size:255" json:"description"`
	Amount        decimal.Decimal   `gorm:"type:decimal(12,2)" json:"amount"`
	Type          TransactionType   `gorm:"size:16;index" json:"type"`
	Category      string            `gorm:"size:64" json:"category"`
	Date          time.Time         `gorm:"index" json:"date"`
	Status        TransactionStatus `gorm:"size:16;index" json:"status"`
	ReservationID *uint             `gorm:"index" json:"reservation_id,omitempty"`
	EventID       *uint             `gorm:"index" json:"event_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}
