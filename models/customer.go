// models/customer.go
package models

import (
	"time"
)

type CustomerStatus string

const (
	CustomerLead   CustomerStatus = "Lead"
	CustomerClient CustomerStatus = "Client"
)

type Customer struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FullName  string         `gorm:"size:255" json:"full_name"`
	Email     string         `gorm:"size:150;index" json:"email"`
	Phone     string         `gorm:"size:50" json:"phone"`
	Status    CustomerStatus `gorm:"size:16;default:Lead" json:"status"`
	Notes     string         `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
