package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "Available"
	RoomOccupied    RoomStatus = "Occupied"
	RoomCleaning    RoomStatus = "Cleaning"
	RoomMaintenance RoomStatus = "Maintenance"
)

func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomCleaning, RoomMaintenance:
		return true
	}
	return false
}

type Room struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;uniqueIndex" json:"name"`
	Type        string          `gorm:"size:50" json:"type"`
	Capacity    int             `json:"capacity"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	Status      RoomStatus      `gorm:"size:32;default:Available" json:"status"`
	Description string          `gorm:"type:text" json:"description"`

	// Version is bumped on every write; updates carrying a stale version are rejected.
	Version int `gorm:"not null;default:1" json:"version"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Fits reports whether a party of the given size can stay in the room.
func (r Room) Fits(party int) bool {
	return r.Capacity >= party
}
