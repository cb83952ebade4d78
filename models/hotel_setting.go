package models

import "time"

// HotelSetting holds the resort identity shown on receipts and the guest portal.
type HotelSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255" json:"name"`
	Address      string    `gorm:"type:text" json:"address"`
	Phone        string    `gorm:"size:50" json:"phone"`
	Email        string    `gorm:"size:150" json:"email"`
	Website      string    `gorm:"size:255" json:"website"`
	Logo         string    `gorm:"size:255" json:"logo"`
	Currency     string    `gorm:"size:8;default:BRL" json:"currency"`
	CheckInTime  string    `gorm:"size:5" json:"check_in_time"`
	CheckOutTime string    `gorm:"size:5" json:"check_out_time"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
