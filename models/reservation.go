package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ReservationStatus string

const (
	ReservationPending    ReservationStatus = "Pending"
	ReservationConfirmed  ReservationStatus = "Confirmed"
	ReservationCheckedIn  ReservationStatus = "Checked-in"
	ReservationCheckedOut ReservationStatus = "Checked-out"
	ReservationCancelled  ReservationStatus = "Cancelled"
)

// ActiveReservationStatuses hold a room: everything that is neither cancelled nor checked out.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationPending,
	ReservationConfirmed,
	ReservationCheckedIn,
}

// Active reports whether a reservation in this status still blocks its room.
func (s ReservationStatus) Active() bool {
	return s != ReservationCancelled && s != ReservationCheckedOut
}

// AcceptsConsumption reports whether items may still be charged to the bill.
func (s ReservationStatus) AcceptsConsumption() bool {
	return s == ReservationConfirmed || s == ReservationCheckedIn
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled:
		return true
	}
	return false
}

// CanTransitionTo encodes the reservation lifecycle:
// Pending -> Confirmed -> Checked-in -> Checked-out, Cancelled from Pending or Confirmed.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch next {
	case ReservationConfirmed:
		return s == ReservationPending
	case ReservationCheckedIn:
		return s == ReservationConfirmed
	case ReservationCheckedOut:
		return s == ReservationCheckedIn
	case ReservationCancelled:
		return s == ReservationPending || s == ReservationConfirmed
	}
	return false
}

type Reservation struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	ReferenceCode string `gorm:"size:64;uniqueIndex" json:"reference_code"`
	CustomerID    *uint  `gorm:"index" json:"customer_id,omitempty"`
	GuestName     string `gorm:"size:255" json:"guest_name"`
	GuestEmail    string `gorm:"size:150" json:"guest_email,omitempty"`
	RoomID        uint   `gorm:"index;not null" json:"room_id"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`
	AccessCode    string `gorm:"size:6;index" json:"access_code,omitempty"`

	CheckIn  time.Time `gorm:"index" json:"check_in"`
	CheckOut time.Time `gorm:"index" json:"check_out"`
	Adults   int       `gorm:"default:1" json:"adults"`
	Children int       `gorm:"default:0" json:"children"`

	Status      ReservationStatus `gorm:"size:32;index" json:"status"`
	TotalAmount decimal.Decimal   `gorm:"type:decimal(12,2)" json:"total_amount"`
	FinalAmount decimal.Decimal   `gorm:"type:decimal(12,2)" json:"final_amount"`

	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	CancelledAt  *time.Time `json:"cancelled_at,omitempty"`

	Version   int       `gorm:"not null;default:1" json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []ConsumptionItem `gorm:"foreignKey:ReservationID" json:"items"`
}

func (r Reservation) PartySize() int {
	return r.Adults + r.Children
}

// Overlaps reports whether [start, end) collides with this stay once the
// cleaning buffer is appended to its checkout.
func (r Reservation) Overlaps(start, end time.Time, buffer time.Duration) bool {
	return start.Before(r.CheckOut.Add(buffer)) && end.After(r.CheckIn)
}
