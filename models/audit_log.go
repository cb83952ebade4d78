package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one state change of a reservation, room or consumption item.
type AuditLog struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	Entity     string         `gorm:"size:32;index:idx_audit_entity" json:"entity"`
	EntityID   uint           `gorm:"index:idx_audit_entity" json:"entity_id"`
	Action     string         `gorm:"size:64" json:"action"`
	Actor      string         `gorm:"size:150" json:"actor"`
	BeforeJSON datatypes.JSON `json:"before,omitempty"`
	AfterJSON  datatypes.JSON `json:"after,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`
}
