package model

import "time"

type AuditLog struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Entity    string    `gorm:"size:32;not null;index:idx_audit_entity" json:"entity"`
	EntityID  int64     `gorm:"not null;index:idx_audit_entity" json:"entity_id"`
	Action    string    `gorm:"size:16;not null" json:"action"`
	Payload   string    `gorm:"type:text" json:"payload"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}
