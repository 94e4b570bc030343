package model

import (
	"encoding/json"
	"time"
)

const (
	EntityUser     = "user"
	EntityProduct  = "product"
	EntityCategory = "category"

	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// EntityEvent is published after every successful write and persisted as an AuditLog.
type EntityEvent struct {
	Entity     string          `json:"entity"`
	EntityID   int64           `json:"entity_id"`
	Action     string          `json:"action"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}
