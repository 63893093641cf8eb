package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a best-effort row written alongside the action that raised
// it. Delivery (polling or the websocket stream) is decoupled from the write
// path and is allowed to be late or duplicated across poll cycles.
type Notification struct {
	ID        uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID     uuid.UUID              `json:"org_id" gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID              `json:"user_id" gorm:"type:uuid;not null;index"`
	Type      string                 `json:"type" gorm:"size:80;not null;index"`
	Payload   map[string]interface{} `json:"payload" gorm:"type:jsonb;serializer:json"`
	ReadAt    *time.Time             `json:"read_at"`
	CreatedAt time.Time              `json:"created_at" gorm:"index"`
}

func (Notification) TableName() string {
	return "notifications"
}
