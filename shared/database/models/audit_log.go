package models

import (
	"time"

	"github.com/google/uuid"
)

// AuditLog is an append-only fact about a mutating action. Rows are written
// in the same transaction as the state change they describe and are never
// updated or deleted afterwards.
type AuditLog struct {
	ID          uuid.UUID              `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID       uuid.UUID              `json:"org_id" gorm:"type:uuid;not null;index"`
	ActorUserID *uuid.UUID             `json:"actor_user_id" gorm:"type:uuid"`
	Action      string                 `json:"action" gorm:"size:120;not null;index"`
	Entity      string                 `json:"entity" gorm:"size:120;not null;index"`
	EntityID    string                 `json:"entity_id" gorm:"size:120;not null;index"`
	Payload     map[string]interface{} `json:"payload" gorm:"type:jsonb;serializer:json"`
	CreatedAt   time.Time              `json:"created_at" gorm:"index"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
