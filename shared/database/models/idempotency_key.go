package models

import (
	"time"

	"github.com/google/uuid"
)

// IdempotencyKey marks that an organization already executed an endpoint with
// a client-supplied replay key. Only the fact is stored, never the response
// body. The composite unique index resolves racing duplicates at the storage
// layer.
type IdempotencyKey struct {
	OrgID     uuid.UUID `json:"org_id" gorm:"type:uuid;primaryKey;uniqueIndex:uq_idempotency"`
	Key       string    `json:"key" gorm:"size:120;primaryKey;uniqueIndex:uq_idempotency"`
	Endpoint  string    `json:"endpoint" gorm:"size:255;primaryKey;uniqueIndex:uq_idempotency"`
	CreatedAt time.Time `json:"created_at"`
}

func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}
