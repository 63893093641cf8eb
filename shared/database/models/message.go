package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is deal-scoped chat between the buyer and vendor organizations.
type Message struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DealID       uuid.UUID `json:"deal_id" gorm:"type:uuid;not null;index"`
	SenderUserID uuid.UUID `json:"sender_user_id" gorm:"type:uuid;not null;index"`
	Body         string    `json:"body" gorm:"type:text;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}
