package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	InviteStatusPending  = "PENDING"
	InviteStatusAccepted = "ACCEPTED"
)

type Invite struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrgID           uuid.UUID `json:"org_id" gorm:"type:uuid;not null;index"`
	Email           string    `json:"email" gorm:"size:320;not null;index"`
	Role            Role      `json:"role" gorm:"size:20;not null;default:'VIEWER'"`
	Status          string    `json:"status" gorm:"size:32;not null;default:'PENDING';index"`
	CreatedByUserID uuid.UUID `json:"created_by_user_id" gorm:"type:uuid;not null;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}
