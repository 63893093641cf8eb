package models

import (
	"time"

	"github.com/google/uuid"
)

type QuoteStatus string

const (
	QuoteStatusSubmitted QuoteStatus = "SUBMITTED"
	QuoteStatusUpdated   QuoteStatus = "UPDATED"
	QuoteStatusWithdrawn QuoteStatus = "WITHDRAWN"
	QuoteStatusAccepted  QuoteStatus = "ACCEPTED"
	QuoteStatusRejected  QuoteStatus = "REJECTED"
)

// Terminal reports whether the quote can no longer be edited or withdrawn
// by its vendor.
func (s QuoteStatus) Terminal() bool {
	return s == QuoteStatusWithdrawn || s == QuoteStatusAccepted || s == QuoteStatusRejected
}

// Quote is a vendor organization's offer against a single request.
type Quote struct {
	ID           uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RequestID    uuid.UUID   `json:"request_id" gorm:"type:uuid;not null;index"`
	VendorOrgID  uuid.UUID   `json:"vendor_org_id" gorm:"type:uuid;not null;index"`
	AmountCents  int64       `json:"amount_cents" gorm:"not null"`
	TimelineDays int         `json:"timeline_days" gorm:"not null"`
	Terms        string      `json:"terms" gorm:"type:text"`
	Status       QuoteStatus `json:"status" gorm:"size:20;not null;default:'SUBMITTED';index"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
