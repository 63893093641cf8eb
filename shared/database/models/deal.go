package models

import (
	"time"

	"github.com/google/uuid"
)

// DealStatus vocabulary. CONTRACT and ARCHIVED are declared but the engine
// never produces them; they exist for forward compatibility with contract
// management tooling.
type DealStatus string

const (
	DealStatusNegotiation DealStatus = "NEGOTIATION"
	DealStatusContract    DealStatus = "CONTRACT"
	DealStatusInvoiced    DealStatus = "INVOICED"
	DealStatusPaid        DealStatus = "PAID"
	DealStatusArchived    DealStatus = "ARCHIVED"
)

// Deal binds the awarded request to its winning quote. Created exactly once
// per request, at award time. WinningQuoteID is only nullable in the schema;
// the engine always sets it.
type Deal struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuyerOrgID     uuid.UUID  `json:"buyer_org_id" gorm:"type:uuid;not null;index"`
	VendorOrgID    uuid.UUID  `json:"vendor_org_id" gorm:"type:uuid;not null;index"`
	RequestID      uuid.UUID  `json:"request_id" gorm:"type:uuid;not null;index"`
	WinningQuoteID *uuid.UUID `json:"winning_quote_id" gorm:"type:uuid"`
	Status         DealStatus `json:"status" gorm:"size:20;not null;default:'NEGOTIATION';index"`
	CreatedAt      time.Time  `json:"created_at" gorm:"index"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
