package models

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus vocabulary. SENT and VOID are declared but unreachable from
// the workflow engine.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusSent  InvoiceStatus = "SENT"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
	InvoiceStatusVoid  InvoiceStatus = "VOID"
)

// Invoice snapshots the winning quote amount at creation time; later quote
// edits never flow through.
type Invoice struct {
	ID          uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DealID      uuid.UUID     `json:"deal_id" gorm:"type:uuid;not null;index"`
	AmountCents int64         `json:"amount_cents" gorm:"not null"`
	Currency    string        `json:"currency" gorm:"size:8;default:'USD'"`
	Status      InvoiceStatus `json:"status" gorm:"size:20;not null;default:'DRAFT'"`
	IssuedAt    *time.Time    `json:"issued_at"`
	PaidAt      *time.Time    `json:"paid_at"`
}
