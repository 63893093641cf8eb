package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus covers the full vocabulary persisted for buyer requests.
// CLOSED has no inbound edge from the workflow engine; it is reserved for
// administrative tooling. PUBLISHED is treated like QUOTING on read paths.
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "DRAFT"
	RequestStatusPublished RequestStatus = "PUBLISHED"
	RequestStatusQuoting   RequestStatus = "QUOTING"
	RequestStatusShortlist RequestStatus = "SHORTLIST"
	RequestStatusAwarded   RequestStatus = "AWARDED"
	RequestStatusClosed    RequestStatus = "CLOSED"
)

// OpenForQuoting reports whether vendors may still submit quotes.
func (s RequestStatus) OpenForQuoting() bool {
	return s == RequestStatusPublished || s == RequestStatusQuoting || s == RequestStatusShortlist
}

// Request is a buyer organization's call for vendor quotes.
type Request struct {
	ID           uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	BuyerOrgID   uuid.UUID     `json:"buyer_org_id" gorm:"type:uuid;not null;index"`
	Title        string        `json:"title" gorm:"size:255;not null"`
	Description  string        `json:"description" gorm:"type:text"`
	BudgetCents  int64         `json:"budget_cents" gorm:"not null"`
	Currency     string        `json:"currency" gorm:"size:8;default:'USD'"`
	DeadlineDate time.Time     `json:"deadline_date" gorm:"type:date"`
	Tags         []string      `json:"tags" gorm:"type:jsonb;serializer:json"`
	Status       RequestStatus `json:"status" gorm:"size:20;not null;default:'DRAFT';index"`
	CreatedAt    time.Time     `json:"created_at" gorm:"index"`
	UpdatedAt    time.Time     `json:"updated_at"`
}
