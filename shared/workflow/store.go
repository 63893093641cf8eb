package workflow

import (
	"context"

	"github.com/google/uuid"

	"b2bak-backend/shared/database/models"
)

// Store is the persistence surface the engine drives. InTx runs fn against a
// transaction-scoped Store; every transition executes entirely inside one
// such call so the state change, its audit entry and any idempotency claim
// commit or roll back together.
//
// Lookups return (nil, nil) when the row does not exist; the engine maps
// absence to the caller-facing NotFound.
type Store interface {
	InTx(ctx context.Context, fn func(tx Store) error) error

	GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error)
	// GetRequestForUpdate locks the request row for the duration of the
	// transaction. Award and publish serialize on it so concurrent attempts
	// observe each other's committed state.
	GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error)
	CreateRequest(ctx context.Context, req *models.Request) error
	SaveRequest(ctx context.Context, req *models.Request) error

	GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error)
	CreateQuote(ctx context.Context, quote *models.Quote) error
	SaveQuote(ctx context.Context, quote *models.Quote) error

	GetDeal(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	GetDealForUpdate(ctx context.Context, id uuid.UUID) (*models.Deal, error)
	CreateDeal(ctx context.Context, deal *models.Deal) error
	SaveDeal(ctx context.Context, deal *models.Deal) error

	InvoiceByDeal(ctx context.Context, dealID uuid.UUID) (*models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	SaveInvoice(ctx context.Context, invoice *models.Invoice) error

	GetInvite(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	CreateInvite(ctx context.Context, invite *models.Invite) error
	SaveInvite(ctx context.Context, invite *models.Invite) error

	CreateMessage(ctx context.Context, msg *models.Message) error
	CreateNotification(ctx context.Context, note *models.Notification) error

	// AppendAudit adds one immutable audit fact inside the current
	// transaction. Entries are never updated afterwards.
	AppendAudit(ctx context.Context, entry *models.AuditLog) error

	// ClaimIdempotencyKey records that org already executed endpoint with the
	// given client key. Returns false when the claim was already present; the
	// race between duplicates is resolved by the storage-level unique index.
	ClaimIdempotencyKey(ctx context.Context, orgID uuid.UUID, key, endpoint string) (bool, error)
}

// JobDispatcher hands opaque background jobs to an external queue. Enqueue
// happens after the triggering transaction committed and is fire-and-forget:
// a queue failure never rolls the state change back.
type JobDispatcher interface {
	EnqueueRequestPublished(ctx context.Context, requestID uuid.UUID) error
}
