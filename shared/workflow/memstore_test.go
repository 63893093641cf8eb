package workflow_test

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/workflow"
)

// memStore is an in-memory workflow.Store for engine tests. Lookups return
// copies so the engine's in-flight mutations only become visible through
// Save, mirroring how the database store behaves. InTx is a pass-through;
// the engine validates before it writes, so failed transitions leave the
// store untouched without real rollback.
type memStore struct {
	seq int64

	requests      map[uuid.UUID]models.Request
	quotes        map[uuid.UUID]models.Quote
	deals         map[uuid.UUID]models.Deal
	invoices      map[uuid.UUID]models.Invoice
	invites       map[uuid.UUID]models.Invite
	messages      []models.Message
	notifications []models.Notification
	audit         []models.AuditLog
	claims        map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		requests: map[uuid.UUID]models.Request{},
		quotes:   map[uuid.UUID]models.Quote{},
		deals:    map[uuid.UUID]models.Deal{},
		invoices: map[uuid.UUID]models.Invoice{},
		invites:  map[uuid.UUID]models.Invite{},
		claims:   map[string]bool{},
	}
}

// tick returns a strictly increasing timestamp so created_at ordering is
// deterministic even within one test.
func (s *memStore) tick() time.Time {
	s.seq++
	return time.Unix(0, s.seq).UTC()
}

func (s *memStore) InTx(ctx context.Context, fn func(tx workflow.Store) error) error {
	return fn(s)
}

func (s *memStore) GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	if req, ok := s.requests[id]; ok {
		return &req, nil
	}
	return nil, nil
}

func (s *memStore) GetRequestForUpdate(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return s.GetRequest(ctx, id)
}

func (s *memStore) CreateRequest(ctx context.Context, req *models.Request) error {
	req.ID = uuid.New()
	req.CreatedAt = s.tick()
	s.requests[req.ID] = *req
	return nil
}

func (s *memStore) SaveRequest(ctx context.Context, req *models.Request) error {
	s.requests[req.ID] = *req
	return nil
}

func (s *memStore) GetQuote(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	if quote, ok := s.quotes[id]; ok {
		return &quote, nil
	}
	return nil, nil
}

func (s *memStore) ListQuotesByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Quote, error) {
	var quotes []models.Quote
	for _, quote := range s.quotes {
		if quote.RequestID == requestID {
			quotes = append(quotes, quote)
		}
	}
	sort.Slice(quotes, func(i, j int) bool { return quotes[i].CreatedAt.Before(quotes[j].CreatedAt) })
	return quotes, nil
}

func (s *memStore) CreateQuote(ctx context.Context, quote *models.Quote) error {
	quote.ID = uuid.New()
	quote.CreatedAt = s.tick()
	s.quotes[quote.ID] = *quote
	return nil
}

func (s *memStore) SaveQuote(ctx context.Context, quote *models.Quote) error {
	s.quotes[quote.ID] = *quote
	return nil
}

func (s *memStore) GetDeal(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	if deal, ok := s.deals[id]; ok {
		return &deal, nil
	}
	return nil, nil
}

func (s *memStore) GetDealForUpdate(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	return s.GetDeal(ctx, id)
}

func (s *memStore) CreateDeal(ctx context.Context, deal *models.Deal) error {
	deal.ID = uuid.New()
	deal.CreatedAt = s.tick()
	s.deals[deal.ID] = *deal
	return nil
}

func (s *memStore) SaveDeal(ctx context.Context, deal *models.Deal) error {
	s.deals[deal.ID] = *deal
	return nil
}

func (s *memStore) InvoiceByDeal(ctx context.Context, dealID uuid.UUID) (*models.Invoice, error) {
	for _, invoice := range s.invoices {
		if invoice.DealID == dealID {
			inv := invoice
			return &inv, nil
		}
	}
	return nil, nil
}

func (s *memStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	invoice.ID = uuid.New()
	s.invoices[invoice.ID] = *invoice
	return nil
}

func (s *memStore) SaveInvoice(ctx context.Context, invoice *models.Invoice) error {
	s.invoices[invoice.ID] = *invoice
	return nil
}

func (s *memStore) GetInvite(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	if invite, ok := s.invites[id]; ok {
		return &invite, nil
	}
	return nil, nil
}

func (s *memStore) CreateInvite(ctx context.Context, invite *models.Invite) error {
	invite.ID = uuid.New()
	invite.CreatedAt = s.tick()
	s.invites[invite.ID] = *invite
	return nil
}

func (s *memStore) SaveInvite(ctx context.Context, invite *models.Invite) error {
	s.invites[invite.ID] = *invite
	return nil
}

func (s *memStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	msg.ID = uuid.New()
	msg.CreatedAt = s.tick()
	s.messages = append(s.messages, *msg)
	return nil
}

func (s *memStore) CreateNotification(ctx context.Context, note *models.Notification) error {
	note.ID = uuid.New()
	note.CreatedAt = s.tick()
	s.notifications = append(s.notifications, *note)
	return nil
}

func (s *memStore) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = uuid.New()
	entry.CreatedAt = s.tick()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *memStore) ClaimIdempotencyKey(ctx context.Context, orgID uuid.UUID, key, endpoint string) (bool, error) {
	claim := fmt.Sprintf("%s|%s|%s", orgID, key, endpoint)
	if s.claims[claim] {
		return false, nil
	}
	s.claims[claim] = true
	return true, nil
}

// auditActions returns the recorded action names in append order.
func (s *memStore) auditActions() []string {
	actions := make([]string, 0, len(s.audit))
	for _, entry := range s.audit {
		actions = append(actions, entry.Action)
	}
	return actions
}

// countAudit counts recorded entries for one action name.
func (s *memStore) countAudit(action string) int {
	n := 0
	for _, entry := range s.audit {
		if entry.Action == action {
			n++
		}
	}
	return n
}

// recordingQueue captures dispatched jobs and can simulate a broker outage.
type recordingQueue struct {
	published []uuid.UUID
	err       error
}

func (q *recordingQueue) EnqueueRequestPublished(ctx context.Context, requestID uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.published = append(q.published, requestID)
	return nil
}
