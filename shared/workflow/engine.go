// Package workflow implements the procurement state machines: request
// publishing through award, quote submission through settlement, and the
// deal/invoice lifecycle that follows an award. Every transition authorizes
// the actor, validates the source state, applies the change and appends its
// audit entry in a single transaction.
package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/permission"
)

type Engine struct {
	store Store
	queue JobDispatcher
	now   func() time.Time
}

func NewEngine(store Store, queue JobDispatcher) *Engine {
	return &Engine{store: store, queue: queue, now: func() time.Time { return time.Now().UTC() }}
}

type CreateRequestInput struct {
	Title        string
	Description  string
	BudgetCents  int64
	Currency     string
	DeadlineDate time.Time
	Tags         []string
}

type RequestPatch struct {
	Title        *string
	Description  *string
	BudgetCents  *int64
	Currency     *string
	DeadlineDate *time.Time
	Tags         []string
}

type CreateQuoteInput struct {
	RequestID    uuid.UUID
	AmountCents  int64
	TimelineDays int
	Terms        string
}

type QuotePatch struct {
	AmountCents  *int64
	TimelineDays *int
	Terms        *string
}

// CreateRequest opens a new draft request for the actor's organization.
func (e *Engine) CreateRequest(ctx context.Context, actor permission.Actor, input CreateRequestInput) (*models.Request, error) {
	if err := permission.RequireRole(actor, permission.ActionRequestCreate); err != nil {
		return nil, err
	}
	if input.BudgetCents <= 0 {
		return nil, apperror.BadRequest("Budget must be positive")
	}
	currency := input.Currency
	if currency == "" {
		currency = "USD"
	}
	req := &models.Request{
		BuyerOrgID:   actor.OrgID,
		Title:        input.Title,
		Description:  input.Description,
		BudgetCents:  input.BudgetCents,
		Currency:     currency,
		DeadlineDate: input.DeadlineDate,
		Tags:         input.Tags,
		Status:       models.RequestStatusDraft,
	}
	err := e.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionRequestCreate, "request", req.ID,
			map[string]interface{}{"title": req.Title}))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// PatchRequest edits request content. Only draft requests are editable.
func (e *Engine) PatchRequest(ctx context.Context, actor permission.Actor, id uuid.UUID, patch RequestPatch) (*models.Request, error) {
	if err := permission.RequireRole(actor, permission.ActionRequestUpdate); err != nil {
		return nil, err
	}
	var req *models.Request
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		req, err = tx.GetRequestForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return apperror.NotFound("Request not found")
		}
		if err := permission.RequireOwnership(actor, "Request not found", req.BuyerOrgID); err != nil {
			return err
		}
		if req.Status != models.RequestStatusDraft {
			return apperror.InvalidState("Only draft requests are editable")
		}
		changes := map[string]interface{}{}
		if patch.Title != nil {
			req.Title = *patch.Title
			changes["title"] = *patch.Title
		}
		if patch.Description != nil {
			req.Description = *patch.Description
			changes["description"] = *patch.Description
		}
		if patch.BudgetCents != nil {
			if *patch.BudgetCents <= 0 {
				return apperror.BadRequest("Budget must be positive")
			}
			req.BudgetCents = *patch.BudgetCents
			changes["budget_cents"] = *patch.BudgetCents
		}
		if patch.Currency != nil {
			req.Currency = *patch.Currency
			changes["currency"] = *patch.Currency
		}
		if patch.DeadlineDate != nil {
			req.DeadlineDate = *patch.DeadlineDate
			changes["deadline_date"] = patch.DeadlineDate.Format("2006-01-02")
		}
		if patch.Tags != nil {
			req.Tags = patch.Tags
			changes["tags"] = patch.Tags
		}
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionRequestUpdate, "request", req.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// PublishRequest moves a draft request into quoting and enqueues one
// background job for the marketplace fan-out. A client-supplied replay key
// makes the call at-most-once per organization: a repeated key returns the
// request's current state without re-running the transition or its side
// effects. Publishing an already-quoting request is a no-op rather than an
// error.
func (e *Engine) PublishRequest(ctx context.Context, actor permission.Actor, id uuid.UUID, replayKey string) (*models.Request, error) {
	if err := permission.RequireRole(actor, permission.ActionRequestPublish); err != nil {
		return nil, err
	}
	var req *models.Request
	published := false
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		req, err = tx.GetRequestForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return apperror.NotFound("Request not found")
		}
		if err := permission.RequireOwnership(actor, "Request not found", req.BuyerOrgID); err != nil {
			return err
		}
		if replayKey != "" {
			endpoint := fmt.Sprintf("requests/%s/publish", id)
			claimed, err := tx.ClaimIdempotencyKey(ctx, actor.OrgID, replayKey, endpoint)
			if err != nil {
				return err
			}
			if !claimed {
				return nil
			}
		}
		if req.Status == models.RequestStatusQuoting {
			return nil
		}
		if req.Status != models.RequestStatusDraft {
			return apperror.InvalidState("Request cannot be published")
		}
		req.Status = models.RequestStatusQuoting
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}
		if err := tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionRequestPublish, "request", req.ID, nil)); err != nil {
			return err
		}
		published = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Dispatch only after the transition is durably committed. The enqueue is
	// fire-and-forget; a queue outage does not undo the publish.
	if published {
		if err := e.queue.EnqueueRequestPublished(ctx, req.ID); err != nil {
			log.Printf("publish job enqueue failed for request %s: %v", req.ID, err)
		}
	}
	return req, nil
}

// ShortlistRequest moves a quoting request into shortlisting.
func (e *Engine) ShortlistRequest(ctx context.Context, actor permission.Actor, id uuid.UUID) (*models.Request, error) {
	if err := permission.RequireRole(actor, permission.ActionRequestShortlist); err != nil {
		return nil, err
	}
	var req *models.Request
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		req, err = tx.GetRequestForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return apperror.NotFound("Request not found")
		}
		if err := permission.RequireOwnership(actor, "Request not found", req.BuyerOrgID); err != nil {
			return err
		}
		if req.Status != models.RequestStatusQuoting {
			return apperror.InvalidState("Only quoting requests can be shortlisted")
		}
		req.Status = models.RequestStatusShortlist
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionRequestShortlist, "request", req.ID, nil))
	})
	if err != nil {
		return nil, err
	}
	return req, nil
}

// AwardRequest settles a shortlisted request: the winning quote is accepted,
// every sibling quote is rejected (withdrawn ones included), the request
// closes as awarded and exactly one deal is created binding both
// organizations. The request row lock serializes concurrent award attempts;
// the loser finds the request no longer shortlisted.
func (e *Engine) AwardRequest(ctx context.Context, actor permission.Actor, id, winningQuoteID uuid.UUID) (*models.Deal, error) {
	if err := permission.RequireRole(actor, permission.ActionRequestAward); err != nil {
		return nil, err
	}
	var deal *models.Deal
	err := e.store.InTx(ctx, func(tx Store) error {
		req, err := tx.GetRequestForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return apperror.NotFound("Request not found")
		}
		if err := permission.RequireOwnership(actor, "Request not found", req.BuyerOrgID); err != nil {
			return err
		}
		if req.Status != models.RequestStatusShortlist {
			return apperror.InvalidState("Only shortlisted requests can be awarded")
		}
		winner, err := tx.GetQuote(ctx, winningQuoteID)
		if err != nil {
			return err
		}
		if winner == nil || winner.RequestID != req.ID {
			return apperror.NotFound("Winning quote not found")
		}
		quotes, err := tx.ListQuotesByRequest(ctx, req.ID)
		if err != nil {
			return err
		}
		for i := range quotes {
			quote := &quotes[i]
			if quote.ID == winner.ID {
				quote.Status = models.QuoteStatusAccepted
			} else {
				quote.Status = models.QuoteStatusRejected
			}
			if err := tx.SaveQuote(ctx, quote); err != nil {
				return err
			}
		}
		req.Status = models.RequestStatusAwarded
		if err := tx.SaveRequest(ctx, req); err != nil {
			return err
		}
		winnerID := winner.ID
		deal = &models.Deal{
			BuyerOrgID:     req.BuyerOrgID,
			VendorOrgID:    winner.VendorOrgID,
			RequestID:      req.ID,
			WinningQuoteID: &winnerID,
			Status:         models.DealStatusNegotiation,
		}
		if err := tx.CreateDeal(ctx, deal); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionRequestAward, "request", req.ID,
			map[string]interface{}{"winning_quote_id": winner.ID.String()}))
	})
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// CreateQuote submits a vendor quote against a request that is open for
// quoting. Vendors may quote any open request, so there is no ownership check
// on the request itself.
func (e *Engine) CreateQuote(ctx context.Context, actor permission.Actor, input CreateQuoteInput) (*models.Quote, error) {
	if err := permission.RequireRole(actor, permission.ActionQuoteCreate); err != nil {
		return nil, err
	}
	if input.AmountCents <= 0 {
		return nil, apperror.BadRequest("Amount must be positive")
	}
	if input.TimelineDays <= 0 {
		return nil, apperror.BadRequest("Timeline must be positive")
	}
	var quote *models.Quote
	err := e.store.InTx(ctx, func(tx Store) error {
		req, err := tx.GetRequest(ctx, input.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return apperror.NotFound("Request not found")
		}
		if !req.Status.OpenForQuoting() {
			return apperror.InvalidState("Request not open for quoting")
		}
		quote = &models.Quote{
			RequestID:    req.ID,
			VendorOrgID:  actor.OrgID,
			AmountCents:  input.AmountCents,
			TimelineDays: input.TimelineDays,
			Terms:        input.Terms,
			Status:       models.QuoteStatusSubmitted,
		}
		if err := tx.CreateQuote(ctx, quote); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionQuoteCreate, "quote", quote.ID,
			map[string]interface{}{"request_id": req.ID.String()}))
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// PatchQuote revises a live quote. Accepted, rejected and withdrawn quotes
// are settled and can no longer change.
func (e *Engine) PatchQuote(ctx context.Context, actor permission.Actor, id uuid.UUID, patch QuotePatch) (*models.Quote, error) {
	if err := permission.RequireRole(actor, permission.ActionQuoteUpdate); err != nil {
		return nil, err
	}
	var quote *models.Quote
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		quote, err = tx.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return apperror.NotFound("Quote not found")
		}
		if err := permission.RequireOwnership(actor, "Quote not found", quote.VendorOrgID); err != nil {
			return err
		}
		if quote.Status.Terminal() {
			return apperror.InvalidState("Quote cannot be updated")
		}
		changes := map[string]interface{}{}
		if patch.AmountCents != nil {
			if *patch.AmountCents <= 0 {
				return apperror.BadRequest("Amount must be positive")
			}
			quote.AmountCents = *patch.AmountCents
			changes["amount_cents"] = *patch.AmountCents
		}
		if patch.TimelineDays != nil {
			if *patch.TimelineDays <= 0 {
				return apperror.BadRequest("Timeline must be positive")
			}
			quote.TimelineDays = *patch.TimelineDays
			changes["timeline_days"] = *patch.TimelineDays
		}
		if patch.Terms != nil {
			quote.Terms = *patch.Terms
			changes["terms"] = *patch.Terms
		}
		quote.Status = models.QuoteStatusUpdated
		if err := tx.SaveQuote(ctx, quote); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionQuoteUpdate, "quote", quote.ID, changes))
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// WithdrawQuote pulls a live quote out of contention.
func (e *Engine) WithdrawQuote(ctx context.Context, actor permission.Actor, id uuid.UUID) (*models.Quote, error) {
	if err := permission.RequireRole(actor, permission.ActionQuoteWithdraw); err != nil {
		return nil, err
	}
	var quote *models.Quote
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		quote, err = tx.GetQuote(ctx, id)
		if err != nil {
			return err
		}
		if quote == nil {
			return apperror.NotFound("Quote not found")
		}
		if err := permission.RequireOwnership(actor, "Quote not found", quote.VendorOrgID); err != nil {
			return err
		}
		if quote.Status.Terminal() {
			return apperror.InvalidState("Quote cannot be withdrawn")
		}
		quote.Status = models.QuoteStatusWithdrawn
		if err := tx.SaveQuote(ctx, quote); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionQuoteWithdraw, "quote", quote.ID, nil))
	})
	if err != nil {
		return nil, err
	}
	return quote, nil
}

// CreateInvoice issues the invoice for a deal, snapshotting the winning
// quote's amount at this moment. If the deal already has an invoice the
// existing one is returned untouched and the deal status does not move
// again: the natural lookup makes this endpoint idempotent without a replay
// key.
func (e *Engine) CreateInvoice(ctx context.Context, actor permission.Actor, dealID uuid.UUID) (*models.Invoice, error) {
	if err := permission.RequireRole(actor, permission.ActionDealCreateInvoice); err != nil {
		return nil, err
	}
	var invoice *models.Invoice
	err := e.store.InTx(ctx, func(tx Store) error {
		deal, err := tx.GetDealForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return apperror.NotFound("Deal not found")
		}
		if err := permission.RequireOwnership(actor, "Deal not found", deal.BuyerOrgID); err != nil {
			return err
		}
		invoice, err = tx.InvoiceByDeal(ctx, deal.ID)
		if err != nil {
			return err
		}
		if invoice != nil {
			return nil
		}
		var amount int64
		if deal.WinningQuoteID != nil {
			winning, err := tx.GetQuote(ctx, *deal.WinningQuoteID)
			if err != nil {
				return err
			}
			if winning != nil {
				amount = winning.AmountCents
			}
		}
		issuedAt := e.now()
		invoice = &models.Invoice{
			DealID:      deal.ID,
			AmountCents: amount,
			Currency:    "USD",
			Status:      models.InvoiceStatusDraft,
			IssuedAt:    &issuedAt,
		}
		if err := tx.CreateInvoice(ctx, invoice); err != nil {
			return err
		}
		deal.Status = models.DealStatusInvoiced
		if err := tx.SaveDeal(ctx, deal); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionDealCreateInvoice, "deal", deal.ID, nil))
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

// MarkDealPaid confirms payment: the invoice moves to PAID with a payment
// timestamp and the deal settles.
func (e *Engine) MarkDealPaid(ctx context.Context, actor permission.Actor, dealID uuid.UUID) (*models.Deal, error) {
	if err := permission.RequireRole(actor, permission.ActionDealMarkPaid); err != nil {
		return nil, err
	}
	var deal *models.Deal
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		deal, err = tx.GetDealForUpdate(ctx, dealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return apperror.NotFound("Deal not found")
		}
		if err := permission.RequireOwnership(actor, "Deal not found", deal.BuyerOrgID); err != nil {
			return err
		}
		invoice, err := tx.InvoiceByDeal(ctx, deal.ID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return apperror.InvalidState("Invoice does not exist")
		}
		paidAt := e.now()
		invoice.Status = models.InvoiceStatusPaid
		invoice.PaidAt = &paidAt
		if err := tx.SaveInvoice(ctx, invoice); err != nil {
			return err
		}
		deal.Status = models.DealStatusPaid
		if err := tx.SaveDeal(ctx, deal); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionDealMarkPaid, "deal", deal.ID,
			map[string]interface{}{"invoice_id": invoice.ID.String()}))
	})
	if err != nil {
		return nil, err
	}
	return deal, nil
}

// CreateMessage posts to a deal's message thread. Either organization on the
// deal may write.
func (e *Engine) CreateMessage(ctx context.Context, actor permission.Actor, dealID uuid.UUID, body string) (*models.Message, error) {
	if err := permission.RequireRole(actor, permission.ActionMessageCreate); err != nil {
		return nil, err
	}
	var msg *models.Message
	err := e.store.InTx(ctx, func(tx Store) error {
		deal, err := tx.GetDeal(ctx, dealID)
		if err != nil {
			return err
		}
		if deal == nil {
			return apperror.NotFound("Deal not found")
		}
		if err := permission.RequireOwnership(actor, "Deal not found", deal.BuyerOrgID, deal.VendorOrgID); err != nil {
			return err
		}
		msg = &models.Message{DealID: deal.ID, SenderUserID: actor.UserID, Body: body}
		if err := tx.CreateMessage(ctx, msg); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionMessageCreate, "message", msg.ID, nil))
	})
	if err != nil {
		return nil, err
	}
	return msg, nil
}

// CreateInvite records a pending invite and drops a best-effort notification
// row in the same transaction.
func (e *Engine) CreateInvite(ctx context.Context, actor permission.Actor, email string, role models.Role) (*models.Invite, error) {
	if err := permission.RequireRole(actor, permission.ActionInviteCreate); err != nil {
		return nil, err
	}
	invite := &models.Invite{
		OrgID:           actor.OrgID,
		Email:           email,
		Role:            role,
		Status:          models.InviteStatusPending,
		CreatedByUserID: actor.UserID,
	}
	err := e.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateInvite(ctx, invite); err != nil {
			return err
		}
		note := &models.Notification{
			OrgID:  actor.OrgID,
			UserID: actor.UserID,
			Type:   "invite",
			Payload: map[string]interface{}{
				"invite_id": invite.ID.String(),
				"email":     invite.Email,
				"message":   fmt.Sprintf("Invite sent to %s", invite.Email),
			},
		}
		if err := tx.CreateNotification(ctx, note); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionInviteCreate, "invite", invite.ID,
			map[string]interface{}{"email": invite.Email, "role": string(invite.Role)}))
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// AcceptInvite flips an org-scoped invite to accepted.
func (e *Engine) AcceptInvite(ctx context.Context, actor permission.Actor, inviteID uuid.UUID) (*models.Invite, error) {
	var invite *models.Invite
	err := e.store.InTx(ctx, func(tx Store) error {
		var err error
		invite, err = tx.GetInvite(ctx, inviteID)
		if err != nil {
			return err
		}
		if invite == nil {
			return apperror.NotFound("Invite not found")
		}
		if err := permission.RequireOwnership(actor, "Invite not found", invite.OrgID); err != nil {
			return err
		}
		invite.Status = models.InviteStatusAccepted
		return tx.SaveInvite(ctx, invite)
	})
	if err != nil {
		return nil, err
	}
	return invite, nil
}

// EmitJobNotification records a job-completion notification for the actor,
// audited like any other mutation.
func (e *Engine) EmitJobNotification(ctx context.Context, actor permission.Actor, kind string, success bool, requestID string) (*models.Notification, error) {
	if err := permission.RequireRole(actor, permission.ActionNotificationEmitJob); err != nil {
		return nil, err
	}
	outcome := "completed"
	if !success {
		outcome = "failed"
	}
	note := &models.Notification{
		OrgID:  actor.OrgID,
		UserID: actor.UserID,
		Type:   "job",
		Payload: map[string]interface{}{
			"kind":       kind,
			"success":    success,
			"request_id": requestID,
			"message":    fmt.Sprintf("%s job %s", kind, outcome),
		},
	}
	err := e.store.InTx(ctx, func(tx Store) error {
		if err := tx.CreateNotification(ctx, note); err != nil {
			return err
		}
		return tx.AppendAudit(ctx, e.auditEntry(actor, permission.ActionNotificationEmitJob, "notification", note.ID, note.Payload))
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (e *Engine) auditEntry(actor permission.Actor, action permission.Action, entity string, entityID uuid.UUID, payload map[string]interface{}) *models.AuditLog {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	actorID := actor.UserID
	return &models.AuditLog{
		OrgID:       actor.OrgID,
		ActorUserID: &actorID,
		Action:      string(action),
		Entity:      entity,
		EntityID:    entityID.String(),
		Payload:     payload,
	}
}
