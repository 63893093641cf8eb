package workflow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/permission"
	"b2bak-backend/shared/workflow"
)

func newTestEngine() (*workflow.Engine, *memStore, *recordingQueue) {
	store := newMemStore()
	queue := &recordingQueue{}
	return workflow.NewEngine(store, queue), store, queue
}

func buyerActor() permission.Actor {
	return permission.Actor{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleBuyer}
}

func vendorActor() permission.Actor {
	return permission.Actor{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleVendor}
}

func requireAppError(t *testing.T, err error, status int, title string) {
	t.Helper()
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status)
	require.Equal(t, title, appErr.Title)
}

func createDraft(t *testing.T, engine *workflow.Engine, buyer permission.Actor) *models.Request {
	t.Helper()
	req, err := engine.CreateRequest(context.Background(), buyer, workflow.CreateRequestInput{
		Title:        "Laser cutting batch",
		BudgetCents:  500_000,
		DeadlineDate: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusDraft, req.Status)
	return req
}

func TestCreateRequestRejectsNonPositiveBudget(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.CreateRequest(context.Background(), buyerActor(), workflow.CreateRequestInput{
		Title:       "Free work",
		BudgetCents: 0,
	})
	requireAppError(t, err, 400, "Bad Request")
}

func TestCreateRequestForbiddenForVendor(t *testing.T) {
	engine, store, _ := newTestEngine()
	_, err := engine.CreateRequest(context.Background(), vendorActor(), workflow.CreateRequestInput{
		Title:       "Vendor cannot buy",
		BudgetCents: 100,
	})
	requireAppError(t, err, 403, "Forbidden")
	require.Empty(t, store.audit)
}

func TestPatchRequestOnlyInDraft(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	title := "Laser cutting, revised"
	patched, err := engine.PatchRequest(context.Background(), buyer, req.ID, workflow.RequestPatch{Title: &title})
	require.NoError(t, err)
	require.Equal(t, title, patched.Title)

	_, err = engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)

	_, err = engine.PatchRequest(context.Background(), buyer, req.ID, workflow.RequestPatch{Title: &title})
	requireAppError(t, err, 400, "Invalid State")
}

func TestPatchRequestCrossTenantIsNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	req := createDraft(t, engine, buyerActor())

	stranger := buyerActor() // different org, role would otherwise allow it
	title := "hijack"
	_, err := engine.PatchRequest(context.Background(), stranger, req.ID, workflow.RequestPatch{Title: &title})
	requireAppError(t, err, 404, "Not Found")
}

func TestPublishRequest(t *testing.T) {
	engine, store, queue := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	published, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusQuoting, published.Status)
	require.Equal(t, []uuid.UUID{req.ID}, queue.published)
	require.Equal(t, 1, store.countAudit("request.publish"))
}

func TestPublishRequestReplayKeyIsAtMostOnce(t *testing.T) {
	engine, store, queue := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	first, err := engine.PublishRequest(context.Background(), buyer, req.ID, "pub-1")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusQuoting, first.Status)

	replay, err := engine.PublishRequest(context.Background(), buyer, req.ID, "pub-1")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusQuoting, replay.Status)

	require.Len(t, queue.published, 1)
	require.Equal(t, 1, store.countAudit("request.publish"))
}

func TestPublishRequestAlreadyQuotingIsNoOp(t *testing.T) {
	engine, store, queue := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "pub-1")
	require.NoError(t, err)
	again, err := engine.PublishRequest(context.Background(), buyer, req.ID, "pub-2")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusQuoting, again.Status)
	require.Len(t, queue.published, 1)
	require.Equal(t, 1, store.countAudit("request.publish"))
}

func TestPublishRequestWrongState(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)
	_, err = engine.ShortlistRequest(context.Background(), buyer, req.ID)
	require.NoError(t, err)

	_, err = engine.PublishRequest(context.Background(), buyer, req.ID, "")
	requireAppError(t, err, 400, "Invalid State")
}

func TestPublishSurvivesQueueOutage(t *testing.T) {
	engine, store, queue := newTestEngine()
	queue.err = errors.New("broker down")
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	published, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusQuoting, published.Status)
	require.Equal(t, 1, store.countAudit("request.publish"))
}

func TestShortlistRequiresQuoting(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)

	_, err := engine.ShortlistRequest(context.Background(), buyer, req.ID)
	requireAppError(t, err, 400, "Invalid State")
}

func TestCreateQuoteRequiresOpenRequest(t *testing.T) {
	engine, _, _ := newTestEngine()
	req := createDraft(t, engine, buyerActor())

	_, err := engine.CreateQuote(context.Background(), vendorActor(), workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  100_000,
		TimelineDays: 10,
	})
	requireAppError(t, err, 400, "Invalid State")
}

func TestQuoteLifecycle(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()
	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)

	quote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  100_000,
		TimelineDays: 10,
		Terms:        "Net 30",
	})
	require.NoError(t, err)
	require.Equal(t, models.QuoteStatusSubmitted, quote.Status)

	amount := int64(90_000)
	revised, err := engine.PatchQuote(context.Background(), vendor, quote.ID, workflow.QuotePatch{AmountCents: &amount})
	require.NoError(t, err)
	require.Equal(t, models.QuoteStatusUpdated, revised.Status)
	require.Equal(t, amount, revised.AmountCents)

	withdrawn, err := engine.WithdrawQuote(context.Background(), vendor, quote.ID)
	require.NoError(t, err)
	require.Equal(t, models.QuoteStatusWithdrawn, withdrawn.Status)
}

func TestTerminalQuoteCannotChange(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()
	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)

	quote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  100_000,
		TimelineDays: 10,
	})
	require.NoError(t, err)
	_, err = engine.WithdrawQuote(context.Background(), vendor, quote.ID)
	require.NoError(t, err)

	amount := int64(50_000)
	_, err = engine.PatchQuote(context.Background(), vendor, quote.ID, workflow.QuotePatch{AmountCents: &amount})
	requireAppError(t, err, 400, "Invalid State")

	_, err = engine.WithdrawQuote(context.Background(), vendor, quote.ID)
	requireAppError(t, err, 400, "Invalid State")
}

func TestQuoteCrossTenantIsNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()
	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)

	quote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID:    req.ID,
		AmountCents:  100_000,
		TimelineDays: 10,
	})
	require.NoError(t, err)

	rival := vendorActor()
	_, err = engine.WithdrawQuote(context.Background(), rival, quote.ID)
	requireAppError(t, err, 404, "Not Found")
}

// award with three quotes: winner accepted, the live loser and the withdrawn
// quote both end rejected, and exactly one deal binds the two organizations.
func TestAwardRequest(t *testing.T) {
	engine, store, _ := newTestEngine()
	buyer := buyerActor()
	vendorA := vendorActor()
	vendorB := vendorActor()
	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)

	winner, err := engine.CreateQuote(context.Background(), vendorA, workflow.CreateQuoteInput{
		RequestID: req.ID, AmountCents: 90_000, TimelineDays: 14,
	})
	require.NoError(t, err)
	loser, err := engine.CreateQuote(context.Background(), vendorB, workflow.CreateQuoteInput{
		RequestID: req.ID, AmountCents: 95_000, TimelineDays: 10,
	})
	require.NoError(t, err)
	withdrawn, err := engine.CreateQuote(context.Background(), vendorB, workflow.CreateQuoteInput{
		RequestID: req.ID, AmountCents: 99_000, TimelineDays: 7,
	})
	require.NoError(t, err)
	_, err = engine.WithdrawQuote(context.Background(), vendorB, withdrawn.ID)
	require.NoError(t, err)

	_, err = engine.ShortlistRequest(context.Background(), buyer, req.ID)
	require.NoError(t, err)

	deal, err := engine.AwardRequest(context.Background(), buyer, req.ID, winner.ID)
	require.NoError(t, err)
	require.Equal(t, models.DealStatusNegotiation, deal.Status)
	require.Equal(t, buyer.OrgID, deal.BuyerOrgID)
	require.Equal(t, vendorA.OrgID, deal.VendorOrgID)
	require.NotNil(t, deal.WinningQuoteID)
	require.Equal(t, winner.ID, *deal.WinningQuoteID)
	require.Len(t, store.deals, 1)

	require.Equal(t, models.RequestStatusAwarded, store.requests[req.ID].Status)
	require.Equal(t, models.QuoteStatusAccepted, store.quotes[winner.ID].Status)
	require.Equal(t, models.QuoteStatusRejected, store.quotes[loser.ID].Status)
	require.Equal(t, models.QuoteStatusRejected, store.quotes[withdrawn.ID].Status)

	require.Equal(t, 1, store.countAudit("request.award"))
	last := store.audit[len(store.audit)-1]
	require.Equal(t, winner.ID.String(), last.Payload["winning_quote_id"])
}

func TestAwardRejectsForeignQuote(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()
	req := createDraft(t, engine, buyer)
	other := createDraft(t, engine, buyer)
	for _, r := range []*models.Request{req, other} {
		_, err := engine.PublishRequest(context.Background(), buyer, r.ID, "")
		require.NoError(t, err)
	}
	strayQuote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID: other.ID, AmountCents: 10_000, TimelineDays: 3,
	})
	require.NoError(t, err)
	_, err = engine.ShortlistRequest(context.Background(), buyer, req.ID)
	require.NoError(t, err)

	_, err = engine.AwardRequest(context.Background(), buyer, req.ID, strayQuote.ID)
	requireAppError(t, err, 404, "Not Found")
}

func TestAwardRequiresShortlist(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	req := createDraft(t, engine, buyer)
	_, err := engine.AwardRequest(context.Background(), buyer, req.ID, uuid.New())
	requireAppError(t, err, 400, "Invalid State")
}

func awardedDeal(t *testing.T, engine *workflow.Engine, buyer, vendor permission.Actor) (*models.Deal, *models.Quote) {
	t.Helper()
	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "")
	require.NoError(t, err)
	quote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID: req.ID, AmountCents: 120_000, TimelineDays: 20,
	})
	require.NoError(t, err)
	_, err = engine.ShortlistRequest(context.Background(), buyer, req.ID)
	require.NoError(t, err)
	deal, err := engine.AwardRequest(context.Background(), buyer, req.ID, quote.ID)
	require.NoError(t, err)
	return deal, quote
}

func TestCreateInvoiceSnapshotsWinningAmount(t *testing.T) {
	engine, store, _ := newTestEngine()
	buyer := buyerActor()
	deal, quote := awardedDeal(t, engine, buyer, vendorActor())

	invoice, err := engine.CreateInvoice(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	require.Equal(t, quote.AmountCents, invoice.AmountCents)
	require.Equal(t, models.InvoiceStatusDraft, invoice.Status)
	require.NotNil(t, invoice.IssuedAt)
	require.Equal(t, models.DealStatusInvoiced, store.deals[deal.ID].Status)
}

func TestCreateInvoiceIsIdempotent(t *testing.T) {
	engine, store, _ := newTestEngine()
	buyer := buyerActor()
	deal, _ := awardedDeal(t, engine, buyer, vendorActor())

	first, err := engine.CreateInvoice(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	second, err := engine.CreateInvoice(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Len(t, store.invoices, 1)
	require.Equal(t, 1, store.countAudit("deal.create_invoice"))
}

func TestMarkDealPaidRequiresInvoice(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	deal, _ := awardedDeal(t, engine, buyer, vendorActor())

	_, err := engine.MarkDealPaid(context.Background(), buyer, deal.ID)
	requireAppError(t, err, 400, "Invalid State")
}

func TestMarkDealPaid(t *testing.T) {
	engine, store, _ := newTestEngine()
	buyer := buyerActor()
	deal, _ := awardedDeal(t, engine, buyer, vendorActor())

	invoice, err := engine.CreateInvoice(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	paid, err := engine.MarkDealPaid(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	require.Equal(t, models.DealStatusPaid, paid.Status)

	stored := store.invoices[invoice.ID]
	require.Equal(t, models.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)
}

func TestDealCrossTenantIsNotFound(t *testing.T) {
	engine, _, _ := newTestEngine()
	buyer := buyerActor()
	deal, _ := awardedDeal(t, engine, buyer, vendorActor())

	stranger := buyerActor()
	_, err := engine.CreateInvoice(context.Background(), stranger, deal.ID)
	requireAppError(t, err, 404, "Not Found")
}

func TestCreateMessageEitherSide(t *testing.T) {
	engine, store, _ := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()
	deal, _ := awardedDeal(t, engine, buyer, vendor)

	_, err := engine.CreateMessage(context.Background(), buyer, deal.ID, "When can you start?")
	require.NoError(t, err)
	_, err = engine.CreateMessage(context.Background(), vendor, deal.ID, "Monday.")
	require.NoError(t, err)
	require.Len(t, store.messages, 2)

	outsider := vendorActor()
	_, err = engine.CreateMessage(context.Background(), outsider, deal.ID, "let me in")
	requireAppError(t, err, 404, "Not Found")
}

func TestCreateInviteWritesNotification(t *testing.T) {
	engine, store, _ := newTestEngine()
	owner := permission.Actor{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleOrgOwner}

	invite, err := engine.CreateInvite(context.Background(), owner, "new.hire@acme.test", models.RoleBuyer)
	require.NoError(t, err)
	require.Equal(t, models.InviteStatusPending, invite.Status)
	require.Len(t, store.notifications, 1)
	require.Equal(t, "invite", store.notifications[0].Type)
	require.Equal(t, 1, store.countAudit("invite.create"))

	accepted, err := engine.AcceptInvite(context.Background(), owner, invite.ID)
	require.NoError(t, err)
	require.Equal(t, models.InviteStatusAccepted, accepted.Status)
}

func TestCreateInviteForbiddenForBuyer(t *testing.T) {
	engine, _, _ := newTestEngine()
	_, err := engine.CreateInvite(context.Background(), buyerActor(), "x@y.test", models.RoleViewer)
	requireAppError(t, err, 403, "Forbidden")
}

func TestEmitJobNotification(t *testing.T) {
	engine, store, _ := newTestEngine()
	viewer := permission.Actor{UserID: uuid.New(), OrgID: uuid.New(), Role: models.RoleViewer}

	note, err := engine.EmitJobNotification(context.Background(), viewer, "lint", false, "req-123")
	require.NoError(t, err)
	require.Equal(t, "job", note.Type)
	require.Equal(t, false, note.Payload["success"])
	require.Equal(t, 1, store.countAudit("notification.emit_job"))
}

// Full walk from draft to paid, asserting the audit trail records every
// transition in order.
func TestFullLifecycleAuditTrail(t *testing.T) {
	engine, store, queue := newTestEngine()
	buyer := buyerActor()
	vendor := vendorActor()

	req := createDraft(t, engine, buyer)
	_, err := engine.PublishRequest(context.Background(), buyer, req.ID, "pub-1")
	require.NoError(t, err)
	quote, err := engine.CreateQuote(context.Background(), vendor, workflow.CreateQuoteInput{
		RequestID: req.ID, AmountCents: 80_000, TimelineDays: 12,
	})
	require.NoError(t, err)
	_, err = engine.ShortlistRequest(context.Background(), buyer, req.ID)
	require.NoError(t, err)
	deal, err := engine.AwardRequest(context.Background(), buyer, req.ID, quote.ID)
	require.NoError(t, err)
	_, err = engine.CreateMessage(context.Background(), vendor, deal.ID, "Starting now.")
	require.NoError(t, err)
	_, err = engine.CreateInvoice(context.Background(), buyer, deal.ID)
	require.NoError(t, err)
	_, err = engine.MarkDealPaid(context.Background(), buyer, deal.ID)
	require.NoError(t, err)

	require.Equal(t, []string{
		"request.create",
		"request.publish",
		"quote.create",
		"request.shortlist",
		"request.award",
		"message.create",
		"deal.create_invoice",
		"deal.mark_paid",
	}, store.auditActions())
	require.Len(t, queue.published, 1)
}
