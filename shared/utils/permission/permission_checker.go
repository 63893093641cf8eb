// Package permission decides whether an actor may trigger a workflow action.
// Two independent checks compose: role membership against a static
// action→roles table, and tenant ownership against the entity's owning
// organization(s). A role miss is Forbidden; an ownership miss is NotFound so
// that cross-tenant probes cannot confirm an entity exists.
package permission

import (
	"github.com/google/uuid"

	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
)

// Actor is the authenticated caller as resolved by the auth middleware.
type Actor struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   models.Role
}

// Action names double as audit log action names.
type Action string

const (
	ActionRequestCreate    Action = "request.create"
	ActionRequestUpdate    Action = "request.update"
	ActionRequestPublish   Action = "request.publish"
	ActionRequestShortlist Action = "request.shortlist"
	ActionRequestAward     Action = "request.award"

	ActionQuoteCreate   Action = "quote.create"
	ActionQuoteUpdate   Action = "quote.update"
	ActionQuoteWithdraw Action = "quote.withdraw"

	ActionDealCreateInvoice Action = "deal.create_invoice"
	ActionDealMarkPaid      Action = "deal.mark_paid"

	ActionMessageCreate Action = "message.create"
	ActionInviteCreate  Action = "invite.create"

	ActionNotificationEmitJob Action = "notification.emit_job"
)

var (
	buyerSide  = []models.Role{models.RoleOrgOwner, models.RoleAdmin, models.RoleBuyer}
	vendorSide = []models.Role{models.RoleOrgOwner, models.RoleAdmin, models.RoleVendor}
	anyRole    = []models.Role{models.RoleOrgOwner, models.RoleAdmin, models.RoleBuyer, models.RoleVendor, models.RoleViewer}
)

// allowedRoles is the static gate table: one entry per mutating action.
var allowedRoles = map[Action][]models.Role{
	ActionRequestCreate:    buyerSide,
	ActionRequestUpdate:    buyerSide,
	ActionRequestPublish:   buyerSide,
	ActionRequestShortlist: buyerSide,
	ActionRequestAward:     buyerSide,

	ActionQuoteCreate:   vendorSide,
	ActionQuoteUpdate:   vendorSide,
	ActionQuoteWithdraw: vendorSide,

	ActionDealCreateInvoice: buyerSide,
	ActionDealMarkPaid:      buyerSide,

	ActionMessageCreate: anyRole,
	ActionInviteCreate:  {models.RoleOrgOwner, models.RoleAdmin},

	ActionNotificationEmitJob: anyRole,
}

// RequireRole checks the actor's role against the action's allowed set.
func RequireRole(actor Actor, action Action) error {
	roles, ok := allowedRoles[action]
	if !ok {
		return apperror.Forbidden("Unknown action")
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return apperror.Forbidden("Insufficient role")
}

// RequireOwnership checks that the actor's organization owns the entity. For
// two-sided entities (deals, deal messages) pass both owning organizations;
// matching either side satisfies the check. The denial is NotFound on
// purpose, never Forbidden.
func RequireOwnership(actor Actor, notFoundDetail string, ownerOrgIDs ...uuid.UUID) error {
	for _, orgID := range ownerOrgIDs {
		if actor.OrgID == orgID {
			return nil
		}
	}
	return apperror.NotFound(notFoundDetail)
}

// Authorize composes the role and ownership checks in that order.
func Authorize(actor Actor, action Action, notFoundDetail string, ownerOrgIDs ...uuid.UUID) error {
	if err := RequireRole(actor, action); err != nil {
		return err
	}
	return RequireOwnership(actor, notFoundDetail, ownerOrgIDs...)
}
