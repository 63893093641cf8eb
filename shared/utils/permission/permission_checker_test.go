package permission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
)

func actorWithRole(role models.Role) Actor {
	return Actor{UserID: uuid.New(), OrgID: uuid.New(), Role: role}
}

func TestRequireRole(t *testing.T) {
	cases := []struct {
		name    string
		role    models.Role
		action  Action
		allowed bool
	}{
		{"buyer publishes request", models.RoleBuyer, ActionRequestPublish, true},
		{"vendor cannot publish request", models.RoleVendor, ActionRequestPublish, false},
		{"vendor submits quote", models.RoleVendor, ActionQuoteCreate, true},
		{"buyer cannot submit quote", models.RoleBuyer, ActionQuoteCreate, false},
		{"viewer cannot award", models.RoleViewer, ActionRequestAward, false},
		{"org owner does everything buyer side", models.RoleOrgOwner, ActionDealMarkPaid, true},
		{"org owner does everything vendor side", models.RoleOrgOwner, ActionQuoteWithdraw, true},
		{"viewer can message", models.RoleViewer, ActionMessageCreate, true},
		{"admin invites", models.RoleAdmin, ActionInviteCreate, true},
		{"buyer cannot invite", models.RoleBuyer, ActionInviteCreate, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := RequireRole(actorWithRole(tc.role), tc.action)
			if tc.allowed {
				require.NoError(t, err)
			} else {
				var appErr *apperror.Error
				require.ErrorAs(t, err, &appErr)
				require.Equal(t, 403, appErr.Status)
			}
		})
	}
}

func TestRequireRoleUnknownAction(t *testing.T) {
	err := RequireRole(actorWithRole(models.RoleOrgOwner), Action("request.delete"))
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.Status)
}

func TestRequireOwnership(t *testing.T) {
	actor := actorWithRole(models.RoleBuyer)

	require.NoError(t, RequireOwnership(actor, "Request not found", actor.OrgID))

	// Two-sided entities match on either organization.
	other := uuid.New()
	require.NoError(t, RequireOwnership(actor, "Deal not found", other, actor.OrgID))

	err := RequireOwnership(actor, "Request not found", other)
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 404, appErr.Status)
	require.Equal(t, "Request not found", appErr.Detail)
}

func TestAuthorizeChecksRoleFirst(t *testing.T) {
	// Role miss wins over ownership miss so a viewer probing a foreign entity
	// still sees Forbidden for actions it could never take.
	viewer := actorWithRole(models.RoleViewer)
	err := Authorize(viewer, ActionRequestPublish, "Request not found", uuid.New())
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, 403, appErr.Status)
}
