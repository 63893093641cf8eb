package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
)

type CreateInvitePayload struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required,oneof=ORG_OWNER ADMIN BUYER VENDOR VIEWER"`
}

// ListInvites lists the caller organization's invites
// @Summary List invites
// @Tags invites
// @Produce json
// @Param status query string false "Filter by status (PENDING, ACCEPTED)"
// @Security BearerAuth
// @Success 200 {array} models.Invite
// @Router /invites [get]
func (h *Handler) ListInvites(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	dbQuery := h.db.Where("org_id = ?", actor.OrgID)
	if status := c.Query("status"); status != "" {
		dbQuery = dbQuery.Where("status = ?", strings.ToUpper(status))
	}

	var invites []models.Invite
	if err := dbQuery.Order("created_at desc").Find(&invites).Error; err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, invites)
}

// CreateInvite records a pending invite
// @Summary Invite a member
// @Tags invites
// @Accept json
// @Produce json
// @Param payload body CreateInvitePayload true "Invite payload"
// @Security BearerAuth
// @Success 200 {object} models.Invite
// @Failure 403 {object} apperror.Error "Role not permitted"
// @Router /invites [post]
func (h *Handler) CreateInvite(c *gin.Context) {
	var payload CreateInvitePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	invite, err := h.engine.CreateInvite(c.Request.Context(), middleware.ActorFrom(c), email, models.Role(payload.Role))
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, invite)
}

// AcceptInvite marks an invite accepted
// @Summary Accept an invite
// @Tags invites
// @Produce json
// @Param id path string true "Invite ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Invite
// @Failure 404 {object} apperror.Error "Invite not found"
// @Router /invites/{id}/accept [post]
func (h *Handler) AcceptInvite(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid invite ID format"))
		return
	}

	invite, err := h.engine.AcceptInvite(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, invite)
}
