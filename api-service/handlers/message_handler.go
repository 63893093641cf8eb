package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
)

type CreateMessagePayload struct {
	Body string `json:"body" binding:"required"`
}

// ListMessages lists the message thread on a deal
// @Summary List deal messages
// @Tags messages
// @Produce json
// @Param id path string true "Deal ID" format(uuid)
// @Security BearerAuth
// @Success 200 {array} models.Message
// @Failure 404 {object} apperror.Error "Deal not found"
// @Router /deals/{id}/messages [get]
func (h *Handler) ListMessages(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid deal ID format"))
		return
	}

	var deal models.Deal
	if err := h.db.First(&deal, "id = ?", id).Error; err != nil {
		apperror.Render(c, apperror.NotFound("Deal not found"))
		return
	}
	if deal.BuyerOrgID != actor.OrgID && deal.VendorOrgID != actor.OrgID {
		apperror.Render(c, apperror.NotFound("Deal not found"))
		return
	}

	var messages []models.Message
	if err := h.db.Where("deal_id = ?", deal.ID).Order("created_at asc").Find(&messages).Error; err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, messages)
}

// CreateMessage posts to a deal's message thread
// @Summary Post a deal message
// @Tags messages
// @Accept json
// @Produce json
// @Param id path string true "Deal ID" format(uuid)
// @Param payload body CreateMessagePayload true "Message body"
// @Security BearerAuth
// @Success 200 {object} models.Message
// @Failure 404 {object} apperror.Error "Deal not found"
// @Router /deals/{id}/messages [post]
func (h *Handler) CreateMessage(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid deal ID format"))
		return
	}
	var payload CreateMessagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	msg, err := h.engine.CreateMessage(c.Request.Context(), middleware.ActorFrom(c), id, payload.Body)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, msg)
}
