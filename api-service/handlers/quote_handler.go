package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/query"
	"b2bak-backend/shared/workflow"
)

type CreateQuotePayload struct {
	RequestID    uuid.UUID `json:"request_id" binding:"required"`
	AmountCents  int64     `json:"amount_cents" binding:"required,gt=0"`
	TimelineDays int       `json:"timeline_days" binding:"required,gt=0"`
	Terms        string    `json:"terms"`
}

type PatchQuotePayload struct {
	AmountCents  *int64  `json:"amount_cents"`
	TimelineDays *int    `json:"timeline_days"`
	Terms        *string `json:"terms"`
}

// ListQuotes lists quotes for the caller
// @Summary List quotes
// @Description Defaults to quotes submitted by the caller's vendor organization. A buyer-side caller supplying a request_id they own sees every quote on that request.
// @Tags quotes
// @Produce json
// @Param request_id query string false "Request ID" format(uuid)
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /quotes [get]
func (h *Handler) ListQuotes(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	params := query.ParsePageParams(c)

	var requestID *uuid.UUID
	if raw := c.Query("request_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
			return
		}
		requestID = &parsed
	}

	dbQuery := h.db.Model(&models.Quote{})
	if requestID != nil && actor.Role.IsBuyerSide() {
		var req models.Request
		if err := h.db.First(&req, "id = ?", *requestID).Error; err != nil || req.BuyerOrgID != actor.OrgID {
			apperror.Render(c, apperror.NotFound("Request not found"))
			return
		}
		dbQuery = dbQuery.Where("request_id = ?", *requestID)
	} else {
		dbQuery = dbQuery.Where("vendor_org_id = ?", actor.OrgID)
		if requestID != nil {
			dbQuery = dbQuery.Where("request_id = ?", *requestID)
		}
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	var quotes []models.Quote
	if err := query.ApplyPagination(dbQuery.Order("created_at desc"), params).Find(&quotes).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	ok(c, gin.H{
		"items":      quotes,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// CreateQuote submits a quote against an open request
// @Summary Submit a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param payload body CreateQuotePayload true "Quote payload"
// @Security BearerAuth
// @Success 200 {object} models.Quote
// @Failure 400 {object} apperror.Error "Request not open for quoting"
// @Router /quotes [post]
func (h *Handler) CreateQuote(c *gin.Context) {
	var payload CreateQuotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	quote, err := h.engine.CreateQuote(c.Request.Context(), middleware.ActorFrom(c), workflow.CreateQuoteInput{
		RequestID:    payload.RequestID,
		AmountCents:  payload.AmountCents,
		TimelineDays: payload.TimelineDays,
		Terms:        payload.Terms,
	})
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, quote)
}

// PatchQuote revises a live quote
// @Summary Update a quote
// @Tags quotes
// @Accept json
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Param payload body PatchQuotePayload true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Quote
// @Failure 400 {object} apperror.Error "Quote cannot be updated"
// @Router /quotes/{id} [patch]
func (h *Handler) PatchQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid quote ID format"))
		return
	}
	var payload PatchQuotePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	quote, err := h.engine.PatchQuote(c.Request.Context(), middleware.ActorFrom(c), id, workflow.QuotePatch{
		AmountCents:  payload.AmountCents,
		TimelineDays: payload.TimelineDays,
		Terms:        payload.Terms,
	})
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, quote)
}

// WithdrawQuote pulls a quote out of contention
// @Summary Withdraw a quote
// @Tags quotes
// @Produce json
// @Param id path string true "Quote ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Quote
// @Failure 400 {object} apperror.Error "Quote cannot be withdrawn"
// @Router /quotes/{id}/withdraw [post]
func (h *Handler) WithdrawQuote(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid quote ID format"))
		return
	}

	quote, err := h.engine.WithdrawQuote(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, quote)
}
