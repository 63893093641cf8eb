package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/query"
)

// ListDeals lists deals where the caller's organization is either side
// @Summary List deals
// @Tags deals
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /deals [get]
func (h *Handler) ListDeals(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	params := query.ParsePageParams(c)

	dbQuery := h.db.Model(&models.Deal{}).
		Where("buyer_org_id = ? OR vendor_org_id = ?", actor.OrgID, actor.OrgID)
	if status := c.Query("status"); status != "" {
		dbQuery = dbQuery.Where("status = ?", status)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	var deals []models.Deal
	if err := query.ApplyPagination(dbQuery.Order("created_at desc"), params).Find(&deals).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	ok(c, gin.H{
		"items":      deals,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// GetDeal fetches one deal
// @Summary Get deal by ID
// @Tags deals
// @Produce json
// @Param id path string true "Deal ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Deal
// @Failure 404 {object} apperror.Error "Deal not found"
// @Router /deals/{id} [get]
func (h *Handler) GetDeal(c *gin.Context) {
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
	ok(c, deal)
}

// CreateInvoice issues the deal's invoice
// @Summary Create the invoice for a deal
// @Description Snapshots the winning quote amount. Calling again returns the existing invoice without touching the deal.
// @Tags deals
// @Produce json
// @Param id path string true "Deal ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Invoice
// @Failure 404 {object} apperror.Error "Deal not found"
// @Router /deals/{id}/create-invoice [post]
func (h *Handler) CreateInvoice(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid deal ID format"))
		return
	}

	invoice, err := h.engine.CreateInvoice(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, invoice)
}

// MarkDealPaid confirms payment of the deal's invoice
// @Summary Mark a deal paid
// @Tags deals
// @Produce json
// @Param id path string true "Deal ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Deal
// @Failure 400 {object} apperror.Error "Invoice does not exist"
// @Router /deals/{id}/mark-paid [post]
func (h *Handler) MarkDealPaid(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid deal ID format"))
		return
	}

	deal, err := h.engine.MarkDealPaid(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, deal)
}
