package handlers

import (
	"github.com/gin-gonic/gin"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/query"
)

// ListAudit reads the caller organization's audit trail
// @Summary List audit log entries
// @Description Read-only, newest first, scoped to the caller's organization.
// @Tags audit
// @Produce json
// @Param entity query string false "Filter by entity type"
// @Param action query string false "Filter by action name"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /audit [get]
func (h *Handler) ListAudit(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	params := query.ParsePageParams(c)

	dbQuery := h.db.Model(&models.AuditLog{}).Where("org_id = ?", actor.OrgID)
	if entity := c.Query("entity"); entity != "" {
		dbQuery = dbQuery.Where("entity = ?", entity)
	}
	if action := c.Query("action"); action != "" {
		dbQuery = dbQuery.Where("action = ?", action)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	var entries []models.AuditLog
	if err := query.ApplyPagination(dbQuery.Order("created_at desc"), params).Find(&entries).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	ok(c, gin.H{
		"items":      entries,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}
