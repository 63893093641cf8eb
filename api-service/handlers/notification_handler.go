package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/query"
)

type EmitJobPayload struct {
	Kind      string `json:"kind"`
	Success   *bool  `json:"success"`
	RequestID string `json:"request_id"`
}

// ListNotifications lists the caller's notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Param unread_only query bool false "Only unread notifications"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	params := query.ParsePageParams(c)

	dbQuery := h.db.Model(&models.Notification{}).Where("user_id = ?", actor.UserID)
	if c.Query("unread_only") == "true" {
		dbQuery = dbQuery.Where("read_at IS NULL")
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	var notifications []models.Notification
	if err := query.ApplyPagination(dbQuery.Order("created_at desc"), params).Find(&notifications).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	ok(c, gin.H{
		"items":      notifications,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// MarkNotificationRead stamps a notification as read
// @Summary Mark a notification read
// @Tags notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Notification
// @Failure 404 {object} apperror.Error "Notification not found"
// @Router /notifications/{id}/read [post]
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid notification ID format"))
		return
	}

	var note models.Notification
	if err := h.db.First(&note, "id = ?", id).Error; err != nil || note.UserID != actor.UserID {
		apperror.Render(c, apperror.NotFound("Notification not found"))
		return
	}

	now := time.Now().UTC()
	note.ReadAt = &now
	if err := h.db.Save(&note).Error; err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, note)
}

// EmitJobNotification records a job-completion notification
// @Summary Emit a job notification
// @Tags notifications
// @Accept json
// @Produce json
// @Param payload body EmitJobPayload true "Job outcome"
// @Security BearerAuth
// @Success 200 {object} models.Notification
// @Router /notifications/emit-job [post]
func (h *Handler) EmitJobNotification(c *gin.Context) {
	var payload EmitJobPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}
	kind := payload.Kind
	if kind == "" {
		kind = "lint"
	}
	success := true
	if payload.Success != nil {
		success = *payload.Success
	}

	note, err := h.engine.EmitJobNotification(c.Request.Context(), middleware.ActorFrom(c), kind, success, payload.RequestID)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, note)
}
