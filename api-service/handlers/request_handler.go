package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/query"
	"b2bak-backend/shared/workflow"
)

type CreateRequestPayload struct {
	Title        string   `json:"title" binding:"required,max=255"`
	Description  string   `json:"description"`
	BudgetCents  int64    `json:"budget_cents" binding:"required,gt=0"`
	Currency     string   `json:"currency"`
	DeadlineDate string   `json:"deadline_date" binding:"required"`
	Tags         []string `json:"tags"`
}

type PatchRequestPayload struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	BudgetCents  *int64   `json:"budget_cents"`
	Currency     *string  `json:"currency"`
	DeadlineDate *string  `json:"deadline_date"`
	Tags         []string `json:"tags"`
}

type AwardPayload struct {
	WinningQuoteID uuid.UUID `json:"winning_quote_id" binding:"required"`
}

func parseDeadline(value string) (time.Time, error) {
	deadline, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperror.BadRequest("deadline_date must be YYYY-MM-DD")
	}
	return deadline, nil
}

// visibleStatuses are what vendor/viewer roles may browse on the open
// marketplace. Draft and settled requests stay buyer-private.
var visibleStatuses = []models.RequestStatus{
	models.RequestStatusPublished,
	models.RequestStatusQuoting,
	models.RequestStatusShortlist,
}

// ListRequests lists requests visible to the caller
// @Summary List requests
// @Description Buyers see their organization's requests; vendors and viewers browse open marketplace requests.
// @Tags requests
// @Produce json
// @Param status query string false "Filter by status"
// @Param search query string false "Search in title and description"
// @Param page query int false "Page number (default: 1)"
// @Param page_size query int false "Items per page (default: 20)"
// @Security BearerAuth
// @Success 200 {object} gin.H
// @Router /requests [get]
func (h *Handler) ListRequests(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	params := query.ParsePageParams(c)

	dbQuery := h.db.Model(&models.Request{})
	if actor.Role == models.RoleVendor || actor.Role == models.RoleViewer {
		dbQuery = dbQuery.Where("status IN ?", visibleStatuses)
	} else {
		dbQuery = dbQuery.Where("buyer_org_id = ?", actor.OrgID)
	}
	if status := c.Query("status"); status != "" {
		dbQuery = dbQuery.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		dbQuery = dbQuery.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}

	var total int64
	if err := dbQuery.Count(&total).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	var requests []models.Request
	if err := query.ApplyPagination(dbQuery.Order("created_at desc"), params).Find(&requests).Error; err != nil {
		apperror.Render(c, err)
		return
	}

	ok(c, gin.H{
		"items":      requests,
		"pagination": query.BuildPaginationResponse(params, total),
	})
}

// CreateRequest opens a draft request
// @Summary Create a request
// @Tags requests
// @Accept json
// @Produce json
// @Param payload body CreateRequestPayload true "Request payload"
// @Security BearerAuth
// @Success 200 {object} models.Request
// @Failure 403 {object} apperror.Error "Role not permitted"
// @Router /requests [post]
func (h *Handler) CreateRequest(c *gin.Context) {
	var payload CreateRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}
	deadline, err := parseDeadline(payload.DeadlineDate)
	if err != nil {
		apperror.Render(c, err)
		return
	}

	req, err := h.engine.CreateRequest(c.Request.Context(), middleware.ActorFrom(c), workflow.CreateRequestInput{
		Title:        payload.Title,
		Description:  payload.Description,
		BudgetCents:  payload.BudgetCents,
		Currency:     payload.Currency,
		DeadlineDate: deadline,
		Tags:         payload.Tags,
	})
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, req)
}

// GetRequest fetches one request subject to the visibility rule
// @Summary Get request by ID
// @Tags requests
// @Produce json
// @Param id path string true "Request ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Request
// @Failure 404 {object} apperror.Error "Request not found"
// @Router /requests/{id} [get]
func (h *Handler) GetRequest(c *gin.Context) {
	actor := middleware.ActorFrom(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
		return
	}

	var req models.Request
	if err := h.db.First(&req, "id = ?", id).Error; err != nil {
		apperror.Render(c, apperror.NotFound("Request not found"))
		return
	}
	if req.BuyerOrgID == actor.OrgID {
		ok(c, req)
		return
	}
	if (actor.Role == models.RoleVendor || actor.Role == models.RoleViewer) && req.Status.OpenForQuoting() {
		ok(c, req)
		return
	}
	apperror.Render(c, apperror.NotFound("Request not found"))
}

// PatchRequest edits a draft request
// @Summary Update a draft request
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID" format(uuid)
// @Param payload body PatchRequestPayload true "Fields to update"
// @Security BearerAuth
// @Success 200 {object} models.Request
// @Failure 400 {object} apperror.Error "Not editable in current state"
// @Router /requests/{id} [patch]
func (h *Handler) PatchRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
		return
	}
	var payload PatchRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	patch := workflow.RequestPatch{
		Title:       payload.Title,
		Description: payload.Description,
		BudgetCents: payload.BudgetCents,
		Currency:    payload.Currency,
		Tags:        payload.Tags,
	}
	if payload.DeadlineDate != nil {
		deadline, err := parseDeadline(*payload.DeadlineDate)
		if err != nil {
			apperror.Render(c, err)
			return
		}
		patch.DeadlineDate = &deadline
	}

	req, err := h.engine.PatchRequest(c.Request.Context(), middleware.ActorFrom(c), id, patch)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, req)
}

// PublishRequest opens a draft request for quoting
// @Summary Publish a request
// @Description Moves a draft request into quoting and enqueues the marketplace fan-out job. Supply an Idempotency-Key header to make retries safe.
// @Tags requests
// @Produce json
// @Param id path string true "Request ID" format(uuid)
// @Param Idempotency-Key header string false "Replay protection key"
// @Security BearerAuth
// @Success 200 {object} models.Request
// @Failure 400 {object} apperror.Error "Not publishable in current state"
// @Router /requests/{id}/publish [post]
func (h *Handler) PublishRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
		return
	}

	req, err := h.engine.PublishRequest(c.Request.Context(), middleware.ActorFrom(c), id, c.GetHeader("Idempotency-Key"))
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, req)
}

// ShortlistRequest moves a quoting request to shortlisting
// @Summary Shortlist a request
// @Tags requests
// @Produce json
// @Param id path string true "Request ID" format(uuid)
// @Security BearerAuth
// @Success 200 {object} models.Request
// @Failure 400 {object} apperror.Error "Only quoting requests can be shortlisted"
// @Router /requests/{id}/shortlist [post]
func (h *Handler) ShortlistRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
		return
	}

	req, err := h.engine.ShortlistRequest(c.Request.Context(), middleware.ActorFrom(c), id)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, req)
}

// AwardRequest picks the winning quote and opens a deal
// @Summary Award a request
// @Description Accepts the winning quote, rejects all other quotes, closes the request and creates the deal.
// @Tags requests
// @Accept json
// @Produce json
// @Param id path string true "Request ID" format(uuid)
// @Param payload body AwardPayload true "Winning quote"
// @Security BearerAuth
// @Success 200 {object} gin.H "deal_id"
// @Failure 400 {object} apperror.Error "Only shortlisted requests can be awarded"
// @Router /requests/{id}/award [post]
func (h *Handler) AwardRequest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apperror.Render(c, apperror.BadRequest("Invalid request ID format"))
		return
	}
	var payload AwardPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	deal, err := h.engine.AwardRequest(c.Request.Context(), middleware.ActorFrom(c), id, payload.WinningQuoteID)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, gin.H{"deal_id": deal.ID})
}
