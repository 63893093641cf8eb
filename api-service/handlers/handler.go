package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"b2bak-backend/shared/config"
	"b2bak-backend/shared/utils/auth"
	"b2bak-backend/shared/workflow"
)

// Handler bundles the dependencies shared by all endpoint handlers. Writes
// go through the workflow engine; org-scoped reads query the database
// directly.
type Handler struct {
	db     *gorm.DB
	engine *workflow.Engine
	tokens *auth.TokenManager
	cfg    *config.Config
}

func New(db *gorm.DB, engine *workflow.Engine, tokens *auth.TokenManager, cfg *config.Config) *Handler {
	return &Handler{db: db, engine: engine, tokens: tokens, cfg: cfg}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// Health returns service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} gin.H
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "api",
	})
}
