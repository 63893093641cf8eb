package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"b2bak-backend/api-service/middleware"
	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/auth"
)

type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	OrgName  string `json:"org_name" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=ORG_OWNER ADMIN BUYER VENDOR VIEWER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates an organization and its first user
// @Summary Register a new organization and user
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body RegisterRequest true "Registration payload"
// @Success 200 {object} AuthResponse
// @Failure 409 {object} apperror.Error "Email already registered"
// @Router /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))

	var existing models.User
	err := h.db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		apperror.Render(c, apperror.Conflict("User with this email already exists"))
		return
	}
	if err != gorm.ErrRecordNotFound {
		apperror.Render(c, err)
		return
	}

	hash, err := auth.HashPassword(payload.Password)
	if err != nil {
		apperror.Render(c, err)
		return
	}

	var user models.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		org := models.Organization{Name: payload.OrgName}
		if err := tx.Create(&org).Error; err != nil {
			return err
		}
		user = models.User{
			OrgID:        org.ID,
			Email:        email,
			PasswordHash: hash,
			Role:         models.Role(payload.Role),
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		apperror.Render(c, err)
		return
	}

	token, err := h.tokens.Generate(&user)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, AuthResponse{Token: token, User: user})
}

// Login authenticates a user
// @Summary Log in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body LoginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} apperror.Error "Invalid credentials"
// @Router /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		apperror.Render(c, apperror.BadRequest(err.Error()))
		return
	}

	var user models.User
	err := h.db.Where("email = ?", strings.ToLower(payload.Email)).First(&user).Error
	if err != nil || !auth.CheckPassword(payload.Password, user.PasswordHash) {
		apperror.Render(c, apperror.Unauthorized("Invalid credentials"))
		return
	}

	token, err := h.tokens.Generate(&user)
	if err != nil {
		apperror.Render(c, err)
		return
	}
	ok(c, AuthResponse{Token: token, User: user})
}

// Me returns the authenticated user
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	actor := middleware.ActorFrom(c)

	var user models.User
	if err := h.db.Preload("Organization").First(&user, "id = ?", actor.UserID).Error; err != nil {
		apperror.Render(c, apperror.Unauthorized("User does not exist"))
		return
	}
	ok(c, user)
}
