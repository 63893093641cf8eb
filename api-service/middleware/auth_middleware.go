package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"b2bak-backend/shared/apperror"
	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/auth"
	"b2bak-backend/shared/utils/permission"
)

const actorKey = "actor"

// Auth resolves the Bearer token into an actor and sets it in the context.
// Everything past this middleware sees an actor, never a token.
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperror.Render(c, apperror.Unauthorized("Authorization header is required"))
			return
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			apperror.Render(c, apperror.Unauthorized("Invalid authorization format. Expected Bearer {token}"))
			return
		}

		claims, err := tokens.Validate(tokenParts[1])
		if err != nil {
			apperror.Render(c, apperror.Unauthorized("Invalid or expired token"))
			return
		}

		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			apperror.Render(c, apperror.Unauthorized("Invalid user ID in token"))
			return
		}
		orgID, err := uuid.Parse(claims.OrganizationID)
		if err != nil {
			apperror.Render(c, apperror.Unauthorized("Invalid organization ID in token"))
			return
		}

		c.Set(actorKey, permission.Actor{
			UserID: userID,
			OrgID:  orgID,
			Role:   models.Role(claims.Role),
		})
		c.Next()
	}
}

// ActorFrom returns the actor resolved by Auth.
func ActorFrom(c *gin.Context) permission.Actor {
	value, _ := c.Get(actorKey)
	actor, _ := value.(permission.Actor)
	return actor
}
