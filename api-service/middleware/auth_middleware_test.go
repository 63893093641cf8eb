package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"b2bak-backend/shared/database/models"
	"b2bak-backend/shared/utils/auth"
	"b2bak-backend/shared/utils/permission"
)

func authRouter(tm *auth.TokenManager, capture *permission.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", Auth(tm), func(c *gin.Context) {
		*capture = ActorFrom(c)
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthResolvesActor(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	user := &models.User{ID: uuid.New(), OrgID: uuid.New(), Email: "buyer@acme.test", Role: models.RoleBuyer}
	token, err := tm.Generate(user)
	require.NoError(t, err)

	var actor permission.Actor
	router := authRouter(tm, &actor)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, user.ID, actor.UserID)
	require.Equal(t, user.OrgID, actor.OrgID)
	require.Equal(t, models.RoleBuyer, actor.Role)
}

func TestAuthRejections(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 1)
	var actor permission.Actor
	router := authRouter(tm, &actor)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc123"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestAuthRejectsTokenFromOtherSecret(t *testing.T) {
	user := &models.User{ID: uuid.New(), OrgID: uuid.New(), Role: models.RoleVendor}
	foreign, err := auth.NewTokenManager("other-secret", 1).Generate(user)
	require.NoError(t, err)

	var actor permission.Actor
	router := authRouter(auth.NewTokenManager("test-secret", 1), &actor)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+foreign)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
