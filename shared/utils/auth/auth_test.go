package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"b2bak-backend/shared/database/models"
)

func testUser() *models.User {
	return &models.User{
		ID:    uuid.New(),
		OrgID: uuid.New(),
		Email: "buyer@acme.test",
		Role:  models.RoleBuyer,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)
	user := testUser()

	token, err := tm.Generate(user)
	require.NoError(t, err)

	claims, err := tm.Validate(token)
	require.NoError(t, err)
	require.Equal(t, user.ID.String(), claims.UserID)
	require.Equal(t, user.OrgID.String(), claims.OrganizationID)
	require.Equal(t, string(models.RoleBuyer), claims.Role)

	parsed, err := claims.ParsedUserID()
	require.NoError(t, err)
	require.Equal(t, user.ID, parsed)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", 1).Generate(testUser())
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 1).Validate(token)
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	tm.expire = -time.Hour

	token, err := tm.Generate(testUser())
	require.NoError(t, err)

	_, err = tm.Validate(token)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	require.NotEqual(t, "password123", hash)

	require.True(t, CheckPassword("password123", hash))
	require.False(t, CheckPassword("wrong", hash))
}
