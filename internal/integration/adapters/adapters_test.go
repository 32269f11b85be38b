package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cashsplit/backend/internal/integration/persistence"
	"github.com/cashsplit/backend/internal/testutil"
)

func TestPasswordService(t *testing.T) {
	svc := NewPasswordService(bcrypt.MinCost)

	hash, err := svc.HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NoError(t, svc.VerifyPassword(hash, "s3cretpass"))
	assert.Error(t, svc.VerifyPassword(hash, "wrong"))

	tests := []struct {
		password string
		valid    bool
	}{
		{"abc12345", true},
		{"short1", false},
		{"onlyletters", false},
		{"1234567890", false},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := svc.ValidatePasswordStrength(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestTokenService(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "Alice", "alice@example.com")
	svc := NewTokenService("test-secret", time.Minute, time.Hour, persistence.NewTokenRepository(db))
	ctx := context.Background()

	pair, err := svc.GenerateTokenPair(ctx, user.ID, user.Email)
	require.NoError(t, err)

	claims, err := svc.ValidateAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)

	_, err = svc.ValidateAccessToken(ctx, pair.RefreshToken)
	assert.Error(t, err, "refresh token must not pass as access token")

	_, err = svc.ValidateRefreshToken(ctx, pair.RefreshToken)
	require.NoError(t, err)

	// A second pair in the same second is still distinct.
	second, err := svc.GenerateTokenPair(ctx, user.ID, user.Email)
	require.NoError(t, err)
	assert.NotEqual(t, pair.RefreshToken, second.RefreshToken)

	valid, err := svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, valid)

	require.NoError(t, svc.InvalidateRefreshToken(ctx, pair.RefreshToken))
	valid, err = svc.IsRefreshTokenValid(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.False(t, valid)

	other := NewTokenService("other-secret", time.Minute, time.Hour, persistence.NewTokenRepository(db))
	_, err = other.ValidateAccessToken(ctx, pair.AccessToken)
	assert.Error(t, err)

	_, err = svc.ValidateAccessToken(ctx, uuid.NewString())
	assert.Error(t, err)
}
