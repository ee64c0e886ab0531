package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cure-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cure-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cure-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "user", testSecret)
	require.NoError(t, err)

	claims, err := ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(42, "user@example.com", "user", testSecret)
	require.NoError(t, err)

	_, err = ValidateToken(token, "other-secret")
	assert.Error(t, err)
}

func TestValidateToken_EmptySecret(t *testing.T) {
	_, err := ValidateToken("whatever", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestGenerateToken_EmptySecret(t *testing.T) {
	_, err := GenerateAccessToken(1, "a@b.c", "user", "")
	assert.ErrorIs(t, err, ErrEmptyJWTSecret)
}

func TestRefreshAccessToken(t *testing.T) {
	refresh, err := GenerateRefreshToken(42, "user@example.com", "admin", testSecret)
	require.NoError(t, err)

	access, claims, err := RefreshAccessToken(refresh, testSecret, testSecret)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)

	newClaims, err := ValidateToken(access, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "access", newClaims.TokenType)
	assert.Equal(t, "admin", newClaims.Role)
}

func TestRefreshAccessToken_RejectsAccessToken(t *testing.T) {
	access, err := GenerateAccessToken(42, "user@example.com", "user", testSecret)
	require.NoError(t, err)

	_, _, err = RefreshAccessToken(access, testSecret, testSecret)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}
