package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "empoweru-test",
	})
}

func TestJWTRoundTrip(t *testing.T) {
	manager := testManager(time.Hour)

	token, jti, err := manager.GenerateAccessToken(42, "user@example.com", "student", 3)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := manager.ValidateToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, jti, claims.ID)
	assert.Equal(t, "empoweru-test", claims.Issuer)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	manager := testManager(-time.Minute)

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "student", 0)
	require.NoError(t, err)

	_, err = manager.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	manager := testManager(time.Hour)
	other := NewJWTManager(JWTConfig{Secret: "other-secret", Expiry: time.Hour})

	token, _, err := manager.GenerateAccessToken(1, "user@example.com", "student", 0)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	manager := testManager(time.Hour)

	refresh, _, err := manager.GenerateRefreshToken(7, "user@example.com", "professor", 1)
	require.NoError(t, err)

	access, _, err := manager.RefreshAccessToken(refresh, 1)
	require.NoError(t, err)

	claims, err := manager.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, "access", claims.TokenType)
	assert.EqualValues(t, 7, claims.UserID)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	manager := testManager(time.Hour)

	access, _, err := manager.GenerateAccessToken(7, "user@example.com", "professor", 1)
	require.NoError(t, err)

	_, _, err = manager.RefreshAccessToken(access, 1)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, VerifyPassword(hash, "correct horse battery"))
	assert.ErrorIs(t, VerifyPassword(hash, "wrong password"), ErrPasswordMismatch)
}

func TestPasswordPolicyBounds(t *testing.T) {
	assert.ErrorIs(t, CheckPasswordPolicy("short"), ErrPasswordTooShort)
	assert.ErrorIs(t, CheckPasswordPolicy(strings.Repeat("a", MaxPasswordLength+1)), ErrPasswordTooLong)
	assert.NoError(t, CheckPasswordPolicy(strings.Repeat("a", MaxPasswordLength)))

	_, err := HashPassword("short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	_, err = HashPassword(strings.Repeat("a", MaxPasswordLength+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}
