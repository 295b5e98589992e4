package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	v := NewTokenValidator(testSecret)
	userID := uuid.New()

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":  userID.String(),
		"role": "medium",
		"grau": 5,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	claims, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "medium", claims.Role)
	assert.Equal(t, 5, claims.Degree)
}

func TestValidateTokenWrongSecret(t *testing.T) {
	v := NewTokenValidator(testSecret)

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenExpired(t *testing.T) {
	v := NewTokenValidator(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenBadSubject(t *testing.T) {
	v := NewTokenValidator(testSecret)

	token := signToken(t, testSecret, jwt.MapClaims{
		"sub": "not-a-uuid",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := v.ValidateToken(token)
	assert.Error(t, err)
}
