package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, userID int64, expiresIn time.Duration) string {
	t.Helper()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestValidateToken(t *testing.T) {
	token := signToken(t, "secret", 7, time.Minute)

	claims, err := ValidateToken(token, "secret")
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "secret", 7, time.Minute)

	_, err := ValidateToken(token, "other-secret")
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	token := signToken(t, "secret", 7, -time.Minute)

	_, err := ValidateToken(token, "secret")
	require.Error(t, err)
}

func TestSessionBoundaries(t *testing.T) {
	s := NewSession()

	_, ok := s.CurrentToken()
	require.False(t, ok)
	_, ok = s.CurrentUser()
	require.False(t, ok)

	s.Set(User{ID: 7}, "tok-1")
	token, ok := s.CurrentToken()
	require.True(t, ok)
	require.Equal(t, "tok-1", token)

	// A new login replaces the token; nothing may keep serving the old one.
	s.Set(User{ID: 7}, "tok-2")
	token, _ = s.CurrentToken()
	require.Equal(t, "tok-2", token)

	s.Clear()
	_, ok = s.CurrentToken()
	require.False(t, ok)
}
