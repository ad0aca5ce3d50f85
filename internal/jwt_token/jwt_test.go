package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "memento/pkg/domain"
	dErrors "memento/pkg/domain-errors"
)

func TestJWTService(t *testing.T) {
	svc := NewJWTService("test-key", "memento", "memento-owner")
	accountID := id.AccountID(uuid.New())

	t.Run("issued token validates", func(t *testing.T) {
		token, err := svc.Issue(accountID, time.Minute)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, accountID.String(), claims.AccountID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := svc.Issue(accountID, -time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.Contains(t, err.Error(), "expired")
	})

	t.Run("foreign signing key is rejected", func(t *testing.T) {
		other := NewJWTService("other-key", "memento", "memento-owner")
		token, err := other.Issue(accountID, time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("wrong audience is rejected", func(t *testing.T) {
		other := NewJWTService("test-key", "memento", "someone-else")
		token, err := other.Issue(accountID, time.Minute)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("subject alone identifies the account", func(t *testing.T) {
		token := signClaims(t, Claims{RegisteredClaims: registered(accountID.String())})

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, accountID.String(), claims.AccountID)
	})

	t.Run("mismatched subject is rejected", func(t *testing.T) {
		token := signClaims(t, Claims{
			AccountID:        accountID.String(),
			RegisteredClaims: registered(uuid.NewString()),
		})

		_, err := svc.ValidateToken(token)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}

func registered(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "memento",
		Audience:  []string{"memento-owner"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
}

func signClaims(t *testing.T, c Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}
