package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService("test-secret", 15, 7)
}

func TestJWTService_GenerateAndVerify(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.Generate(42, "sess_abc")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	claims, err := svc.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.AccountID)
	assert.Equal(t, "sess_abc", claims.SessionID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)

	refreshClaims, err := svc.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.TokenType)
}

func TestJWTService_Verify_RejectsBadTokens(t *testing.T) {
	svc := newTestJWTService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.Error(t, err)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		other := NewJWTService("other-secret", 15, 7)
		pair, err := other.Generate(42, "sess_abc")
		require.NoError(t, err)

		_, err = svc.Verify(pair.AccessToken)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := &Claims{
			AccountID: 42,
			SessionID: "sess_abc",
			TokenType: TokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = svc.Verify(signed)
		assert.Error(t, err)
	})
}

func TestJWTService_Refresh(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.Generate(42, "sess_abc")
	require.NoError(t, err)

	t.Run("refresh token rotates the pair", func(t *testing.T) {
		rotated, err := svc.Refresh(pair.RefreshToken)
		require.NoError(t, err)

		claims, err := svc.Verify(rotated.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AccountID)
		assert.Equal(t, "sess_abc", claims.SessionID)
	})

	t.Run("access token cannot be used to refresh", func(t *testing.T) {
		_, err := svc.Refresh(pair.AccessToken)
		assert.Error(t, err)
	})
}
