package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewSessionService(t *testing.T) {
	t.Run("requires secret", func(t *testing.T) {
		_, err := NewSessionService("", time.Hour, "sellerbridge")
		assert.Error(t, err)
	})

	t.Run("defaults ttl and issuer", func(t *testing.T) {
		svc, err := NewSessionService(testSecret, 0, "")
		require.NoError(t, err)
		assert.Equal(t, 12*time.Hour, svc.ttl)
		assert.Equal(t, "sellerbridge", svc.issuer)
	})
}

func TestSessionIssueAndVerify(t *testing.T) {
	svc, err := NewSessionService(testSecret, time.Hour, "sellerbridge")
	require.NoError(t, err)

	token, expiresAt, err := svc.Issue("123456", "TESTSELLER")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "123456", claims.SellerID)
	assert.Equal(t, "TESTSELLER", claims.Nickname)
	assert.Equal(t, "123456", claims.Subject)
	assert.NotEmpty(t, claims.ID, "each session gets a unique token id")
}

func TestSessionVerifyRejectsTampering(t *testing.T) {
	svc, err := NewSessionService(testSecret, time.Hour, "sellerbridge")
	require.NoError(t, err)

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other, err := NewSessionService("ffffffffffffffffffffffffffffffff", time.Hour, "sellerbridge")
		require.NoError(t, err)

		token, _, err := other.Issue("123456", "TESTSELLER")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other, err := NewSessionService(testSecret, time.Hour, "someone-else")
		require.NoError(t, err)

		token, _, err := other.Issue("123456", "TESTSELLER")
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unsigned algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, SessionClaims{SellerID: "123456"})
		token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestSessionVerifyExpired(t *testing.T) {
	svc, err := NewSessionService(testSecret, time.Millisecond, "sellerbridge")
	require.NoError(t, err)

	token, _, err := svc.Issue("123456", "TESTSELLER")
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
