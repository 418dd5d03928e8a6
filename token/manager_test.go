package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/jrsteele09/post-scheduler/token"
	"github.com/stretchr/testify/require"
)

const (
	secretStr     = "1234"
	testUserID    = "user-1"
	testUserEmail = "john.doe@example.com"
)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newTestManager(t *testing.T) (*token.Manager, *clock) {
	t.Helper()
	c := &clock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}
	return token.New(token.NewHMACSigner(secretStr), token.WithNowFunc(c.Now)), c
}

func TestManager_IssueAndVerify(t *testing.T) {
	m, c := newTestManager(t)
	issuedAt := c.now

	raw, err := m.Issue(testUserID, testUserEmail)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(raw, "."))

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, testUserID, claims.UserID())
	require.Equal(t, testUserEmail, claims.Email)
	require.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	require.Equal(t, issuedAt.Add(7*24*time.Hour).Unix(), claims.ExpiresAt.Unix())
}

func TestManager_Expiry(t *testing.T) {
	m, c := newTestManager(t)
	issuedAt := c.now

	raw, err := m.Issue(testUserID, testUserEmail)
	require.NoError(t, err)

	t.Run("accepted one second later", func(t *testing.T) {
		c.now = issuedAt.Add(time.Second)
		_, err := m.Verify(raw)
		require.NoError(t, err)
	})

	t.Run("accepted just before seven days", func(t *testing.T) {
		c.now = issuedAt.Add(7*24*time.Hour - time.Second)
		_, err := m.Verify(raw)
		require.NoError(t, err)
	})

	t.Run("rejected seven days and one second later", func(t *testing.T) {
		c.now = issuedAt.Add(7*24*time.Hour + time.Second)
		_, err := m.Verify(raw)
		require.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})
}

func TestManager_VerifyRejects(t *testing.T) {
	m, c := newTestManager(t)
	valid, err := m.Issue(testUserID, testUserEmail)
	require.NoError(t, err)

	otherSigner, err := token.New(token.NewHMACSigner("other-secret"), token.WithNowFunc(c.Now)).Issue(testUserID, testUserEmail)
	require.NoError(t, err)

	parts := strings.Split(valid, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":   testUserID,
		"email": testUserEmail,
		"exp":   c.now.Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noExpiry, err := token.NewHMACSigner(secretStr).Sign(jwt.MapClaims{"sub": testUserID, "email": testUserEmail})
	require.NoError(t, err)

	noSubject, err := token.NewHMACSigner(secretStr).Sign(jwt.MapClaims{"email": testUserEmail, "exp": c.now.Add(time.Hour).Unix()})
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "garbage", raw: "not-a-token"},
		{name: "three garbage segments", raw: "a.b.c"},
		{name: "wrong secret", raw: otherSigner},
		{name: "tampered signature", raw: tampered},
		{name: "alg none", raw: unsigned},
		{name: "missing exp", raw: noExpiry},
		{name: "missing sub", raw: noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := m.Verify(tt.raw)
			require.Nil(t, claims)
			require.ErrorIs(t, err, apperrors.ErrInvalidToken)
		})
	}
}

func TestManager_TokensCoexist(t *testing.T) {
	m, c := newTestManager(t)

	first, err := m.Issue(testUserID, testUserEmail)
	require.NoError(t, err)
	c.now = c.now.Add(time.Minute)
	second, err := m.Issue(testUserID, testUserEmail)
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	_, err = m.Verify(first)
	require.NoError(t, err)
	_, err = m.Verify(second)
	require.NoError(t, err)
}

func TestHMACSigner_EmptySecret(t *testing.T) {
	_, err := token.NewHMACSigner("").Sign(jwt.MapClaims{"sub": "x"})
	require.ErrorIs(t, err, token.ErrNoSecret)

	signed, err := token.NewHMACSigner(secretStr).Sign(jwt.MapClaims{"sub": "x", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	_, err = token.New(token.NewHMACSigner("")).Verify(signed)
	require.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestManager_DefaultExpiry(t *testing.T) {
	m := token.New(token.NewHMACSigner(secretStr))
	require.Equal(t, token.DefaultExpiry, m.Expiry())
	m = token.New(token.NewHMACSigner(secretStr), token.WithExpiry(time.Hour))
	require.Equal(t, time.Hour, m.Expiry())
}
