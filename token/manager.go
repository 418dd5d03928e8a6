package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/pkg/errors"
)

// DefaultExpiry is how long a session token stays valid after issue.
const DefaultExpiry = 7 * 24 * time.Hour

// Manager issues and verifies stateless session tokens. Nothing is stored
// server side, so a token stays valid until it expires.
type Manager struct {
	signer  Signer
	expiry  time.Duration
	nowFunc func() time.Time
}

type ManagerOption func(*Manager)

func WithExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.expiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

func New(signer Signer, options ...ManagerOption) *Manager {
	m := &Manager{
		signer: signer,
	}

	for _, opt := range options {
		opt(m)
	}

	if m.expiry <= 0 {
		m.expiry = DefaultExpiry
	}
	if m.nowFunc == nil {
		m.nowFunc = time.Now
	}
	return m
}

// Issue mints a token for the user with sub, email, iat and exp claims.
func (m *Manager) Issue(userID, email string) (string, error) {
	now := m.nowFunc()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "Manager.Issue")
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the embedded
// claims unmodified. Every failure is reported as errors.ErrInvalidToken.
func (m *Manager) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.ErrInvalidToken
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, m.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithTimeFunc(m.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidToken, "%v", err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, apperrors.ErrInvalidToken
	}
	return claims, nil
}

func (m *Manager) Expiry() time.Duration {
	return m.expiry
}
