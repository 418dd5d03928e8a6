package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// ErrNoSecret is returned when an HS256 signer is used without a secret.
var ErrNoSecret = errors.New("session signing secret is empty")

// Signer produces and checks the signature on session tokens.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)

	// GetVerificationKey is handed to the jwt parser as its key func.
	GetVerificationKey(token *jwt.Token) (any, error)

	GetSigningMethod() jwt.SigningMethod
}

// HMACsigner signs with a shared HS256 secret. The same secret verifies.
type HMACsigner struct {
	secret []byte
}

var _ Signer = (*HMACsigner)(nil)

func NewHMACSigner(secret string) *HMACsigner {
	return &HMACsigner{secret: []byte(secret)}
}

func (h *HMACsigner) Sign(claims jwt.Claims) (string, error) {
	if len(h.secret) == 0 {
		return "", ErrNoSecret
	}
	signed, err := jwt.NewWithClaims(h.GetSigningMethod(), claims).SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign session token")
	}
	return signed, nil
}

// GetVerificationKey refuses anything but HMAC so a token cannot pick its own
// algorithm, and refuses to verify against an empty secret.
func (h *HMACsigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	if len(h.secret) == 0 {
		return nil, ErrNoSecret
	}
	return h.secret, nil
}

func (h *HMACsigner) GetSigningMethod() jwt.SigningMethod {
	return jwt.SigningMethodHS256
}
