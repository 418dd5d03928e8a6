package users

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
)

// DefaultMinPasswordLength is the shortest password accepted at registration,
// counted in characters.
const DefaultMinPasswordLength = 6

// MaxPasswordBytes is the most bcrypt will hash; longer input is refused
// rather than silently truncated.
const MaxPasswordBytes = 72

// User is the identity record held by the credential store.
type User struct {
	ID           string    `json:"id"`          // Unique identifier, assigned once at registration
	Email        string    `json:"email"`       // Normalised email, unique across the store
	PasswordHash string    `json:"-"`           // bcrypt digest - never serialize
	DateJoined   time.Time `json:"date_joined"` // Registration time
}

// NormalizeEmail canonicalises an email for storage keys and comparisons.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordStrength enforces the length policy: at least minLength
// characters and at most MaxPasswordBytes bytes.
func ValidatePasswordStrength(password string, minLength int) error {
	if minLength <= 0 {
		minLength = DefaultMinPasswordLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrWeakPassword, minLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("%w: password is %d bytes", apperrors.ErrPasswordTooLong, len(password))
	}
	return nil
}
