package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/jrsteele09/post-scheduler/token"
	"github.com/jrsteele09/post-scheduler/users"
)

// Session is what register and login hand back to the client.
type Session struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// Identity is the caller as asserted by a verified token.
type Identity struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// Service composes the credential store, password hasher and token manager
// into the register, login and me operations.
type Service struct {
	users             users.UserRepo
	hasher            users.PasswordHasher
	tokens            *token.Manager
	minPasswordLength int
	nowTime           func() time.Time
	newID             func() string
	dummyHash         string
}

// ServiceOption defines a function type to modify the Service instance.
type ServiceOption func(*Service)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowTime = nowFunc
	}
}

func WithHasher(hasher users.PasswordHasher) ServiceOption {
	return func(s *Service) {
		s.hasher = hasher
	}
}

func WithMinPasswordLength(n int) ServiceOption {
	return func(s *Service) {
		s.minPasswordLength = n
	}
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

func NewService(repo users.UserRepo, tokens *token.Manager, options ...ServiceOption) (*Service, error) {
	if repo == nil {
		return nil, errors.New("[NewService] users repo is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewService] token manager is required")
	}

	s := &Service{
		users:             repo,
		tokens:            tokens,
		minPasswordLength: users.DefaultMinPasswordLength,
		nowTime:           time.Now,
		newID:             func() string { return uuid.New().String() },
	}

	for _, opt := range options {
		opt(s)
	}

	if s.hasher == nil {
		s.hasher = users.NewBcryptHasher(users.DefaultBcryptCost)
	}

	// Compared against when the email is unknown so both login failures cost
	// the same bcrypt work.
	dummy, err := s.hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("[NewService] dummy hash: %w", err)
	}
	s.dummyHash = dummy

	return s, nil
}

func (s *Service) MinPasswordLength() int {
	return s.minPasswordLength
}

// Register creates an identity and returns a session for it.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	email = users.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("[Register] %w: email and password required", apperrors.ErrInvalidInput)
	}
	if err := users.ValidatePasswordStrength(password, s.minPasswordLength); err != nil {
		return nil, fmt.Errorf("[Register] %w", err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("[Register] hash password: %w", err)
	}

	user := &users.User{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		DateJoined:   s.nowTime().UTC(),
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, fmt.Errorf("[Register] insert user: %w", err)
	}

	return s.newSession(user)
}

// Login checks credentials and returns a fresh session. Earlier tokens for the
// same user stay valid until they expire.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = users.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("[Login] %w: email and password required", apperrors.ErrInvalidInput)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("[Login] get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return s.newSession(user)
}

// Me decodes the identity from a bearer token. The claims are trusted as
// issued; the store is not consulted.
func (s *Service) Me(_ context.Context, rawToken string) (*Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, apperrors.ErrMissingToken
	}
	claims, err := s.tokens.Verify(rawToken)
	if err != nil {
		return nil, fmt.Errorf("[Me] %w", err)
	}
	return &Identity{Email: claims.Email, UserID: claims.UserID()}, nil
}

func (s *Service) newSession(user *users.User) (*Session, error) {
	signed, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Email: user.Email, UserID: user.ID, Token: signed}, nil
}
