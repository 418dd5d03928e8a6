package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/post-scheduler/auth"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/jrsteele09/post-scheduler/users"
)

const (
	msgInternalError   = "Internal server error"
	msgTooManyRequests = "Too many requests"
)

// credentialsRequest keeps the raw JSON values so a wrong type can be told
// apart from a missing field.
type credentialsRequest struct {
	Email    any `json:"email"`
	Password any `json:"password"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}

// RegisterHandler creates an account and answers 201 with a session.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password, msg := s.readCredentials(w, r)
		if msg != "" {
			s.writeJSONError(w, msg, http.StatusBadRequest)
			return
		}

		session, err := s.auth.Register(r.Context(), email, password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.logger.Info().Str("user_id", session.UserID).Msg("user registered")
		s.writeJSON(w, http.StatusCreated, session)
	}
}

// LoginHandler answers 200 with a fresh session for valid credentials.
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, password, msg := s.readCredentials(w, r)
		if msg != "" {
			s.writeJSONError(w, msg, http.StatusBadRequest)
			return
		}

		session, err := s.auth.Login(r.Context(), email, password)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusOK, session)
	}
}

// MeHandler returns the identity carried by the bearer token.
func (s *Server) MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			s.writeServiceError(w, r, apperrors.ErrMissingToken)
			return
		}

		identity, err := s.auth.Me(r.Context(), raw)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}

		s.writeJSON(w, http.StatusOK, identity)
	}
}

func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, healthResponse{OK: true})
	}
}

// readCredentials returns a client message when the body is unusable.
func (s *Server) readCredentials(w http.ResponseWriter, r *http.Request) (string, string, string) {
	var req credentialsRequest
	if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		return "", "", auth.MsgInvalidPayload
	}
	if isBlank(req.Email) || isBlank(req.Password) {
		return "", "", auth.MsgCredentialsRequired
	}

	email, emailOK := req.Email.(string)
	password, passwordOK := req.Password.(string)
	if !emailOK || !passwordOK {
		return "", "", auth.MsgInvalidPayload
	}
	return email, password, ""
}

// isBlank treats absent, null and zero JSON values as missing.
func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	}
	return false
}

// bearerToken extracts the credential from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// writeServiceError maps the error taxonomy onto status codes and messages.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, msgInternalError
	switch {
	case apperrors.Is(err, apperrors.ErrInvalidInput):
		status, msg = http.StatusBadRequest, auth.MsgCredentialsRequired
	case apperrors.Is(err, apperrors.ErrWeakPassword):
		status, msg = http.StatusBadRequest, auth.MsgWeakPassword(s.auth.MinPasswordLength())
	case apperrors.Is(err, apperrors.ErrPasswordTooLong):
		status, msg = http.StatusBadRequest, auth.MsgPasswordTooLong(users.MaxPasswordBytes)
	case apperrors.Is(err, apperrors.ErrConflict):
		status, msg = http.StatusBadRequest, auth.MsgEmailRegistered
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		status, msg = http.StatusUnauthorized, auth.MsgInvalidCredentials
	case apperrors.Is(err, apperrors.ErrMissingToken):
		status, msg = http.StatusUnauthorized, auth.MsgMissingToken
	case apperrors.Is(err, apperrors.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, auth.MsgInvalidToken
	}

	if status == http.StatusInternalServerError {
		s.logger.Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		s.logger.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}
	s.writeJSONError(w, msg, status)
}
