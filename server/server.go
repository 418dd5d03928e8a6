package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/post-scheduler/auth"
	"github.com/jrsteele09/post-scheduler/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env     string // Environment (e.g., "DEV", "PROD")
	mux     *http.ServeMux
	handler http.HandlerFunc
	routes  []string
	config  config.Config
	auth    *auth.Service
	logger  zerolog.Logger
	limiter *TokenBucket
}

type Option func(*Server)

// WithLogger replaces the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimiter overrides the limiter built from configuration.
func WithRateLimiter(limiter *TokenBucket) Option {
	return func(s *Server) {
		s.limiter = limiter
	}
}

func New(config config.Config, authService *auth.Service, options ...Option) (*Server, error) {
	if config == nil {
		return nil, errors.New("[Server New] config is required")
	}
	if authService == nil {
		return nil, errors.New("[Server New] auth service is required")
	}

	s := &Server{
		env:    config.GetEnv(),
		mux:    http.NewServeMux(),
		config: config,
		auth:   authService,
		logger: log.Logger,
	}

	for _, opt := range options {
		opt(s)
	}

	if s.limiter == nil && config.GetEnableRateLimiting() {
		s.limiter = NewTokenBucket(config.GetRateLimit())
	}

	s.initRoutes()
	s.handler = ChainMiddleware(s.mux.ServeHTTP, s.StdMiddleware()...)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler(w, r)
}

// Close stops background work owned by the server.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			s.logRoute(parts[0], parts[1])
		} else {
			s.logRoute("", parts[0])
		}
	}
}

func (s *Server) logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	s.logger.Info().Msgf("[%-19s] %s", displayMethod, path)
}
