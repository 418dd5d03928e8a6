package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/post-scheduler/auth"
	"github.com/jrsteele09/post-scheduler/internal/config"
	"github.com/jrsteele09/post-scheduler/internal/logging"
	"github.com/jrsteele09/post-scheduler/server"
	"github.com/jrsteele09/post-scheduler/token"
	"github.com/jrsteele09/post-scheduler/users"
	fakeuserrepo "github.com/jrsteele09/post-scheduler/users/repofake"
	"github.com/jrsteele09/post-scheduler/users/sqliterepo"
	"github.com/rs/zerolog/log"
)

// errConfig marks failures that restarting cannot fix.
var errConfig = errors.New("invalid configuration")

func main() {
	for {
		err := run()
		if err == nil {
			break
		}
		if errors.Is(err, errConfig) {
			log.Fatal().Err(err).Msg("Cannot start server")
		}
		log.Error().Err(err).Msg("Error running server, restarting")
		time.Sleep(1 * time.Second)
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.New()
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	logger := logging.Setup(c.GetEnv(), c.GetLogLevel())
	displayAppname(c.GetAppName())
	if c.UsingDevSecret() {
		logger.Warn().Msg("JWT_SECRET is not set, signing tokens with the development secret")
	}

	ctx := context.Background()
	repo, closeRepo, err := newUserRepo(ctx, c)
	if err != nil {
		return err
	}
	defer closeRepo()

	tokens := token.New(token.NewHMACSigner(c.GetJWTSecret()), token.WithExpiry(c.GetTokenExpiry()))
	authService, err := auth.NewService(repo, tokens,
		auth.WithHasher(users.NewBcryptHasher(c.GetBcryptCost())),
		auth.WithMinPasswordLength(c.GetMinPasswordLength()),
	)
	if err != nil {
		return fmt.Errorf("auth.NewService: %w", err)
	}

	handler, err := server.New(c, authService, server.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	defer handler.Close()

	httpServer := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

// newUserRepo builds the configured user store and its cleanup func.
func newUserRepo(ctx context.Context, c config.Config) (users.UserRepo, func(), error) {
	switch c.GetStore() {
	case config.StoreSQLite:
		repo, err := sqliterepo.Open(ctx, c.GetDatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("sqliterepo.Open: %w", err)
		}
		log.Info().Str("path", c.GetDatabasePath()).Msg("Using SQLite user store")
		return repo, func() {
			if err := repo.Close(); err != nil {
				log.Error().Err(err).Msg("Closing user store")
			}
		}, nil
	default:
		log.Info().Msg("Using in-memory user store, registrations are lost on restart")
		return fakeuserrepo.NewFakeUserRepo(), func() {}, nil
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
