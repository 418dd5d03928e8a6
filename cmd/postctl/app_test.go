package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/jrsteele09/post-scheduler/auth"
	"github.com/jrsteele09/post-scheduler/client/api"
	"github.com/jrsteele09/post-scheduler/client/session"
	"github.com/jrsteele09/post-scheduler/internal/config"
	"github.com/jrsteele09/post-scheduler/server"
	"github.com/jrsteele09/post-scheduler/token"
	"github.com/jrsteele09/post-scheduler/users"
	fakeuserrepo "github.com/jrsteele09/post-scheduler/users/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func stubPassword(t *testing.T, password string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() { readPassword = orig })
}

func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg, err := config.NewFromMap(map[string]string{"ENV": "DEV"})
	require.NoError(t, err)

	authService, err := auth.NewService(fakeuserrepo.NewFakeUserRepo(), token.New(token.NewHMACSigner("test-secret")),
		auth.WithHasher(users.NewBcryptHasher(bcrypt.MinCost)))
	require.NoError(t, err)

	srv, err := server.New(cfg, authService, server.WithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

// newTestApp wires an App the way run does, against storage that outlives it.
func newTestApp(baseURL string, storage session.Storage, in string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	manager := session.NewManager(storage, terminalNavigator{out: out}, session.WithLogger(zerolog.Nop()))
	client := api.New(baseURL, api.WithTokenSource(manager), api.WithLogger(zerolog.Nop()))
	return NewApp(client, manager, strings.NewReader(in), out), out
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	ts := newAPIServer(t)
	storage := session.NewMemoryStorage()
	stubPassword(t, "secret1")

	app, out := newTestApp(ts.URL, storage, "New@Example.com\n")
	require.NoError(t, app.Run(ctx, []string{"register"}))
	require.Contains(t, out.String(), "Registered as new@example.com")

	app, out = newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"whoami"}))
	require.Contains(t, out.String(), "new@example.com (")

	app, out = newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"logout"}))
	require.Contains(t, out.String(), "Signed out.")

	app, out = newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"whoami"}))
	require.Contains(t, out.String(), "Not signed in.")

	app, out = newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"login", "new@example.com"}))
	require.Contains(t, out.String(), "Signed in as new@example.com")
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	ts := newAPIServer(t)
	storage := session.NewMemoryStorage()

	stubPassword(t, "secret1")
	app, _ := newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"register", "a@b.com"}))
	require.NoError(t, storage.Clear(ctx))

	stubPassword(t, "wrong-password")
	app, _ = newTestApp(ts.URL, storage, "")
	require.EqualError(t, app.Run(ctx, []string{"login", "a@b.com"}), "Invalid email or password")

	tok, err := storage.Get(ctx, session.KeyToken)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestWhoAmI_RejectedTokenSignsOut(t *testing.T) {
	ctx := context.Background()
	ts := newAPIServer(t)
	storage := session.NewMemoryStorage()
	for k, v := range map[string]string{session.KeyToken: "forged", session.KeyEmail: "a@b.com", session.KeyUserID: "u1"} {
		require.NoError(t, storage.Set(ctx, k, v))
	}

	app, out := newTestApp(ts.URL, storage, "")
	require.NoError(t, app.Run(ctx, []string{"whoami"}))
	require.Contains(t, out.String(), "Stored session was rejected: Invalid token")

	tok, err := storage.Get(ctx, session.KeyToken)
	require.NoError(t, err)
	require.Empty(t, tok)
}

func TestHealth(t *testing.T) {
	ctx := context.Background()
	ts := newAPIServer(t)

	app, out := newTestApp(ts.URL, session.NewMemoryStorage(), "")
	require.NoError(t, app.Run(ctx, []string{"health"}))
	require.Equal(t, "ok\n", out.String())

	ts.Close()
	app, _ = newTestApp(ts.URL, session.NewMemoryStorage(), "")
	require.EqualError(t, app.Run(ctx, []string{"health"}), api.MsgNetworkError)
}

func TestRun_Usage(t *testing.T) {
	app, _ := newTestApp("http://localhost:1", session.NewMemoryStorage(), "")
	require.ErrorIs(t, app.Run(context.Background(), nil), errUsage)
	require.ErrorIs(t, app.Run(context.Background(), []string{"publish"}), errUsage)
}

func TestLoadConfig(t *testing.T) {
	c, err := loadConfig(env.Options{Environment: map[string]string{"SESSION_DB": "/tmp/s.db"}})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:3000/", c.APIURL)
	require.Equal(t, 10*time.Second, c.APITimeout)
	require.Equal(t, "/tmp/s.db", c.SessionDB)

	c, err = loadConfig(env.Options{Environment: map[string]string{"API_URL": "http://api:8080/", "API_TIMEOUT": "2s", "SESSION_DB": "x.db"}})
	require.NoError(t, err)
	require.Equal(t, "http://api:8080/", c.APIURL)
	require.Equal(t, 2*time.Second, c.APITimeout)
}
