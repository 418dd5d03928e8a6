package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/post-scheduler/client/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

type failingToken struct{}

func (failingToken) Token(context.Context) (string, error) {
	return "", errors.New("storage unavailable")
}

func newClient(t *testing.T, handler http.HandlerFunc, options ...api.Option) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.New(srv.URL, append([]api.Option{api.WithLogger(zerolog.Nop())}, options...)...)
}

func TestURL(t *testing.T) {
	c := api.New("http://localhost:3000", api.WithLogger(zerolog.Nop()))
	require.Equal(t, "http://localhost:3000/api/health", c.URL("/api/health"))
	require.Equal(t, "http://localhost:3000/api/health", c.URL("api/health"))

	c = api.New("", api.WithLogger(zerolog.Nop()))
	require.Equal(t, api.DefaultBaseURL+"api/health", c.URL("api/health"))
}

func TestCall_Success(t *testing.T) {
	var gotMethod, gotPath, gotContentType, gotAuth string
	var gotBody map[string]string
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"email":"a@b.com","userId":"u1","token":"t1"}`))
	}, api.WithTokenSource(staticToken("abc")))

	result := c.Call(context.Background(), http.MethodPost, "/api/auth/register", map[string]string{"email": "a@b.com"})
	require.False(t, result.Error)
	require.NoError(t, result.Err())
	require.Equal(t, http.StatusCreated, result.Status)
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/api/auth/register", gotPath)
	require.Equal(t, "application/json", gotContentType)
	require.Equal(t, "Bearer abc", gotAuth)
	require.Equal(t, map[string]string{"email": "a@b.com"}, gotBody)

	var session api.Session
	require.NoError(t, result.Decode(&session))
	require.Equal(t, api.Session{Email: "a@b.com", UserID: "u1", Token: "t1"}, session)
}

func TestCall_NoTokenMeansNoHeader(t *testing.T) {
	tests := []struct {
		name    string
		options []api.Option
	}{
		{name: "no source"},
		{name: "empty token", options: []api.Option{api.WithTokenSource(staticToken(""))}},
		{name: "failing source", options: []api.Option{api.WithTokenSource(failingToken{})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hasAuth bool
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, hasAuth = r.Header["Authorization"]
				_, _ = w.Write([]byte(`{"ok":true}`))
			}, tt.options...)

			result := c.Call(context.Background(), http.MethodGet, api.EndpointHealth, nil)
			require.False(t, result.Error)
			require.False(t, hasAuth)
		})
	}
}

func TestCall_ErrorNormalisation(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{name: "server message", status: http.StatusUnauthorized, body: `{"message":"Invalid email or password"}`, message: "Invalid email or password"},
		{name: "no message", status: http.StatusBadRequest, body: `{"error":"x"}`, message: "Request failed (400)"},
		{name: "non json body", status: http.StatusBadGateway, body: `<html>bad gateway</html>`, message: "Request failed (502)"},
		{name: "empty body", status: http.StatusInternalServerError, body: ``, message: "Request failed (500)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			result := c.Call(context.Background(), http.MethodPost, api.EndpointLogin, nil)
			require.True(t, result.Error)
			require.Equal(t, tt.status, result.Status)
			require.Equal(t, tt.message, result.Message)

			var apiErr *api.Error
			require.ErrorAs(t, result.Err(), &apiErr)
			require.False(t, apiErr.IsNetwork())
			require.Equal(t, tt.message, apiErr.Error())
		})
	}
}

func TestCall_MalformedSuccessBodyBecomesEmptyObject(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	result := c.Call(context.Background(), http.MethodGet, api.EndpointHealth, nil)
	require.False(t, result.Error)
	require.JSONEq(t, `{}`, string(result.Body))
}

func TestCall_NetworkError(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	c := api.New("http://"+addr, api.WithLogger(zerolog.Nop()))
	result := c.Call(context.Background(), http.MethodGet, api.EndpointHealth, nil)
	require.True(t, result.Error)
	require.Equal(t, api.MsgNetworkError, result.Message)
	require.Zero(t, result.Status)

	var apiErr *api.Error
	require.ErrorAs(t, result.Err(), &apiErr)
	require.True(t, apiErr.IsNetwork())
}

func TestCall_Timeout(t *testing.T) {
	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, api.WithTimeout(50*time.Millisecond))
	defer close(release)

	result := c.Call(context.Background(), http.MethodGet, api.EndpointHealth, nil)
	require.True(t, result.Error)
	require.Equal(t, api.MsgNetworkError, result.Message)
}

func TestAuthHelpers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds api.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid email or password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"email":"` + creds.Email + `","userId":"u1","token":"t1"}`))
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"No token provided"}`))
			return
		}
		_, _ = w.Write([]byte(`{"email":"a@b.com","userId":"u1"}`))
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	ctx := context.Background()
	c := newClient(t, mux.ServeHTTP)

	session, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, &api.Session{Email: "a@b.com", UserID: "u1", Token: "t1"}, session)

	_, err = c.Login(ctx, "a@b.com", "wrong")
	require.EqualError(t, err, "Invalid email or password")

	_, err = c.Me(ctx)
	require.EqualError(t, err, "No token provided")

	authed := newClient(t, mux.ServeHTTP, api.WithTokenSource(staticToken("t1")))
	identity, err := authed.Me(ctx)
	require.NoError(t, err)
	require.Equal(t, &api.Identity{Email: "a@b.com", UserID: "u1"}, identity)

	require.NoError(t, c.Health(ctx))
}
