// Package session holds the client's view of who is signed in. The Manager
// is an observable store backed by durable Storage, and the Guard decides
// what a protected view should do with the current state.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoginPath is where signed out users are sent.
const LoginPath = "/login"

type User struct {
	ID    string
	Email string
}

// State is a snapshot of the session. IsLoading is true until the first
// Hydrate completes.
type State struct {
	User      *User
	IsLoading bool
}

// Navigator moves the client between views. HardRedirect discards all
// in-memory state; Navigate is a soft, in-app transition.
type Navigator interface {
	HardRedirect(path string)
	Navigate(path string)
}

type Manager struct {
	mu          sync.Mutex
	storage     Storage
	navigator   Navigator
	logger      zerolog.Logger
	user        *User
	isLoading   bool
	subscribers map[int]func(State)
	nextSubID   int
}

type ManagerOption func(*Manager)

func WithLogger(logger zerolog.Logger) ManagerOption {
	return func(m *Manager) {
		m.logger = logger
	}
}

func NewManager(storage Storage, navigator Navigator, options ...ManagerOption) *Manager {
	m := &Manager{
		storage:     storage,
		navigator:   navigator,
		logger:      log.Logger,
		isLoading:   true,
		subscribers: make(map[int]func(State)),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot()
}

// Subscribe registers fn for every state change. The returned func removes it.
func (m *Manager) Subscribe(fn func(State)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subscribers, id)
	}
}

// Hydrate restores the user from storage. A user is only restored when the
// token, email and id are all present. Loading ends after the first call,
// even when the read fails.
func (m *Manager) Hydrate(ctx context.Context) error {
	values, err := m.readAll(ctx, KeyToken, KeyEmail, KeyUserID)

	m.mu.Lock()
	if err == nil && values[KeyToken] != "" && values[KeyEmail] != "" && values[KeyUserID] != "" {
		m.user = &User{ID: values[KeyUserID], Email: values[KeyEmail]}
	}
	m.isLoading = false
	m.mu.Unlock()

	m.notify()
	if err != nil {
		return fmt.Errorf("[Manager Hydrate] %w", err)
	}
	return nil
}

// Login persists the session and marks the user signed in.
func (m *Manager) Login(ctx context.Context, email, token, userID string) error {
	for _, kv := range [][2]string{{KeyToken, token}, {KeyEmail, email}, {KeyUserID, userID}} {
		if err := m.storage.Set(ctx, kv[0], kv[1]); err != nil {
			return fmt.Errorf("[Manager Login] %w", err)
		}
	}

	m.mu.Lock()
	m.user = &User{ID: userID, Email: email}
	m.mu.Unlock()

	m.notify()
	return nil
}

// Logout wipes storage and hard redirects to the login view. The in-memory
// session is cleared even when storage fails.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.storage.Clear(ctx)
	if err != nil {
		m.logger.Error().Err(err).Msg("clear session storage")
	}

	m.mu.Lock()
	m.user = nil
	m.mu.Unlock()

	m.notify()
	m.navigator.HardRedirect(LoginPath)

	if err != nil {
		return fmt.Errorf("[Manager Logout] %w", err)
	}
	return nil
}

// Token returns the stored bearer token, or "" when signed out.
func (m *Manager) Token(ctx context.Context) (string, error) {
	return m.storage.Get(ctx, KeyToken)
}

func (m *Manager) readAll(ctx context.Context, keys ...string) (map[string]string, error) {
	values := make(map[string]string, len(keys))
	for _, key := range keys {
		v, err := m.storage.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		values[key] = v
	}
	return values, nil
}

func (m *Manager) snapshot() State {
	state := State{IsLoading: m.isLoading}
	if m.user != nil {
		u := *m.user
		state.User = &u
	}
	return state
}

// notify calls subscribers outside the lock so they may read the manager.
func (m *Manager) notify() {
	m.mu.Lock()
	state := m.snapshot()
	subs := make([]func(State), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(state)
	}
}
