package session

import (
	"context"
	"sync"
)

type Decision int

const (
	// DecisionWait: the session is still being resolved, show a placeholder.
	DecisionWait Decision = iota
	// DecisionRender: a user is signed in.
	DecisionRender
	// DecisionRedirect: nobody is signed in and the guard sent the client to the login view.
	DecisionRedirect
	// DecisionBlank: nobody is signed in and a redirect was already attempted.
	DecisionBlank
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionRender:
		return "render"
	case DecisionRedirect:
		return "redirect"
	case DecisionBlank:
		return "blank"
	}
	return "unknown"
}

// Guard protects a view. It redirects to the login view at most once over
// its lifetime.
type Guard struct {
	manager    *Manager
	mu         sync.Mutex
	redirected bool
}

func NewGuard(manager *Manager) *Guard {
	return &Guard{manager: manager}
}

func (g *Guard) Evaluate(ctx context.Context) Decision {
	state := g.manager.State()
	if state.IsLoading {
		return DecisionWait
	}
	if state.User != nil {
		return DecisionRender
	}

	token, err := g.manager.Token(ctx)
	if err != nil {
		g.manager.logger.Warn().Err(err).Msg("read session token")
	}
	if token != "" {
		return DecisionWait
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.redirected {
		return DecisionBlank
	}
	g.redirected = true
	g.manager.navigator.Navigate(LoginPath)
	return DecisionRedirect
}
