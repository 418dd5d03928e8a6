package api

import (
	"context"
	"net/http"
)

const (
	EndpointRegister = "api/auth/register"
	EndpointLogin    = "api/auth/login"
	EndpointMe       = "api/auth/me"
	EndpointHealth   = "api/health"
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session is returned by register and login.
type Session struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

type Identity struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

func (c *Client) Register(ctx context.Context, email, password string) (*Session, error) {
	session := &Session{}
	if err := c.callInto(ctx, http.MethodPost, EndpointRegister, Credentials{Email: email, Password: password}, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	session := &Session{}
	if err := c.callInto(ctx, http.MethodPost, EndpointLogin, Credentials{Email: email, Password: password}, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Me asks the server who the current token belongs to.
func (c *Client) Me(ctx context.Context) (*Identity, error) {
	identity := &Identity{}
	if err := c.callInto(ctx, http.MethodGet, EndpointMe, nil, identity); err != nil {
		return nil, err
	}
	return identity, nil
}

func (c *Client) Health(ctx context.Context) error {
	return c.Call(ctx, http.MethodGet, EndpointHealth, nil).Err()
}

func (c *Client) callInto(ctx context.Context, method, endpoint string, data, dst any) error {
	result := c.Call(ctx, method, endpoint, data)
	if err := result.Err(); err != nil {
		return err
	}
	return result.Decode(dst)
}
