package remote

import (
	"context"
	"net/http"
)

const usersPath = "/api/users"

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, call{op: "login", method: http.MethodPost, path: usersPath + "/login", body: req, out: &out}); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &Error{Kind: KindDecode, Op: "login", Detail: "the events service did not return a token"}
	}
	return out.Token, nil
}

// Register creates an account. The returned token is empty when the API
// expects a separate login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (string, error) {
	var out tokenResponse
	if err := c.do(ctx, call{op: "register", method: http.MethodPost, path: usersPath + "/register", body: req, out: &out}); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Profile(ctx context.Context, token string) (*User, error) {
	var out profileResponse
	if err := c.do(ctx, call{op: "get profile", method: http.MethodGet, path: usersPath, token: token, out: &out}); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, user User) error {
	return c.do(ctx, call{op: "update profile", method: http.MethodPut, path: usersPath, token: token, body: user})
}

func (c *Client) DeleteAccount(ctx context.Context, token string) error {
	return c.do(ctx, call{op: "delete account", method: http.MethodDelete, path: usersPath, token: token})
}
