package restapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
)

var _ ports.AuthAPI = (*Client)(nil)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"contrasena"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Profile json.RawMessage `json:"usuario"`
}

// Login exchanges credentials for a token.
func (c *Client) Login(ctx context.Context, email, password string) (ports.LoginResult, error) {
	raw, err := c.do(ctx, http.MethodPost, "/auth/login", "", loginRequest{Email: email, Password: password})
	if err != nil {
		return ports.LoginResult{}, err
	}

	var resp loginResponse
	if err := json.Unmarshal(unwrapObject(raw), &resp); err != nil {
		return ports.LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	if resp.Token == "" {
		return ports.LoginResult{}, fmt.Errorf("login response missing token")
	}

	return ports.LoginResult{Token: resp.Token, Profile: resp.Profile}, nil
}

// Register creates an account. It does not establish a session.
func (c *Client) Register(ctx context.Context, reg ports.Registration) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", "", reg)
	return err
}

// Profile fetches the profile for token.
func (c *Client) Profile(ctx context.Context, token string) (auth.Profile, error) {
	raw, err := c.do(ctx, http.MethodGet, "/auth/profile", token, nil)
	if err != nil {
		return auth.Profile{}, err
	}

	profile, err := auth.ParseProfile(unwrapObject(raw))
	if err != nil {
		return auth.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return profile, nil
}
