package client

import (
	"context"
	"net/http"

	"github.com/junaidrashid-git/yoruwear-api/auth"
	"github.com/junaidrashid-git/yoruwear-api/models"
)

type authResponse struct {
	Message string         `json:"message"`
	User    *models.User   `json:"user"`
	Tokens  auth.TokenPair `json:"tokens"`
}

func (c *Client) saveTokens(t auth.TokenPair) error {
	if err := c.store.Set(KeyAccessToken, t.AccessToken); err != nil {
		return err
	}
	return c.store.Set(KeyRefreshToken, t.RefreshToken)
}

func (c *Client) clearTokens() {
	_ = c.store.Remove(KeyAccessToken)
	_ = c.store.Remove(KeyRefreshToken)
}

// Authenticated reports whether an access token is stored.
func (c *Client) Authenticated() bool {
	token, _ := c.store.Get(KeyAccessToken)
	return token != ""
}

func (c *Client) Register(ctx context.Context, in auth.RegisterInput) (*models.User, error) {
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", in, &resp); err != nil {
		return nil, err
	}
	if err := c.saveTokens(resp.Tokens); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.User, error) {
	in := map[string]string{"email": email, "password": password}
	var resp authResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", in, &resp); err != nil {
		return nil, err
	}
	if err := c.saveTokens(resp.Tokens); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Refresh swaps the stored refresh token for a new pair. A rejected refresh
// token ends the session locally.
func (c *Client) Refresh(ctx context.Context) (auth.TokenPair, error) {
	refresh, err := c.store.Get(KeyRefreshToken)
	if err != nil {
		return auth.TokenPair{}, err
	}
	if refresh == "" {
		return auth.TokenPair{}, ErrNoRefreshToken
	}

	var resp authResponse
	err = c.do(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refreshToken": refresh}, &resp)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			c.clearTokens()
		}
		return auth.TokenPair{}, err
	}
	if err := c.saveTokens(resp.Tokens); err != nil {
		return auth.TokenPair{}, err
	}
	c.log.Debug("access token refreshed")
	return resp.Tokens, nil
}

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in auth.ProfileInput) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", in, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout revokes the session on the server. Local tokens are dropped even
// when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", struct{}{}, nil)
	c.clearTokens()
	return err
}
