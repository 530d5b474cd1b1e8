package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the MediNote auth endpoints. These calls never carry a
// bearer token, so they bypass the authenticated gateway entirely.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type UserPayload struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TokenGrant struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type LoginResponse struct {
	User   UserPayload `json:"user"`
	Tokens TokenGrant  `json:"tokens"`
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var result LoginResponse
	if err := c.postJSON(ctx, "/auth/login", body, &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &result, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) error {
	if err := c.postJSON(ctx, "/auth/signup", req, nil); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	return nil
}

// RefreshToken trades the long-lived refresh token for a new access token.
// The backend does not rotate the refresh token.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	body := map[string]string{"refresh_token": refreshToken}

	var result RefreshResponse
	if err := c.postJSON(ctx, "/auth/token/refresh", body, &result); err != nil {
		return nil, fmt.Errorf("refresh token: %w", err)
	}
	return &result, nil
}

// Logout invalidates the refresh token server-side.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refresh_token": refreshToken}

	var result LogoutResponse
	if err := c.postJSON(ctx, "/auth/logout", body, &result); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	raw, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
