package api

import (
	"context"
	"net/http"
)

type UserRecord struct {
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	UserID int64  `json:"user_id"`
	Avatar string `json:"avatar"`
}

type UserCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

type UserUpdateRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type PasswordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// GetUsers lists all accounts; the backend restricts it to admins.
func (c *Client) GetUsers(ctx context.Context) ([]UserRecord, error) {
	var out []UserRecord
	if err := c.do(ctx, http.MethodGet, "/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, req UserCreateRequest) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodPost, "/users", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMe(ctx context.Context) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodGet, "/user/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateMe(ctx context.Context, req UserUpdateRequest) (*UserRecord, error) {
	var out UserRecord
	if err := c.do(ctx, http.MethodPatch, "/user/me", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteMe(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/me", nil, nil)
}

func (c *Client) ChangeMyPassword(ctx context.Context, req PasswordChangeRequest) error {
	return c.do(ctx, http.MethodPatch, "/user/me/password", req, nil)
}
