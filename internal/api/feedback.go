package api

import (
	"context"
	"fmt"
	"net/http"
)

// Feedback types and statuses as the admin console understands them.
const (
	FeedbackTypeBug        = "bug"
	FeedbackTypeSuggestion = "suggestion"
	FeedbackTypeInquiry    = "inquiry"
	FeedbackTypeOther      = "other"

	FeedbackStatusNew        = "new"
	FeedbackStatusInProgress = "in_progress"
	FeedbackStatusDone       = "done"
)

type Feedback struct {
	ID           int64  `json:"id"`
	User         string `json:"user"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Email        string `json:"email,omitempty"`
	ReplyByEmail bool   `json:"reply_by_email"`
	Status       string `json:"status"`
	Date         string `json:"date"`
	AdminReply   string `json:"admin_reply,omitempty"`
}

type FeedbackCreateRequest struct {
	Type         string `json:"type"`
	Title        string `json:"title"`
	Content      string `json:"content"`
	Email        string `json:"email,omitempty"`
	ReplyByEmail bool   `json:"reply_by_email"`
}

type FeedbackUpdateRequest struct {
	Status     *string `json:"status,omitempty"`
	AdminReply *string `json:"admin_reply,omitempty"`
}

func (c *Client) CreateFeedback(ctx context.Context, req FeedbackCreateRequest) (*Feedback, error) {
	var out Feedback
	if err := c.do(ctx, http.MethodPost, "/feedback", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetFeedbacks lists submitted feedback; admin only.
func (c *Client) GetFeedbacks(ctx context.Context) ([]Feedback, error) {
	var out []Feedback
	if err := c.do(ctx, http.MethodGet, "/feedback", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateFeedback changes status or attaches an admin reply; admin only.
func (c *Client) UpdateFeedback(ctx context.Context, id int64, req FeedbackUpdateRequest) (*Feedback, error) {
	var out Feedback
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/feedback/%d", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
