package api

import (
	"context"
	"net/http"
)

// Schedule IDs are strings, unlike the numeric IDs elsewhere in the API.

type Schedule struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Type      string `json:"type"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	Location  string `json:"location"`
	Memo      string `json:"memo"`
	CreatedAt string `json:"created_at"`
}

type ScheduleCreateRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Location string `json:"location"`
	Memo     string `json:"memo"`
}

type ScheduleUpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Date     *string `json:"date,omitempty"`
	Time     *string `json:"time,omitempty"`
	Location *string `json:"location,omitempty"`
	Memo     *string `json:"memo,omitempty"`
}

func (c *Client) GetSchedules(ctx context.Context) ([]Schedule, error) {
	var out []Schedule
	if err := c.do(ctx, http.MethodGet, "/schedule/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetSchedule(ctx context.Context, scheduleID string) (*Schedule, error) {
	var out Schedule
	if err := c.do(ctx, http.MethodGet, "/schedule/"+scheduleID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSchedule(ctx context.Context, req ScheduleCreateRequest) (*Schedule, error) {
	var out Schedule
	if err := c.do(ctx, http.MethodPost, "/schedule/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSchedule(ctx context.Context, scheduleID string, req ScheduleUpdateRequest) (*Schedule, error) {
	var out Schedule
	if err := c.do(ctx, http.MethodPatch, "/schedule/"+scheduleID, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSchedule(ctx context.Context, scheduleID string) error {
	return c.do(ctx, http.MethodDelete, "/schedule/"+scheduleID, nil, nil)
}
