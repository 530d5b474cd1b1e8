package api

import (
	"context"
	"fmt"
	"net/http"
)

type VisitRequest struct {
	Hospital      string  `json:"hospital"`
	Date          *string `json:"date"`
	Dept          string  `json:"dept"`
	DiagnosisCode string  `json:"diagnosis_code"`
	Title         string  `json:"title"`
	Doctor        string  `json:"doctor"`
	Symptoms      string  `json:"symptoms"`
	Notes         string  `json:"notes"`
	Memo          string  `json:"memo"`
}

type Visit struct {
	VisitID       int64  `json:"visit_id"`
	Hospital      string `json:"hospital"`
	Date          string `json:"date"`
	Dept          string `json:"dept"`
	DiagnosisCode string `json:"diagnosis_code"`
	DiagnosisName string `json:"diagnosis_name"`
	DoctorName    string `json:"doctor_name"`
	Symptom       string `json:"symptom"`
	Opinion       string `json:"opinion"`
}

func (c *Client) GetVisits(ctx context.Context) ([]Visit, error) {
	var out []Visit
	if err := c.do(ctx, http.MethodGet, "/visits/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetVisit(ctx context.Context, visitID int64) (*Visit, error) {
	var out Visit
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/visits/%d", visitID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateVisit(ctx context.Context, req VisitRequest) (*Visit, error) {
	var out Visit
	if err := c.do(ctx, http.MethodPost, "/visits/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateVisit(ctx context.Context, visitID int64, req VisitRequest) (*Visit, error) {
	var out Visit
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/visits/%d", visitID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteVisit(ctx context.Context, visitID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/visits/%d", visitID), nil, nil)
}
