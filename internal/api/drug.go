package api

import (
	"context"
	"fmt"
	"net/http"
)

type Drug struct {
	DrugID         int64    `json:"drug_id"`
	MedName        string   `json:"med_name"`
	DosageForm     string   `json:"dosage_form"`
	Dose           string   `json:"dose"`
	Unit           string   `json:"unit"`
	Schedule       []string `json:"schedule"`
	CustomSchedule string   `json:"custom_schedule"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
}

type DrugRequest struct {
	MedName        string   `json:"med_name"`
	DosageForm     string   `json:"dosage_form"`
	Dose           string   `json:"dose"`
	Unit           string   `json:"unit"`
	Schedule       []string `json:"schedule"`
	CustomSchedule string   `json:"custom_schedule"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
}

func (c *Client) GetDrugs(ctx context.Context) ([]Drug, error) {
	var out []Drug
	if err := c.do(ctx, http.MethodGet, "/drug/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateDrug(ctx context.Context, req DrugRequest) (*Drug, error) {
	var out Drug
	if err := c.do(ctx, http.MethodPost, "/drug/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateDrug(ctx context.Context, drugID int64, req DrugRequest) (*Drug, error) {
	var out Drug
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/drug/%d", drugID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteDrug(ctx context.Context, drugID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/drug/%d", drugID), nil, nil)
}
