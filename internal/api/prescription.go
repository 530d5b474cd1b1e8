package api

import (
	"context"
	"fmt"
	"net/http"
)

type Prescription struct {
	PrescriptionID int64    `json:"prescription_id"`
	MedName        string   `json:"med_name"`
	DosageForm     string   `json:"dosage_form"`
	Dose           string   `json:"dose"`
	Unit           string   `json:"unit"`
	Schedule       []string `json:"schedule"`
	CustomSchedule *string  `json:"custom_schedule"`
	StartDate      string   `json:"start_date"`
	EndDate        string   `json:"end_date"`
	VisitID        int64    `json:"visit_id"`
}

// PrescriptionCreateRequest matches the backend's create schema, which uses
// camelCase for some fields unlike the rest of the API.
type PrescriptionCreateRequest struct {
	MedName        string   `json:"med_name"`
	DosageForm     string   `json:"dosageForm"`
	Dose           string   `json:"dose"`
	Unit           string   `json:"unit"`
	Schedule       []string `json:"schedule"`
	CustomSchedule *string  `json:"customSchedule,omitempty"`
	StartDate      string   `json:"startDate"`
	EndDate        string   `json:"endDate"`
}

// PrescriptionUpdateRequest is a partial update; nil fields are left as-is.
type PrescriptionUpdateRequest struct {
	MedName        *string  `json:"med_name,omitempty"`
	DosageForm     *string  `json:"dosageForm,omitempty"`
	Dose           *string  `json:"dose,omitempty"`
	Unit           *string  `json:"unit,omitempty"`
	Schedule       []string `json:"schedule,omitempty"`
	CustomSchedule *string  `json:"customSchedule,omitempty"`
	StartDate      *string  `json:"startDate,omitempty"`
	EndDate        *string  `json:"endDate,omitempty"`
}

func (c *Client) GetPrescriptions(ctx context.Context) ([]Prescription, error) {
	var out []Prescription
	if err := c.do(ctx, http.MethodGet, "/prescription/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetPrescriptionsByVisit(ctx context.Context, visitID int64) ([]Prescription, error) {
	var out []Prescription
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/prescription/visit/%d", visitID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreatePrescription(ctx context.Context, visitID int64, req PrescriptionCreateRequest) (*Prescription, error) {
	var out Prescription
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/prescription/visit/%d", visitID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePrescription(ctx context.Context, prescriptionID int64, req PrescriptionUpdateRequest) (*Prescription, error) {
	var out Prescription
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/prescription/%d", prescriptionID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePrescription(ctx context.Context, prescriptionID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/prescription/%d", prescriptionID), nil, nil)
}
