package api

import (
	"context"
	"fmt"
	"net/http"
)

// Health profile.

type HealthProfileRequest struct {
	Birth     string  `json:"birth"`
	Gender    string  `json:"gender"`
	BloodType string  `json:"blood_type"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Drinking  string  `json:"drinking"`
	Smoking   string  `json:"smoking"`
}

type HealthProfile struct {
	Birth     string  `json:"birth"`
	Gender    string  `json:"gender"`
	BloodType string  `json:"blood_type"`
	Height    float64 `json:"height"`
	Weight    float64 `json:"weight"`
	Drinking  string  `json:"drinking"`
	Smoking   string  `json:"smoking"`
	ProfileID int64   `json:"profile_id"`
	UserID    int64   `json:"user_id"`
}

func (c *Client) GetHealthProfile(ctx context.Context) (*HealthProfile, error) {
	var out HealthProfile
	if err := c.do(ctx, http.MethodGet, "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateHealthProfile(ctx context.Context, req HealthProfileRequest) (*HealthProfile, error) {
	var out HealthProfile
	if err := c.do(ctx, http.MethodPost, "/health", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateHealthProfile(ctx context.Context, req HealthProfileRequest) (*HealthProfile, error) {
	var out HealthProfile
	if err := c.do(ctx, http.MethodPut, "/health", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Allergies.

type AllergyCreateRequest struct {
	AllergyName string `json:"allergy_name"`
	UserID      int64  `json:"user_id"`
}

type AllergyUpdateRequest struct {
	AllergyName string `json:"allergy_name"`
}

type Allergy struct {
	AllergyName string `json:"allergy_name"`
	AllergyID   int64  `json:"allergy_id"`
	UserID      int64  `json:"user_id"`
	CreatedAt   string `json:"created_at"`
}

func (c *Client) GetAllergies(ctx context.Context) ([]Allergy, error) {
	var out []Allergy
	if err := c.do(ctx, http.MethodGet, "/health/allergy", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAllergy(ctx context.Context, req AllergyCreateRequest) (*Allergy, error) {
	var out Allergy
	if err := c.do(ctx, http.MethodPost, "/health/allergy", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAllergy(ctx context.Context, allergyID int64, req AllergyUpdateRequest) (*Allergy, error) {
	var out Allergy
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/health/allergy/%d", allergyID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAllergy(ctx context.Context, allergyID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/health/allergy/%d", allergyID), nil, nil)
}

// Chronic diseases.

type ChronicCreateRequest struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
	UserID      int64  `json:"user_id"`
}

type ChronicUpdateRequest struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
}

type Chronic struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
	ChronicID   int64  `json:"chronic_id"`
	UserID      int64  `json:"user_id"`
}

func (c *Client) GetChronics(ctx context.Context) ([]Chronic, error) {
	var out []Chronic
	if err := c.do(ctx, http.MethodGet, "/health/chronic", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateChronic(ctx context.Context, req ChronicCreateRequest) (*Chronic, error) {
	var out Chronic
	if err := c.do(ctx, http.MethodPost, "/health/chronic", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateChronic(ctx context.Context, chronicID int64, req ChronicUpdateRequest) (*Chronic, error) {
	var out Chronic
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/health/chronic/%d", chronicID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteChronic(ctx context.Context, chronicID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/health/chronic/%d", chronicID), nil, nil)
}

// Acute diseases.

type AcuteCreateRequest struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
	UserID      int64  `json:"user_id"`
}

type AcuteUpdateRequest struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
}

type Acute struct {
	DiseaseName string `json:"disease_name"`
	Note        string `json:"note"`
	AcuteID     int64  `json:"acute_id"`
	UserID      int64  `json:"user_id"`
}

func (c *Client) GetAcutes(ctx context.Context) ([]Acute, error) {
	var out []Acute
	if err := c.do(ctx, http.MethodGet, "/health/acute", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateAcute(ctx context.Context, req AcuteCreateRequest) (*Acute, error) {
	var out Acute
	if err := c.do(ctx, http.MethodPost, "/health/acute", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateAcute(ctx context.Context, acuteID int64, req AcuteUpdateRequest) (*Acute, error) {
	var out Acute
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/health/acute/%d", acuteID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteAcute(ctx context.Context, acuteID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/health/acute/%d", acuteID), nil, nil)
}
