// Package scheduling is the client for the external rota system. Shift
// planning, visit scheduling and payroll live over there; this engine only
// reads the contract it publishes and requests shift assignments on behalf
// of managers.
package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/config"
)

// Shift is one rota entry as the scheduling system reports it.
type Shift struct {
	ID            uuid.UUID  `json:"id"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	ServiceUserID *uuid.UUID `json:"service_user_id,omitempty"`
	StartsAt      time.Time  `json:"starts_at"`
	EndsAt        time.Time  `json:"ends_at"`
	Role          string     `json:"role"`
	Location      string     `json:"location"`
}

// Visit is one planned service-user visit.
type Visit struct {
	ID            uuid.UUID  `json:"id"`
	ServiceUserID uuid.UUID  `json:"service_user_id"`
	StaffID       *uuid.UUID `json:"staff_id,omitempty"`
	ScheduledAt   time.Time  `json:"scheduled_at"`
	DurationMins  int        `json:"duration_mins"`
}

// RotaClient is the read-plus-assign contract the scheduling system exposes.
type RotaClient interface {
	GetStaffSchedule(ctx context.Context, orgID, staffID uuid.UUID, from, to time.Time) ([]Shift, error)
	GetServiceUserVisits(ctx context.Context, orgID, serviceUserID uuid.UUID, from, to time.Time) ([]Visit, error)
	GetUnfilledShifts(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Shift, error)
	AssignStaffToShift(ctx context.Context, orgID, shiftID, staffID uuid.UUID) error
}

type rotaClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewRotaClient creates an HTTP client for the configured rota system.
func NewRotaClient(cfg config.RotaConfig) RotaClient {
	return &rotaClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

var _ RotaClient = (*rotaClient)(nil)

func (c *rotaClient) GetStaffSchedule(ctx context.Context, orgID, staffID uuid.UUID, from, to time.Time) ([]Shift, error) {
	path := fmt.Sprintf("/api/staff/%s/shifts", staffID)
	var shifts []Shift
	if err := c.get(ctx, orgID, path, rangeQuery(from, to), &shifts); err != nil {
		return nil, fmt.Errorf("failed to fetch staff schedule: %w", err)
	}
	return shifts, nil
}

func (c *rotaClient) GetServiceUserVisits(ctx context.Context, orgID, serviceUserID uuid.UUID, from, to time.Time) ([]Visit, error) {
	path := fmt.Sprintf("/api/service-users/%s/visits", serviceUserID)
	var visits []Visit
	if err := c.get(ctx, orgID, path, rangeQuery(from, to), &visits); err != nil {
		return nil, fmt.Errorf("failed to fetch service user visits: %w", err)
	}
	return visits, nil
}

func (c *rotaClient) GetUnfilledShifts(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]Shift, error) {
	var shifts []Shift
	query := rangeQuery(from, to)
	query.Set("status", "unfilled")
	if err := c.get(ctx, orgID, "/api/shifts", query, &shifts); err != nil {
		return nil, fmt.Errorf("failed to fetch unfilled shifts: %w", err)
	}
	return shifts, nil
}

func (c *rotaClient) AssignStaffToShift(ctx context.Context, orgID, shiftID, staffID uuid.UUID) error {
	body, err := json.Marshal(map[string]string{"staff_id": staffID.String()})
	if err != nil {
		return fmt.Errorf("failed to encode assignment: %w", err)
	}

	path := fmt.Sprintf("/api/shifts/%s/assign", shiftID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req, orgID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rota request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("rota returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return nil
}

func (c *rotaClient) get(ctx context.Context, orgID uuid.UUID, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setHeaders(req, orgID)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rota request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("rota returned status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode rota response: %w", err)
	}
	return nil
}

func (c *rotaClient) setHeaders(req *http.Request, orgID uuid.UUID) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("X-Organisation-ID", orgID.String())
}

func rangeQuery(from, to time.Time) url.Values {
	query := url.Values{}
	query.Set("from", from.Format(time.RFC3339))
	query.Set("to", to.Format(time.RFC3339))
	return query
}

// readErrorBody returns a short excerpt of an error response body.
func readErrorBody(body io.Reader) string {
	excerpt, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil || len(excerpt) == 0 {
		return "<no body>"
	}
	return string(excerpt)
}
