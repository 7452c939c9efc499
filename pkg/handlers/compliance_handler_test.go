package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

func complianceMux(fleet *mockFleetService) *http.ServeMux {
	mux := http.NewServeMux()
	NewComplianceHandler(fleet, "s3cret", zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func triggerRun(mux *http.ServeMux, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/compliance/run", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestComplianceRunReturnsReport(t *testing.T) {
	fleet := &mockFleetService{
		runFn: func(context.Context) (*models.FleetReport, error) {
			return &models.FleetReport{
				StartedAt: time.Date(2026, 2, 2, 3, 0, 0, 0, time.UTC),
				Checked:   3,
				Failed:    1,
				Results:   make([]models.TenantResult, 3),
			}, nil
		},
	}

	rec := triggerRun(complianceMux(fleet), "s3cret")

	require.Equal(t, http.StatusOK, rec.Code)

	var report models.FleetReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 3, report.Checked)
	assert.Equal(t, 1, report.Failed)
	assert.Len(t, report.Results, 3)
}

func TestComplianceRunUnauthorizedBeforeAnyWork(t *testing.T) {
	fleet := &mockFleetService{
		runFn: func(context.Context) (*models.FleetReport, error) {
			t.Fatal("fleet run must not start for an unauthorized request")
			return nil, nil
		},
	}

	rec := triggerRun(complianceMux(fleet), "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = triggerRun(complianceMux(fleet), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestComplianceRunLockHeld(t *testing.T) {
	fleet := &mockFleetService{
		runFn: func(context.Context) (*models.FleetReport, error) {
			return nil, apperrors.ErrFleetRunInProgress
		},
	}

	rec := triggerRun(complianceMux(fleet), "s3cret")

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "run_in_progress")
}

func TestComplianceRunInternalError(t *testing.T) {
	fleet := &mockFleetService{
		runFn: func(context.Context) (*models.FleetReport, error) {
			return nil, fmt.Errorf("cannot list organisations")
		},
	}

	rec := triggerRun(complianceMux(fleet), "s3cret")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "cannot list organisations",
		"internal details must not leak to the caller")
}

func TestComplianceRunMethodNotAllowed(t *testing.T) {
	fleet := &mockFleetService{
		runFn: func(context.Context) (*models.FleetReport, error) {
			return &models.FleetReport{}, nil
		},
	}
	mux := complianceMux(fleet)

	req := httptest.NewRequest(http.MethodGet, "/api/compliance/run", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
