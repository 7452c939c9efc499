package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/middleware"
	"github.com/Rahelio/care-scot-sub003/pkg/services"
)

// ComplianceHandler exposes the externally triggered fleet run.
type ComplianceHandler struct {
	fleet  services.FleetService
	secret string
	logger *zap.Logger
}

// NewComplianceHandler creates the handler. The secret guards the trigger
// endpoint; requests failing it are rejected before any evaluation starts.
func NewComplianceHandler(fleet services.FleetService, secret string, logger *zap.Logger) *ComplianceHandler {
	return &ComplianceHandler{fleet: fleet, secret: secret, logger: logger}
}

// RegisterRoutes registers the compliance trigger route on the given mux.
func (h *ComplianceHandler) RegisterRoutes(mux *http.ServeMux) {
	auth := middleware.RequireSecret(h.secret, h.logger)
	mux.Handle("POST /api/compliance/run", auth(http.HandlerFunc(h.Run)))
}

// Run handles POST /api/compliance/run. It sweeps every active organisation
// synchronously and returns the full fleet report.
func (h *ComplianceHandler) Run(w http.ResponseWriter, r *http.Request) {
	report, err := h.fleet.RunFleet(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrFleetRunInProgress) {
			if writeErr := ErrorResponse(w, http.StatusServiceUnavailable, "run_in_progress", "a fleet run is already in progress"); writeErr != nil {
				h.logger.Error("Failed to encode error response", zap.Error(writeErr))
			}
			return
		}
		h.logger.Error("Fleet run failed", zap.Error(err))
		if writeErr := ErrorResponse(w, http.StatusInternalServerError, "internal_error", "fleet run failed"); writeErr != nil {
			h.logger.Error("Failed to encode error response", zap.Error(writeErr))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, report); err != nil {
		h.logger.Error("Failed to encode fleet report", zap.Error(err))
	}
}
