package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/middleware"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/repositories"
)

// NotificationsHandler serves the per-organisation notification views used
// by the pending-actions page and the alert bell.
type NotificationsHandler struct {
	db            *database.DB
	notifications repositories.NotificationRepository
	secret        string
	logger        *zap.Logger
}

// NewNotificationsHandler creates a new NotificationsHandler. The secret is
// the same shared bearer token that guards the fleet trigger; the consuming
// backend presents it on every call.
func NewNotificationsHandler(db *database.DB, notifications repositories.NotificationRepository, secret string, logger *zap.Logger) *NotificationsHandler {
	return &NotificationsHandler{db: db, notifications: notifications, secret: secret, logger: logger}
}

// RegisterRoutes registers the notification routes on the given mux. The
// credential check runs first, then every route enters a tenant scope for
// the {oid} organisation.
func (h *NotificationsHandler) RegisterRoutes(mux *http.ServeMux) {
	auth := middleware.RequireSecret(h.secret, h.logger)
	tenant := middleware.TenantScope(h.db, h.logger)
	guard := func(next http.Handler) http.Handler { return auth(tenant(next)) }
	mux.Handle("GET /api/organisations/{oid}/notifications", guard(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/organisations/{oid}/notifications/{id}/acknowledge", guard(http.HandlerFunc(h.Acknowledge)))
	mux.Handle("POST /api/organisations/{oid}/notifications/{id}/resolve", guard(http.HandlerFunc(h.Resolve)))
}

type notificationListResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	Total         int                    `json:"total"`
	Limit         int                    `json:"limit"`
	Offset        int                    `json:"offset"`
}

// List handles GET /api/organisations/{oid}/notifications with optional
// status, severity, rule_id, limit and offset query parameters.
func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}

	filters := models.NotificationFilters{
		Status:   r.URL.Query().Get("status"),
		Severity: r.URL.Query().Get("severity"),
		RuleID:   r.URL.Query().Get("rule_id"),
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_limit", "limit must be a non-negative integer")
			return
		}
		filters.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			_ = ErrorResponse(w, http.StatusBadRequest, "invalid_offset", "offset must be a non-negative integer")
			return
		}
		filters.Offset = n
	}

	notifications, total, err := h.notifications.List(r.Context(), orgID, filters)
	if err != nil {
		h.logger.Error("Failed to list notifications",
			zap.String("organisation_id", orgID.String()),
			zap.Error(err),
		)
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to list notifications")
		return
	}

	if notifications == nil {
		notifications = []*models.Notification{}
	}
	response := notificationListResponse{
		Notifications: notifications,
		Total:         total,
		Limit:         filters.Limit,
		Offset:        filters.Offset,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode notification list", zap.Error(err))
	}
}

type actionRequest struct {
	By string `json:"by"`
}

// Acknowledge handles POST /api/organisations/{oid}/notifications/{id}/acknowledge.
func (h *NotificationsHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.notifications.Acknowledge)
}

// Resolve handles POST /api/organisations/{oid}/notifications/{id}/resolve.
func (h *NotificationsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.notifications.Resolve)
}

func (h *NotificationsHandler) transition(w http.ResponseWriter, r *http.Request, apply func(ctx context.Context, orgID, notificationID uuid.UUID, by string) error) {
	orgID, ok := h.orgID(w, r)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "invalid notification id")
		return
	}

	var req actionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	if req.By == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_by", "'by' is required")
		return
	}

	if err := apply(r.Context(), orgID, notificationID, req.By); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "not_found", "notification not found or already in that state")
			return
		}
		h.logger.Error("Failed to update notification",
			zap.String("organisation_id", orgID.String()),
			zap.String("notification_id", notificationID.String()),
			zap.Error(err),
		)
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error", "failed to update notification")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *NotificationsHandler) orgID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orgID, err := uuid.Parse(r.PathValue("oid"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_organisation", "invalid organisation id")
		return uuid.Nil, false
	}
	return orgID, true
}
