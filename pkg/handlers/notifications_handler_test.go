package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

func newNotificationsHandler(repo *mockNotificationRepo) *NotificationsHandler {
	return NewNotificationsHandler(nil, repo, "s3cret", zap.NewNop())
}

// notificationsMux registers the full route set so requests pass through the
// credential check exactly as they do in production.
func notificationsMux(repo *mockNotificationRepo) *http.ServeMux {
	mux := http.NewServeMux()
	newNotificationsHandler(repo).RegisterRoutes(mux)
	return mux
}

func TestNotificationRoutesRequireCredential(t *testing.T) {
	orgID := uuid.New()
	notificationID := uuid.New()
	repo := &mockNotificationRepo{
		listFn: func(context.Context, uuid.UUID, models.NotificationFilters) ([]*models.Notification, int, error) {
			t.Fatal("repository must not be reached without a credential")
			return nil, 0, nil
		},
		acknowledgeFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			t.Fatal("repository must not be reached without a credential")
			return nil
		},
	}
	mux := notificationsMux(repo)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/organisations/" + orgID.String() + "/notifications"},
		{http.MethodPost, "/api/organisations/" + orgID.String() + "/notifications/" + notificationID.String() + "/acknowledge"},
		{http.MethodPost, "/api/organisations/" + orgID.String() + "/notifications/" + notificationID.String() + "/resolve"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			var body *strings.Reader
			if route.method == http.MethodPost {
				body = strings.NewReader(`{"by":"manager@rowan.example"}`)
			} else {
				body = strings.NewReader("")
			}
			req := httptest.NewRequest(route.method, route.path, body)
			rec := httptest.NewRecorder()

			mux.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
		})
	}
}

func TestNotificationRoutesRejectWrongCredential(t *testing.T) {
	orgID := uuid.New()
	repo := &mockNotificationRepo{
		listFn: func(context.Context, uuid.UUID, models.NotificationFilters) ([]*models.Notification, int, error) {
			t.Fatal("repository must not be reached with a bad credential")
			return nil, 0, nil
		},
	}
	mux := notificationsMux(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/organisations/"+orgID.String()+"/notifications", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec := httptest.NewRecorder()

	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListNotifications(t *testing.T) {
	orgID := uuid.New()
	repo := &mockNotificationRepo{
		listFn: func(_ context.Context, gotOrg uuid.UUID, filters models.NotificationFilters) ([]*models.Notification, int, error) {
			assert.Equal(t, orgID, gotOrg)
			assert.Equal(t, "open", filters.Status)
			assert.Equal(t, "critical", filters.Severity)
			assert.Equal(t, 10, filters.Limit)
			return []*models.Notification{
				{ID: uuid.New(), OrganisationID: gotOrg, RuleID: "complaint_sla", Severity: "critical", Status: "open"},
			}, 1, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet,
		"/api/organisations/"+orgID.String()+"/notifications?status=open&severity=critical&limit=10", nil)
	req.SetPathValue("oid", orgID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body notificationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	require.Len(t, body.Notifications, 1)
	assert.Equal(t, "complaint_sla", body.Notifications[0].RuleID)
}

func TestListNotificationsEmptyIsArrayNotNull(t *testing.T) {
	orgID := uuid.New()
	repo := &mockNotificationRepo{
		listFn: func(context.Context, uuid.UUID, models.NotificationFilters) ([]*models.Notification, int, error) {
			return nil, 0, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/organisations/"+orgID.String()+"/notifications", nil)
	req.SetPathValue("oid", orgID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"notifications":[]`)
}

func TestListNotificationsBadLimit(t *testing.T) {
	orgID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/organisations/"+orgID.String()+"/notifications?limit=abc", nil)
	req.SetPathValue("oid", orgID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(&mockNotificationRepo{}).List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListNotificationsBadOrgID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/organisations/not-a-uuid/notifications", nil)
	req.SetPathValue("oid", "not-a-uuid")
	rec := httptest.NewRecorder()

	newNotificationsHandler(&mockNotificationRepo{}).List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcknowledgeNotification(t *testing.T) {
	orgID := uuid.New()
	notificationID := uuid.New()
	repo := &mockNotificationRepo{
		acknowledgeFn: func(_ context.Context, gotOrg, gotID uuid.UUID, by string) error {
			assert.Equal(t, orgID, gotOrg)
			assert.Equal(t, notificationID, gotID)
			assert.Equal(t, "manager@rowan.example", by)
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost,
		"/api/organisations/"+orgID.String()+"/notifications/"+notificationID.String()+"/acknowledge",
		strings.NewReader(`{"by":"manager@rowan.example"}`))
	req.SetPathValue("oid", orgID.String())
	req.SetPathValue("id", notificationID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).Acknowledge(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestResolveNotificationNotFound(t *testing.T) {
	orgID := uuid.New()
	notificationID := uuid.New()
	repo := &mockNotificationRepo{
		resolveFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			return apperrors.ErrNotFound
		},
	}

	req := httptest.NewRequest(http.MethodPost,
		"/api/organisations/"+orgID.String()+"/notifications/"+notificationID.String()+"/resolve",
		strings.NewReader(`{"by":"manager@rowan.example"}`))
	req.SetPathValue("oid", orgID.String())
	req.SetPathValue("id", notificationID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).Resolve(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTransitionRequiresBy(t *testing.T) {
	orgID := uuid.New()
	notificationID := uuid.New()
	repo := &mockNotificationRepo{
		acknowledgeFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			t.Fatal("repository must not be called without an actor")
			return nil
		},
	}

	req := httptest.NewRequest(http.MethodPost,
		"/api/organisations/"+orgID.String()+"/notifications/"+notificationID.String()+"/acknowledge",
		strings.NewReader(`{}`))
	req.SetPathValue("oid", orgID.String())
	req.SetPathValue("id", notificationID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).Acknowledge(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransitionRepoErrorIs500(t *testing.T) {
	orgID := uuid.New()
	notificationID := uuid.New()
	repo := &mockNotificationRepo{
		resolveFn: func(context.Context, uuid.UUID, uuid.UUID, string) error {
			return fmt.Errorf("connection refused")
		},
	}

	req := httptest.NewRequest(http.MethodPost,
		"/api/organisations/"+orgID.String()+"/notifications/"+notificationID.String()+"/resolve",
		strings.NewReader(`{"by":"manager@rowan.example"}`))
	req.SetPathValue("oid", orgID.String())
	req.SetPathValue("id", notificationID.String())
	rec := httptest.NewRecorder()

	newNotificationsHandler(repo).Resolve(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}
