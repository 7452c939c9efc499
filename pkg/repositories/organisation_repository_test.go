//go:build integration

package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/testhelpers"
)

type organisationTestContext struct {
	t        *testing.T
	engineDB *testhelpers.EngineDB
	repo     OrganisationRepository
}

func setupOrganisationTest(t *testing.T) *organisationTestContext {
	return &organisationTestContext{
		t:        t,
		engineDB: testhelpers.GetEngineDB(t),
		repo:     NewOrganisationRepository(),
	}
}

// fleetContext returns an unscoped context, the way the fleet scheduler
// enumerates organisations.
func (tc *organisationTestContext) fleetContext() (context.Context, func()) {
	tc.t.Helper()
	ctx := context.Background()
	scope, err := tc.engineDB.DB.WithoutTenant(ctx)
	if err != nil {
		tc.t.Fatalf("failed to create scope: %v", err)
	}
	return database.SetTenantScope(ctx, scope), func() { scope.Close() }
}

func (tc *organisationTestContext) insertOrganisation(name, status string, settings []byte) uuid.UUID {
	tc.t.Helper()
	ctx := context.Background()
	scope, err := tc.engineDB.DB.WithoutTenant(ctx)
	if err != nil {
		tc.t.Fatalf("failed to create scope: %v", err)
	}
	defer scope.Close()

	id := uuid.New()
	if settings == nil {
		settings = []byte("{}")
	}
	_, err = scope.Conn.Exec(ctx, `
		INSERT INTO organisations (id, name, status, compliance_settings)
		VALUES ($1, $2, $3, $4)
	`, id, name, status, settings)
	if err != nil {
		tc.t.Fatalf("failed to insert organisation: %v", err)
	}
	tc.t.Cleanup(func() {
		scope, err := tc.engineDB.DB.WithoutTenant(context.Background())
		if err != nil {
			return
		}
		defer scope.Close()
		_, _ = scope.Conn.Exec(context.Background(), "DELETE FROM organisations WHERE id = $1", id)
	})
	return id
}

func TestOrganisationRepository_ListActive(t *testing.T) {
	tc := setupOrganisationTest(t)

	activeID := tc.insertOrganisation("Braeside Care Home", "active", nil)
	suspendedID := tc.insertOrganisation("Dormant Care Home", "suspended", nil)

	ctx, closeScope := tc.fleetContext()
	defer closeScope()

	orgs, err := tc.repo.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}

	found := map[uuid.UUID]bool{}
	for _, org := range orgs {
		found[org.ID] = true
		if org.Status != "active" {
			t.Errorf("ListActive returned organisation %s with status %s", org.ID, org.Status)
		}
	}
	if !found[activeID] {
		t.Error("expected active organisation in ListActive")
	}
	if found[suspendedID] {
		t.Error("suspended organisation must not appear in ListActive")
	}
}

func TestOrganisationRepository_GetByID(t *testing.T) {
	tc := setupOrganisationTest(t)

	id := tc.insertOrganisation("Hillview Care Home", "active", nil)

	ctx, closeScope := tc.fleetContext()
	defer closeScope()

	org, err := tc.repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if org.Name != "Hillview Care Home" {
		t.Errorf("expected name Hillview Care Home, got %s", org.Name)
	}

	_, err = tc.repo.GetByID(ctx, uuid.New())
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown organisation, got %v", err)
	}
}

func TestOrganisationRepository_GetComplianceSettings_Defaults(t *testing.T) {
	tc := setupOrganisationTest(t)

	// No stored settings: the organisation gets the regulatory defaults.
	id := tc.insertOrganisation("Default Settings Home", "active", nil)

	ctx, closeScope := tc.fleetContext()
	defer closeScope()

	settings, err := tc.repo.GetComplianceSettings(ctx, id)
	if err != nil {
		t.Fatalf("GetComplianceSettings failed: %v", err)
	}

	defaults := models.DefaultComplianceSettings()
	if settings.ComplaintBreachDays != defaults.ComplaintBreachDays {
		t.Errorf("expected default complaint breach threshold %d, got %d",
			defaults.ComplaintBreachDays, settings.ComplaintBreachDays)
	}
	if settings.MerpAlertCategory != defaults.MerpAlertCategory {
		t.Errorf("expected default MERP cutoff %s, got %s",
			defaults.MerpAlertCategory, settings.MerpAlertCategory)
	}
	if !settings.IsRuleEnabled("complaint_sla") {
		t.Error("expected rules enabled by default")
	}
}

func TestOrganisationRepository_GetComplianceSettings_PartialOverride(t *testing.T) {
	tc := setupOrganisationTest(t)

	// A stored override only replaces the fields it names.
	id := tc.insertOrganisation("Custom Settings Home", "active",
		[]byte(`{"complaint_breach_days": 10, "rule_settings": {"audit_schedule": {"enabled": false}}}`))

	ctx, closeScope := tc.fleetContext()
	defer closeScope()

	settings, err := tc.repo.GetComplianceSettings(ctx, id)
	if err != nil {
		t.Fatalf("GetComplianceSettings failed: %v", err)
	}

	if settings.ComplaintBreachDays != 10 {
		t.Errorf("expected overridden complaint breach threshold 10, got %d", settings.ComplaintBreachDays)
	}
	if settings.MerpAlertCategory != models.DefaultComplianceSettings().MerpAlertCategory {
		t.Errorf("expected default MERP cutoff alongside override, got %s", settings.MerpAlertCategory)
	}
	if settings.IsRuleEnabled("audit_schedule") {
		t.Error("expected audit_schedule disabled by stored settings")
	}
	if !settings.IsRuleEnabled("complaint_sla") {
		t.Error("expected untouched rules to stay enabled")
	}
}
