package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/rules"
)

type mockNotificationRepo struct {
	upsertFn func(ctx context.Context, candidate *models.NotificationCandidate) (models.CommitOutcome, error)
	upserted []models.NotificationCandidate
}

func (m *mockNotificationRepo) UpsertOpen(ctx context.Context, candidate *models.NotificationCandidate) (models.CommitOutcome, error) {
	m.upserted = append(m.upserted, *candidate)
	if m.upsertFn != nil {
		return m.upsertFn(ctx, candidate)
	}
	return models.OutcomeCreated, nil
}

func (m *mockNotificationRepo) List(context.Context, uuid.UUID, models.NotificationFilters) ([]*models.Notification, int, error) {
	return nil, 0, nil
}

func (m *mockNotificationRepo) Acknowledge(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

func (m *mockNotificationRepo) Resolve(context.Context, uuid.UUID, uuid.UUID, string) error {
	return nil
}

type mockSink struct {
	commitFn  func(ctx context.Context, candidates []models.NotificationCandidate) (*models.CommitResult, error)
	committed [][]models.NotificationCandidate
}

func (m *mockSink) Commit(ctx context.Context, candidates []models.NotificationCandidate) (*models.CommitResult, error) {
	m.committed = append(m.committed, candidates)
	if m.commitFn != nil {
		return m.commitFn(ctx, candidates)
	}
	return &models.CommitResult{Created: len(candidates)}, nil
}

type mockRunner struct {
	runFn func(ctx context.Context, orgID uuid.UUID) (*models.RunSummary, error)
}

func (m *mockRunner) RunAllChecks(ctx context.Context, orgID uuid.UUID) (*models.RunSummary, error) {
	return m.runFn(ctx, orgID)
}

// stubRule is a scripted rule for orchestration tests.
type stubRule struct {
	id   string
	eval func(state *rules.TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error)
}

func (r *stubRule) ID() string { return r.id }

func (r *stubRule) Evaluate(state *rules.TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	return r.eval(state, settings, today)
}
