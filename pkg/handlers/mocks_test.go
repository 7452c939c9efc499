package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

type mockFleetService struct {
	runFn func(ctx context.Context) (*models.FleetReport, error)
}

func (m *mockFleetService) RunFleet(ctx context.Context) (*models.FleetReport, error) {
	return m.runFn(ctx)
}

func (m *mockFleetService) StartScheduler(context.Context) {}

type mockNotificationRepo struct {
	listFn        func(ctx context.Context, orgID uuid.UUID, filters models.NotificationFilters) ([]*models.Notification, int, error)
	acknowledgeFn func(ctx context.Context, orgID, notificationID uuid.UUID, by string) error
	resolveFn     func(ctx context.Context, orgID, notificationID uuid.UUID, by string) error
}

func (m *mockNotificationRepo) UpsertOpen(context.Context, *models.NotificationCandidate) (models.CommitOutcome, error) {
	return models.OutcomeCreated, nil
}

func (m *mockNotificationRepo) List(ctx context.Context, orgID uuid.UUID, filters models.NotificationFilters) ([]*models.Notification, int, error) {
	return m.listFn(ctx, orgID, filters)
}

func (m *mockNotificationRepo) Acknowledge(ctx context.Context, orgID, notificationID uuid.UUID, by string) error {
	return m.acknowledgeFn(ctx, orgID, notificationID, by)
}

func (m *mockNotificationRepo) Resolve(ctx context.Context, orgID, notificationID uuid.UUID, by string) error {
	return m.resolveFn(ctx, orgID, notificationID, by)
}
