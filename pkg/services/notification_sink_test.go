package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

func candidate(ruleID string) models.NotificationCandidate {
	return models.NotificationCandidate{
		OrganisationID: uuid.New(),
		RuleID:         ruleID,
		SubjectType:    models.SubjectComplaint,
		SubjectID:      uuid.New(),
		Severity:       models.SeverityWarning,
		Kind:           models.KindTask,
		Message:        "test",
	}
}

func TestSinkCommitTallies(t *testing.T) {
	outcomes := []models.CommitOutcome{
		models.OutcomeCreated,
		models.OutcomeUpdated,
		models.OutcomeSuppressed,
		models.OutcomeCreated,
	}
	call := 0
	repo := &mockNotificationRepo{
		upsertFn: func(context.Context, *models.NotificationCandidate) (models.CommitOutcome, error) {
			outcome := outcomes[call]
			call++
			return outcome, nil
		},
	}
	sink := NewNotificationSink(repo, nil, zap.NewNop())

	result, err := sink.Commit(context.Background(), []models.NotificationCandidate{
		candidate("a"), candidate("a"), candidate("b"), candidate("c"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Suppressed)
	assert.Len(t, repo.upserted, 4, "every candidate reaches the store")
}

func TestSinkCommitFailureDoesNotBlockRest(t *testing.T) {
	call := 0
	repo := &mockNotificationRepo{
		upsertFn: func(context.Context, *models.NotificationCandidate) (models.CommitOutcome, error) {
			call++
			if call == 2 {
				return "", fmt.Errorf("connection reset")
			}
			return models.OutcomeCreated, nil
		},
	}
	sink := NewNotificationSink(repo, nil, zap.NewNop())

	result, err := sink.Commit(context.Background(), []models.NotificationCandidate{
		candidate("a"), candidate("a"), candidate("a"),
	})

	assert.Error(t, err)
	assert.Equal(t, 2, result.Created, "candidates after the failure still commit")
	assert.Len(t, repo.upserted, 3)
}

func TestSinkCommitEmptyBatch(t *testing.T) {
	sink := NewNotificationSink(&mockNotificationRepo{}, nil, zap.NewNop())

	result, err := sink.Commit(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, result.Created)
	assert.Zero(t, result.Updated)
	assert.Zero(t, result.Suppressed)
}
