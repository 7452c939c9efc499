package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/metrics"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/repositories"
)

// NotificationSink decides which candidates are genuinely new and persists
// only those. It is the single write path for notifications.
type NotificationSink interface {
	// Commit feeds every candidate through the idempotent upsert. A failure
	// on one candidate is collected and the remaining candidates still
	// commit; the joined error is returned alongside the partial result.
	Commit(ctx context.Context, candidates []models.NotificationCandidate) (*models.CommitResult, error)
}

type notificationSink struct {
	notifications repositories.NotificationRepository
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewNotificationSink creates the sink. Metrics may be nil in tests.
func NewNotificationSink(notifications repositories.NotificationRepository, m *metrics.Metrics, logger *zap.Logger) NotificationSink {
	return &notificationSink{
		notifications: notifications,
		metrics:       m,
		logger:        logger.Named("notification-sink"),
	}
}

var _ NotificationSink = (*notificationSink)(nil)

func (s *notificationSink) Commit(ctx context.Context, candidates []models.NotificationCandidate) (*models.CommitResult, error) {
	result := &models.CommitResult{}
	var errs []error

	for i := range candidates {
		candidate := &candidates[i]

		outcome, err := s.notifications.UpsertOpen(ctx, candidate)
		if err != nil {
			errs = append(errs, fmt.Errorf("candidate %s: %w", candidate.DedupKey(), err))
			continue
		}

		switch outcome {
		case models.OutcomeCreated:
			result.Created++
			if s.metrics != nil {
				s.metrics.NotificationsCreated.WithLabelValues(candidate.RuleID).Inc()
			}
			s.logger.Info("Notification created",
				zap.String("rule_id", candidate.RuleID),
				zap.String("severity", candidate.Severity),
				zap.String("organisation_id", candidate.OrganisationID.String()),
				zap.String("subject_type", candidate.SubjectType),
			)
		case models.OutcomeUpdated:
			result.Updated++
			if s.metrics != nil {
				s.metrics.NotificationsUpdated.WithLabelValues(candidate.RuleID).Inc()
			}
			s.logger.Info("Notification escalated",
				zap.String("rule_id", candidate.RuleID),
				zap.String("severity", candidate.Severity),
				zap.String("organisation_id", candidate.OrganisationID.String()),
			)
		case models.OutcomeSuppressed:
			result.Suppressed++
			if s.metrics != nil {
				s.metrics.NotificationsSuppressed.WithLabelValues(candidate.RuleID).Inc()
			}
		}
	}

	return result, errors.Join(errs...)
}
