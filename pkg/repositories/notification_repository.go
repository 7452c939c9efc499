package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// NotificationRepository provides data access for notification/task records.
type NotificationRepository interface {
	// UpsertOpen inserts a new open notification for the candidate, escalates
	// the existing open one in place when severity/message/deadline changed,
	// or suppresses the candidate when an identical open record already
	// exists. The whole check-then-create step is a single statement against
	// the partial unique index on dedup_key, so it is atomic under concurrent
	// runs and correct across multiple scheduler instances.
	UpsertOpen(ctx context.Context, candidate *models.NotificationCandidate) (models.CommitOutcome, error)

	List(ctx context.Context, orgID uuid.UUID, filters models.NotificationFilters) ([]*models.Notification, int, error)

	// Acknowledge and Resolve are user actions surfaced through the API; the
	// engine itself never closes a notification.
	Acknowledge(ctx context.Context, orgID, notificationID uuid.UUID, by string) error
	Resolve(ctx context.Context, orgID, notificationID uuid.UUID, by string) error
}

type notificationRepository struct{}

func NewNotificationRepository() NotificationRepository {
	return &notificationRepository{}
}

var _ NotificationRepository = (*notificationRepository)(nil)

func (r *notificationRepository) UpsertOpen(ctx context.Context, candidate *models.NotificationCandidate) (models.CommitOutcome, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return "", fmt.Errorf("no tenant scope in context")
	}

	// The DO UPDATE predicate skips the write when nothing changed, so an
	// unchanged re-run returns no row at all. (xmax = 0) distinguishes a
	// fresh insert from an in-place escalation.
	var id uuid.UUID
	var inserted bool
	err := scope.Conn.QueryRow(ctx, `
		INSERT INTO notifications (
			organisation_id, rule_id, subject_type, subject_id, staff_id,
			dedup_key, severity, kind, message, due_at, overdue, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, 'open')
		ON CONFLICT (dedup_key) WHERE status = 'open' DO UPDATE SET
			severity   = EXCLUDED.severity,
			message    = EXCLUDED.message,
			due_at     = EXCLUDED.due_at,
			overdue    = EXCLUDED.overdue,
			updated_at = now()
		WHERE notifications.severity IS DISTINCT FROM EXCLUDED.severity
		   OR notifications.message  IS DISTINCT FROM EXCLUDED.message
		   OR notifications.due_at   IS DISTINCT FROM EXCLUDED.due_at
		   OR notifications.overdue  IS DISTINCT FROM EXCLUDED.overdue
		RETURNING id, (xmax = 0) AS inserted`,
		candidate.OrganisationID, candidate.RuleID, candidate.SubjectType,
		candidate.SubjectID, candidate.StaffID, candidate.DedupKey(),
		candidate.Severity, candidate.Kind, candidate.Message,
		candidate.DueAt, candidate.Overdue,
	).Scan(&id, &inserted)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.OutcomeSuppressed, nil
		}
		return "", fmt.Errorf("failed to upsert notification: %w", err)
	}

	if inserted {
		return models.OutcomeCreated, nil
	}
	return models.OutcomeUpdated, nil
}

func (r *notificationRepository) List(ctx context.Context, orgID uuid.UUID, filters models.NotificationFilters) ([]*models.Notification, int, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, 0, fmt.Errorf("no tenant scope in context")
	}

	limit := filters.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	conditions := []string{"organisation_id = $1"}
	args := []any{orgID}
	argIdx := 2

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filters.Status)
		argIdx++
	}
	if filters.Severity != "" {
		conditions = append(conditions, fmt.Sprintf("severity = $%d", argIdx))
		args = append(args, filters.Severity)
		argIdx++
	}
	if filters.RuleID != "" {
		conditions = append(conditions, fmt.Sprintf("rule_id = $%d", argIdx))
		args = append(args, filters.RuleID)
		argIdx++
	}

	where := strings.Join(conditions, " AND ")

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM notifications WHERE %s`, where)
	var total int
	if err := scope.Conn.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	dataQuery := fmt.Sprintf(`
		SELECT id, organisation_id, rule_id, subject_type, subject_id, staff_id,
		       dedup_key, severity, kind, message, due_at, overdue, status,
		       acknowledged_by, acknowledged_at, resolved_by, resolved_at,
		       created_at, updated_at
		FROM notifications
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)

	args = append(args, limit, offset)

	rows, err := scope.Conn.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, total, nil
}

func (r *notificationRepository) Acknowledge(ctx context.Context, orgID, notificationID uuid.UUID, by string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	tag, err := scope.Conn.Exec(ctx, `
		UPDATE notifications
		SET status = 'acknowledged', acknowledged_by = $3, acknowledged_at = now(), updated_at = now()
		WHERE organisation_id = $1 AND id = $2 AND status = 'open'`,
		orgID, notificationID, by)
	if err != nil {
		return fmt.Errorf("failed to acknowledge notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) Resolve(ctx context.Context, orgID, notificationID uuid.UUID, by string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	tag, err := scope.Conn.Exec(ctx, `
		UPDATE notifications
		SET status = 'resolved', resolved_by = $3, resolved_at = now(), updated_at = now()
		WHERE organisation_id = $1 AND id = $2 AND status IN ('open', 'acknowledged')`,
		orgID, notificationID, by)
	if err != nil {
		return fmt.Errorf("failed to resolve notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanNotification(rows pgx.Rows) (*models.Notification, error) {
	n := &models.Notification{}
	err := rows.Scan(
		&n.ID, &n.OrganisationID, &n.RuleID, &n.SubjectType, &n.SubjectID, &n.StaffID,
		&n.DedupKey, &n.Severity, &n.Kind, &n.Message, &n.DueAt, &n.Overdue, &n.Status,
		&n.AcknowledgedBy, &n.AcknowledgedAt, &n.ResolvedBy, &n.ResolvedAt,
		&n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}
	return n, nil
}
