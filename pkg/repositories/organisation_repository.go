package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// OrganisationRepository provides data access for organisations.
type OrganisationRepository interface {
	// ListActive returns every active organisation. It is the one query that
	// runs without tenant scope: the fleet scheduler uses it to enumerate
	// tenants before scoping into each one.
	ListActive(ctx context.Context) ([]*models.Organisation, error)
	GetByID(ctx context.Context, orgID uuid.UUID) (*models.Organisation, error)
	// GetComplianceSettings returns the organisation's rule thresholds with
	// defaults applied; organisations without stored settings get the
	// regulatory defaults.
	GetComplianceSettings(ctx context.Context, orgID uuid.UUID) (*models.ComplianceSettings, error)
}

type organisationRepository struct{}

func NewOrganisationRepository() OrganisationRepository {
	return &organisationRepository{}
}

var _ OrganisationRepository = (*organisationRepository)(nil)

func (r *organisationRepository) ListActive(ctx context.Context) ([]*models.Organisation, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	rows, err := scope.Conn.Query(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organisations
		WHERE status = 'active'
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list active organisations: %w", err)
	}
	defer rows.Close()

	var orgs []*models.Organisation
	for rows.Next() {
		org := &models.Organisation{}
		if err := rows.Scan(&org.ID, &org.Name, &org.Status, &org.CreatedAt, &org.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organisation: %w", err)
		}
		orgs = append(orgs, org)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating organisations: %w", err)
	}

	return orgs, nil
}

func (r *organisationRepository) GetByID(ctx context.Context, orgID uuid.UUID) (*models.Organisation, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	org := &models.Organisation{}
	err := scope.Conn.QueryRow(ctx, `
		SELECT id, name, status, created_at, updated_at
		FROM organisations
		WHERE id = $1`, orgID).
		Scan(&org.ID, &org.Name, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get organisation: %w", err)
	}

	return org, nil
}

func (r *organisationRepository) GetComplianceSettings(ctx context.Context, orgID uuid.UUID) (*models.ComplianceSettings, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no database scope in context")
	}

	var raw []byte
	err := scope.Conn.QueryRow(ctx, `
		SELECT compliance_settings
		FROM organisations
		WHERE id = $1`, orgID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get compliance settings: %w", err)
	}

	if len(raw) == 0 {
		return models.DefaultComplianceSettings(), nil
	}

	settings := &models.ComplianceSettings{}
	if err := json.Unmarshal(raw, settings); err != nil {
		return nil, fmt.Errorf("failed to parse compliance settings: %w", err)
	}
	settings.ApplyDefaults()

	return settings, nil
}
