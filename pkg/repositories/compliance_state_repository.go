package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/rules"
)

// ComplianceStateRepository loads the read-only snapshot of one
// organisation's operational state that the rule catalogue evaluates.
type ComplianceStateRepository interface {
	LoadState(ctx context.Context, orgID uuid.UUID) (*rules.TenantState, error)
}

type complianceStateRepository struct{}

func NewComplianceStateRepository() ComplianceStateRepository {
	return &complianceStateRepository{}
}

var _ ComplianceStateRepository = (*complianceStateRepository)(nil)

// LoadState reads every subject table for the organisation. The connection
// must already be tenant-scoped; the explicit organisation_id filters are
// belt and braces on top of RLS.
func (r *complianceStateRepository) LoadState(ctx context.Context, orgID uuid.UUID) (*rules.TenantState, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	state := &rules.TenantState{}
	var err error

	if state.Staff, err = loadStaff(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.ServiceUsers, err = loadServiceUsers(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.Complaints, err = loadComplaints(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.MedicationErrors, err = loadMedicationErrors(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.Incidents, err = loadIncidents(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.SafeguardingConcerns, err = loadSafeguardingConcerns(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.QualityAudits, err = loadQualityAudits(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.Inspections, err = loadInspections(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.Policies, err = loadPolicies(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.PolicyAcknowledgements, err = loadPolicyAcknowledgements(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.AnnualReturns, err = loadAnnualReturns(ctx, scope, orgID); err != nil {
		return nil, err
	}
	if state.PersonalPlans, err = loadPersonalPlans(ctx, scope, orgID); err != nil {
		return nil, err
	}

	return state, nil
}

func loadStaff(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.StaffMember, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, name, role, active
		FROM staff_members
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load staff: %w", err)
	}
	defer rows.Close()

	var staff []models.StaffMember
	for rows.Next() {
		var s models.StaffMember
		if err := rows.Scan(&s.ID, &s.OrganisationID, &s.Name, &s.Role, &s.Active); err != nil {
			return nil, fmt.Errorf("failed to scan staff member: %w", err)
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

func loadServiceUsers(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.ServiceUser, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, name, admitted_at, active
		FROM service_users
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load service users: %w", err)
	}
	defer rows.Close()

	var users []models.ServiceUser
	for rows.Next() {
		var u models.ServiceUser
		if err := rows.Scan(&u.ID, &u.OrganisationID, &u.Name, &u.AdmittedAt, &u.Active); err != nil {
			return nil, fmt.Errorf("failed to scan service user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func loadComplaints(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.Complaint, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, received_date, summary, status, resolved_at
		FROM complaints
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		if err := rows.Scan(&c.ID, &c.OrganisationID, &c.ReceivedDate, &c.Summary, &c.Status, &c.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	return complaints, rows.Err()
}

func loadMedicationErrors(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.MedicationErrorReport, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, service_user_id, occurred_date, category, description, status
		FROM medication_error_reports
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load medication error reports: %w", err)
	}
	defer rows.Close()

	var reports []models.MedicationErrorReport
	for rows.Next() {
		var m models.MedicationErrorReport
		if err := rows.Scan(&m.ID, &m.OrganisationID, &m.ServiceUserID, &m.OccurredDate, &m.Category, &m.Description, &m.Status); err != nil {
			return nil, fmt.Errorf("failed to scan medication error report: %w", err)
		}
		reports = append(reports, m)
	}
	return reports, rows.Err()
}

func loadIncidents(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.Incident, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, service_user_id, occurred_date, severity, description, status
		FROM incidents
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load incidents: %w", err)
	}
	defer rows.Close()

	var incidents []models.Incident
	for rows.Next() {
		var i models.Incident
		if err := rows.Scan(&i.ID, &i.OrganisationID, &i.ServiceUserID, &i.OccurredDate, &i.Severity, &i.Description, &i.Status); err != nil {
			return nil, fmt.Errorf("failed to scan incident: %w", err)
		}
		incidents = append(incidents, i)
	}
	return incidents, rows.Err()
}

func loadSafeguardingConcerns(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.SafeguardingConcern, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, service_user_id, raised_date, reported_at, status
		FROM safeguarding_concerns
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load safeguarding concerns: %w", err)
	}
	defer rows.Close()

	var concerns []models.SafeguardingConcern
	for rows.Next() {
		var c models.SafeguardingConcern
		if err := rows.Scan(&c.ID, &c.OrganisationID, &c.ServiceUserID, &c.RaisedDate, &c.ReportedAt, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan safeguarding concern: %w", err)
		}
		concerns = append(concerns, c)
	}
	return concerns, rows.Err()
}

func loadQualityAudits(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.QualityAudit, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, name, scheduled_date, completed_at
		FROM quality_audits
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quality audits: %w", err)
	}
	defer rows.Close()

	var audits []models.QualityAudit
	for rows.Next() {
		var a models.QualityAudit
		if err := rows.Scan(&a.ID, &a.OrganisationID, &a.Name, &a.ScheduledDate, &a.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quality audit: %w", err)
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}

func loadInspections(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.Inspection, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, inspection_date, action_plan_due, action_plan_done, requirements_count
		FROM inspections
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load inspections: %w", err)
	}
	defer rows.Close()

	var inspections []models.Inspection
	for rows.Next() {
		var i models.Inspection
		if err := rows.Scan(&i.ID, &i.OrganisationID, &i.InspectionDate, &i.ActionPlanDue, &i.ActionPlanDone, &i.RequirementsCount); err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, i)
	}
	return inspections, rows.Err()
}

func loadPolicies(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.Policy, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, title, status, effective_date, review_due
		FROM policies
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policies: %w", err)
	}
	defer rows.Close()

	var policies []models.Policy
	for rows.Next() {
		var p models.Policy
		if err := rows.Scan(&p.ID, &p.OrganisationID, &p.Title, &p.Status, &p.EffectiveDate, &p.ReviewDue); err != nil {
			return nil, fmt.Errorf("failed to scan policy: %w", err)
		}
		policies = append(policies, p)
	}
	return policies, rows.Err()
}

func loadPolicyAcknowledgements(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.PolicyAcknowledgement, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, policy_id, staff_id, acknowledged_at
		FROM policy_acknowledgements
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load policy acknowledgements: %w", err)
	}
	defer rows.Close()

	var acks []models.PolicyAcknowledgement
	for rows.Next() {
		var a models.PolicyAcknowledgement
		if err := rows.Scan(&a.ID, &a.OrganisationID, &a.PolicyID, &a.StaffID, &a.AcknowledgedAt); err != nil {
			return nil, fmt.Errorf("failed to scan policy acknowledgement: %w", err)
		}
		acks = append(acks, a)
	}
	return acks, rows.Err()
}

func loadAnnualReturns(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.AnnualReturn, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, period_year, due_date, submitted_at
		FROM annual_returns
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load annual returns: %w", err)
	}
	defer rows.Close()

	var returns []models.AnnualReturn
	for rows.Next() {
		var a models.AnnualReturn
		if err := rows.Scan(&a.ID, &a.OrganisationID, &a.PeriodYear, &a.DueDate, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan annual return: %w", err)
		}
		returns = append(returns, a)
	}
	return returns, rows.Err()
}

func loadPersonalPlans(ctx context.Context, scope *database.TenantScope, orgID uuid.UUID) ([]models.PersonalPlan, error) {
	rows, err := scope.Conn.Query(ctx, `
		SELECT id, organisation_id, service_user_id, status, started_at, review_due, last_reviewed_at
		FROM personal_plans
		WHERE organisation_id = $1`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load personal plans: %w", err)
	}
	defer rows.Close()

	var plans []models.PersonalPlan
	for rows.Next() {
		var p models.PersonalPlan
		if err := rows.Scan(&p.ID, &p.OrganisationID, &p.ServiceUserID, &p.Status, &p.StartedAt, &p.ReviewDue, &p.LastReviewedAt); err != nil {
			return nil, fmt.Errorf("failed to scan personal plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
