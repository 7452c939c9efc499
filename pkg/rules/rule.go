package rules

import (
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// Rule is one compliance check. Evaluate is a pure function of the loaded
// tenant state - no I/O, no clock reads - so rules can be unit-tested without
// a store and re-evaluating the same state on the same day always yields the
// same candidates. A rule may return candidates alongside an error when some
// records were malformed; the orchestrator commits what it got and records
// the error.
type Rule interface {
	ID() string
	Evaluate(state *TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error)
}

// TenantState is the read-only snapshot of one organisation's operational
// state that the rule catalogue evaluates. It is loaded once per run by the
// orchestrator and shared by every rule.
type TenantState struct {
	Organisation *models.Organisation

	Staff        []models.StaffMember
	ServiceUsers []models.ServiceUser

	Complaints             []models.Complaint
	MedicationErrors       []models.MedicationErrorReport
	Incidents              []models.Incident
	SafeguardingConcerns   []models.SafeguardingConcern
	QualityAudits          []models.QualityAudit
	Inspections            []models.Inspection
	Policies               []models.Policy
	PolicyAcknowledgements []models.PolicyAcknowledgement
	AnnualReturns          []models.AnnualReturn
	PersonalPlans          []models.PersonalPlan
}
