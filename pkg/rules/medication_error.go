package rules

import (
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// Rule ids for serious medication errors. Categories E through I (error
// reached and affected the service user) unconditionally raise both a
// regulator-notification task and a management alert - there is no threshold
// ambiguity on this path, only the fixed category cutoff.
const (
	RuleMedicationErrorRegulator  = "medication_error_regulator"
	RuleMedicationErrorManagement = "medication_error_management"
)

type medicationErrorRegulator struct{}

// NewMedicationErrorRegulator builds the regulator-notification rule for
// serious medication errors.
func NewMedicationErrorRegulator() Rule {
	return &medicationErrorRegulator{}
}

var _ Rule = (*medicationErrorRegulator)(nil)

func (r *medicationErrorRegulator) ID() string { return RuleMedicationErrorRegulator }

func (r *medicationErrorRegulator) Evaluate(state *TenantState, settings *models.ComplianceSettings, _ time.Time) ([]models.NotificationCandidate, error) {
	var candidates []models.NotificationCandidate
	for _, report := range seriousMedicationErrors(state, settings) {
		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: report.OrganisationID,
			RuleID:         RuleMedicationErrorRegulator,
			SubjectType:    models.SubjectMedicationError,
			SubjectID:      report.ID,
			Severity:       models.SeverityCritical,
			Kind:           models.KindTask,
			Overdue:        true,
			Message: fmt.Sprintf(
				"Notify the regulator: category %s medication error on %s",
				report.Category, report.OccurredDate.Format("2006-01-02")),
		})
	}
	return candidates, nil
}

type medicationErrorManagement struct{}

// NewMedicationErrorManagement builds the management-alert rule for serious
// medication errors.
func NewMedicationErrorManagement() Rule {
	return &medicationErrorManagement{}
}

var _ Rule = (*medicationErrorManagement)(nil)

func (r *medicationErrorManagement) ID() string { return RuleMedicationErrorManagement }

func (r *medicationErrorManagement) Evaluate(state *TenantState, settings *models.ComplianceSettings, _ time.Time) ([]models.NotificationCandidate, error) {
	var candidates []models.NotificationCandidate
	for _, report := range seriousMedicationErrors(state, settings) {
		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: report.OrganisationID,
			RuleID:         RuleMedicationErrorManagement,
			SubjectType:    models.SubjectMedicationError,
			SubjectID:      report.ID,
			Severity:       models.SeverityCritical,
			Kind:           models.KindAlert,
			Message: fmt.Sprintf(
				"Category %s medication error reached a service user", report.Category),
		})
	}
	return candidates, nil
}

// seriousMedicationErrors filters reports at or above the configured MERP
// cutoff. No other field gates this path.
func seriousMedicationErrors(state *TenantState, settings *models.ComplianceSettings) []models.MedicationErrorReport {
	var serious []models.MedicationErrorReport
	for _, report := range state.MedicationErrors {
		if models.MerpCategoryAtLeast(report.Category, settings.MerpAlertCategory) {
			serious = append(serious, report)
		}
	}
	return serious
}
