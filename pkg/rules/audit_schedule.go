package rules

import (
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// RuleAuditSchedule covers the internal audit schedule and inspection action
// plans.
const RuleAuditSchedule = "audit_schedule"

type auditSchedule struct{}

// NewAuditSchedule builds the audit schedule rule. Uncompleted quality audits
// get an info reminder inside the look-ahead window and a warning once the
// scheduled date has passed; inspections with an action plan past its due
// date get a warning task.
func NewAuditSchedule() Rule {
	return &auditSchedule{}
}

var _ Rule = (*auditSchedule)(nil)

func (r *auditSchedule) ID() string { return RuleAuditSchedule }

func (r *auditSchedule) Evaluate(state *TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	day := workdays.DateOf(today)
	horizon := day.AddDate(0, 0, settings.AuditLookaheadDays)

	var candidates []models.NotificationCandidate

	for _, audit := range state.QualityAudits {
		if audit.CompletedAt != nil {
			continue
		}

		scheduled := workdays.DateOf(audit.ScheduledDate)
		dueAt := audit.ScheduledDate

		switch {
		case scheduled.Before(day):
			candidates = append(candidates, models.NotificationCandidate{
				OrganisationID: audit.OrganisationID,
				RuleID:         RuleAuditSchedule,
				SubjectType:    models.SubjectQualityAudit,
				SubjectID:      audit.ID,
				Severity:       models.SeverityWarning,
				Kind:           models.KindTask,
				DueAt:          &dueAt,
				Overdue:        true,
				Message: fmt.Sprintf("Audit %q was scheduled for %s and has not been completed",
					audit.Name, scheduled.Format("2006-01-02")),
			})
		case !scheduled.After(horizon):
			candidates = append(candidates, models.NotificationCandidate{
				OrganisationID: audit.OrganisationID,
				RuleID:         RuleAuditSchedule,
				SubjectType:    models.SubjectQualityAudit,
				SubjectID:      audit.ID,
				Severity:       models.SeverityInfo,
				Kind:           models.KindTask,
				DueAt:          &dueAt,
				Message: fmt.Sprintf("Audit %q is scheduled for %s",
					audit.Name, scheduled.Format("2006-01-02")),
			})
		}
	}

	for _, inspection := range state.Inspections {
		if inspection.ActionPlanDue == nil || inspection.ActionPlanDone != nil {
			continue
		}
		due := workdays.DateOf(*inspection.ActionPlanDue)
		if !due.Before(day) {
			continue
		}

		dueAt := *inspection.ActionPlanDue
		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: inspection.OrganisationID,
			RuleID:         RuleAuditSchedule,
			SubjectType:    models.SubjectInspection,
			SubjectID:      inspection.ID,
			Severity:       models.SeverityWarning,
			Kind:           models.KindTask,
			DueAt:          &dueAt,
			Overdue:        true,
			Message: fmt.Sprintf("Inspection action plan was due %s (%d requirements outstanding)",
				due.Format("2006-01-02"), inspection.RequirementsCount),
		})
	}

	return candidates, nil
}
