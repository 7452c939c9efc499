package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// RuleSafeguardingReport tracks the one-working-day regulator reporting
// deadline for safeguarding concerns.
const RuleSafeguardingReport = "safeguarding_report"

type safeguardingReport struct {
	cal workdays.Calendar
}

// NewSafeguardingReport builds the safeguarding reporting rule. An open
// concern with no regulator report after the configured number of working
// days raises a critical task.
func NewSafeguardingReport(cal workdays.Calendar) Rule {
	return &safeguardingReport{cal: cal}
}

var _ Rule = (*safeguardingReport)(nil)

func (r *safeguardingReport) ID() string { return RuleSafeguardingReport }

func (r *safeguardingReport) Evaluate(state *TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	var candidates []models.NotificationCandidate
	var errs []error

	for _, concern := range state.SafeguardingConcerns {
		if concern.Status != models.ConcernStatusOpen || concern.ReportedAt != nil {
			continue
		}

		elapsed, err := r.cal.WorkingDaysElapsed(concern.RaisedDate, today)
		if err != nil {
			errs = append(errs, fmt.Errorf("safeguarding concern %s: %w", concern.ID, err))
			continue
		}
		if elapsed < settings.SafeguardingReportDays {
			continue
		}

		deadline, err := r.cal.AddWorkingDays(concern.RaisedDate, settings.SafeguardingReportDays)
		if err != nil {
			errs = append(errs, fmt.Errorf("safeguarding concern %s: %w", concern.ID, err))
			continue
		}

		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: concern.OrganisationID,
			RuleID:         RuleSafeguardingReport,
			SubjectType:    models.SubjectSafeguarding,
			SubjectID:      concern.ID,
			Severity:       models.SeverityCritical,
			Kind:           models.KindTask,
			DueAt:          &deadline,
			Overdue:        true,
			Message: fmt.Sprintf(
				"Safeguarding concern raised %s has not been reported to the regulator",
				concern.RaisedDate.Format("2006-01-02")),
		})
	}

	return candidates, errors.Join(errs...)
}
