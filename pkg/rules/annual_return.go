package rules

import (
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// RuleAnnualReturn reminds about and escalates unsubmitted annual returns.
const RuleAnnualReturn = "annual_return"

type annualReturn struct{}

// NewAnnualReturn builds the annual return rule. An unsubmitted return whose
// due date falls within the look-ahead window gets a reminder; one past its
// due date escalates to a critical overdue task.
func NewAnnualReturn() Rule {
	return &annualReturn{}
}

var _ Rule = (*annualReturn)(nil)

func (r *annualReturn) ID() string { return RuleAnnualReturn }

func (r *annualReturn) Evaluate(state *TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	day := workdays.DateOf(today)
	horizon := day.AddDate(0, 0, settings.ReturnLookaheadDays)

	var candidates []models.NotificationCandidate
	for _, ret := range state.AnnualReturns {
		if ret.SubmittedAt != nil {
			continue
		}

		due := workdays.DateOf(ret.DueDate)
		dueAt := ret.DueDate

		switch {
		case due.Before(day):
			candidates = append(candidates, models.NotificationCandidate{
				OrganisationID: ret.OrganisationID,
				RuleID:         RuleAnnualReturn,
				SubjectType:    models.SubjectAnnualReturn,
				SubjectID:      ret.ID,
				Severity:       models.SeverityCritical,
				Kind:           models.KindTask,
				DueAt:          &dueAt,
				Overdue:        true,
				Message: fmt.Sprintf("Annual return for %d is overdue (due %s)",
					ret.PeriodYear, due.Format("2006-01-02")),
			})
		case !due.After(horizon):
			candidates = append(candidates, models.NotificationCandidate{
				OrganisationID: ret.OrganisationID,
				RuleID:         RuleAnnualReturn,
				SubjectType:    models.SubjectAnnualReturn,
				SubjectID:      ret.ID,
				Severity:       models.SeverityWarning,
				Kind:           models.KindTask,
				DueAt:          &dueAt,
				Message: fmt.Sprintf("Annual return for %d is due by %s",
					ret.PeriodYear, due.Format("2006-01-02")),
			})
		}
	}

	return candidates, nil
}
