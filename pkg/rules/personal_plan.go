package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// RulePersonalPlan checks personal plan coverage and review dates.
const RulePersonalPlan = "personal_plan"

type personalPlan struct{}

// NewPersonalPlan builds the personal plan rule. An active service user with
// no active plan raises a critical task; an active plan past its review date
// raises a warning.
func NewPersonalPlan() Rule {
	return &personalPlan{}
}

var _ Rule = (*personalPlan)(nil)

func (r *personalPlan) ID() string { return RulePersonalPlan }

func (r *personalPlan) Evaluate(state *TenantState, _ *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	day := workdays.DateOf(today)

	activePlans := make(map[uuid.UUID]int, len(state.ServiceUsers))
	for _, plan := range state.PersonalPlans {
		if plan.Status == models.PlanStatusActive {
			activePlans[plan.ServiceUserID]++
		}
	}

	var candidates []models.NotificationCandidate

	for _, su := range state.ServiceUsers {
		if !su.Active || activePlans[su.ID] > 0 {
			continue
		}
		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: su.OrganisationID,
			RuleID:         RulePersonalPlan,
			SubjectType:    models.SubjectServiceUser,
			SubjectID:      su.ID,
			Severity:       models.SeverityCritical,
			Kind:           models.KindTask,
			Overdue:        true,
			Message:        fmt.Sprintf("%s has no active personal plan", su.Name),
		})
	}

	for _, plan := range state.PersonalPlans {
		if plan.Status != models.PlanStatusActive || plan.ReviewDue == nil {
			continue
		}
		due := workdays.DateOf(*plan.ReviewDue)
		if !due.Before(day) {
			continue
		}

		dueAt := *plan.ReviewDue
		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: plan.OrganisationID,
			RuleID:         RulePersonalPlan,
			SubjectType:    models.SubjectPersonalPlan,
			SubjectID:      plan.ID,
			Severity:       models.SeverityWarning,
			Kind:           models.KindTask,
			DueAt:          &dueAt,
			Overdue:        true,
			Message: fmt.Sprintf("Personal plan review was due %s",
				due.Format("2006-01-02")),
		})
	}

	return candidates, nil
}
