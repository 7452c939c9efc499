package rules

import (
	"errors"
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// RuleComplaintSLA tracks the 20-working-day complaint response deadline.
const RuleComplaintSLA = "complaint_sla"

type complaintSLA struct {
	cal workdays.Calendar
}

// NewComplaintSLA builds the complaint SLA rule. Open complaints approaching
// the response deadline get a warning; complaints at or past it get a
// critical breach candidate. Breached always supersedes approaching for the
// same complaint.
func NewComplaintSLA(cal workdays.Calendar) Rule {
	return &complaintSLA{cal: cal}
}

var _ Rule = (*complaintSLA)(nil)

func (r *complaintSLA) ID() string { return RuleComplaintSLA }

func (r *complaintSLA) Evaluate(state *TenantState, settings *models.ComplianceSettings, today time.Time) ([]models.NotificationCandidate, error) {
	var candidates []models.NotificationCandidate
	var errs []error

	for _, c := range state.Complaints {
		if !c.IsOpen() {
			continue
		}

		elapsed, err := r.cal.WorkingDaysElapsed(c.ReceivedDate, today)
		if err != nil {
			errs = append(errs, fmt.Errorf("complaint %s: %w", c.ID, err))
			continue
		}
		if elapsed < settings.ComplaintApproachingDays {
			continue
		}

		deadline, err := r.cal.AddWorkingDays(c.ReceivedDate, settings.ComplaintBreachDays)
		if err != nil {
			errs = append(errs, fmt.Errorf("complaint %s: %w", c.ID, err))
			continue
		}

		candidate := models.NotificationCandidate{
			OrganisationID: c.OrganisationID,
			RuleID:         RuleComplaintSLA,
			SubjectType:    models.SubjectComplaint,
			SubjectID:      c.ID,
			Kind:           models.KindTask,
			DueAt:          &deadline,
		}

		if elapsed >= settings.ComplaintBreachDays {
			candidate.Severity = models.SeverityCritical
			candidate.Overdue = true
			candidate.Message = fmt.Sprintf(
				"Complaint response deadline breached: %d of %d working days elapsed",
				elapsed, settings.ComplaintBreachDays)
		} else {
			candidate.Severity = models.SeverityWarning
			candidate.Message = fmt.Sprintf(
				"Complaint response deadline approaching: %d of %d working days elapsed",
				elapsed, settings.ComplaintBreachDays)
		}

		candidates = append(candidates, candidate)
	}

	return candidates, errors.Join(errs...)
}
