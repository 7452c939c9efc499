package rules

import (
	"fmt"
	"time"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// RuleIncidentSeverity escalates high and critical incidents to management.
const RuleIncidentSeverity = "incident_severity"

type incidentSeverity struct{}

// NewIncidentSeverity builds the incident escalation rule. High incidents
// raise a warning alert, critical incidents a critical alert; low and medium
// incidents never auto-escalate.
func NewIncidentSeverity() Rule {
	return &incidentSeverity{}
}

var _ Rule = (*incidentSeverity)(nil)

func (r *incidentSeverity) ID() string { return RuleIncidentSeverity }

func (r *incidentSeverity) Evaluate(state *TenantState, _ *models.ComplianceSettings, _ time.Time) ([]models.NotificationCandidate, error) {
	var candidates []models.NotificationCandidate

	for _, incident := range state.Incidents {
		var severity string
		switch incident.Severity {
		case models.IncidentSeverityCritical:
			severity = models.SeverityCritical
		case models.IncidentSeverityHigh:
			severity = models.SeverityWarning
		default:
			continue
		}

		candidates = append(candidates, models.NotificationCandidate{
			OrganisationID: incident.OrganisationID,
			RuleID:         RuleIncidentSeverity,
			SubjectType:    models.SubjectIncident,
			SubjectID:      incident.ID,
			Severity:       severity,
			Kind:           models.KindAlert,
			Message: fmt.Sprintf("%s severity incident on %s requires management review",
				incident.Severity, incident.OccurredDate.Format("2006-01-02")),
		})
	}

	return candidates, nil
}
