package rules

import (
	"github.com/Rahelio/care-scot-sub003/pkg/workdays"
)

// Catalogue returns the fixed set of compliance rules. Adding a rule means
// adding an entry here; evaluation order never affects correctness because
// dedup keys make the sink order-independent.
func Catalogue(cal workdays.Calendar) []Rule {
	return []Rule{
		NewComplaintSLA(cal),
		NewMedicationErrorRegulator(),
		NewMedicationErrorManagement(),
		NewIncidentSeverity(),
		NewSafeguardingReport(cal),
		NewPolicyAcknowledgement(),
		NewAnnualReturn(),
		NewAuditSchedule(),
		NewPersonalPlan(),
	}
}
