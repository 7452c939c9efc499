package rules

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

// RulePolicyAcknowledgement tracks outstanding policy sign-offs per staff
// member.
const RulePolicyAcknowledgement = "policy_acknowledgement"

type policyAcknowledgement struct{}

// NewPolicyAcknowledgement builds the policy sign-off rule. It emits one
// candidate per (active policy, active staff member) pair without a recorded
// acknowledgement. The staff id joins the dedup key so distinct staff
// obligations never collapse into one record. Candidate volume is
// O(staff x policies) and that is expected.
func NewPolicyAcknowledgement() Rule {
	return &policyAcknowledgement{}
}

var _ Rule = (*policyAcknowledgement)(nil)

func (r *policyAcknowledgement) ID() string { return RulePolicyAcknowledgement }

func (r *policyAcknowledgement) Evaluate(state *TenantState, _ *models.ComplianceSettings, _ time.Time) ([]models.NotificationCandidate, error) {
	acked := make(map[string]struct{}, len(state.PolicyAcknowledgements))
	for _, ack := range state.PolicyAcknowledgements {
		acked[ackKey(ack.PolicyID, ack.StaffID)] = struct{}{}
	}

	var candidates []models.NotificationCandidate
	for _, policy := range state.Policies {
		if policy.Status != models.PolicyStatusActive {
			continue
		}
		for _, staff := range state.Staff {
			if !staff.Active {
				continue
			}
			if _, ok := acked[ackKey(policy.ID, staff.ID)]; ok {
				continue
			}

			staffID := staff.ID
			candidates = append(candidates, models.NotificationCandidate{
				OrganisationID: policy.OrganisationID,
				RuleID:         RulePolicyAcknowledgement,
				SubjectType:    models.SubjectPolicy,
				SubjectID:      policy.ID,
				StaffID:        &staffID,
				Severity:       models.SeverityWarning,
				Kind:           models.KindTask,
				Message: fmt.Sprintf("%s has not acknowledged policy %q",
					staff.Name, policy.Title),
			})
		}
	}

	return candidates, nil
}

func ackKey(policyID, staffID uuid.UUID) string {
	return policyID.String() + "|" + staffID.String()
}
