package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

func activePolicy(title string) models.Policy {
	return models.Policy{
		ID:             uuid.New(),
		OrganisationID: testOrgID,
		Title:          title,
		Status:         models.PolicyStatusActive,
		EffectiveDate:  day("2026-01-01"),
	}
}

func activeStaff(name string) models.StaffMember {
	return models.StaffMember{
		ID:             uuid.New(),
		OrganisationID: testOrgID,
		Name:           name,
		Active:         true,
	}
}

func TestPolicyAcknowledgementPerStaffCandidates(t *testing.T) {
	policies := []models.Policy{activePolicy("Medication"), activePolicy("Moving and Handling")}
	staff := []models.StaffMember{activeStaff("Anna"), activeStaff("Bilal"), activeStaff("Cara")}

	state := &TenantState{Policies: policies, Staff: staff}

	candidates, err := NewPolicyAcknowledgement().Evaluate(state, testSettings(), day("2026-02-02"))
	require.NoError(t, err)
	require.Len(t, candidates, 6, "two policies times three staff")

	keys := make(map[string]struct{})
	for i := range candidates {
		require.NotNil(t, candidates[i].StaffID, "staff id must join the dedup key")
		keys[candidates[i].DedupKey()] = struct{}{}
	}
	assert.Len(t, keys, 6, "every pair gets its own dedup key")
}

func TestPolicyAcknowledgementExistingAckSkipped(t *testing.T) {
	policy := activePolicy("Medication")
	signed := activeStaff("Anna")
	unsigned := activeStaff("Bilal")

	state := &TenantState{
		Policies: []models.Policy{policy},
		Staff:    []models.StaffMember{signed, unsigned},
		PolicyAcknowledgements: []models.PolicyAcknowledgement{{
			ID:             uuid.New(),
			OrganisationID: testOrgID,
			PolicyID:       policy.ID,
			StaffID:        signed.ID,
			AcknowledgedAt: day("2026-01-15"),
		}},
	}

	candidates, err := NewPolicyAcknowledgement().Evaluate(state, testSettings(), day("2026-02-02"))
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Equal(t, unsigned.ID, *candidates[0].StaffID)
}

func TestPolicyAcknowledgementSkipsDraftAndInactive(t *testing.T) {
	draft := activePolicy("New policy")
	draft.Status = models.PolicyStatusDraft

	leaver := activeStaff("Former employee")
	leaver.Active = false

	state := &TenantState{
		Policies: []models.Policy{draft, activePolicy("Medication")},
		Staff:    []models.StaffMember{leaver, activeStaff("Anna")},
	}

	candidates, err := NewPolicyAcknowledgement().Evaluate(state, testSettings(), day("2026-02-02"))
	require.NoError(t, err)
	assert.Len(t, candidates, 1, "only active policy times active staff")
}
