package models

import (
	"time"

	"github.com/google/uuid"
)

// Policy statuses.
const (
	PolicyStatusDraft    = "draft"
	PolicyStatusActive   = "active"
	PolicyStatusArchived = "archived"
)

// Policy is an internal policy document. Every staff member must record an
// acknowledgement of each active policy.
type Policy struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	Title          string     `json:"title"`
	Status         string     `json:"status"`
	EffectiveDate  time.Time  `json:"effective_date"`
	ReviewDue      *time.Time `json:"review_due,omitempty"`
}

// PolicyAcknowledgement records that one staff member has read one policy.
type PolicyAcknowledgement struct {
	ID             uuid.UUID `json:"id"`
	OrganisationID uuid.UUID `json:"organisation_id"`
	PolicyID       uuid.UUID `json:"policy_id"`
	StaffID        uuid.UUID `json:"staff_id"`
	AcknowledgedAt time.Time `json:"acknowledged_at"`
}
