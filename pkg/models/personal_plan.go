package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalPlan statuses.
const (
	PlanStatusActive   = "active"
	PlanStatusArchived = "archived"
)

// PersonalPlan is a service user's care plan. Every active service user must
// have one active plan, reviewed on a six-month cycle.
type PersonalPlan struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	ServiceUserID  uuid.UUID  `json:"service_user_id"`
	Status         string     `json:"status"`
	StartedAt      time.Time  `json:"started_at"`
	ReviewDue      *time.Time `json:"review_due,omitempty"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
}
