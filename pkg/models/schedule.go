package models

import (
	"time"

	"github.com/google/uuid"
)

// QualityAudit is an internal audit on the organisation's audit schedule.
type QualityAudit struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	Name           string     `json:"name"`
	ScheduledDate  time.Time  `json:"scheduled_date"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// Inspection is a regulator inspection. Requirements from an inspection are
// tracked through an action plan with a due date.
type Inspection struct {
	ID                uuid.UUID  `json:"id"`
	OrganisationID    uuid.UUID  `json:"organisation_id"`
	InspectionDate    time.Time  `json:"inspection_date"`
	ActionPlanDue     *time.Time `json:"action_plan_due,omitempty"`
	ActionPlanDone    *time.Time `json:"action_plan_done,omitempty"`
	RequirementsCount int        `json:"requirements_count"`
}

// AnnualReturn is the yearly regulatory return an organisation must submit.
type AnnualReturn struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	PeriodYear     int        `json:"period_year"`
	DueDate        time.Time  `json:"due_date"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
}
