package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification severities, ordered info < warning < critical.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Notification kinds. A task asks someone to do something (submit a return,
// notify the regulator); an alert tells management something happened.
const (
	KindTask  = "task"
	KindAlert = "alert"
)

// Notification statuses. The engine only ever opens notifications;
// acknowledging and resolving are user actions.
const (
	NotificationStatusOpen         = "open"
	NotificationStatusAcknowledged = "acknowledged"
	NotificationStatusResolved     = "resolved"
)

// Subject types referenced by notifications and dedup keys.
const (
	SubjectComplaint       = "complaint"
	SubjectMedicationError = "medication_error"
	SubjectIncident        = "incident"
	SubjectSafeguarding    = "safeguarding_concern"
	SubjectQualityAudit    = "quality_audit"
	SubjectInspection      = "inspection"
	SubjectPolicy          = "policy"
	SubjectAnnualReturn    = "annual_return"
	SubjectPersonalPlan    = "personal_plan"
	SubjectServiceUser     = "service_user"
)

// NotificationCandidate is the ephemeral output of one rule evaluation. It is
// never persisted directly - the sink decides whether it becomes a new
// notification, escalates an existing open one, or is suppressed.
type NotificationCandidate struct {
	OrganisationID uuid.UUID  `json:"organisation_id"`
	RuleID         string     `json:"rule_id"`
	SubjectType    string     `json:"subject_type"`
	SubjectID      uuid.UUID  `json:"subject_id"`
	StaffID        *uuid.UUID `json:"staff_id,omitempty"`
	Severity       string     `json:"severity"`
	Kind           string     `json:"kind"`
	Message        string     `json:"message"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	Overdue        bool       `json:"overdue"`
}

// DedupKey identifies "the same ongoing issue" across repeated rule runs.
// The staff id participates only when set, so per-staff obligations (policy
// acknowledgements) stay distinct.
func (c *NotificationCandidate) DedupKey() string {
	key := fmt.Sprintf("%s:%s:%s:%s", c.OrganisationID, c.RuleID, c.SubjectType, c.SubjectID)
	if c.StaffID != nil {
		key += ":" + c.StaffID.String()
	}
	return key
}

// Notification is the persisted output of the engine, consumed by the
// pending-actions view and the alert bell. At most one open notification
// exists per dedup key; the database enforces this with a partial unique
// index.
type Notification struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	RuleID         string     `json:"rule_id"`
	SubjectType    string     `json:"subject_type"`
	SubjectID      uuid.UUID  `json:"subject_id"`
	StaffID        *uuid.UUID `json:"staff_id,omitempty"`
	DedupKey       string     `json:"dedup_key"`
	Severity       string     `json:"severity"`
	Kind           string     `json:"kind"`
	Message        string     `json:"message"`
	DueAt          *time.Time `json:"due_at,omitempty"`
	Overdue        bool       `json:"overdue"`
	Status         string     `json:"status"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedBy     *string    `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// CommitOutcome classifies what the sink did with one candidate.
type CommitOutcome string

const (
	OutcomeCreated    CommitOutcome = "created"
	OutcomeUpdated    CommitOutcome = "updated"
	OutcomeSuppressed CommitOutcome = "suppressed"
)

// CommitResult aggregates a sink commit over a batch of candidates.
type CommitResult struct {
	Created    int `json:"created"`
	Updated    int `json:"updated"`
	Suppressed int `json:"suppressed"`
}

// NotificationFilters narrows notification listings.
type NotificationFilters struct {
	Status   string
	Severity string
	RuleID   string
	Limit    int
	Offset   int
}
