package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident severities.
const (
	IncidentSeverityLow      = "low"
	IncidentSeverityMedium   = "medium"
	IncidentSeverityHigh     = "high"
	IncidentSeverityCritical = "critical"
)

// Incident is an accident or incident record. High and critical severities
// escalate to management immediately; low and medium do not.
type Incident struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	ServiceUserID  *uuid.UUID `json:"service_user_id,omitempty"`
	OccurredDate   time.Time  `json:"occurred_date"`
	Severity       string     `json:"severity"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
}

// SafeguardingConcern statuses.
const (
	ConcernStatusOpen   = "open"
	ConcernStatusClosed = "closed"
)

// SafeguardingConcern is an adult support and protection concern. Open
// concerns must be reported to the regulator within one working day of being
// raised.
type SafeguardingConcern struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	ServiceUserID  *uuid.UUID `json:"service_user_id,omitempty"`
	RaisedDate     time.Time  `json:"raised_date"`
	ReportedAt     *time.Time `json:"reported_at,omitempty"`
	Status         string     `json:"status"`
}
