package models

import (
	"time"

	"github.com/google/uuid"
)

// RuleError records one rule's failure within an otherwise successful run.
type RuleError struct {
	RuleID  string `json:"rule_id"`
	Message string `json:"message"`
}

// RunSummary is the per-organisation result of one orchestrator invocation.
type RunSummary struct {
	OrganisationID   uuid.UUID      `json:"organisation_id"`
	OrganisationName string         `json:"organisation_name"`
	Candidates       int            `json:"candidates"`
	Created          int            `json:"created"`
	Updated          int            `json:"updated"`
	Suppressed       int            `json:"suppressed"`
	ByRule           map[string]int `json:"by_rule,omitempty"`
	BySeverity       map[string]int `json:"by_severity,omitempty"`
	RuleErrors       []RuleError    `json:"rule_errors,omitempty"`
}

// TenantResult is one organisation's slot in a fleet report: either a
// summary or an error, never both.
type TenantResult struct {
	OrganisationID   uuid.UUID   `json:"organisation_id"`
	OrganisationName string      `json:"organisation_name"`
	Summary          *RunSummary `json:"summary,omitempty"`
	Error            string      `json:"error,omitempty"`
}

// FleetReport is the top-level result of one fleet sweep. Checked always
// equals the number of active organisations - a failed tenant is counted and
// reported, never dropped.
type FleetReport struct {
	StartedAt time.Time      `json:"started_at"`
	Duration  time.Duration  `json:"duration"`
	Checked   int            `json:"checked"`
	Failed    int            `json:"failed"`
	Results   []TenantResult `json:"results"`
}
