package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidDate        = errors.New("invalid date")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrFleetRunInProgress = errors.New("a fleet run is already in progress")
)

// RuleEvaluationError records the failure of a single compliance rule for one
// organisation. It is captured in the run summary and never aborts the run.
type RuleEvaluationError struct {
	RuleID string
	Err    error
}

func (e *RuleEvaluationError) Error() string {
	return fmt.Sprintf("rule %s: %v", e.RuleID, e.Err)
}

func (e *RuleEvaluationError) Unwrap() error { return e.Err }

// TenantRunError records the failure of an entire organisation run. It is
// captured in the fleet report and never aborts sibling runs.
type TenantRunError struct {
	OrganisationID uuid.UUID
	Err            error
}

func (e *TenantRunError) Error() string {
	return fmt.Sprintf("organisation %s: %v", e.OrganisationID, e.Err)
}

func (e *TenantRunError) Unwrap() error { return e.Err }
