package models

import (
	"time"

	"github.com/google/uuid"
)

// Complaint statuses.
const (
	ComplaintStatusOpen          = "open"
	ComplaintStatusInvestigating = "investigating"
	ComplaintStatusResolved      = "resolved"
)

// Complaint is a formal complaint received by an organisation. Regulatory
// guidance requires a response within 20 working days of receipt.
type Complaint struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	ReceivedDate   time.Time  `json:"received_date"`
	Summary        string     `json:"summary"`
	Status         string     `json:"status"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
}

// IsOpen reports whether the complaint still awaits a response.
func (c *Complaint) IsOpen() bool {
	return c.Status != ComplaintStatusResolved
}
