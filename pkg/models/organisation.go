package models

import (
	"time"

	"github.com/google/uuid"
)

// Organisation statuses.
const (
	OrgStatusActive   = "active"
	OrgStatusInactive = "inactive"
)

// Organisation is the tenant boundary. Every other entity carries the owning
// organisation id, and rule evaluation for one organisation never reads or
// writes another's data.
type Organisation struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the organisation is included in fleet runs.
func (o *Organisation) IsActive() bool {
	return o.Status == OrgStatusActive
}

// StaffMember is an employee of an organisation. Policy acknowledgement
// obligations are tracked per staff member.
type StaffMember struct {
	ID             uuid.UUID `json:"id"`
	OrganisationID uuid.UUID `json:"organisation_id"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Active         bool      `json:"active"`
}

// ServiceUser is a person receiving care from an organisation.
type ServiceUser struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	Name           string     `json:"name"`
	AdmittedAt     *time.Time `json:"admitted_at,omitempty"`
	Active         bool       `json:"active"`
}
