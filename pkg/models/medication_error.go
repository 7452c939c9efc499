package models

import (
	"time"

	"github.com/google/uuid"
)

// NCC MERP medication error categories, ordered by harm. A means no error
// reached the service user; E through I denote errors that reached and
// affected them, I being death.
const (
	MerpCategoryA = "A"
	MerpCategoryB = "B"
	MerpCategoryC = "C"
	MerpCategoryD = "D"
	MerpCategoryE = "E"
	MerpCategoryF = "F"
	MerpCategoryG = "G"
	MerpCategoryH = "H"
	MerpCategoryI = "I"
)

// MedicationErrorReport records a medication error and its MERP category.
type MedicationErrorReport struct {
	ID             uuid.UUID  `json:"id"`
	OrganisationID uuid.UUID  `json:"organisation_id"`
	ServiceUserID  *uuid.UUID `json:"service_user_id,omitempty"`
	OccurredDate   time.Time  `json:"occurred_date"`
	Category       string     `json:"category"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
}

// MerpCategoryAtLeast reports whether category is valid and at or above the
// cutoff in the A to I ordering. Unknown categories rank below everything so
// a malformed record never fires a regulator notification by accident.
func MerpCategoryAtLeast(category, cutoff string) bool {
	c := merpRank(category)
	return c > 0 && c >= merpRank(cutoff)
}

func merpRank(category string) int {
	if len(category) != 1 {
		return 0
	}
	r := category[0]
	if r < 'A' || r > 'I' {
		return 0
	}
	return int(r-'A') + 1
}
