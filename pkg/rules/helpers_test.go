package rules

import (
	"time"

	"github.com/google/uuid"

	"github.com/Rahelio/care-scot-sub003/pkg/models"
)

var testOrgID = uuid.MustParse("7b0d8b7a-2a9e-4f7c-9c34-5d1c6a0e2f11")

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func timePtr(t time.Time) *time.Time { return &t }

func testSettings() *models.ComplianceSettings {
	return models.DefaultComplianceSettings()
}
