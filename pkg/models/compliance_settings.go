package models

// ComplianceSettings holds per-organisation rule thresholds, stored as JSONB
// on the organisations table. Defaults apply wherever a value is unset.
type ComplianceSettings struct {
	// Complaint SLA thresholds in working days.
	ComplaintApproachingDays int `json:"complaint_approaching_days"`
	ComplaintBreachDays      int `json:"complaint_breach_days"`

	// Calendar-day look-ahead windows for reminders.
	ReturnLookaheadDays int `json:"return_lookahead_days"`
	AuditLookaheadDays  int `json:"audit_lookahead_days"`

	// Working days allowed to report a safeguarding concern to the regulator.
	SafeguardingReportDays int `json:"safeguarding_report_days"`

	// MERP category at or above which a medication error unconditionally
	// raises a regulator-notification task and a management alert.
	MerpAlertCategory string `json:"merp_alert_category"`

	// RuleSettings disables individual rules; absent entries mean enabled.
	RuleSettings map[string]RuleSetting `json:"rule_settings,omitempty"`
}

// RuleSetting is the per-rule toggle within ComplianceSettings.
type RuleSetting struct {
	Enabled bool `json:"enabled"`
}

// DefaultComplianceSettings returns the regulatory defaults: 20 working days
// for complaints (approaching at 15), MERP category E cutoff, one working day
// for safeguarding reports.
func DefaultComplianceSettings() *ComplianceSettings {
	return &ComplianceSettings{
		ComplaintApproachingDays: 15,
		ComplaintBreachDays:      20,
		ReturnLookaheadDays:      30,
		AuditLookaheadDays:       14,
		SafeguardingReportDays:   1,
		MerpAlertCategory:        MerpCategoryE,
	}
}

// ApplyDefaults fills any unset threshold with its default so partially
// configured organisations behave sensibly.
func (s *ComplianceSettings) ApplyDefaults() {
	d := DefaultComplianceSettings()
	if s.ComplaintApproachingDays <= 0 {
		s.ComplaintApproachingDays = d.ComplaintApproachingDays
	}
	if s.ComplaintBreachDays <= 0 {
		s.ComplaintBreachDays = d.ComplaintBreachDays
	}
	if s.ReturnLookaheadDays <= 0 {
		s.ReturnLookaheadDays = d.ReturnLookaheadDays
	}
	if s.AuditLookaheadDays <= 0 {
		s.AuditLookaheadDays = d.AuditLookaheadDays
	}
	if s.SafeguardingReportDays <= 0 {
		s.SafeguardingReportDays = d.SafeguardingReportDays
	}
	// A malformed cutoff would rank 0 and let every category through, so
	// anything merpRank cannot place falls back to the default.
	if merpRank(s.MerpAlertCategory) == 0 {
		s.MerpAlertCategory = d.MerpAlertCategory
	}
}

// IsRuleEnabled reports whether a rule should run for this organisation.
// Rules without an explicit setting are enabled.
func (s *ComplianceSettings) IsRuleEnabled(ruleID string) bool {
	if s.RuleSettings == nil {
		return true
	}
	setting, ok := s.RuleSettings[ruleID]
	if !ok {
		return true
	}
	return setting.Enabled
}
