package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/metrics"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/repositories"
	"github.com/Rahelio/care-scot-sub003/pkg/rules"
)

// ComplianceRunner evaluates the full rule catalogue for one organisation.
type ComplianceRunner interface {
	RunAllChecks(ctx context.Context, orgID uuid.UUID) (*models.RunSummary, error)
}

type complianceRunner struct {
	db            *database.DB
	organisations repositories.OrganisationRepository
	state         repositories.ComplianceStateRepository
	sink          NotificationSink
	catalogue     []rules.Rule
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NewComplianceRunner creates the per-organisation orchestrator. The rule
// catalogue is fixed at construction; per-organisation settings only enable
// or tune rules, they never add new ones.
func NewComplianceRunner(
	db *database.DB,
	organisations repositories.OrganisationRepository,
	state repositories.ComplianceStateRepository,
	sink NotificationSink,
	catalogue []rules.Rule,
	m *metrics.Metrics,
	logger *zap.Logger,
) ComplianceRunner {
	return &complianceRunner{
		db:            db,
		organisations: organisations,
		state:         state,
		sink:          sink,
		catalogue:     catalogue,
		metrics:       m,
		logger:        logger.Named("compliance-runner"),
		now:           time.Now,
	}
}

var _ ComplianceRunner = (*complianceRunner)(nil)

// RunAllChecks runs every enabled rule against a fresh snapshot of the
// organisation's state and commits the candidates. A single rule failing
// (error or panic) is recorded in the summary and the remaining rules still
// run; only failures that prevent any evaluation at all (scope, settings,
// state load) abort the run.
func (s *complianceRunner) RunAllChecks(ctx context.Context, orgID uuid.UUID) (*models.RunSummary, error) {
	start := s.now()

	scope, err := s.db.WithTenant(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire tenant scope: %w", err)
	}
	defer scope.Close()
	ctx = database.SetTenantScope(ctx, scope)

	org, err := s.organisations.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load organisation: %w", err)
	}

	settings, err := s.organisations.GetComplianceSettings(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance settings: %w", err)
	}

	state, err := s.state.LoadState(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to load compliance state: %w", err)
	}
	state.Organisation = org

	summary := s.evaluateAll(ctx, org, settings, state, s.now())

	if s.metrics != nil {
		s.metrics.TenantRunDuration.Observe(s.now().Sub(start).Seconds())
	}

	s.logger.Info("Compliance run complete",
		zap.String("organisation_id", orgID.String()),
		zap.String("organisation_name", org.Name),
		zap.Int("candidates", summary.Candidates),
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated),
		zap.Int("suppressed", summary.Suppressed),
		zap.Int("rule_errors", len(summary.RuleErrors)),
		zap.Duration("duration", s.now().Sub(start)),
	)

	return summary, nil
}

// evaluateAll runs the catalogue over an already loaded snapshot and commits
// the candidates rule by rule, so commit failures stay attributed to the rule
// that produced them.
func (s *complianceRunner) evaluateAll(ctx context.Context, org *models.Organisation, settings *models.ComplianceSettings, state *rules.TenantState, today time.Time) *models.RunSummary {
	summary := &models.RunSummary{
		OrganisationID:   org.ID,
		OrganisationName: org.Name,
		ByRule:           make(map[string]int),
		BySeverity:       make(map[string]int),
	}

	for _, rule := range s.catalogue {
		if !settings.IsRuleEnabled(rule.ID()) {
			continue
		}

		candidates, evalErr := s.evaluate(rule, state, settings, today)
		if evalErr != nil {
			summary.RuleErrors = append(summary.RuleErrors, models.RuleError{
				RuleID:  rule.ID(),
				Message: evalErr.Error(),
			})
			if s.metrics != nil {
				s.metrics.RuleErrors.WithLabelValues(rule.ID()).Inc()
			}
			s.logger.Error("Rule evaluation failed",
				zap.String("rule_id", rule.ID()),
				zap.String("organisation_id", org.ID.String()),
				zap.Error(evalErr),
			)
		}

		// A rule may return partial candidates alongside its error.
		if len(candidates) == 0 {
			continue
		}

		summary.Candidates += len(candidates)
		summary.ByRule[rule.ID()] += len(candidates)
		for i := range candidates {
			summary.BySeverity[candidates[i].Severity]++
		}

		result, commitErr := s.sink.Commit(ctx, candidates)
		if result != nil {
			summary.Created += result.Created
			summary.Updated += result.Updated
			summary.Suppressed += result.Suppressed
		}
		if commitErr != nil {
			summary.RuleErrors = append(summary.RuleErrors, models.RuleError{
				RuleID:  rule.ID(),
				Message: fmt.Sprintf("commit: %v", commitErr),
			})
			s.logger.Error("Notification commit failed",
				zap.String("rule_id", rule.ID()),
				zap.String("organisation_id", org.ID.String()),
				zap.Error(commitErr),
			)
		}
	}

	return summary
}

// evaluate calls one rule with panic recovery. A panicking rule must not take
// down the run, or the whole fleet sweep behind it.
func (s *complianceRunner) evaluate(rule rules.Rule, state *rules.TenantState, settings *models.ComplianceSettings, today time.Time) (candidates []models.NotificationCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			candidates = nil
			err = &apperrors.RuleEvaluationError{
				RuleID: rule.ID(),
				Err:    fmt.Errorf("panic: %v", r),
			}
		}
	}()

	candidates, err = rule.Evaluate(state, settings, today)
	if err != nil {
		err = &apperrors.RuleEvaluationError{RuleID: rule.ID(), Err: err}
	}
	return candidates, err
}
