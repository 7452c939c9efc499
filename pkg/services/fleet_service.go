package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rahelio/care-scot-sub003/pkg/apperrors"
	"github.com/Rahelio/care-scot-sub003/pkg/config"
	"github.com/Rahelio/care-scot-sub003/pkg/database"
	"github.com/Rahelio/care-scot-sub003/pkg/metrics"
	"github.com/Rahelio/care-scot-sub003/pkg/models"
	"github.com/Rahelio/care-scot-sub003/pkg/repositories"
)

const (
	fleetLockKey = "carescot:fleet-run-lock"
	fleetLockTTL = 15 * time.Minute
)

// FleetService sweeps the compliance runner over every active organisation.
type FleetService interface {
	// RunFleet evaluates all active organisations and returns a report with
	// one slot per organisation. A tenant failing never fails the sweep; the
	// only errors returned are failure to enumerate organisations and
	// ErrFleetRunInProgress when another instance holds the run lock.
	RunFleet(ctx context.Context) (*models.FleetReport, error)

	// StartScheduler launches the built-in interval scheduler. It returns
	// immediately; the loop stops when ctx is cancelled.
	StartScheduler(ctx context.Context)
}

type fleetService struct {
	db            *database.DB
	redis         *redis.Client
	organisations repositories.OrganisationRepository
	runner        ComplianceRunner
	cfg           config.ComplianceConfig
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// NewFleetService creates the fleet sweeper. The redis client is optional;
// without it there is no cross-instance run lock and concurrent sweeps rely
// on the notification sink's idempotence alone.
func NewFleetService(
	db *database.DB,
	redisClient *redis.Client,
	organisations repositories.OrganisationRepository,
	runner ComplianceRunner,
	cfg config.ComplianceConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) FleetService {
	return &fleetService{
		db:            db,
		redis:         redisClient,
		organisations: organisations,
		runner:        runner,
		cfg:           cfg,
		metrics:       m,
		logger:        logger.Named("fleet-service"),
		now:           time.Now,
	}
}

var _ FleetService = (*fleetService)(nil)

func (s *fleetService) RunFleet(ctx context.Context) (*models.FleetReport, error) {
	if s.redis != nil {
		acquired, err := s.redis.SetNX(ctx, fleetLockKey, s.now().Format(time.RFC3339), fleetLockTTL).Result()
		if err != nil {
			// A broken lock store should not stop compliance checks; the
			// sink is idempotent so an overlapping sweep is safe.
			s.logger.Warn("Fleet run lock unavailable, proceeding without it", zap.Error(err))
		} else if !acquired {
			return nil, apperrors.ErrFleetRunInProgress
		} else {
			defer func() {
				if delErr := s.redis.Del(context.WithoutCancel(ctx), fleetLockKey).Err(); delErr != nil {
					s.logger.Warn("Failed to release fleet run lock", zap.Error(delErr))
				}
			}()
		}
	}

	organisations, err := s.listActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active organisations: %w", err)
	}

	return s.sweep(ctx, organisations), nil
}

// sweep fans the runner out over the organisations with bounded concurrency.
// Every organisation gets a result slot; a failed or timed out run settles
// into its slot instead of cancelling the others.
func (s *fleetService) sweep(ctx context.Context, organisations []*models.Organisation) *models.FleetReport {
	start := s.now()

	s.logger.Info("Fleet run started",
		zap.Int("organisations", len(organisations)),
		zap.Int("concurrency", s.cfg.Concurrency),
	)
	if s.metrics != nil {
		s.metrics.FleetRuns.Inc()
	}

	results := make([]models.TenantResult, len(organisations))

	var group errgroup.Group
	group.SetLimit(s.cfg.Concurrency)
	for i, org := range organisations {
		group.Go(func() error {
			runCtx, cancel := context.WithTimeout(ctx, s.cfg.TenantTimeout)
			defer cancel()

			summary, runErr := s.runner.RunAllChecks(runCtx, org.ID)
			result := models.TenantResult{
				OrganisationID:   org.ID,
				OrganisationName: org.Name,
			}
			if runErr != nil {
				tenantErr := &apperrors.TenantRunError{OrganisationID: org.ID, Err: runErr}
				result.Error = tenantErr.Error()
				if s.metrics != nil {
					s.metrics.TenantRunsFailed.Inc()
				}
				s.logger.Error("Organisation run failed",
					zap.String("organisation_id", org.ID.String()),
					zap.String("organisation_name", org.Name),
					zap.Error(runErr),
				)
			} else {
				result.Summary = summary
			}
			results[i] = result
			// One bad tenant must not cancel the rest of the sweep.
			return nil
		})
	}
	_ = group.Wait()

	report := &models.FleetReport{
		StartedAt: start,
		Duration:  s.now().Sub(start),
		Checked:   len(organisations),
		Results:   results,
	}
	for i := range results {
		if results[i].Error != "" {
			report.Failed++
		}
	}

	s.logger.Info("Fleet run complete",
		zap.Int("checked", report.Checked),
		zap.Int("failed", report.Failed),
		zap.Duration("duration", report.Duration),
	)

	return report
}

// listActive enumerates organisations outside any tenant scope. Fleet
// enumeration is the one read that legitimately crosses tenants.
func (s *fleetService) listActive(ctx context.Context) ([]*models.Organisation, error) {
	scope, err := s.db.WithoutTenant(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close()

	return s.organisations.ListActive(database.SetTenantScope(ctx, scope))
}

func (s *fleetService) StartScheduler(ctx context.Context) {
	s.logger.Info("Starting compliance scheduler",
		zap.Duration("interval", s.cfg.RunInterval),
	)

	go func() {
		ticker := time.NewTicker(s.cfg.RunInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info("Compliance scheduler stopped")
				return
			case <-ticker.C:
				if _, err := s.RunFleet(ctx); err != nil {
					s.logger.Error("Scheduled fleet run failed", zap.Error(err))
				}
			}
		}
	}()
}
