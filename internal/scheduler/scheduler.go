// Package scheduler runs the periodic ledger consistency check.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/hassanafridi/med-rep-sub001/internal/domain"
	"github.com/hassanafridi/med-rep-sub001/internal/infrastructure/metrics"
	"github.com/hassanafridi/med-rep-sub001/internal/usecase"
)

// Verifier is the consistency check the scheduler drives.
type Verifier interface {
	Verify(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// Retrier retries an operation on transient failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Scheduler runs the consistency check on a cron schedule. A divergent
// ledger is logged as an error but never auto-repaired; rebuild stays a
// deliberate operator action.
type Scheduler struct {
	cron     *cron.Cron
	verifier Verifier
	retrier  Retrier
	metrics  *metrics.Metrics
	logger   zerolog.Logger
}

// New creates a new Scheduler. retrier and m may be nil.
func New(verifier Verifier, retrier Retrier, m *metrics.Metrics, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		verifier: verifier,
		retrier:  retrier,
		metrics:  m,
		logger:   logger,
	}
}

// Start registers the verification job and starts the cron loop. An empty
// schedule disables the scheduler.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		s.logger.Info().Msg("consistency check scheduler disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(schedule, s.runVerify); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info().Str("schedule", schedule).Msg("consistency check scheduler started")

	return nil
}

// Stop stops the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runVerify() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	start := time.Now()

	var report *usecase.ConsistencyReport

	verify := func() error {
		var err error
		report, err = s.verifier.Verify(ctx)
		if errors.Is(err, domain.ErrLedgerInconsistent) {
			// A divergent ledger is a finding, not a transient failure.
			return nil
		}

		return err
	}

	var err error
	if s.retrier != nil {
		err = s.retrier.Retry(ctx, verify)
	} else {
		err = verify()
	}

	if s.metrics != nil {
		s.metrics.VerifyDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		if s.metrics != nil {
			s.metrics.VerifyRuns.WithLabelValues("error").Inc()
		}

		s.logger.Error().Err(err).Msg("scheduled consistency check failed")

		return
	}

	if !report.Consistent {
		if s.metrics != nil {
			s.metrics.VerifyRuns.WithLabelValues("divergent").Inc()
			s.metrics.DivergenceFound.Inc()
		}

		s.logger.Error().
			Str("entry_id", report.Divergence.EntryID).
			Str("stored_balance", report.Divergence.StoredBalance.String()).
			Str("expected_balance", report.Divergence.ExpectedBalance.String()).
			Int("entries", report.Entries).
			Msg("ledger balances diverge from rebuild")

		return
	}

	if s.metrics != nil {
		s.metrics.VerifyRuns.WithLabelValues("consistent").Inc()
	}

	s.logger.Info().
		Int("entries", report.Entries).
		Int("transactions", report.Transactions).
		Msg("scheduled consistency check passed")
}
