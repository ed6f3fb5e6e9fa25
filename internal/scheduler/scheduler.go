package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"stay-booking/internal/pkg/config"
	"stay-booking/internal/usecase/commands"
)

const expirySweepJob = "reservation.expiry_sweep"

// ExpirySweeper runs the payment expiry sweep on a cron schedule. Runs never
// overlap: a tick that fires while the previous sweep is still going is skipped.
type ExpirySweeper struct {
	cron    *cron.Cron
	expiry  commands.ExpiryCommands
	cfg     config.SweepConfig
	logger  *slog.Logger
	entryID cron.EntryID
}

func NewExpirySweeper(expiry commands.ExpiryCommands, cfg config.SweepConfig, logger *slog.Logger) *ExpirySweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpirySweeper{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		expiry: expiry,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *ExpirySweeper) Start() error {
	if s == nil || !s.cfg.Enabled {
		return nil
	}

	id, err := s.cron.AddFunc(s.cfg.Schedule, s.RunOnce)
	if err != nil {
		s.logger.Error("register scheduler job failed",
			"job", expirySweepJob,
			"spec", s.cfg.Schedule,
			"error", err.Error())
		return err
	}
	s.entryID = id
	s.cron.Start()
	s.logger.Info("scheduler started", "job", expirySweepJob, "spec", s.cfg.Schedule)
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *ExpirySweeper) Stop(ctx context.Context) error {
	if s == nil || s.entryID == 0 {
		return nil
	}
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs a single sweep with the configured timeout.
func (s *ExpirySweeper) RunOnce() {
	defer s.recoverJobPanic()

	timeout := s.cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	result, err := s.expiry.SweepExpired(ctx)
	if err != nil {
		s.logger.Warn("expiry sweep failed", "job", expirySweepJob, "error", err.Error())
		return
	}
	if result.Scanned > 0 {
		s.logger.Info("expiry sweep finished",
			"job", expirySweepJob,
			"scanned", result.Scanned,
			"expired", result.Expired,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"cost", time.Since(start))
	}
}

func (s *ExpirySweeper) recoverJobPanic() {
	if recovered := recover(); recovered != nil {
		s.logger.Error("scheduler job panic recovered", "job", expirySweepJob, "panic", recovered)
	}
}
