package announcement

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// Runner ticks background jobs (the due check, the attendance rollover) on a fixed interval.
type Runner struct {
	cron     *cron.Cron
	logger   core.Logger
	interval time.Duration
}

func NewRunner(logger core.Logger, interval time.Duration) *Runner {
	return &Runner{
		cron:     cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		logger:   logger,
		interval: interval,
	}
}

// Add schedules fn every interval. Errors are logged, never retried.
func (r *Runner) Add(name string, fn func(ctx context.Context) error) error {
	_, err := r.cron.AddFunc("@every "+r.interval.String(), func() {
		if err := fn(context.Background()); err != nil {
			r.logger.Error(name+" failed", err)
		}
	})
	return errors.Wrapf(err, "scheduling %s", name)
}

func (r *Runner) Start() {
	r.cron.Start()
}

// Stop stops the runner and waits for running jobs until ctx is done.
func (r *Runner) Stop(ctx context.Context) {
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// CheckJob adapts a DueChecker to Runner.Add.
func CheckJob(dc *DueChecker) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		_, err := dc.Check(ctx, core.Now())
		return err
	}
}
