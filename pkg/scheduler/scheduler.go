// Package scheduler runs named background jobs on cron specs.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one unit of background work. Its error is logged, never retried.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner whose specs include a seconds field.
type Scheduler struct {
	cron    *cron.Cron
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

// New creates a Scheduler evaluating specs in loc. Each run gets a context
// bounded by timeout.
func New(loc *time.Location, timeout time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DefaultLogger), cron.SkipIfStillRunning(cron.DefaultLogger)),
		),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
	}
}

// Add registers job under name. spec is a six-field cron expression or a
// descriptor such as "@every 1m". A run that is still going when the next
// one is due causes that next run to be skipped.
func (s *Scheduler) Add(name, spec string, job Job) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		defer cancel()
		started := time.Now()
		if err := job(ctx); err != nil {
			log.Printf("[Scheduler] %s failed after %s: %v", name, time.Since(started).Round(time.Millisecond), err)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %s with %q: %w", name, spec, err)
	}
	log.Printf("[Scheduler] %s scheduled (%s)", name, spec)
	return nil
}

// Start runs the jobs in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
