// Package scheduler wires up the cron job that prepares the daily digest.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/robfig/cron/v3"

	"jobmate/job-tracker/internal/digest"
	"jobmate/job-tracker/internal/tracker"
)

// DigestRunner produces today's digest unless it already exists.
type DigestRunner interface {
	EnsureDigest(ctx context.Context) (entries []digest.Entry, created bool, err error)
}

// Scheduler wraps robfig/cron and runs the digest job.
type Scheduler struct {
	cron   *cron.Cron
	runner DigestRunner
	spec   string
	wg     sync.WaitGroup
}

// New creates a Scheduler firing on the standard 5-field cron spec.
func New(runner DigestRunner, spec string, opts ...cron.Option) *Scheduler {
	opts = append([]cron.Option{cron.WithLogger(cron.DefaultLogger)}, opts...)
	return &Scheduler{
		cron:   cron.New(opts...),
		runner: runner,
		spec:   spec,
	}
}

// Start registers the job and starts the scheduler. A digest missed while
// the process was down is generated right away.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.RunOnce(ctx)
	}()
	return nil
}

// Stop halts the scheduler and waits for running jobs, the startup catch-up
// run included, to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	log.Println("[scheduler] Cron stopped")
}

// RunOnce ensures today's digest exists.
func (s *Scheduler) RunOnce(ctx context.Context) {
	entries, created, err := s.runner.EnsureDigest(ctx)
	switch {
	case errors.Is(err, tracker.ErrNoPreferences):
		log.Println("[scheduler] No preferences saved — skipping digest")
	case err != nil:
		log.Printf("[scheduler] Digest error: %v", err)
	case created:
		log.Printf("[scheduler] Digest generated with %d job(s)", len(entries))
	default:
		log.Println("[scheduler] Digest already present for today")
	}
}
