/**
 * @description
 * Cron scheduler setup for the payout sweep.
 */

package app

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron     *cron.Cron
	jobs     *Jobs
	schedule string
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, payoutSchedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(log.Default())
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))
	return &Scheduler{cron: c, jobs: jobs, schedule: payoutSchedule}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.schedule, s.jobs.ProcessDuePayouts); err != nil {
		log.Printf("Scheduler: failed to schedule payout sweep: %v", err)
	} else {
		log.Printf("Scheduler: scheduled payout sweep (%s)", s.schedule)
	}
	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
