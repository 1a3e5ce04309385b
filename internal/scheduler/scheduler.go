// Package scheduler runs the periodic maintenance jobs: the nightly sync
// sweep and the recurring-budget roll-forward.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/alphafinance/backend/pkg/logger"
)

// Job is one scheduled task. Spec is a standard 5-field cron expression.
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context)
}

type Scheduler struct {
	cron *cron.Cron
	log  *slog.Logger
}

func New(log *slog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// Register adds a job. Each run gets a fresh context carrying the scheduler
// logger tagged with the job name.
func (s *Scheduler) Register(job Job) error {
	_, err := s.cron.AddFunc(job.Spec, func() {
		start := time.Now()
		log := s.log.With("job", job.Name)
		ctx := logger.ToContext(context.Background(), log)

		log.Info("job started")
		job.Run(ctx)
		log.Info("job finished", "duration", time.Since(start).String())
	})
	if err != nil {
		return err
	}
	s.log.Info("job registered", "job", job.Name, "spec", job.Spec)
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
