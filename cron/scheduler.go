package cron

import (
	"context"
	"sync"
	"time"

	"shortlet/utils"

	"go.uber.org/zap"
)

// Clock abstracts wall time so sweep scheduling is testable without real
// waits.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Job is a named batch operation run on a cadence. Jobs must be idempotent:
// the scheduler may fire one again immediately after a restart.
type Job struct {
	Name string
	Run  func(ctx context.Context) error

	// Every runs the job on a fixed interval when non-zero.
	Every time.Duration

	// DailyAtHour runs the job once a day at the given server-local hour
	// when Every is zero.
	DailyAtHour int
}

// Scheduler drives a list of jobs off an injectable clock.
type Scheduler struct {
	clock  Clock
	jobs   []Job
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func NewScheduler(clock Clock, jobs ...Job) *Scheduler {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Scheduler{clock: clock, jobs: jobs}
}

// Start launches one goroutine per job. Stop (or cancelling the parent
// context) shuts them down.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runLoop(ctx, job)
	}
}

// Stop cancels all job loops and waits for them to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, job Job) {
	defer s.wg.Done()
	logger := utils.GetLogger()

	for {
		wait := s.untilNext(job)
		select {
		case <-ctx.Done():
			return
		case <-s.clock.After(wait):
		}

		if err := job.Run(ctx); err != nil {
			logger.Error("scheduled job failed",
				zap.String("job", job.Name), zap.Error(err))
			continue
		}
		logger.Debug("scheduled job ran", zap.String("job", job.Name))
	}
}

// untilNext computes the delay before the job's next firing.
func (s *Scheduler) untilNext(job Job) time.Duration {
	if job.Every > 0 {
		return job.Every
	}

	now := s.clock.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), job.DailyAtHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
