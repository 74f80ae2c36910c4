package cron

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out a controllable tick channel instead of real timers.
type fakeClock struct {
	mu    sync.Mutex
	now   time.Time
	ticks chan time.Time
	waits []time.Duration
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now, ticks: make(chan time.Time)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	c.waits = append(c.waits, d)
	c.mu.Unlock()
	return c.ticks
}

func (c *fakeClock) tick() {
	c.ticks <- c.Now()
}

func (c *fakeClock) lastWait() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.waits) == 0 {
		return 0
	}
	return c.waits[len(c.waits)-1]
}

func TestSchedulerRunsIntervalJob(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	runs := make(chan struct{}, 10)

	s := NewScheduler(clock, Job{
		Name:  "sweep",
		Every: 5 * time.Minute,
		Run: func(ctx context.Context) error {
			runs <- struct{}{}
			return nil
		},
	})
	s.Start(context.Background())
	defer s.Stop()

	clock.tick()
	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run after tick")
	}

	clock.tick()
	select {
	case <-runs:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run after second tick")
	}

	assert.Equal(t, 5*time.Minute, clock.lastWait())
}

func TestSchedulerKeepsRunningAfterJobError(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	runs := make(chan error, 10)
	var calls int

	s := NewScheduler(clock, Job{
		Name:  "flaky",
		Every: time.Minute,
		Run: func(ctx context.Context) error {
			calls++
			if calls == 1 {
				runs <- errors.New("boom")
				return errors.New("boom")
			}
			runs <- nil
			return nil
		},
	})
	s.Start(context.Background())
	defer s.Stop()

	clock.tick()
	require.Error(t, <-runs)
	clock.tick()
	require.NoError(t, <-runs)
}

func TestSchedulerStop(t *testing.T) {
	clock := newFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	s := NewScheduler(clock, Job{
		Name:  "sweep",
		Every: time.Minute,
		Run:   func(ctx context.Context) error { return nil },
	})
	s.Start(context.Background())

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestUntilNextDaily(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Duration
	}{
		{"later today", time.Date(2025, 6, 1, 1, 0, 0, 0, time.UTC), 3, 2 * time.Hour},
		{"already passed, tomorrow", time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC), 3, 22*time.Hour + 30*time.Minute},
		{"exactly now, tomorrow", time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC), 3, 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := newFakeClock(tt.now)
			s := NewScheduler(clock)
			assert.Equal(t, tt.want, s.untilNext(Job{Name: "daily", DailyAtHour: tt.hour}))
		})
	}
}
