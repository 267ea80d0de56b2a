// Package dashboard keeps the live step and calorie counters shown on the
// home screen. Counters are in memory only and go back to zero at local
// midnight; the calorie log is never touched by the reset.
package dashboard

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron"

	"lg/sweat-go-api/internal/metrics"
)

// ErrNegativeSteps is returned when a step update would go below zero.
var ErrNegativeSteps = errors.New("steps must not be negative")

// Counters holds today's live totals.
type Counters struct {
	mu      sync.RWMutex
	steps   int
	resetAt time.Time
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	Steps     int       `json:"steps"`
	Calories  int       `json:"calories"`
	LastReset time.Time `json:"last_reset"`
}

func NewCounters() *Counters {
	return &Counters{resetAt: time.Now()}
}

// AddSteps adds n steps (a pedometer delta).
func (c *Counters) AddSteps(n int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.steps+n < 0 {
		return Snapshot{}, ErrNegativeSteps
	}
	c.steps += n
	return c.snapshotLocked(), nil
}

// SetSteps replaces today's total (a pedometer's absolute count).
func (c *Counters) SetSteps(n int) (Snapshot, error) {
	if n < 0 {
		return Snapshot{}, ErrNegativeSteps
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = n
	return c.snapshotLocked(), nil
}

// Reset zeroes the counters.
func (c *Counters) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = 0
	c.resetAt = time.Now()
}

func (c *Counters) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

func (c *Counters) snapshotLocked() Snapshot {
	return Snapshot{
		Steps:     c.steps,
		Calories:  metrics.StepsToCalories(c.steps),
		LastReset: c.resetAt,
	}
}

// UntilMidnight is the time left until the next local midnight after now.
// It is always recomputed from the wall clock so it holds across restarts.
func UntilMidnight(now time.Time) time.Duration {
	y, m, d := now.Date()
	next := time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
	return next.Sub(now)
}

// Scheduler runs the midnight reset. cron re-arms the job after each run.
type Scheduler struct {
	cron *cron.Cron
}

// NewScheduler schedules counters.Reset at every local midnight.
func NewScheduler(counters *Counters) (*Scheduler, error) {
	c := cron.New()
	if err := c.AddFunc("@midnight", func() {
		counters.Reset()
		log.Printf("[dashboard] counters reset at midnight")
	}); err != nil {
		return nil, fmt.Errorf("schedule midnight reset: %w", err)
	}
	return &Scheduler{cron: c}, nil
}

func (s *Scheduler) Start() { s.cron.Start() }

// Stop cancels the reset; call on shutdown.
func (s *Scheduler) Stop() { s.cron.Stop() }
