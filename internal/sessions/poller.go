package sessions

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron"
)

// Poller refreshes the session list on a fixed interval and keeps the latest
// result in memory. Stop must be called on teardown. A fetch that finishes
// after Stop, or after an Invalidate issued while it was in flight, is
// discarded.
type Poller struct {
	client  *Client
	token   func() string
	timeout time.Duration // per-request bound for one refresh
	cron    *cron.Cron

	mu          sync.Mutex
	sessions    []Session
	lastErr     error
	refreshedAt time.Time
	stopped     bool
	generation  uint64 // bumped by Invalidate
}

// NewPoller schedules a refresh every interval, each bounded by timeout.
// token is read on each tick so logins and logouts take effect without
// restarting the poller.
func NewPoller(client *Client, token func() string, interval, timeout time.Duration) (*Poller, error) {
	if interval < time.Second {
		return nil, fmt.Errorf("poll interval must be at least 1s, got %s", interval)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("poll timeout must be positive, got %s", timeout)
	}
	p := &Poller{
		client:  client,
		token:   token,
		timeout: timeout,
		cron:    cron.New(),
	}
	if err := p.cron.AddFunc("@every "+interval.String(), func() {
		p.Refresh(context.Background())
	}); err != nil {
		return nil, fmt.Errorf("schedule session poll: %w", err)
	}
	return p, nil
}

// Start begins polling. The first refresh happens one interval from now.
func (p *Poller) Start() {
	p.cron.Start()
}

// Stop cancels future refreshes.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()
	p.cron.Stop()
}

// Refresh fetches the list once and stores the result (or the error).
func (p *Poller) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	p.mu.Lock()
	gen := p.generation
	p.mu.Unlock()

	list, err := p.client.ListSessions(ctx, p.token())

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || p.generation != gen {
		return
	}
	if err != nil {
		log.Printf("[poller] refresh failed: %v", err)
		p.lastErr = err
		return
	}
	p.sessions = list
	p.lastErr = nil
	p.refreshedAt = time.Now()
}

// Snapshot returns the cached list, when it was fetched, and the error from
// the most recent attempt (nil if it succeeded).
func (p *Poller) Snapshot() ([]Session, time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Session, len(p.sessions))
	copy(out, p.sessions)
	return out, p.refreshedAt, p.lastErr
}

// Invalidate drops the cache, e.g. after logout. Refreshes already in
// flight are discarded when they land.
func (p *Poller) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.sessions = nil
	p.lastErr = nil
	p.refreshedAt = time.Time{}
}
