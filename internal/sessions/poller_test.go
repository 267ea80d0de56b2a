package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// blockingBackend holds every session list request until release is closed
// or the caller gives up.
func blockingBackend(t *testing.T) (*Client, <-chan struct{}, func()) {
	t.Helper()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Late","sets":[]}]`))
	}))
	t.Cleanup(srv.Close)

	var once sync.Once
	unblock := func() { once.Do(func() { close(release) }) }
	t.Cleanup(unblock)
	return New(srv.URL, time.Minute), started, unblock
}

func TestNewPoller_RejectsShortInterval(t *testing.T) {
	c := New("http://localhost", time.Second)
	if _, err := NewPoller(c, func() string { return "" }, 10*time.Millisecond, time.Second); err == nil {
		t.Error("expected error for sub-second interval")
	}
}

func TestNewPoller_RejectsNonPositiveTimeout(t *testing.T) {
	c := New("http://localhost", time.Second)
	if _, err := NewPoller(c, func() string { return "" }, time.Minute, 0); err == nil {
		t.Error("expected error for zero timeout")
	}
}

func TestPoller_RefreshCachesList(t *testing.T) {
	c, m := setupBackend(t)
	p, err := NewPoller(c, func() string { return "tok-poll" }, time.Minute, time.Second)
	if err != nil {
		t.Fatalf("NewPoller: %v", err)
	}
	defer p.Stop()

	p.Refresh(context.Background())
	list, at, err := p.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot error: %v", err)
	}
	if len(list) != 3 || at.IsZero() {
		t.Errorf("Snapshot = %d sessions at %v", len(list), at)
	}
	if authAt(m, 0) != "Bearer tok-poll" {
		t.Errorf("poll Authorization = %q", authAt(m, 0))
	}
}

func TestPoller_KeepsLastGoodListOnError(t *testing.T) {
	c, m := setupBackend(t)
	p, _ := NewPoller(c, func() string { return "" }, time.Minute, time.Second)
	defer p.Stop()

	p.Refresh(context.Background())
	m.setStatus(http.StatusInternalServerError)
	p.Refresh(context.Background())

	list, _, err := p.Snapshot()
	if err == nil {
		t.Error("expected last error to be reported")
	}
	if len(list) != 3 {
		t.Errorf("cached list lost after failed refresh: %d sessions", len(list))
	}
}

func TestPoller_DiscardsAfterStop(t *testing.T) {
	c, _ := setupBackend(t)
	p, _ := NewPoller(c, func() string { return "" }, time.Minute, time.Second)
	p.Start()
	p.Stop()

	p.Refresh(context.Background())
	list, at, err := p.Snapshot()
	if len(list) != 0 || !at.IsZero() || err != nil {
		t.Errorf("refresh after Stop should be discarded, got %d sessions at %v (err %v)", len(list), at, err)
	}
}

func TestPoller_Invalidate(t *testing.T) {
	c, _ := setupBackend(t)
	p, _ := NewPoller(c, func() string { return "" }, time.Minute, time.Second)
	defer p.Stop()

	p.Refresh(context.Background())
	p.Invalidate()
	if list, _, _ := p.Snapshot(); len(list) != 0 {
		t.Errorf("Invalidate left %d sessions cached", len(list))
	}
}

func TestPoller_InvalidateDuringRefreshDiscardsResult(t *testing.T) {
	c, started, unblock := blockingBackend(t)
	p, _ := NewPoller(c, func() string { return "tok-old" }, time.Minute, 5*time.Second)
	defer p.Stop()

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("refresh never reached the backend")
	}
	p.Invalidate()
	unblock()
	<-done

	list, at, err := p.Snapshot()
	if len(list) != 0 || !at.IsZero() || err != nil {
		t.Errorf("refresh started before Invalidate repopulated the cache: %d sessions at %v (err %v)", len(list), at, err)
	}

	// The next refresh after Invalidate is kept.
	p.Refresh(context.Background())
	if list, _, _ := p.Snapshot(); len(list) != 1 {
		t.Errorf("refresh after Invalidate cached %d sessions, want 1", len(list))
	}
}

func TestPoller_RefreshHonorsTimeout(t *testing.T) {
	c, _, _ := blockingBackend(t)
	p, _ := NewPoller(c, func() string { return "" }, time.Minute, 50*time.Millisecond)
	defer p.Stop()

	start := time.Now()
	p.Refresh(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Refresh took %v, want it bounded by the 50ms timeout", elapsed)
	}
	if _, _, err := p.Snapshot(); err == nil {
		t.Error("expected timed-out refresh to record an error")
	}
}
