package folio

import (
	"sync"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) *ContactLimiter {
	t.Helper()
	l := NewContactLimiter(max, window)
	t.Cleanup(l.Stop)
	return l
}

func TestContactLimiterBlocksAfterMax(t *testing.T) {
	limiter := newTestLimiter(t, 2, 200*time.Millisecond)
	ip := "203.0.113.10"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first submission to be allowed")
	}
	if !limiter.Allow(ip) {
		t.Fatalf("expected second submission to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected third submission to be blocked")
	}
}

func TestContactLimiterResetsAfterWindow(t *testing.T) {
	limiter := newTestLimiter(t, 1, 150*time.Millisecond)
	ip := "203.0.113.20"

	if !limiter.Allow(ip) {
		t.Fatalf("expected first submission to be allowed")
	}
	if limiter.Allow(ip) {
		t.Fatalf("expected second submission to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !limiter.Allow(ip) {
		t.Fatalf("expected submission after window to be allowed")
	}
}

func TestContactLimiterIsPerIP(t *testing.T) {
	limiter := newTestLimiter(t, 1, 200*time.Millisecond)

	if !limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !limiter.Allow("203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if limiter.Allow("203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestContactLimiterCheckDoesNotRecord(t *testing.T) {
	limiter := newTestLimiter(t, 1, time.Minute)
	ip := "203.0.113.40"
	for i := 0; i < 3; i++ {
		if !limiter.Check(ip) {
			t.Fatalf("Check %d blocked without any recorded submission", i)
		}
	}
	limiter.Record(ip)
	if limiter.Check(ip) {
		t.Fatal("expected Check to block after Record")
	}
}

func TestContactLimiterStopTwice(t *testing.T) {
	l := NewContactLimiter(1, time.Millisecond)
	l.Stop()
	l.Stop()
}

func TestContactLimiterRetryAfter(t *testing.T) {
	limiter := newTestLimiter(t, 2, time.Hour)
	base := time.Date(2024, 11, 18, 12, 0, 0, 0, time.UTC)
	now := base
	limiter.now = func() time.Time { return now }
	ip := "203.0.113.50"

	if d := limiter.RetryAfter(ip); d != 0 {
		t.Fatalf("RetryAfter with no hits = %v, want 0", d)
	}
	limiter.Record(ip)
	now = base.Add(10 * time.Minute)
	limiter.Record(ip)

	now = base.Add(20 * time.Minute)
	if d := limiter.RetryAfter(ip); d != 40*time.Minute {
		t.Errorf("RetryAfter = %v, want 40m", d)
	}

	now = base.Add(61 * time.Minute)
	if !limiter.Check(ip) {
		t.Error("expected a free slot once the first hit expired")
	}
	if d := limiter.RetryAfter(ip); d != 0 {
		t.Errorf("RetryAfter = %v, want 0", d)
	}
}

func TestContactLimiterAllowIsAtomic(t *testing.T) {
	limiter := newTestLimiter(t, 5, time.Hour)
	ip := "203.0.113.60"

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Allow(ip) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 5 {
		t.Errorf("allowed = %d, want 5", allowed)
	}
}
