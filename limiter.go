package folio

import (
	"sync"
	"time"
)

// ContactLimiter is a sliding-window counter of contact form submissions
// per client IP. A background sweep drops idle addresses every window.
type ContactLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// NewContactLimiter allows max submissions per IP within window. Call Stop
// to end the sweep goroutine.
func NewContactLimiter(max int, window time.Duration) *ContactLimiter {
	l := &ContactLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
		done:   make(chan struct{}),
	}
	go l.sweep()
	return l
}

// recent returns the hits of ip still inside the window, in order.
// The caller holds l.mu.
func (l *ContactLimiter) recent(ip string) []time.Time {
	cutoff := l.now().Add(-l.window)
	hits := l.hits[ip]
	i := 0
	for i < len(hits) && !hits[i].After(cutoff) {
		i++
	}
	hits = hits[i:]
	if len(hits) == 0 {
		delete(l.hits, ip)
		return nil
	}
	l.hits[ip] = hits
	return hits
}

func (l *ContactLimiter) sweep() {
	t := time.NewTicker(l.window)
	defer t.Stop()
	for {
		select {
		case <-l.done:
			return
		case <-t.C:
			l.mu.Lock()
			for ip := range l.hits {
				l.recent(ip)
			}
			l.mu.Unlock()
		}
	}
}

// Stop ends the sweep goroutine. Later calls are no-ops.
func (l *ContactLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

// Allow is Check followed by Record when the check passes.
func (l *ContactLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.recent(ip)) >= l.max {
		return false
	}
	l.hits[ip] = append(l.hits[ip], l.now())
	return true
}

// Check reports whether ip may submit now without counting a submission.
func (l *ContactLimiter) Check(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.recent(ip)) < l.max
}

// Record counts one submission from ip.
func (l *ContactLimiter) Record(ip string) {
	l.mu.Lock()
	l.hits[ip] = append(l.hits[ip], l.now())
	l.mu.Unlock()
}

// RetryAfter is how long ip must wait before Check passes again; zero when
// it already does.
func (l *ContactLimiter) RetryAfter(ip string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	hits := l.recent(ip)
	if len(hits) < l.max {
		return 0
	}
	// the oldest hit that must expire to free a slot
	oldest := hits[len(hits)-l.max]
	return oldest.Add(l.window).Sub(l.now())
}
