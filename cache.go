package folio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultBackgroundEntries caps a BackgroundCache built with max <= 0.
const DefaultBackgroundEntries = 16

// RenderFunc renders the background for key. It should stop early when ctx
// is done.
type RenderFunc func(ctx context.Context, key BackgroundKey) ([]byte, error)

// BackgroundCache holds rendered background GIFs keyed by effect and size,
// each valid for ttl. A key is rendered at most once at a time, outside the
// cache lock, and the render is cancelled once every caller waiting on it
// has gone away.
type BackgroundCache struct {
	mu      sync.RWMutex
	entries map[string]backgroundEntry
	flights map[string]*renderFlight
	group   singleflight.Group
	ttl     time.Duration
	max     int
	render  RenderFunc
	now     func() time.Time
}

// BackgroundKey identifies one rendered background.
type BackgroundKey struct {
	Effect        string
	Width, Height int
}

type backgroundEntry struct {
	data    []byte
	fetched time.Time
}

// renderFlight is the context of one in-progress render and the number of
// callers still waiting for it.
type renderFlight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiting int
}

// NewBackgroundCache creates a cache of at most max entries that calls
// render on a miss.
func NewBackgroundCache(ttl time.Duration, max int, render RenderFunc) *BackgroundCache {
	if max <= 0 {
		max = DefaultBackgroundEntries
	}
	return &BackgroundCache{
		entries: make(map[string]backgroundEntry),
		flights: make(map[string]*renderFlight),
		ttl:     ttl,
		max:     max,
		render:  render,
		now:     time.Now,
	}
}

func (k BackgroundKey) String() string {
	return fmt.Sprintf("%s@%dx%d", k.Effect, k.Width, k.Height)
}

func (c *BackgroundCache) fresh(e backgroundEntry, now time.Time) bool {
	return now.Sub(e.fetched) < c.ttl
}

// Invalidate clears the cache so the next read renders again.
func (c *BackgroundCache) Invalidate() {
	c.mu.Lock()
	c.entries = make(map[string]backgroundEntry)
	c.mu.Unlock()
}

// Len returns the number of cached entries.
func (c *BackgroundCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Get returns the GIF for key, rendering it if missing or expired. Callers
// asking for the same key share one render. Get returns ctx.Err() if ctx
// ends first.
func (c *BackgroundCache) Get(ctx context.Context, key BackgroundKey) ([]byte, error) {
	k := key.String()
	c.mu.RLock()
	e, ok := c.entries[k]
	c.mu.RUnlock()
	if ok && c.fresh(e, c.now()) {
		return e.data, nil
	}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok && c.fresh(e, c.now()) {
		c.mu.Unlock()
		return e.data, nil
	}
	f := c.flights[k]
	if f != nil && f.ctx.Err() != nil {
		// abandoned by its last caller; start over
		c.group.Forget(k)
		f = nil
	}
	if f == nil {
		fctx, cancel := context.WithCancel(context.Background())
		f = &renderFlight{ctx: fctx, cancel: cancel}
		c.flights[k] = f
	}
	f.waiting++
	// DoChan is called under c.mu so a flight and its entry in c.flights
	// always start and end together.
	ch := c.group.DoChan(k, func() (any, error) {
		return c.fill(k, key, f)
	})
	c.mu.Unlock()

	select {
	case res := <-ch:
		c.leave(f)
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	case <-ctx.Done():
		c.leave(f)
		return nil, ctx.Err()
	}
}

func (c *BackgroundCache) leave(f *renderFlight) {
	c.mu.Lock()
	f.waiting--
	if f.waiting == 0 {
		f.cancel()
	}
	c.mu.Unlock()
}

// fill runs one render and stores a successful result.
func (c *BackgroundCache) fill(k string, key BackgroundKey, f *renderFlight) ([]byte, error) {
	data, err := c.render(f.ctx, key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.flights[k] == f {
		delete(c.flights, k)
		c.group.Forget(k)
	}
	if err != nil {
		return nil, err
	}
	c.store(k, data)
	return data, nil
}

// store adds an entry, first dropping expired ones and then the oldest
// until there is room. The caller holds c.mu.
func (c *BackgroundCache) store(k string, data []byte) {
	now := c.now()
	for key, e := range c.entries {
		if !c.fresh(e, now) {
			delete(c.entries, key)
		}
	}
	for len(c.entries) >= c.max {
		if _, ok := c.entries[k]; ok {
			break
		}
		oldest, first := "", true
		var at time.Time
		for key, e := range c.entries {
			if first || e.fetched.Before(at) {
				oldest, at, first = key, e.fetched, false
			}
		}
		delete(c.entries, oldest)
	}
	c.entries[k] = backgroundEntry{data: data, fetched: now}
}
