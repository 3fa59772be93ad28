package canvas

import "sync"

// frameQueue holds pending frame callbacks keyed by handle, drained in
// request order.
type frameQueue struct {
	mu      sync.Mutex
	next    FrameHandle
	order   []FrameHandle
	pending map[FrameHandle]func()
}

func (q *frameQueue) request(fn func()) FrameHandle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[FrameHandle]func())
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *frameQueue) cancel(h FrameHandle) {
	q.mu.Lock()
	delete(q.pending, h)
	q.mu.Unlock()
}

// drain removes and returns the callbacks pending right now. Callbacks
// requested while they run wait for the next drain.
func (q *frameQueue) drain() []func() {
	q.mu.Lock()
	defer q.mu.Unlock()
	fns := make([]func(), 0, len(q.order))
	for _, h := range q.order {
		if fn, ok := q.pending[h]; ok {
			fns = append(fns, fn)
			delete(q.pending, h)
		}
	}
	q.order = q.order[:0]
	return fns
}

func (q *frameQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// ManualScheduler runs frames when Tick is called. The recorder, the
// headless runner and the preview window all drive it.
type ManualScheduler struct {
	q frameQueue
}

// NewManualScheduler returns an empty manual scheduler.
func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (s *ManualScheduler) RequestFrame(fn func()) FrameHandle { return s.q.request(fn) }

func (s *ManualScheduler) CancelFrame(h FrameHandle) { s.q.cancel(h) }

// Pending returns the number of frames waiting to run.
func (s *ManualScheduler) Pending() int { return s.q.len() }

// Tick runs every pending frame once and returns how many ran.
func (s *ManualScheduler) Tick() int {
	fns := s.q.drain()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// StaticViewport is a viewport whose size changes only through Resize.
type StaticViewport struct {
	mu        sync.Mutex
	width     int
	height    int
	nextID    int
	listeners map[int]func(int, int)
}

// NewStaticViewport returns a viewport of the given size.
func NewStaticViewport(width, height int) *StaticViewport {
	return &StaticViewport{width: width, height: height, listeners: make(map[int]func(int, int))}
}

func (v *StaticViewport) Size() (int, int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

func (v *StaticViewport) OnResize(fn func(int, int)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()
	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}

// Listeners returns the number of resize subscribers.
func (v *StaticViewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}

// Resize changes the size and notifies subscribers if it differs.
func (v *StaticViewport) Resize(width, height int) {
	v.mu.Lock()
	if width == v.width && height == v.height {
		v.mu.Unlock()
		return
	}
	v.width, v.height = width, height
	fns := make([]func(int, int), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()
	for _, fn := range fns {
		fn(width, height)
	}
}
