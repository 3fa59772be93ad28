package canvas

import (
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// State is the lifecycle position of a Loop.
type State int

const (
	StateUninitialized State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	}
	return "unknown"
}

// Loop runs one Effect for one mount. A stopped Loop cannot be restarted;
// mount a new one instead.
type Loop struct {
	effect Effect
	opts   Options
	log    zerolog.Logger

	mu          sync.Mutex
	state       State
	rng         *rand.Rand
	surface     Surface
	sched       Scheduler
	pending     FrameHandle
	hasPending  bool
	unsubscribe func()
	frames      uint64
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithSeed makes the loop's pseudo-random sequence reproducible.
func WithSeed(seed int64) LoopOption {
	return func(l *Loop) {
		l.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(log zerolog.Logger) LoopOption {
	return func(l *Loop) {
		l.log = log
	}
}

// NewLoop returns an uninitialized loop for effect.
func NewLoop(effect Effect, opts Options, lopts ...LoopOption) *Loop {
	l := &Loop{
		effect: effect,
		opts:   opts.Normalized(),
		log:    zerolog.Nop(),
	}
	for _, o := range lopts {
		o(l)
	}
	if l.rng == nil {
		l.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return l
}

// Options returns the normalized presentation options.
func (l *Loop) Options() Options { return l.opts }

// Effect returns the effect the loop drives.
func (l *Loop) Effect() Effect { return l.effect }

// State returns the current lifecycle state.
func (l *Loop) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Frames returns how many frames have been drawn.
func (l *Loop) Frames() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.frames
}

// Start mounts the loop on h. It reports whether the loop is running; an
// incomplete host, an unavailable surface or a second Start leave the loop
// untouched.
func (l *Loop) Start(h Host) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateUninitialized {
		return l.state == StateRunning
	}
	if h.Surface == nil || h.Scheduler == nil || h.Viewport == nil {
		l.log.Debug().Str("effect", l.effect.Name()).Msg("canvas host incomplete, not starting")
		return false
	}
	s, err := h.Surface()
	if err != nil || s == nil {
		l.log.Debug().Err(err).Str("effect", l.effect.Name()).Msg("canvas surface unavailable, not starting")
		return false
	}

	w, ht := h.Viewport.Size()
	s.Resize(w, ht)
	l.effect.Seed(l.rng, w, ht)

	l.surface = s
	l.sched = h.Scheduler
	l.state = StateRunning
	l.unsubscribe = h.Viewport.OnResize(l.resize)
	l.schedule()
	l.log.Debug().Str("effect", l.effect.Name()).Int("width", w).Int("height", ht).Msg("canvas started")
	return true
}

// Stop cancels the pending frame and detaches from the viewport. It is
// safe to call more than once and before Start.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == StateStopped {
		return
	}
	wasRunning := l.state == StateRunning
	l.state = StateStopped
	if l.hasPending {
		l.sched.CancelFrame(l.pending)
		l.hasPending = false
	}
	if l.unsubscribe != nil {
		l.unsubscribe()
		l.unsubscribe = nil
	}
	if wasRunning {
		l.log.Debug().Str("effect", l.effect.Name()).Uint64("frames", l.frames).Msg("canvas stopped")
	}
}

// schedule requests the next frame. Callers hold l.mu.
func (l *Loop) schedule() {
	l.pending = l.sched.RequestFrame(l.frame)
	l.hasPending = true
}

func (l *Loop) frame() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateRunning {
		return
	}
	l.hasPending = false

	w, h := l.surface.Size()
	l.surface.Fill(l.effect.Fade())
	l.effect.Draw(l.surface, l.rng)
	l.effect.Advance(l.rng, w, h)
	l.frames++
	l.schedule()
}

func (l *Loop) resize(w, h int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state != StateRunning {
		return
	}
	l.surface.Resize(w, h)
	l.effect.Seed(l.rng, w, h)
}
