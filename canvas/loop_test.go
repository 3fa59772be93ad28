package canvas

import (
	"errors"
	"image/color"
	"math"
	"math/rand"
	"testing"
)

// recordingSurface counts drawing calls.
type recordingSurface struct {
	w, h    int
	fills   int
	lines   int
	circles int
	glyphs  int
	resized int
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Resize(w, h int) {
	s.w, s.h = w, h
	s.resized++
}

func (s *recordingSurface) Fill(color.NRGBA) { s.fills++ }
func (s *recordingSurface) Line(_, _, _, _ float64, _ color.NRGBA) { s.lines++ }
func (s *recordingSurface) Circle(_, _, _ float64, _ color.NRGBA) { s.circles++ }
func (s *recordingSurface) Glyph(_, _ float64, _ rune, _ color.NRGBA) { s.glyphs++ }

// countingEffect records how often it is seeded, drawn and advanced.
type countingEffect struct {
	seeds, draws, advances int
	lastW, lastH           int
}

func (e *countingEffect) Name() string { return "counting" }
func (e *countingEffect) Fade() color.NRGBA { return fade(0.1) }
func (e *countingEffect) Seed(_ *rand.Rand, w, h int) {
	e.seeds++
	e.lastW, e.lastH = w, h
}

func (e *countingEffect) Draw(Surface, *rand.Rand) { e.draws++ }
func (e *countingEffect) Advance(_ *rand.Rand, _, _ int) { e.advances++ }

func setupLoop(t *testing.T, w, h int) (*Loop, *countingEffect, *recordingSurface, *ManualScheduler, *StaticViewport) {
	t.Helper()
	eff := &countingEffect{}
	surf := &recordingSurface{}
	sched := NewManualScheduler()
	view := NewStaticViewport(w, h)
	l := NewLoop(eff, Options{}, WithSeed(1))
	host := Host{
		Surface:   func() (Surface, error) { return surf, nil },
		Scheduler: sched,
		Viewport:  view,
	}
	if !l.Start(host) {
		t.Fatal("Start returned false")
	}
	return l, eff, surf, sched, view
}

func TestLoopStartSizesAndSeeds(t *testing.T) {
	l, eff, surf, sched, _ := setupLoop(t, 800, 600)
	if l.State() != StateRunning {
		t.Fatalf("state = %v, want running", l.State())
	}
	if surf.w != 800 || surf.h != 600 {
		t.Errorf("surface = %dx%d, want 800x600", surf.w, surf.h)
	}
	if eff.seeds != 1 || eff.lastW != 800 || eff.lastH != 600 {
		t.Errorf("seed calls = %d (%dx%d)", eff.seeds, eff.lastW, eff.lastH)
	}
	if sched.Pending() != 1 {
		t.Errorf("pending = %d, want 1", sched.Pending())
	}
}

func TestLoopFrameOrder(t *testing.T) {
	l, eff, surf, sched, _ := setupLoop(t, 100, 100)
	for i := 0; i < 5; i++ {
		if n := sched.Tick(); n != 1 {
			t.Fatalf("tick %d ran %d frames, want 1", i, n)
		}
	}
	if l.Frames() != 5 || eff.draws != 5 || eff.advances != 5 || surf.fills != 5 {
		t.Errorf("frames=%d draws=%d advances=%d fills=%d, want 5 each", l.Frames(), eff.draws, eff.advances, surf.fills)
	}
	if sched.Pending() != 1 {
		t.Errorf("pending = %d, want exactly one outstanding frame", sched.Pending())
	}
}

func TestLoopStopCancelsFrames(t *testing.T) {
	l, eff, _, sched, view := setupLoop(t, 100, 100)
	sched.Tick()
	l.Stop()

	if sched.Pending() != 0 {
		t.Errorf("pending after stop = %d, want 0", sched.Pending())
	}
	if view.Listeners() != 0 {
		t.Errorf("resize listeners after stop = %d, want 0", view.Listeners())
	}
	sched.Tick()
	view.Resize(300, 300)
	if eff.draws != 1 {
		t.Errorf("draws = %d, want 1 (no frame after stop)", eff.draws)
	}
	if eff.seeds != 1 {
		t.Errorf("seeds = %d, want 1 (no reseed after stop)", eff.seeds)
	}
}

func TestLoopStopIdempotent(t *testing.T) {
	l, _, _, _, _ := setupLoop(t, 100, 100)
	l.Stop()
	l.Stop()
	if l.State() != StateStopped {
		t.Errorf("state = %v, want stopped", l.State())
	}

	fresh := NewLoop(&countingEffect{}, Options{})
	fresh.Stop()
	if fresh.State() != StateStopped {
		t.Errorf("stop before start: state = %v", fresh.State())
	}
	if fresh.Start(Host{}) {
		t.Error("a stopped loop must not restart")
	}
}

func TestLoopStaleFrameIsNoop(t *testing.T) {
	eff := &countingEffect{}
	sched := NewManualScheduler()
	l := NewLoop(eff, Options{})
	l.Start(Host{
		Surface:   func() (Surface, error) { return &recordingSurface{}, nil },
		Scheduler: sched,
		Viewport:  NewStaticViewport(10, 10),
	})
	// grab the callback before Stop revokes it
	fns := sched.q.drain()
	l.Stop()
	for _, fn := range fns {
		fn()
	}
	if eff.draws != 0 {
		t.Errorf("draws = %d, want 0", eff.draws)
	}
}

func TestLoopStartWithoutSurface(t *testing.T) {
	cases := map[string]Host{
		"empty host": {},
		"surface error": {
			Surface:   func() (Surface, error) { return nil, ErrNoSurface },
			Scheduler: NewManualScheduler(),
			Viewport:  NewStaticViewport(10, 10),
		},
		"nil surface": {
			Surface:   func() (Surface, error) { return nil, nil },
			Scheduler: NewManualScheduler(),
			Viewport:  NewStaticViewport(10, 10),
		},
		"no scheduler": {
			Surface:  func() (Surface, error) { return &recordingSurface{}, nil },
			Viewport: NewStaticViewport(10, 10),
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			eff := &countingEffect{}
			l := NewLoop(eff, Options{})
			if l.Start(h) {
				t.Fatal("Start returned true")
			}
			if l.State() != StateUninitialized {
				t.Errorf("state = %v, want uninitialized", l.State())
			}
			if eff.seeds != 0 {
				t.Errorf("effect seeded %d times", eff.seeds)
			}
			if s, ok := h.Scheduler.(*ManualScheduler); ok && s.Pending() != 0 {
				t.Errorf("pending = %d, want 0", s.Pending())
			}
			l.Stop()
		})
	}
}

func TestLoopResizeReseeds(t *testing.T) {
	_, eff, surf, _, view := setupLoop(t, 100, 100)
	view.Resize(640, 480)
	if surf.w != 640 || surf.h != 480 {
		t.Errorf("surface = %dx%d, want 640x480", surf.w, surf.h)
	}
	if eff.seeds != 2 || eff.lastW != 640 || eff.lastH != 480 {
		t.Errorf("seeds=%d last=%dx%d", eff.seeds, eff.lastW, eff.lastH)
	}
	view.Resize(640, 480)
	if eff.seeds != 2 {
		t.Errorf("same-size resize reseeded")
	}
}

func TestOptionsNormalized(t *testing.T) {
	cases := []struct {
		in   Options
		want Options
	}{
		{Options{}, DefaultOptions},
		{Options{Opacity: 2, ClassName: "x"}, Options{Opacity: 1, ClassName: "x"}},
		{Options{Opacity: 0.7}, Options{Opacity: 0.7, ClassName: DefaultOptions.ClassName}},
		{Options{Opacity: -1, ClassName: "x"}, Options{Opacity: 0, ClassName: "x"}},
		{Options{Opacity: math.NaN(), ClassName: "x"}, Options{Opacity: DefaultOptions.Opacity, ClassName: "x"}},
	}
	for _, c := range cases {
		if got := NewLoop(&countingEffect{}, c.in).Options(); got != c.want {
			t.Errorf("Options(%+v) = %+v, want %+v", c.in, got, c.want)
		}
	}
}

func TestNewEffect(t *testing.T) {
	for _, name := range EffectNames() {
		e, err := NewEffect(name)
		if err != nil {
			t.Fatalf("NewEffect(%q): %v", name, err)
		}
		if e.Name() != name {
			t.Errorf("Name() = %q, want %q", e.Name(), name)
		}
	}
	if _, err := NewEffect(" Matrix "); err != nil {
		t.Errorf("names should be case-insensitive: %v", err)
	}
	if _, err := NewEffect("plasma"); !errors.Is(err, ErrUnknownEffect) {
		t.Errorf("err = %v, want ErrUnknownEffect", err)
	}
}
