package canvas

import (
	"math/rand"
	"testing"
)

func TestParticleCount(t *testing.T) {
	cases := []struct {
		w, h int
		want int
	}{
		{0, 0, 0},
		{-10, 100, 0},
		{100, 100, 0},
		{250, 100, 1},
		{1280, 720, 36},
		{1920, 1080, 40},
		{2000, 1000, 40},
	}
	for _, c := range cases {
		if got := ParticleCount(c.w, c.h); got != c.want {
			t.Errorf("ParticleCount(%d, %d) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}

func TestParticlesStayInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewParticles()
	p.Seed(rng, 400, 300)
	if got := len(p.Nodes()); got != ParticleCount(400, 300) {
		t.Fatalf("nodes = %d, want %d", got, ParticleCount(400, 300))
	}
	for i := 0; i < 2000; i++ {
		p.Advance(rng, 400, 300)
	}
	for i, n := range p.Nodes() {
		if n.X < 0 || n.X > 400 || n.Y < 0 || n.Y > 300 {
			t.Errorf("node %d out of bounds: (%.2f, %.2f)", i, n.X, n.Y)
		}
		if n.Radius < 1 || n.Radius > 3 {
			t.Errorf("node %d radius %.2f out of 1..3", i, n.Radius)
		}
	}
}

func TestParticlesReseedOnResize(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	p := NewParticles()
	p.Seed(rng, 1920, 1080)
	p.Seed(rng, 500, 500)
	nodes := p.Nodes()
	if len(nodes) != ParticleCount(500, 500) {
		t.Fatalf("nodes = %d, want %d", len(nodes), ParticleCount(500, 500))
	}
	for i, n := range nodes {
		if n.X > 500 || n.Y > 500 {
			t.Errorf("node %d seeded outside new bounds: (%.2f, %.2f)", i, n.X, n.Y)
		}
	}
}

func TestLinkAlpha(t *testing.T) {
	if _, ok := linkAlpha(LinkDistance); ok {
		t.Error("nodes exactly LinkDistance apart must not link")
	}
	a, ok := linkAlpha(0)
	if !ok || a != LinkOpacity {
		t.Errorf("linkAlpha(0) = %v, %v; want %v, true", a, ok, LinkOpacity)
	}
	a, _ = linkAlpha(LinkDistance / 2)
	if want := LinkOpacity / 2; a != want {
		t.Errorf("linkAlpha(half) = %v, want %v", a, want)
	}
}

func TestParticlesDrawLinksCloseNodes(t *testing.T) {
	p := NewParticles()
	p.nodes = []Node{
		{X: 10, Y: 10, Radius: 1},
		{X: 20, Y: 10, Radius: 1},
		{X: 400, Y: 400, Radius: 1},
	}
	s := &recordingSurface{w: 500, h: 500}
	p.Draw(s, nil)
	if s.lines != 1 {
		t.Errorf("lines = %d, want 1", s.lines)
	}
	if s.circles != 3 {
		t.Errorf("circles = %d, want 3", s.circles)
	}
}

func TestMatrixSeed(t *testing.T) {
	m := NewMatrixRain()
	m.Seed(nil, 140, 100)
	drops := m.Drops()
	if len(drops) != 10 {
		t.Fatalf("columns = %d, want 10", len(drops))
	}
	for i, d := range drops {
		if d != 1 {
			t.Errorf("drop %d = %d, want 1", i, d)
		}
	}
	m.Seed(nil, 0, 100)
	if len(m.Drops()) != 0 {
		t.Errorf("zero width should have no columns")
	}
}

func TestMatrixAdvance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := NewMatrixRain()
	m.Seed(rng, 14*4, 140)

	m.Advance(rng, 14*4, 140)
	for i, d := range m.Drops() {
		if d != 2 {
			t.Errorf("drop %d = %d after one advance, want 2", i, d)
		}
	}

	// Past the bottom edge every column eventually restarts.
	reset := make([]bool, 4)
	for i := 0; i < 5000; i++ {
		m.Advance(rng, 14*4, 140)
		for c, d := range m.Drops() {
			if d == 1 {
				reset[c] = true
			}
		}
	}
	for c, ok := range reset {
		if !ok {
			t.Errorf("column %d never reset", c)
		}
	}
}

func TestMatrixDrawOneGlyphPerColumn(t *testing.T) {
	m := NewMatrixRain()
	m.Seed(nil, 14*6, 100)
	s := &recordingSurface{}
	m.Draw(s, rand.New(rand.NewSource(1)))
	if s.glyphs != 6 {
		t.Errorf("glyphs = %d, want 6", s.glyphs)
	}
}

func TestParticlesEmptyPaletteUsesSitePalette(t *testing.T) {
	p := NewParticles()
	p.Palette = nil

	sched := NewManualScheduler()
	loop := NewLoop(p, Options{}, WithSeed(3))
	if !loop.Start(RasterHost(NewRaster(500, 500), sched, NewStaticViewport(500, 500))) {
		t.Fatal("Start returned false")
	}
	defer loop.Stop()
	sched.Tick()

	nodes := p.Nodes()
	if len(nodes) != ParticleCount(500, 500) {
		t.Fatalf("nodes = %d, want %d", len(nodes), ParticleCount(500, 500))
	}
	for i, n := range nodes {
		found := false
		for _, c := range particlePalette {
			if n.Color == c {
				found = true
			}
		}
		if !found {
			t.Errorf("node %d colour %+v not in the site palette", i, n.Color)
		}
	}
}

func TestEffectColors(t *testing.T) {
	p := NewParticles()
	if got := p.Colors(); len(got) != len(p.Palette)+1 || got[len(got)-1] != p.Link {
		t.Errorf("particle colours = %v", got)
	}
	m := NewMatrixRain()
	if got := m.Colors(); len(got) != 1 || got[0] != m.Color {
		t.Errorf("matrix colours = %v", got)
	}
}
