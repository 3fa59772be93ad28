package canvas

import (
	"image/color"
	"math"
	"math/rand"
)

const (
	// AreaPerParticle is the surface area, in square pixels, per node.
	AreaPerParticle = 25000
	// MaxParticles caps the node count; links are checked pairwise.
	MaxParticles = 40
	// LinkDistance is the distance under which two nodes are linked.
	LinkDistance = 150.0
	// LinkOpacity scales link alpha: (1 - dist/LinkDistance) * LinkOpacity.
	LinkOpacity = 0.2

	particleFade  = 0.1
	particleSpeed = 0.5
)

// ParticleCount returns the node count for a surface of the given size.
func ParticleCount(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	n := width * height / AreaPerParticle
	if n > MaxParticles {
		return MaxParticles
	}
	return n
}

// Node is one moving point of the particle network.
type Node struct {
	X, Y   float64
	VX, VY float64
	Radius float64
	Color  color.NRGBA
}

// Particles is a network of drifting nodes linked by proximity.
type Particles struct {
	Palette []color.NRGBA
	Link    color.NRGBA
	nodes   []Node
}

var (
	particlePalette = []color.NRGBA{
		{R: 0x38, G: 0xbd, B: 0xf8, A: 0xff},
		{R: 0x81, G: 0x8c, B: 0xf8, A: 0xff},
		{R: 0x34, G: 0xd3, B: 0x99, A: 0xff},
	}
	particleLink = color.NRGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
)

// NewParticles returns the particle network with the site palette.
func NewParticles() *Particles {
	return &Particles{
		Palette: append([]color.NRGBA(nil), particlePalette...),
		Link:    particleLink,
	}
}

// nodeColors is Palette, or the site palette when Palette is empty.
func (p *Particles) nodeColors() []color.NRGBA {
	if len(p.Palette) == 0 {
		return particlePalette
	}
	return p.Palette
}

// Colors lists every colour the effect paints with.
func (p *Particles) Colors() []color.NRGBA {
	return append(append([]color.NRGBA(nil), p.nodeColors()...), p.Link)
}

func (p *Particles) Name() string { return "particles" }

func (p *Particles) Fade() color.NRGBA { return fade(particleFade) }

// Nodes returns a copy of the current nodes.
func (p *Particles) Nodes() []Node {
	return append([]Node(nil), p.nodes...)
}

func (p *Particles) Seed(rng *rand.Rand, width, height int) {
	n := ParticleCount(width, height)
	colors := p.nodeColors()
	p.nodes = make([]Node, n)
	for i := range p.nodes {
		p.nodes[i] = Node{
			X:      rng.Float64() * float64(width),
			Y:      rng.Float64() * float64(height),
			VX:     (rng.Float64() - 0.5) * particleSpeed,
			VY:     (rng.Float64() - 0.5) * particleSpeed,
			Radius: rng.Float64()*2 + 1,
			Color:  colors[rng.Intn(len(colors))],
		}
	}
}

// linkAlpha returns the link opacity for two nodes dist apart, and whether
// they are linked at all.
func linkAlpha(dist float64) (float64, bool) {
	if dist >= LinkDistance {
		return 0, false
	}
	return (1 - dist/LinkDistance) * LinkOpacity, true
}

func (p *Particles) Draw(s Surface, _ *rand.Rand) {
	for i := range p.nodes {
		a := &p.nodes[i]
		for j := i + 1; j < len(p.nodes); j++ {
			b := &p.nodes[j]
			alpha, ok := linkAlpha(math.Hypot(a.X-b.X, a.Y-b.Y))
			if !ok {
				continue
			}
			c := p.Link
			c.A = alphaByte(alpha)
			s.Line(a.X, a.Y, b.X, b.Y, c)
		}
	}
	for _, n := range p.nodes {
		s.Circle(n.X, n.Y, n.Radius, n.Color)
	}
}

func (p *Particles) Advance(_ *rand.Rand, width, height int) {
	w, h := float64(width), float64(height)
	for i := range p.nodes {
		n := &p.nodes[i]
		n.X += n.VX
		n.Y += n.VY
		if n.X < 0 || n.X > w {
			n.VX = -n.VX
			n.X = clamp(n.X, 0, w)
		}
		if n.Y < 0 || n.Y > h {
			n.VY = -n.VY
			n.Y = clamp(n.Y, 0, h)
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
