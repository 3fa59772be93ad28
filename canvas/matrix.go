package canvas

import (
	"image/color"
	"math/rand"
)

const (
	// GlyphSize is the cell size of the glyph rain in pixels.
	GlyphSize = 14
	// ResetChance is the per-frame probability that a column past the
	// bottom edge restarts at the top.
	ResetChance = 0.025

	matrixFade = 0.05
)

// MatrixRain is columns of falling glyphs.
type MatrixRain struct {
	Glyphs []rune
	Color  color.NRGBA
	drops  []int
}

// NewMatrixRain returns the glyph rain with the site palette.
func NewMatrixRain() *MatrixRain {
	return &MatrixRain{
		Glyphs: []rune("0123456789ABCDEF<>{}[]/*+=#$%&"),
		Color:  color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff},
	}
}

func (m *MatrixRain) Name() string { return "matrix" }

func (m *MatrixRain) Fade() color.NRGBA { return fade(matrixFade) }

// Colors lists every colour the effect paints with.
func (m *MatrixRain) Colors() []color.NRGBA { return []color.NRGBA{m.Color} }

// Drops returns a copy of the per-column row offsets.
func (m *MatrixRain) Drops() []int {
	return append([]int(nil), m.drops...)
}

func (m *MatrixRain) Seed(_ *rand.Rand, width, _ int) {
	cols := 0
	if width > 0 {
		cols = width / GlyphSize
	}
	m.drops = make([]int, cols)
	for i := range m.drops {
		m.drops[i] = 1
	}
}

func (m *MatrixRain) Draw(s Surface, rng *rand.Rand) {
	if len(m.Glyphs) == 0 {
		return
	}
	for i, row := range m.drops {
		ch := m.Glyphs[rng.Intn(len(m.Glyphs))]
		s.Glyph(float64(i*GlyphSize), float64(row*GlyphSize), ch, m.Color)
	}
}

func (m *MatrixRain) Advance(rng *rand.Rand, _, height int) {
	for i := range m.drops {
		if m.drops[i]*GlyphSize > height && rng.Float64() > 1-ResetChance {
			m.drops[i] = 0
		}
		m.drops[i]++
	}
}
