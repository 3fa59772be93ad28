package canvas

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// LineWidth is the stroke width of Raster.Line in pixels.
const LineWidth = 1.0

// circleK is the cubic Bézier control distance for a quarter circle.
const circleK = 0.5522847498

// Raster is an in-memory Surface backed by an *image.RGBA.
type Raster struct {
	img *image.RGBA
	z   *vector.Rasterizer
}

// NewRaster returns a transparent raster of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{}
	r.Resize(width, height)
	return r
}

// Image returns the backing image. It is reused across frames.
func (r *Raster) Image() *image.RGBA { return r.img }

func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Resize clears the raster to the new size.
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, width, height))
	r.z = vector.NewRasterizer(width, height)
}

func (r *Raster) Fill(c color.NRGBA) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Over)
}

func (r *Raster) Line(x0, y0, x1, y1 float64, c color.NRGBA) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	// half-width normal
	nx, ny := -dy/l*LineWidth/2, dx/l*LineWidth/2

	r.begin()
	r.z.MoveTo(float32(x0+nx), float32(y0+ny))
	r.z.LineTo(float32(x1+nx), float32(y1+ny))
	r.z.LineTo(float32(x1-nx), float32(y1-ny))
	r.z.LineTo(float32(x0-nx), float32(y0-ny))
	r.z.ClosePath()
	r.paint(c)
}

func (r *Raster) Circle(x, y, radius float64, c color.NRGBA) {
	if radius <= 0 {
		return
	}
	k := radius * circleK
	f := func(v float64) float32 { return float32(v) }

	r.begin()
	r.z.MoveTo(f(x+radius), f(y))
	r.z.CubeTo(f(x+radius), f(y+k), f(x+k), f(y+radius), f(x), f(y+radius))
	r.z.CubeTo(f(x-k), f(y+radius), f(x-radius), f(y+k), f(x-radius), f(y))
	r.z.CubeTo(f(x-radius), f(y-k), f(x-k), f(y-radius), f(x), f(y-radius))
	r.z.CubeTo(f(x+k), f(y-radius), f(x+radius), f(y-k), f(x+radius), f(y))
	r.z.ClosePath()
	r.paint(c)
}

// Glyph draws ch with its baseline at y.
func (r *Raster) Glyph(x, y float64, ch rune, c color.NRGBA) {
	d := font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.Int26_6(x * 64), Y: fixed.Int26_6(y * 64)},
	}
	d.DrawString(string(ch))
}

func (r *Raster) begin() {
	b := r.img.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
	r.z.DrawOp = draw.Over
}

func (r *Raster) paint(c color.NRGBA) {
	r.z.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{})
}

// RasterHost returns a Host that paints on r, sized by v and driven by s.
func RasterHost(r *Raster, s Scheduler, v Viewport) Host {
	return Host{
		Surface: func() (Surface, error) {
			if r == nil {
				return nil, ErrNoSurface
			}
			return r, nil
		},
		Scheduler: s,
		Viewport:  v,
	}
}
