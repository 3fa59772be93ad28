package canvas

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// RecordConfig describes a recorded background.
type RecordConfig struct {
	Width, Height int
	Frames        int
	// Delay is the display time of each frame.
	Delay   time.Duration
	Seed    int64
	Options Options
	Logger  *zerolog.Logger
}

const (
	defaultRecordFrames = 48
	defaultRecordDelay  = 60 * time.Millisecond
)

// ErrBadSize is returned when a recording has no drawable area.
var ErrBadSize = errors.New("canvas: width and height must be positive")

// Colorer is implemented by effects that paint with a fixed set of colours.
// Record quantizes their frames against shades of those colours instead of
// a general-purpose palette.
type Colorer interface {
	Colors() []color.NRGBA
}

// paletteSize is the GIF colour table limit.
const paletteSize = 256

// effectPalette returns black plus evenly spaced shades of each of the
// effect's colours at the given opacity, or Plan9 for effects that are not
// a Colorer.
func effectPalette(effect Effect, opacity float64) color.Palette {
	c, ok := effect.(Colorer)
	if !ok {
		return palette.Plan9
	}
	colors := c.Colors()
	if len(colors) == 0 {
		return palette.Plan9
	}
	levels := (paletteSize - 1) / len(colors)
	if levels > 16 {
		levels = 16
	}
	if levels < 1 {
		levels = 1
		colors = colors[:paletteSize-1]
	}

	pal := color.Palette{color.RGBA{A: 0xff}}
	seen := map[color.RGBA]bool{{A: 0xff}: true}
	for _, col := range colors {
		for l := 1; l <= levels; l++ {
			f := opacity * float64(l) / float64(levels)
			shade := color.RGBA{
				R: uint8(float64(col.R)*f + 0.5),
				G: uint8(float64(col.G)*f + 0.5),
				B: uint8(float64(col.B)*f + 0.5),
				A: 0xff,
			}
			if !seen[shade] {
				seen[shade] = true
				pal = append(pal, shade)
			}
		}
	}
	return pal
}

// quantizerMemo bounds the number of remembered lookups.
const quantizerMemo = 1 << 16

// quantizer maps opaque RGB values to their nearest palette index,
// remembering every answer.
type quantizer struct {
	pal  color.Palette
	rgb  [][3]int32
	memo map[uint32]uint8
}

func newQuantizer(pal color.Palette) *quantizer {
	q := &quantizer{pal: pal, rgb: make([][3]int32, len(pal)), memo: make(map[uint32]uint8)}
	for i, c := range pal {
		r, g, b, _ := c.RGBA()
		q.rgb[i] = [3]int32{int32(r >> 8), int32(g >> 8), int32(b >> 8)}
	}
	return q
}

func (q *quantizer) index(r, g, b uint8) uint8 {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if i, ok := q.memo[key]; ok {
		return i
	}
	best, bestDist := 0, int32(-1)
	for i, c := range q.rgb {
		dr, dg, db := c[0]-int32(r), c[1]-int32(g), c[2]-int32(b)
		d := dr*dr + dg*dg + db*db
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
			if d == 0 {
				break
			}
		}
	}
	if len(q.memo) < quantizerMemo {
		q.memo[key] = uint8(best)
	}
	return uint8(best)
}

// Record runs effect for cfg.Frames frames on an off-screen raster and
// returns the frames as an animated GIF. Each frame is the raster composited
// at Options.Opacity over black and quantized with effectPalette.
func Record(ctx context.Context, effect Effect, cfg RecordConfig) (*gif.GIF, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadSize, cfg.Width, cfg.Height)
	}
	if cfg.Frames <= 0 {
		cfg.Frames = defaultRecordFrames
	}
	if cfg.Delay <= 0 {
		cfg.Delay = defaultRecordDelay
	}

	raster := NewRaster(cfg.Width, cfg.Height)
	sched := NewManualScheduler()
	view := NewStaticViewport(cfg.Width, cfg.Height)
	lopts := []LoopOption{WithSeed(cfg.Seed)}
	if cfg.Logger != nil {
		lopts = append(lopts, WithLogger(*cfg.Logger))
	}
	loop := NewLoop(effect, cfg.Options, lopts...)
	if !loop.Start(RasterHost(raster, sched, view)) {
		return nil, ErrNoSurface
	}
	defer loop.Stop()

	q := newQuantizer(effectPalette(effect, loop.Options().Opacity))
	m := uint32(alphaByte(loop.Options().Opacity))
	delay := int(cfg.Delay / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}

	out := &gif.GIF{LoopCount: 0}
	bounds := image.Rect(0, 0, cfg.Width, cfg.Height)
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sched.Tick()

		// Raster pixels are premultiplied, so compositing over black at
		// opacity m is a per-channel scale.
		src := raster.Image().Pix
		frame := image.NewPaletted(bounds, q.pal)
		for p := range frame.Pix {
			px := src[4*p : 4*p+3 : 4*p+3]
			frame.Pix[p] = q.index(
				uint8(uint32(px[0])*m/0xff),
				uint8(uint32(px[1])*m/0xff),
				uint8(uint32(px[2])*m/0xff),
			)
		}
		out.Image = append(out.Image, frame)
		out.Delay = append(out.Delay, delay)
	}
	return out, nil
}

// EncodeGIF records effect and writes the GIF to w.
func EncodeGIF(ctx context.Context, w io.Writer, effect Effect, cfg RecordConfig) error {
	g, err := Record(ctx, effect, cfg)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(w, g); err != nil {
		return fmt.Errorf("encode gif: %w", err)
	}
	return nil
}
