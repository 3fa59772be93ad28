// Package canvas is a frame-driven engine for decorative background effects.
//
// A Loop owns one Effect and runs it against a Host: the surface it paints
// on, the scheduler that delivers frames, and the viewport it is sized to.
// Every frame fades the previous one with a translucent fill, lets the effect
// draw, advances the effect, and asks the scheduler for the next frame.
//
// The same Loop runs in three places: the GIF recorder that produces the
// site's background images, the headless runner, and the desktop preview
// window (built with the "preview" tag).
package canvas

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand"
	"sort"
	"strings"
)

// Surface is a drawing target. Coordinates are in pixels.
type Surface interface {
	Size() (width, height int)
	Resize(width, height int)
	// Fill composites c over the whole surface.
	Fill(c color.NRGBA)
	Line(x0, y0, x1, y1 float64, c color.NRGBA)
	Circle(x, y, r float64, c color.NRGBA)
	Glyph(x, y float64, ch rune, c color.NRGBA)
}

// FrameHandle identifies a requested frame so it can be revoked.
type FrameHandle uint64

// Scheduler delivers frame callbacks, one at a time. Implementations must
// not invoke fn from inside RequestFrame.
type Scheduler interface {
	RequestFrame(fn func()) FrameHandle
	CancelFrame(h FrameHandle)
}

// Viewport reports the size the surface should have and notifies resizes.
type Viewport interface {
	Size() (width, height int)
	OnResize(fn func(width, height int)) (unsubscribe func())
}

// ErrNoSurface is returned by surface providers that have nothing to draw on.
var ErrNoSurface = errors.New("canvas: no drawing surface")

// Host is the capability handle a Loop is started against. A Host with a
// nil field, or whose Surface provider fails, leaves the Loop inert.
type Host struct {
	Surface   func() (Surface, error)
	Scheduler Scheduler
	Viewport  Viewport
}

// Options are the presentation settings of a background.
type Options struct {
	// Opacity is the overall blend strength of the background, 0..1.
	// Zero (or NaN) selects DefaultOptions.Opacity. Any negative value
	// requests a fully transparent background.
	Opacity float64
	// ClassName is the layout hint emitted on the background element.
	ClassName string
}

// DefaultOptions is used when Options are left zero.
var DefaultOptions = Options{Opacity: 0.4, ClassName: "bg-canvas"}

// Normalized fills unset fields from DefaultOptions and clamps Opacity
// into 0..1.
func (o Options) Normalized() Options {
	switch {
	case o.Opacity == 0 || math.IsNaN(o.Opacity):
		o.Opacity = DefaultOptions.Opacity
	case o.Opacity < 0:
		o.Opacity = 0
	case o.Opacity > 1:
		o.Opacity = 1
	}
	if o.ClassName == "" {
		o.ClassName = DefaultOptions.ClassName
	}
	return o
}

// Effect is the strategy a Loop runs. Seed is called on start and on every
// resize; Draw and Advance once per frame.
type Effect interface {
	Name() string
	Seed(rng *rand.Rand, width, height int)
	Draw(s Surface, rng *rand.Rand)
	Advance(rng *rand.Rand, width, height int)
	// Fade is the colour painted over the previous frame.
	Fade() color.NRGBA
}

// ErrUnknownEffect is returned by NewEffect for unregistered names.
var ErrUnknownEffect = errors.New("canvas: unknown effect")

var effects = map[string]func() Effect{
	"particles": func() Effect { return NewParticles() },
	"matrix":    func() Effect { return NewMatrixRain() },
}

// NewEffect builds a fresh effect by name.
func NewEffect(name string) (Effect, error) {
	mk, ok := effects[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, name)
	}
	return mk(), nil
}

// EffectNames lists the registered effects, sorted.
func EffectNames() []string {
	names := make([]string, 0, len(effects))
	for n := range effects {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// fade returns black at the given alpha.
func fade(alpha float64) color.NRGBA {
	return color.NRGBA{A: alphaByte(alpha)}
}

func alphaByte(a float64) uint8 {
	switch {
	case a <= 0:
		return 0
	case a >= 1:
		return 255
	}
	return uint8(a*255 + 0.5)
}
