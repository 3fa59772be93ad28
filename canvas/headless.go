package canvas

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// HeadlessConfig configures RunHeadless.
type HeadlessConfig struct {
	Width, Height int
	// FPS is the frame rate; 60 when zero.
	FPS int
	// Frames stops the run after that many frames; zero runs until ctx is done.
	Frames  uint64
	Seed    int64
	Options Options
	Logger  zerolog.Logger
}

// RunHeadless drives effect on an off-screen raster at a fixed rate and
// returns the number of frames drawn. It returns nil when cfg.Frames is
// reached and ctx.Err() when the context ends first.
func RunHeadless(ctx context.Context, effect Effect, cfg HeadlessConfig) (uint64, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return 0, fmt.Errorf("%w: %dx%d", ErrBadSize, cfg.Width, cfg.Height)
	}
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	d := time.Second / time.Duration(cfg.FPS)
	if d <= 0 {
		return 0, fmt.Errorf("invalid headless fps: %d", cfg.FPS)
	}

	sched := NewManualScheduler()
	loop := NewLoop(effect, cfg.Options, WithSeed(cfg.Seed), WithLogger(cfg.Logger))
	if !loop.Start(RasterHost(NewRaster(cfg.Width, cfg.Height), sched, NewStaticViewport(cfg.Width, cfg.Height))) {
		return 0, ErrNoSurface
	}
	defer loop.Stop()

	t := time.NewTicker(d)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return loop.Frames(), ctx.Err()
		case <-t.C:
			sched.Tick()
			if n := loop.Frames(); cfg.Frames > 0 && n >= cfg.Frames {
				return n, nil
			}
		}
	}
}
