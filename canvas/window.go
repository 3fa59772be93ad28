//go:build preview

package canvas

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog"
)

// WindowConfig configures RunWindow.
type WindowConfig struct {
	Width, Height int
	Title         string
	Seed          int64
	Options       Options
	Logger        zerolog.Logger
}

// RunWindow opens a resizable desktop window that runs effect, one frame per
// tick. It blocks until the window closes.
func RunWindow(effect Effect, cfg WindowConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 960, 540
	}
	if cfg.Title == "" {
		cfg.Title = "folio: " + effect.Name()
	}

	g := &previewGame{
		raster: NewRaster(cfg.Width, cfg.Height),
		sched:  NewManualScheduler(),
		view:   NewStaticViewport(cfg.Width, cfg.Height),
	}
	g.loop = NewLoop(effect, cfg.Options, WithSeed(cfg.Seed), WithLogger(cfg.Logger))
	if !g.loop.Start(RasterHost(g.raster, g.sched, g.view)) {
		return ErrNoSurface
	}
	defer g.loop.Stop()

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)
	return ebiten.RunGame(g)
}

type previewGame struct {
	raster *Raster
	sched  *ManualScheduler
	view   *StaticViewport
	loop   *Loop
	img    *ebiten.Image
}

func (g *previewGame) Update() error {
	g.sched.Tick()
	return nil
}

func (g *previewGame) Draw(screen *ebiten.Image) {
	w, h := g.raster.Size()
	if w == 0 || h == 0 {
		return
	}
	if g.img == nil || g.img.Bounds().Dx() != w || g.img.Bounds().Dy() != h {
		if g.img != nil {
			g.img.Deallocate()
		}
		g.img = ebiten.NewImage(w, h)
	}
	g.img.WritePixels(g.raster.Image().Pix)

	op := &ebiten.DrawImageOptions{}
	op.ColorScale.ScaleAlpha(float32(g.loop.Options().Opacity))
	screen.DrawImage(g.img, op)
}

func (g *previewGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.view.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
