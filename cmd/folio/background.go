package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/canvas"
)

type backgroundFlags struct {
	out      string
	width    int
	height   int
	frames   int
	delay    time.Duration
	seed     int64
	opacity  float64
	headless bool
	fps      int
}

func newBackgroundCmd() *cobra.Command {
	var f backgroundFlags
	cmd := &cobra.Command{
		Use:   "background <effect>",
		Short: "Render a background effect to an animated GIF",
		Long: fmt.Sprintf(`Render a background effect to an animated GIF.

Effects: %s

With --headless the effect runs in real time off-screen instead, and the
command reports how many frames were drawn. Without --frames it runs until
interrupted.`, strings.Join(canvas.EffectNames(), ", ")),
		Args:      cobra.ExactArgs(1),
		ValidArgs: canvas.EffectNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			effect, err := canvas.NewEffect(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			opts := canvas.Options{Opacity: f.opacity, ClassName: siteCfg.Background.ClassName}

			if f.headless {
				return runHeadless(ctx, cmd.OutOrStdout(), effect, opts, f)
			}
			return recordGIF(ctx, cmd.OutOrStdout(), effect, opts, f)
		},
	}
	cmd.Flags().StringVarP(&f.out, "output", "o", "", `output file, "-" for stdout (default <effect>.gif)`)
	cmd.Flags().IntVar(&f.width, "width", 960, "width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 540, "height in pixels")
	cmd.Flags().IntVar(&f.frames, "frames", 48, "frames to render (headless: 0 runs until interrupted)")
	cmd.Flags().DurationVar(&f.delay, "delay", 60*time.Millisecond, "display time per GIF frame")
	cmd.Flags().Int64Var(&f.seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&f.opacity, "opacity", 1, "background opacity, 0..1")
	cmd.Flags().BoolVar(&f.headless, "headless", false, "run in real time without writing a GIF")
	cmd.Flags().IntVar(&f.fps, "fps", 60, "headless frame rate")
	return cmd
}

func recordGIF(ctx context.Context, stdout io.Writer, effect canvas.Effect, opts canvas.Options, f backgroundFlags) error {
	cfg := canvas.RecordConfig{
		Width:   f.width,
		Height:  f.height,
		Frames:  f.frames,
		Delay:   f.delay,
		Seed:    f.seed,
		Options: opts,
		Logger:  &logger,
	}

	if f.out == "-" {
		w := bufio.NewWriter(stdout)
		if err := canvas.EncodeGIF(ctx, w, effect, cfg); err != nil {
			return err
		}
		return w.Flush()
	}

	path := f.out
	if path == "" {
		path = effect.Name() + ".gif"
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(file)
	if err := canvas.EncodeGIF(ctx, w, effect, cfg); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	logger.Info().Str("file", path).Str("effect", effect.Name()).Int("frames", cfg.Frames).Msg("background written")
	return nil
}

func runHeadless(ctx context.Context, stdout io.Writer, effect canvas.Effect, opts canvas.Options, f backgroundFlags) error {
	frames := uint64(0)
	if f.frames > 0 {
		frames = uint64(f.frames)
	}
	start := time.Now()
	n, err := canvas.RunHeadless(ctx, effect, canvas.HeadlessConfig{
		Width:   f.width,
		Height:  f.height,
		FPS:     f.fps,
		Frames:  frames,
		Seed:    f.seed,
		Options: opts,
		Logger:  logger,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	fmt.Fprintf(stdout, "%s: %d frames in %s\n", effect.Name(), n, time.Since(start).Round(time.Millisecond))
	return nil
}
