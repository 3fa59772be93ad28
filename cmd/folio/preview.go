package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/folio/canvas"
)

func newPreviewCmd() *cobra.Command {
	var (
		width, height int
		seed          int64
		opacity       float64
	)
	cmd := &cobra.Command{
		Use:       "preview <effect>",
		Short:     "Open a window running a background effect",
		Long:      "Open a window running a background effect. Requires a build with -tags preview.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: canvas.EffectNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			effect, err := canvas.NewEffect(args[0])
			if err != nil {
				return err
			}
			return canvas.RunWindow(effect, canvas.WindowConfig{
				Width:   width,
				Height:  height,
				Title:   fmt.Sprintf("%s - %s", siteCfg.Name, effect.Name()),
				Seed:    seed,
				Options: canvas.Options{Opacity: opacity, ClassName: siteCfg.Background.ClassName},
				Logger:  logger,
			})
		},
	}
	cmd.Flags().IntVar(&width, "width", 960, "window width")
	cmd.Flags().IntVar(&height, "height", 540, "window height")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().Float64Var(&opacity, "opacity", 1, "background opacity, 0..1")
	return cmd
}
