package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eringen/folio"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the web server. With --content-dir, post bodies and the profile are
read from disk and reloaded on change; otherwise the embedded content is used.`,
		RunE: runServe,
	}
	cmd.Flags().String("addr", "", "listen address (default :3000)")
	cmd.Flags().String("content-dir", "", "content directory to serve and watch")
	cmd.Flags().Bool("strict", false, "fail when a post has no body or a body has no post")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := folio.New(siteCfg, folio.WithLogger(logger))
	if err := app.Setup(); err != nil {
		return err
	}
	defer app.Close()

	go func() {
		if err := app.WatchContent(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("content watcher stopped")
		}
	}()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return app.Shutdown(sctx)
}
