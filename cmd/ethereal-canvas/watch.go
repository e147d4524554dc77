// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/ethereal-canvas/internal/canvas"
	"github.com/pdiddy/ethereal-canvas/internal/relay"
)

// errPollingStopped is returned when the poller stops because the relay
// could not be reached.
var errPollingStopped = errors.New("relay unreachable, capture polling stopped")

var canvasWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the relay and turn captures into notes",
	Long: `Watch polls the relay at the configured interval (default 1m) and adds
each capture it receives to the canvas. It stops when interrupted or when
the relay can no longer be reached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		app, closeApp, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp()

		return watch(ctx, app)
	},
}

// watch polls until ctx is done or the poller stops on its own.
func watch(ctx context.Context, app *canvas.App) error {
	client := relay.NewClient(relay.BaseURL(cfg.Relay.Address), cfg.HTTP)
	p := relay.NewPoller(client, app.IngestCapture, cfg.Poller, logger.Named("poller"))
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer p.Stop()

	fmt.Fprintf(os.Stderr, "Watching %s every %s\n", cfg.Relay.Address, cfg.Poller.Interval)
	<-p.Done()
	if ctx.Err() != nil {
		return nil
	}
	return errPollingStopped
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Run the relay and the capture watcher together",
	Long: `Up serves the relay and polls it from the same process, so captures
posted by the browser extension land on the canvas without a second
terminal. Both stop when interrupted or when either one fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()

		app, closeApp, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer closeApp()

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return relay.NewServer(cfg.Relay, logger.Named("relay")).ListenAndServe(gctx)
		})
		g.Go(func() error {
			return watch(gctx, app)
		})
		return g.Wait()
	},
}

func init() {
	rootCmd.AddCommand(upCmd)
}
