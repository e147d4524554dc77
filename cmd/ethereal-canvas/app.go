// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pdiddy/ethereal-canvas/internal/canvas"
	"github.com/pdiddy/ethereal-canvas/internal/graph"
	"github.com/pdiddy/ethereal-canvas/internal/kvstore"
	"github.com/pdiddy/ethereal-canvas/internal/planner"
)

// openApp opens the canvas store and loads the graph. The returned close
// function releases the store.
func openApp(ctx context.Context) (*canvas.App, func(), error) {
	store, err := kvstore.OpenSQLite(cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}

	g, err := graph.Load(ctx, store, cfg.Store, logger.Named("graph"))
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	app := canvas.New(g, planner.New(cfg.Planner, nil), logger.Named("canvas"))
	return app, func() { store.Close() }, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
