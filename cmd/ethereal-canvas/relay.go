// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/ethereal-canvas/internal/relay"
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Run the capture relay",
}

var relayServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the capture relay until interrupted",
	Long: `Serve listens on the relay address (default localhost:3001) and holds
the most recent capture posted to /capture until the canvas takes it from
/get-capture. A newer capture replaces one that has not been taken yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signalContext(cmd.Context())
		defer stop()
		return relay.NewServer(cfg.Relay, logger.Named("relay")).ListenAndServe(ctx)
	},
}

func init() {
	relayCmd.AddCommand(relayServeCmd)
	rootCmd.AddCommand(relayCmd)
}
