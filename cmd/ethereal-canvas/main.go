// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the ethereal-canvas CLI: the capture
// relay, the capture submitter, and the note canvas.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/ethereal-canvas/internal/config"
	"github.com/pdiddy/ethereal-canvas/internal/logging"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg and logger are resolved once per invocation in PersistentPreRunE.
	cfg    types.Config
	logger = zap.NewNop()
)

// rootCmd is the base command for the ethereal-canvas CLI.
var rootCmd = &cobra.Command{
	Use:   "ethereal-canvas",
	Short: "A personal note canvas fed by a browser capture relay",
	Long: `ethereal-canvas keeps a canvas of notes linked by shared keywords.

The relay accepts captures from the browser extension and holds the most
recent one. The canvas polls the relay and turns each capture into a note,
placed next to the most similar existing note and auto-linked to every
note that shares enough keywords with it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		used, err := config.Init(viper.GetViper(), cfgFile)
		if err != nil {
			return err
		}
		if used != "" {
			fmt.Fprintln(os.Stderr, "Using config file:", used)
		}

		cfg, err = config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.Log)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./ethereal-canvas.yaml or ~/.config/ethereal-canvas/ethereal-canvas.yaml)")
	pf.String("relay", "", "relay host:port (default localhost:3001)")
	pf.String("db", "", "SQLite file holding the canvas (default ethereal-canvas.db)")
	pf.String("log-level", "", "log level: debug, info, warn, error")

	bindFlag("relay.address", "relay")
	bindFlag("store.path", "db")
	bindFlag("log.level", "log-level")
}

func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
