// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ethereal-canvas/internal/relay"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

var captureCmd = &cobra.Command{
	Use:   "capture [text]",
	Short: "Submit a capture to the relay",
	Long: `Capture posts text to the relay the way the browser extension does.
Text is taken from the arguments, or from stdin when none are given.
Use --url and --title to record the page the text came from.`,
	RunE: runCapture,
}

func runCapture(cmd *cobra.Command, args []string) error {
	text, err := textFromArgs(cmd, args)
	if err != nil {
		return err
	}
	url, _ := cmd.Flags().GetString("url")
	title, _ := cmd.Flags().GetString("title")

	c := relay.NewClient(relay.BaseURL(cfg.Relay.Address), cfg.HTTP)
	stored, err := c.Submit(cmd.Context(), types.CaptureRequest{Text: text, URL: url, Title: title})
	if err != nil {
		return fmt.Errorf("submitting capture: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(stored)
}

// textFromArgs joins args, or reads stdin when there are none.
func textFromArgs(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func init() {
	captureCmd.Flags().String("url", "", "URL of the captured page")
	captureCmd.Flags().String("title", "", "title of the captured page")
	rootCmd.AddCommand(captureCmd)
}
