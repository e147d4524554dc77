// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ethereal-canvas/internal/canvas"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

var canvasCmd = &cobra.Command{
	Use:   "canvas",
	Short: "Inspect and edit the note canvas",
	Long: `Canvas works on the notes and links stored in the canvas database.
New notes are placed next to the most similar existing note and linked to
every note that shares enough keywords with them.`,
}

// --- list ---

var canvasListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notes and links",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		snap := app.Graph().Snapshot(time.Now(), cfg.Decay)
		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			return snap.WriteJSON(os.Stdout)
		}

		fmt.Fprintf(os.Stdout, "%-36s  %8s  %8s  %6s  %s\n", "ID", "X", "Y", "Weight", "Content")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
		for _, n := range snap.Notes {
			fmt.Fprintf(os.Stdout, "%-36s  %8.1f  %8.1f  %6.2f  %s\n",
				n.ID, n.Position.X, n.Position.Y, n.Weight, summary(n.Content))
		}

		if len(snap.Links) > 0 {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintf(os.Stdout, "%-36s  %-36s  %-36s  %-4s  %s\n", "Link", "Source", "Target", "From", "Score")
			for _, l := range snap.Links {
				fmt.Fprintf(os.Stdout, "%-36s  %-36s  %-36s  %-4s  %d\n",
					l.ID, l.Source, l.Target, l.Origin, l.Score)
			}
		}
		return nil
	},
}

// summary renders note content on one line.
func summary(c types.Content) string {
	s := c.Body
	if c.Title != "" {
		s = c.Title + ": " + s
	}
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > 40 {
		s = s[:37] + "..."
	}
	if len(c.URLs) > 0 {
		s += fmt.Sprintf(" [%d url(s)]", len(c.URLs))
	}
	return s
}

// --- add / paste ---

var canvasAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create a note from a title and body",
	Long: `Add creates a note. --x and --y give the position used when no existing
note is similar enough to place it next to; without them a random spot is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		body, _ := cmd.Flags().GetString("body")
		urls, _ := cmd.Flags().GetStringSlice("url")
		if urls == nil {
			urls = []string{}
		}

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		res, err := app.CreateNote(cmd.Context(), types.Content{Title: title, Body: body, URLs: urls}, hintFromFlags(cmd))
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

var canvasPasteCmd = &cobra.Command{
	Use:   "paste [text]",
	Short: "Create a note from pasted text",
	Long: `Paste creates a note from text given as arguments or on stdin. URLs in
the text are stored as the note's links and removed from its body.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textFromArgs(cmd, args)
		if err != nil {
			return err
		}

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		res, err := app.Paste(cmd.Context(), text, hintFromFlags(cmd))
		if err != nil {
			return err
		}
		return printResult(res)
	},
}

func hintFromFlags(cmd *cobra.Command) *types.Position {
	if !cmd.Flags().Changed("x") && !cmd.Flags().Changed("y") {
		return nil
	}
	x, _ := cmd.Flags().GetFloat64("x")
	y, _ := cmd.Flags().GetFloat64("y")
	return &types.Position{X: x, Y: y}
}

func printResult(res canvas.Result) error {
	fmt.Fprintf(os.Stderr, "Created note %s at (%.1f, %.1f)", res.Note.ID, res.Note.Position.X, res.Note.Position.Y)
	if res.Anchor != "" {
		fmt.Fprintf(os.Stderr, " next to %s", res.Anchor)
	}
	fmt.Fprintf(os.Stderr, ", %d auto link(s)\n", len(res.Links))
	return printJSON(res)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --- edit / move / resize / select ---

var canvasEditCmd = &cobra.Command{
	Use:   "edit <note-id>",
	Short: "Change the title, body, or URLs of a note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		n, err := app.Graph().Note(args[0])
		if err != nil {
			return err
		}
		c := n.Content
		if cmd.Flags().Changed("title") {
			c.Title, _ = cmd.Flags().GetString("title")
		}
		if cmd.Flags().Changed("body") {
			c.Body, _ = cmd.Flags().GetString("body")
		}
		if cmd.Flags().Changed("url") {
			c.URLs, _ = cmd.Flags().GetStringSlice("url")
		}

		updated, err := app.Graph().UpdateContent(cmd.Context(), n.ID, c)
		if err != nil {
			return err
		}
		return printJSON(updated)
	},
}

var canvasMoveCmd = &cobra.Command{
	Use:   "move <note-id> <x> <y>",
	Short: "Move a note",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := parsePosition(args[1], args[2])
		if err != nil {
			return err
		}

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		n, err := app.Graph().Move(cmd.Context(), args[0], pos)
		if err != nil {
			return err
		}
		return printJSON(n)
	},
}

var canvasResizeCmd = &cobra.Command{
	Use:   "resize <note-id> <width>",
	Short: "Record the rendered width of a note",
	Long: `Resize stores the width a note is drawn at. New notes placed next to it
are offset by this width instead of the default.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		width, err := strconv.ParseFloat(args[1], 64)
		if err != nil || width <= 0 {
			return fmt.Errorf("invalid width %q", args[1])
		}

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		n, err := app.Graph().Resize(cmd.Context(), args[0], width)
		if err != nil {
			return err
		}
		return printJSON(n)
	},
}

var canvasSelectCmd = &cobra.Command{
	Use:   "select <note-id>",
	Short: "Mark a note as accessed, restoring its full weight",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		n, err := app.Graph().Touch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(n)
	},
}

// --- delete / link / unlink / drop ---

var canvasDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note and its links",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		removed, err := app.Graph().DeleteNote(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted note %s and %d link(s)\n", args[0], removed)
		return nil
	},
}

var canvasLinkCmd = &cobra.Command{
	Use:   "link <source-id> <target-id>",
	Short: "Link two notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		l, err := app.Connect(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(l)
	},
}

var canvasUnlinkCmd = &cobra.Command{
	Use:   "unlink <link-id>",
	Short: "Remove a link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		if err := app.Graph().DeleteLink(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted link %s\n", args[0])
		return nil
	},
}

var canvasDropCmd = &cobra.Command{
	Use:   "drop <source-id> <x> <y>",
	Short: "Create an empty note at a position, linked from a source note",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := parsePosition(args[1], args[2])
		if err != nil {
			return err
		}

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		n, l, err := app.DropOnEmpty(cmd.Context(), args[0], pos)
		if err != nil {
			return err
		}
		return printJSON(struct {
			Note types.Note `json:"note"`
			Link types.Link `json:"link"`
		}{n, l})
	},
}

func parsePosition(xs, ys string) (types.Position, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return types.Position{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return types.Position{}, fmt.Errorf("invalid y %q", ys)
	}
	return types.Position{X: x, Y: y}, nil
}

// --- export ---

var canvasExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the canvas as YAML or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")

		app, closeApp, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer closeApp()

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		snap := app.Graph().Snapshot(time.Now(), cfg.Decay)
		switch format {
		case "yaml":
			err = snap.WriteYAML(w)
		case "json":
			err = snap.WriteJSON(w)
		default:
			return fmt.Errorf("unknown format %q (use yaml or json)", format)
		}
		if err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "Exported %d note(s) and %d link(s) to %s\n", len(snap.Notes), len(snap.Links), output)
		}
		return nil
	},
}

func init() {
	canvasListCmd.Flags().Bool("json", false, "output as JSON")

	for _, c := range []*cobra.Command{canvasAddCmd, canvasPasteCmd} {
		c.Flags().Float64("x", 0, "x position when no similar note is found")
		c.Flags().Float64("y", 0, "y position when no similar note is found")
	}
	canvasAddCmd.Flags().String("title", "", "note title")
	canvasAddCmd.Flags().String("body", "", "note body")
	canvasAddCmd.Flags().StringSlice("url", nil, "URL attached to the note (repeatable)")

	canvasEditCmd.Flags().String("title", "", "new title")
	canvasEditCmd.Flags().String("body", "", "new body")
	canvasEditCmd.Flags().StringSlice("url", nil, "replace the note's URLs (repeatable)")

	canvasExportCmd.Flags().String("format", "yaml", "output format: yaml or json")
	canvasExportCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")

	canvasCmd.AddCommand(
		canvasListCmd,
		canvasAddCmd,
		canvasPasteCmd,
		canvasEditCmd,
		canvasMoveCmd,
		canvasResizeCmd,
		canvasSelectCmd,
		canvasDeleteCmd,
		canvasLinkCmd,
		canvasUnlinkCmd,
		canvasDropCmd,
		canvasWatchCmd,
		canvasExportCmd,
	)
	rootCmd.AddCommand(canvasCmd)
}
