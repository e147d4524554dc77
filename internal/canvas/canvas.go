// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package canvas is the application layer of the note canvas. It turns
// typed, pasted, and captured content into notes, placing each one with the
// planner and committing it together with its auto links.
package canvas

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/ethereal-canvas/internal/graph"
	"github.com/pdiddy/ethereal-canvas/internal/planner"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// Result is a committed note with the auto links made for it.
type Result struct {
	Note   types.Note   `json:"note"`
	Links  []types.Link `json:"links"`
	Anchor string       `json:"anchor,omitempty"`
}

// App combines the graph and the planner.
type App struct {
	graph   *graph.Graph
	planner *planner.Planner
	logger  *zap.Logger
}

// New returns an App over g.
func New(g *graph.Graph, p *planner.Planner, logger *zap.Logger) *App {
	return &App{graph: g, planner: p, logger: logger}
}

// Graph returns the underlying graph for reads and direct edits.
func (a *App) Graph() *graph.Graph { return a.graph }

// CreateNote places a note with content c and commits it with its auto
// links. hint is used when no existing note is similar enough to anchor to;
// nil means a random spot.
func (a *App) CreateNote(ctx context.Context, c types.Content, hint *types.Position) (Result, error) {
	if err := a.graph.Refresh(ctx); err != nil {
		return Result{}, fmt.Errorf("refreshing graph: %w", err)
	}
	placement := a.planner.Plan(c.Body, a.graph.Notes(), hint)

	note, links, err := a.graph.Commit(ctx, graph.Draft{
		Position: placement.Position,
		Content:  c,
	}, placement.Links)
	if err != nil {
		return Result{}, fmt.Errorf("creating note: %w", err)
	}

	a.logger.Info("note created",
		zap.String("id", note.ID),
		zap.String("anchor", placement.Anchor),
		zap.Int("autoLinks", len(links)),
		zap.Float64("x", note.Position.X),
		zap.Float64("y", note.Position.Y),
	)
	return Result{Note: note, Links: links, Anchor: placement.Anchor}, nil
}

// Paste creates a note from pasted text. URLs in the text become the
// note's links and the remaining text its body.
func (a *App) Paste(ctx context.Context, text string, hint *types.Position) (Result, error) {
	return a.CreateNote(ctx, graph.ParseContent(text), hint)
}

// IngestCapture creates a note from a capture delivered by the relay. It
// matches relay.HandlerFunc.
func (a *App) IngestCapture(ctx context.Context, c types.Capture) error {
	_, err := a.CreateNote(ctx, graph.ContentFromCapture(c), nil)
	if err != nil {
		return fmt.Errorf("ingesting capture: %w", err)
	}
	return nil
}

// Connect adds a user link between two notes.
func (a *App) Connect(ctx context.Context, source, target string) (types.Link, error) {
	return a.graph.Connect(ctx, source, target)
}

// DropOnEmpty creates an empty note at pos linked from source.
func (a *App) DropOnEmpty(ctx context.Context, source string, pos types.Position) (types.Note, types.Link, error) {
	return a.graph.DropOnEmpty(ctx, source, pos)
}
