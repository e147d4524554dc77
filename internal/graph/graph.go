// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package graph holds the notes and links of the canvas and persists them
// as two JSON blobs after every mutation.
//
// A Graph is safe for concurrent use, and several Graphs, in one process or
// many, may share a store. Each mutation re-reads both blobs, edits them,
// and writes them back in a single store transaction, so a failed write
// leaves both the store and the in-memory graph as they were.
package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/ethereal-canvas/internal/kvstore"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

var (
	// ErrNoteNotFound is returned when an operation names an unknown note.
	ErrNoteNotFound = errors.New("note not found")

	// ErrLinkNotFound is returned when an operation names an unknown link.
	ErrLinkNotFound = errors.New("link not found")

	// ErrInvalidLink is returned for a link from a note to itself.
	ErrInvalidLink = errors.New("invalid link")
)

// SeedNoteID is the id of the note a fresh canvas starts with.
const SeedNoteID = "1"

// Graph is the mutable collection of notes and links.
type Graph struct {
	mu     sync.RWMutex
	notes  []types.Note
	links  []types.Link
	kv     kvstore.Store
	cfg    types.StoreConfig
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option customizes a Graph.
type Option func(*Graph)

// WithClock sets the clock used for lastAccessed stamps.
func WithClock(now func() time.Time) Option {
	return func(g *Graph) { g.now = now }
}

// WithIDs sets the generator for note and link ids.
func WithIDs(newID func() string) Option {
	return func(g *Graph) { g.newID = newID }
}

// Load reads the notes and links blobs from kv. A missing blob yields the
// seed state. A blob that is malformed or not a JSON array also yields the
// seed state and is logged as a warning. Only storage errors are returned.
func Load(ctx context.Context, kv kvstore.Store, cfg types.StoreConfig, logger *zap.Logger, opts ...Option) (*Graph, error) {
	g := &Graph{
		kv:     kv,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.Refresh(ctx); err != nil {
		return nil, err
	}
	logger.Debug("graph loaded", zap.Int("notes", len(g.notes)), zap.Int("links", len(g.links)))
	return g, nil
}

// Refresh replaces the in-memory graph with what the store holds now, so
// notes written by another process become visible.
func (g *Graph) Refresh(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var s *state
	err := g.kv.Update(ctx, func(tx kvstore.Tx) error {
		var err error
		s, err = g.readState(tx)
		return err
	})
	if err != nil {
		return err
	}
	g.notes, g.links = s.notes, s.links
	return nil
}

// readState decodes both blobs from tx, falling back to the seed state for
// a missing or corrupt blob.
func (g *Graph) readState(tx kvstore.Tx) (*state, error) {
	notes, err := loadBlob(g, tx, g.cfg.NotesKey, g.seedNotes)
	if err != nil {
		return nil, err
	}
	links, err := loadBlob(g, tx, g.cfg.LinksKey, func() []types.Link { return []types.Link{} })
	if err != nil {
		return nil, err
	}
	for i := range notes {
		notes[i].Content = normalizeContent(notes[i].Content)
	}
	return &state{notes: notes, links: links}, nil
}

func loadBlob[T any](g *Graph, tx kvstore.Tx, key string, seed func() []T) ([]T, error) {
	data, err := tx.Get(key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return seed(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", key, err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return seed(), nil
	}
	if data[0] != '[' {
		g.logger.Warn("stored value is not an array, using default state", zap.String("key", key))
		return seed(), nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		g.logger.Warn("stored value is malformed, using default state",
			zap.String("key", key), zap.Error(err))
		return seed(), nil
	}
	return items, nil
}

func (g *Graph) seedNotes() []types.Note {
	return []types.Note{{
		ID:       SeedNoteID,
		Position: types.Position{X: 100, Y: 100},
		Content: types.Content{
			Title: "Header",
			Body:  "My First Ethereal Note",
			URLs:  []string{},
		},
		LastAccessed: g.now().UnixMilli(),
	}}
}

// Notes returns a copy of the notes in insertion order.
func (g *Graph) Notes() []types.Note {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]types.Note, len(g.notes))
	for i, n := range g.notes {
		out[i] = cloneNote(n)
	}
	return out
}

// Links returns a copy of the links in insertion order.
func (g *Graph) Links() []types.Link {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]types.Link(nil), g.links...)
}

// Note returns the note with the given id.
func (g *Graph) Note(id string) (types.Note, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	i := indexOfNote(g.notes, id)
	if i < 0 {
		return types.Note{}, fmt.Errorf("%w: %s", ErrNoteNotFound, id)
	}
	return cloneNote(g.notes[i]), nil
}

// state is the working copy a mutation edits.
type state struct {
	notes []types.Note
	links []types.Link
}

// apply re-reads the graph from the store, runs fn on it, and writes both
// blobs, all in one store transaction. Mutations from other processes
// sharing the store are therefore never overwritten. The in-memory graph
// takes the result only after the transaction commits; an error from fn or
// from the store leaves both the store and the graph as they were.
func (g *Graph) apply(ctx context.Context, fn func(s *state) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	var next *state
	err := g.kv.Update(ctx, func(tx kvstore.Tx) error {
		s, err := g.readState(tx)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		if err := g.persist(tx, s); err != nil {
			return err
		}
		next = s
		return nil
	})
	if err != nil {
		return err
	}
	g.notes, g.links = next.notes, next.links
	return nil
}

func (g *Graph) persist(tx kvstore.Tx, s *state) error {
	notes, err := json.Marshal(nonNil(s.notes))
	if err != nil {
		return fmt.Errorf("marshaling notes: %w", err)
	}
	links, err := json.Marshal(nonNil(s.links))
	if err != nil {
		return fmt.Errorf("marshaling links: %w", err)
	}
	if err := tx.Put(g.cfg.NotesKey, notes); err != nil {
		return fmt.Errorf("saving notes: %w", err)
	}
	if err := tx.Put(g.cfg.LinksKey, links); err != nil {
		return fmt.Errorf("saving links: %w", err)
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func indexOfNote(notes []types.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func indexOfLink(links []types.Link, id string) int {
	for i := range links {
		if links[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneNote(n types.Note) types.Note {
	n.Content.URLs = append([]string{}, n.Content.URLs...)
	return n
}

func normalizeContent(c types.Content) types.Content {
	if c.URLs == nil {
		c.URLs = []string{}
	}
	return c
}
