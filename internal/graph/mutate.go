// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/pdiddy/ethereal-canvas/internal/planner"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// Draft is a note that has not been inserted yet.
type Draft struct {
	Position types.Position
	Content  types.Content
	Width    float64
}

// Commit inserts the draft as a new note and, in the same write, one auto
// link from it to each proposal's target. Proposals whose target no longer
// exists are dropped.
func (g *Graph) Commit(ctx context.Context, d Draft, proposals []planner.Proposal) (types.Note, []types.Link, error) {
	var (
		note  types.Note
		added []types.Link
	)
	err := g.apply(ctx, func(s *state) error {
		note = types.Note{
			ID:           g.newID(),
			Position:     d.Position,
			Content:      normalizeContent(d.Content),
			LastAccessed: g.now().UnixMilli(),
			Width:        d.Width,
		}
		s.notes = append(s.notes, note)

		for _, p := range proposals {
			if indexOfNote(s.notes, p.Target) < 0 {
				g.logger.Debug("dropping proposal for missing note", zap.String("target", p.Target))
				continue
			}
			l := types.Link{
				ID:     g.newID(),
				Source: note.ID,
				Target: p.Target,
				Origin: types.OriginAuto,
				Score:  p.Score,
			}
			s.links = append(s.links, l)
			added = append(added, l)
		}
		return nil
	})
	if err != nil {
		return types.Note{}, nil, err
	}

	g.logger.Debug("note committed",
		zap.String("id", note.ID), zap.Int("autoLinks", len(added)))
	return cloneNote(note), added, nil
}

// UpdateContent replaces the content of a note.
func (g *Graph) UpdateContent(ctx context.Context, id string, c types.Content) (types.Note, error) {
	return g.updateNote(ctx, id, func(n *types.Note) {
		n.Content = normalizeContent(c)
	})
}

// Move sets the position of a note.
func (g *Graph) Move(ctx context.Context, id string, pos types.Position) (types.Note, error) {
	return g.updateNote(ctx, id, func(n *types.Note) {
		n.Position = pos
	})
}

// Resize records the rendered width of a note.
func (g *Graph) Resize(ctx context.Context, id string, width float64) (types.Note, error) {
	return g.updateNote(ctx, id, func(n *types.Note) {
		n.Width = width
	})
}

// Touch marks a note as accessed, as selecting it on the canvas does.
func (g *Graph) Touch(ctx context.Context, id string) (types.Note, error) {
	return g.updateNote(ctx, id, func(*types.Note) {})
}

func (g *Graph) updateNote(ctx context.Context, id string, fn func(n *types.Note)) (types.Note, error) {
	var out types.Note
	err := g.apply(ctx, func(s *state) error {
		i := indexOfNote(s.notes, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		n := s.notes[i]
		fn(&n)
		n.LastAccessed = g.now().UnixMilli()
		s.notes[i] = n
		out = n
		return nil
	})
	if err != nil {
		return types.Note{}, err
	}
	return cloneNote(out), nil
}

// DeleteNote removes a note and every link that starts or ends at it. It
// returns the number of links removed.
func (g *Graph) DeleteNote(ctx context.Context, id string) (int, error) {
	removed := 0
	err := g.apply(ctx, func(s *state) error {
		i := indexOfNote(s.notes, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
		}
		s.notes = append(s.notes[:i:i], s.notes[i+1:]...)

		kept := make([]types.Link, 0, len(s.links))
		for _, l := range s.links {
			if l.Source == id || l.Target == id {
				removed++
				continue
			}
			kept = append(kept, l)
		}
		s.links = kept
		return nil
	})
	return removed, err
}

// Connect adds a user link from source to target. Connecting a pair that is
// already linked in that direction returns the existing link.
func (g *Graph) Connect(ctx context.Context, source, target string) (types.Link, error) {
	if source == target {
		return types.Link{}, fmt.Errorf("%w: %s links to itself", ErrInvalidLink, source)
	}

	var out types.Link
	err := g.apply(ctx, func(s *state) error {
		for _, id := range []string{source, target} {
			if indexOfNote(s.notes, id) < 0 {
				return fmt.Errorf("%w: %s", ErrNoteNotFound, id)
			}
		}
		for _, l := range s.links {
			if l.Source == source && l.Target == target {
				out = l
				return nil
			}
		}
		out = types.Link{
			ID:     g.newID(),
			Source: source,
			Target: target,
			Origin: types.OriginUser,
		}
		s.links = append(s.links, out)
		return nil
	})
	return out, err
}

// DeleteLink removes a link.
func (g *Graph) DeleteLink(ctx context.Context, id string) error {
	return g.apply(ctx, func(s *state) error {
		i := indexOfLink(s.links, id)
		if i < 0 {
			return fmt.Errorf("%w: %s", ErrLinkNotFound, id)
		}
		s.links = append(s.links[:i:i], s.links[i+1:]...)
		return nil
	})
}

// DropOnEmpty creates an empty note at pos and an unscored user link from
// source to it, as dropping a dragged connection on empty canvas does.
func (g *Graph) DropOnEmpty(ctx context.Context, source string, pos types.Position) (types.Note, types.Link, error) {
	var (
		note types.Note
		link types.Link
	)
	err := g.apply(ctx, func(s *state) error {
		if indexOfNote(s.notes, source) < 0 {
			return fmt.Errorf("%w: %s", ErrNoteNotFound, source)
		}
		note = types.Note{
			ID:           g.newID(),
			Position:     pos,
			Content:      normalizeContent(types.Content{}),
			LastAccessed: g.now().UnixMilli(),
		}
		link = types.Link{
			ID:     g.newID(),
			Source: source,
			Target: note.ID,
			Origin: types.OriginUser,
		}
		s.notes = append(s.notes, note)
		s.links = append(s.links, link)
		return nil
	})
	if err != nil {
		return types.Note{}, types.Link{}, err
	}
	return cloneNote(note), link, nil
}
