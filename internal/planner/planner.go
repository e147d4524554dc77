// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package planner decides where a new note goes on the canvas and which
// existing notes it should be linked to, by keyword overlap.
//
// The planner only reads the notes it is given. It returns a Placement;
// committing the note and binding the proposed links is the caller's job.
package planner

import (
	"math/rand/v2"

	"github.com/pdiddy/ethereal-canvas/internal/keywords"
	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// Proposal is a suggested auto link from the new note to Target.
type Proposal struct {
	Target string `json:"target"`
	Score  int    `json:"score"`
}

// Placement is the planner's answer for one new note.
type Placement struct {
	Position types.Position `json:"position"`

	// Anchor is the id of the most similar note, empty when none scored above zero.
	Anchor string `json:"anchor,omitempty"`

	Links []Proposal `json:"links,omitempty"`
}

// Planner holds the placement constants and the random source for the
// fallback position.
type Planner struct {
	cfg types.PlannerConfig
	rng *rand.Rand
}

// New returns a Planner. A nil rng uses a randomly seeded source.
func New(cfg types.PlannerConfig, rng *rand.Rand) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Planner{cfg: cfg, rng: rng}
}

// Plan scores content against the body of every note and returns a position
// and link proposals. The anchor is the first note with the strictly highest
// score; each note scoring at or above the similarity threshold gets a
// proposal. Without an anchor the note goes to hint, or to a random point on
// the canvas when hint is nil.
func (p *Planner) Plan(content string, notes []types.Note, hint *types.Position) Placement {
	var (
		out      Placement
		anchor   *types.Note
		maxScore int
	)

	if content != "" && len(notes) > 0 {
		want := keywords.Extract(content)
		for i := range notes {
			n := &notes[i]
			if n.Content.Body == "" {
				continue
			}
			score := keywords.Overlap(want, keywords.Extract(n.Content.Body))
			if score > maxScore {
				maxScore = score
				anchor = n
			}
			if score >= p.cfg.SimilarityThreshold {
				out.Links = append(out.Links, Proposal{Target: n.ID, Score: score})
			}
		}
	}

	switch {
	case anchor != nil:
		out.Anchor = anchor.ID
		out.Position = p.rightOf(*anchor)
	case hint != nil:
		out.Position = *hint
	default:
		out.Position = types.Position{
			X: p.rng.Float64() * p.cfg.CanvasWidth,
			Y: p.rng.Float64() * p.cfg.CanvasHeight,
		}
	}
	return out
}

func (p *Planner) rightOf(n types.Note) types.Position {
	width := n.Width
	if width <= 0 {
		width = p.cfg.DefaultWidth
	}
	return types.Position{
		X: n.Position.X + width + p.cfg.Gap,
		Y: n.Position.Y,
	}
}
