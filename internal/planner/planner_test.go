// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package planner

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

func newTestPlanner() *Planner {
	return New(types.DefaultPlannerConfig(), rand.New(rand.NewPCG(1, 2)))
}

func note(id, body string, x, y float64) types.Note {
	return types.Note{
		ID:       id,
		Position: types.Position{X: x, Y: y},
		Content:  types.Content{Title: id, Body: body},
	}
}

func TestPlanEmptyGraphUsesHint(t *testing.T) {
	p := newTestPlanner()
	hint := &types.Position{X: 42, Y: 24}

	got := p.Plan("notes from the roadmap meeting", nil, hint)

	assert.Empty(t, got.Links)
	assert.Empty(t, got.Anchor)
	assert.Equal(t, *hint, got.Position)
}

func TestPlanEmptyGraphRandomWithinBounds(t *testing.T) {
	p := newTestPlanner()
	cfg := types.DefaultPlannerConfig()

	for i := 0; i < 50; i++ {
		got := p.Plan("anything", nil, nil)
		assert.Empty(t, got.Links)
		assert.GreaterOrEqual(t, got.Position.X, 0.0)
		assert.Less(t, got.Position.X, cfg.CanvasWidth)
		assert.GreaterOrEqual(t, got.Position.Y, 0.0)
		assert.Less(t, got.Position.Y, cfg.CanvasHeight)
	}
}

func TestPlanEmptyContentFallsBack(t *testing.T) {
	p := newTestPlanner()
	notes := []types.Note{note("a", "project roadmap meeting notes", 10, 20)}
	hint := &types.Position{X: 1, Y: 2}

	got := p.Plan("", notes, hint)

	assert.Empty(t, got.Links)
	assert.Equal(t, *hint, got.Position)
}

func TestPlanRoadmapMeeting(t *testing.T) {
	p := newTestPlanner()
	notes := []types.Note{note("a", "project roadmap meeting notes", 100, 100)}

	got := p.Plan("notes from the roadmap meeting", notes, nil)

	require.Len(t, got.Links, 1)
	assert.Equal(t, Proposal{Target: "a", Score: 3}, got.Links[0])
	assert.Equal(t, "a", got.Anchor)
	assert.Equal(t, types.Position{X: 100 + 250 + 50, Y: 100}, got.Position)
}

func TestPlanUsesRenderedWidth(t *testing.T) {
	p := newTestPlanner()
	n := note("a", "project roadmap meeting notes", 10, 30)
	n.Width = 400

	got := p.Plan("roadmap meeting", []types.Note{n}, nil)

	assert.Equal(t, types.Position{X: 10 + 400 + 50, Y: 30}, got.Position)
}

func TestPlanAnchorBelowThreshold(t *testing.T) {
	p := newTestPlanner()
	notes := []types.Note{note("a", "quarterly roadmap", 0, 0)}
	hint := &types.Position{X: 7, Y: 7}

	got := p.Plan("roadmap review", notes, hint)

	assert.Empty(t, got.Links, "score 1 is below the threshold")
	assert.Equal(t, "a", got.Anchor, "any positive score anchors")
	assert.Equal(t, types.Position{X: 300, Y: 0}, got.Position)
}

func TestPlanTieKeepsFirstSeen(t *testing.T) {
	p := newTestPlanner()
	notes := []types.Note{
		note("first", "roadmap meeting", 0, 0),
		note("second", "meeting roadmap", 1000, 1000),
	}

	got := p.Plan("roadmap meeting", notes, nil)

	assert.Equal(t, "first", got.Anchor)
	assert.Equal(t, types.Position{X: 300, Y: 0}, got.Position)
	require.Len(t, got.Links, 2)
	assert.Equal(t, "first", got.Links[0].Target)
	assert.Equal(t, "second", got.Links[1].Target)
}

func TestPlanHigherScoreReplacesAnchor(t *testing.T) {
	p := newTestPlanner()
	notes := []types.Note{
		note("weak", "roadmap", 0, 0),
		note("strong", "roadmap meeting notes", 500, 0),
	}

	got := p.Plan("roadmap meeting notes", notes, nil)

	assert.Equal(t, "strong", got.Anchor)
	require.Len(t, got.Links, 1)
	assert.Equal(t, Proposal{Target: "strong", Score: 3}, got.Links[0])
}

func TestPlanSkipsEmptyBodies(t *testing.T) {
	p := newTestPlanner()
	empty := note("empty", "", 0, 0)
	empty.Content.Title = "roadmap meeting notes"
	notes := []types.Note{empty, note("b", "roadmap meeting", 20, 40)}

	got := p.Plan("roadmap meeting notes", notes, nil)

	assert.Equal(t, "b", got.Anchor)
	require.Len(t, got.Links, 1)
	assert.Equal(t, "b", got.Links[0].Target)
}

func TestPlanCustomThreshold(t *testing.T) {
	cfg := types.DefaultPlannerConfig()
	cfg.SimilarityThreshold = 1
	p := New(cfg, rand.New(rand.NewPCG(3, 4)))

	got := p.Plan("roadmap review", []types.Note{note("a", "quarterly roadmap", 0, 0)}, nil)

	require.Len(t, got.Links, 1)
	assert.Equal(t, 1, got.Links[0].Score)
}
