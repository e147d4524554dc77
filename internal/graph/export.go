// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

// ExportNote is a note with its current visual weight.
type ExportNote struct {
	types.Note `yaml:",inline"`
	Weight     float64 `json:"weight" yaml:"weight"`
}

// Export is a point-in-time copy of the whole graph.
type Export struct {
	ExportedAt time.Time    `json:"exported_at" yaml:"exported_at"`
	Notes      []ExportNote `json:"notes" yaml:"notes"`
	Links      []types.Link `json:"links" yaml:"links"`
}

// Snapshot builds an Export of the graph as of now.
func (g *Graph) Snapshot(now time.Time, decay types.DecayConfig) Export {
	notes := g.Notes()
	out := Export{
		ExportedAt: now.UTC(),
		Notes:      make([]ExportNote, len(notes)),
		Links:      nonNil(g.Links()),
	}
	for i, n := range notes {
		out.Notes[i] = ExportNote{Note: n, Weight: Weight(n, now, decay)}
	}
	return out
}

// WriteYAML writes e to w as YAML.
func (e Export) WriteYAML(w io.Writer) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// WriteJSON writes e to w as indented JSON.
func (e Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(e); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}
