// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Position is a coordinate in canvas space.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Content is the editable payload of a note.
type Content struct {
	Title string   `json:"title" yaml:"title"`
	Body  string   `json:"body" yaml:"body"`
	URLs  []string `json:"urls" yaml:"urls"`
}

// Note is a positioned, editable unit of content on the canvas.
type Note struct {
	// ID is assigned at creation and never changes.
	ID string `json:"id" yaml:"id"`

	Position Position `json:"position" yaml:"position"`
	Content  Content  `json:"content" yaml:"content"`

	// LastAccessed is the Unix time in milliseconds of the last content,
	// position, or selection change.
	LastAccessed int64 `json:"lastAccessed" yaml:"last_accessed"`

	// Width is the rendered width reported by the front end. Zero means unknown.
	Width float64 `json:"width,omitempty" yaml:"width,omitempty"`
}

// LinkOrigin records how a link came to exist.
type LinkOrigin string

const (
	OriginUser LinkOrigin = "user"
	OriginAuto LinkOrigin = "auto"
)

// Link is a directed relation from Source to Target.
type Link struct {
	ID     string     `json:"id" yaml:"id"`
	Source string     `json:"source" yaml:"source"`
	Target string     `json:"target" yaml:"target"`
	Origin LinkOrigin `json:"origin" yaml:"origin"`

	// Score is the keyword overlap that produced an auto link. Zero for user links.
	Score int `json:"score,omitempty" yaml:"score,omitempty"`
}

// Capture is a piece of external content held by the relay until the canvas
// picks it up.
type Capture struct {
	Text  string `json:"text"`
	URL   string `json:"url"`
	Title string `json:"title"`

	// Timestamp is the Unix time in milliseconds at which the relay stored it.
	Timestamp int64 `json:"timestamp"`
}

// CaptureRequest is the body of a capture submission. Every field is optional.
type CaptureRequest struct {
	Text  string `json:"text,omitempty"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

