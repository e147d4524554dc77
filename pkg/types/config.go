// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the relay client.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout. Zero leaves the transport default.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"min=0"`

	// UserAgent is the User-Agent header sent with relay requests
	// (e.g. "ethereal-canvas/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429 for capture submission (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"min=0,max=10"`
}

// RelayConfig holds settings for the capture relay server and its clients.
type RelayConfig struct {
	// Address is the loopback host:port the relay listens on and clients dial.
	Address string `json:"address" yaml:"address" mapstructure:"address" validate:"required,hostname_port"`

	// CaptureRate is the sustained number of capture submissions allowed per
	// second. Zero disables rate limiting.
	CaptureRate float64 `json:"capture_rate" yaml:"capture_rate" mapstructure:"capture_rate" validate:"min=0"`

	// CaptureBurst is the burst size for CaptureRate (default 5).
	CaptureBurst int `json:"capture_burst" yaml:"capture_burst" mapstructure:"capture_burst" validate:"min=0"`

	// MaxFieldLength caps the length of each capture field in characters (default 1Mi).
	MaxFieldLength int `json:"max_field_length" yaml:"max_field_length" mapstructure:"max_field_length" validate:"min=1"`
}

// PlannerConfig holds the constants used to place new notes and propose links.
type PlannerConfig struct {
	// SimilarityThreshold is the minimum keyword overlap that produces an
	// auto-suggested link (default 2).
	SimilarityThreshold int `json:"similarity_threshold" yaml:"similarity_threshold" mapstructure:"similarity_threshold" validate:"min=1"`

	// DefaultWidth is the width assumed for an anchor note whose rendered
	// width is unknown (default 250).
	DefaultWidth float64 `json:"default_width" yaml:"default_width" mapstructure:"default_width" validate:"gt=0"`

	// Gap is the horizontal space between an anchor and the new note (default 50).
	Gap float64 `json:"gap" yaml:"gap" mapstructure:"gap" validate:"min=0"`

	// CanvasWidth and CanvasHeight bound the random fallback position (default 500×500).
	CanvasWidth  float64 `json:"canvas_width" yaml:"canvas_width" mapstructure:"canvas_width" validate:"gt=0"`
	CanvasHeight float64 `json:"canvas_height" yaml:"canvas_height" mapstructure:"canvas_height" validate:"gt=0"`
}

// PollerConfig holds settings for the capture poller.
type PollerConfig struct {
	// Interval is the fixed delay between polls of the relay (default 1m).
	Interval time.Duration `json:"interval" yaml:"interval" mapstructure:"interval" validate:"gt=0"`
}

// StoreConfig holds settings for the persisted note graph.
type StoreConfig struct {
	// Path is the SQLite database file holding the graph blobs.
	Path string `json:"path" yaml:"path" mapstructure:"path" validate:"required"`

	// NotesKey and LinksKey name the two blobs.
	NotesKey string `json:"notes_key" yaml:"notes_key" mapstructure:"notes_key" validate:"required"`
	LinksKey string `json:"links_key" yaml:"links_key" mapstructure:"links_key" validate:"required,nefield=NotesKey"`
}

// DecayConfig controls the visual weight notes lose as they go untouched.
type DecayConfig struct {
	// Window is the age at which a note reaches MinWeight (default 7 days).
	Window time.Duration `json:"window" yaml:"window" mapstructure:"window" validate:"gt=0"`

	// MinWeight is the floor of the weight (default 0.3).
	MinWeight float64 `json:"min_weight" yaml:"min_weight" mapstructure:"min_weight" validate:"min=0,max=1"`
}

// LogConfig selects the log level and encoder.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"oneof=debug info warn error"`

	// Development switches to the human-readable console encoder.
	Development bool `json:"development" yaml:"development" mapstructure:"development"`
}

// Config groups all settings for the relay and the canvas.
type Config struct {
	Relay   RelayConfig   `json:"relay" yaml:"relay" mapstructure:"relay"`
	Planner PlannerConfig `json:"planner" yaml:"planner" mapstructure:"planner"`
	Poller  PollerConfig  `json:"poller" yaml:"poller" mapstructure:"poller"`
	Store   StoreConfig   `json:"store" yaml:"store" mapstructure:"store"`
	Decay   DecayConfig   `json:"decay" yaml:"decay" mapstructure:"decay"`
	HTTP    HTTPConfig    `json:"http" yaml:"http" mapstructure:"http"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the configuration used when no file, flag, or
// environment variable overrides a value.
func DefaultConfig() Config {
	return Config{
		Relay: RelayConfig{
			Address:        "localhost:3001",
			CaptureRate:    2,
			CaptureBurst:   5,
			MaxFieldLength: 1 << 20,
		},
		Planner: DefaultPlannerConfig(),
		Poller: PollerConfig{
			Interval: time.Minute,
		},
		Store: StoreConfig{
			Path:     "ethereal-canvas.db",
			NotesKey: "ethereal-canvas-nodes",
			LinksKey: "ethereal-canvas-edges",
		},
		Decay: DecayConfig{
			Window:    7 * 24 * time.Hour,
			MinWeight: 0.3,
		},
		HTTP: HTTPConfig{
			UserAgent:  "ethereal-canvas/0.1",
			MaxRetries: 3,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPlannerConfig returns the planner constants.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		SimilarityThreshold: 2,
		DefaultWidth:        250,
		Gap:                 50,
		CanvasWidth:         500,
		CanvasHeight:        500,
	}
}
