// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the settings for the relay and the canvas from
// defaults, an optional YAML file, and ETHEREAL_CANVAS_* environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

const (
	// FileName is the base name of the config file searched for.
	FileName = "ethereal-canvas"

	// EnvPrefix prefixes every environment override, e.g.
	// ETHEREAL_CANVAS_RELAY_ADDRESS.
	EnvPrefix = "ETHEREAL_CANVAS"
)

// Init points v at cfgFile, or at the default search path when cfgFile is
// empty, and reads it. It returns the file used, or "" when none was found.
func Init(v *viper.Viper, cfgFile string) (string, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return "", nil
		}
		return "", fmt.Errorf("reading config: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

// SetDefaults registers every setting with its default so that environment
// overrides apply even when no file mentions the key.
func SetDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("relay.address", d.Relay.Address)
	v.SetDefault("relay.capture_rate", d.Relay.CaptureRate)
	v.SetDefault("relay.capture_burst", d.Relay.CaptureBurst)
	v.SetDefault("relay.max_field_length", d.Relay.MaxFieldLength)

	v.SetDefault("planner.similarity_threshold", d.Planner.SimilarityThreshold)
	v.SetDefault("planner.default_width", d.Planner.DefaultWidth)
	v.SetDefault("planner.gap", d.Planner.Gap)
	v.SetDefault("planner.canvas_width", d.Planner.CanvasWidth)
	v.SetDefault("planner.canvas_height", d.Planner.CanvasHeight)

	v.SetDefault("poller.interval", d.Poller.Interval)

	v.SetDefault("store.path", d.Store.Path)
	v.SetDefault("store.notes_key", d.Store.NotesKey)
	v.SetDefault("store.links_key", d.Store.LinksKey)

	v.SetDefault("decay.window", d.Decay.Window)
	v.SetDefault("decay.min_weight", d.Decay.MinWeight)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_retries", d.HTTP.MaxRetries)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.development", d.Log.Development)
}

// Load decodes v into a Config and validates it.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks every field constraint of cfg.
func Validate(cfg types.Config) error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(cfg); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
