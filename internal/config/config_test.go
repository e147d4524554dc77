// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/ethereal-canvas/pkg/types"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, types.DefaultConfig(), cfg)
}

func TestInit_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
relay:
  address: 127.0.0.1:4000
planner:
  similarity_threshold: 3
poller:
  interval: 30s
log:
  level: debug
`), 0o644))

	t.Setenv("ETHEREAL_CANVAS_STORE_PATH", filepath.Join(dir, "env.db"))
	t.Setenv("ETHEREAL_CANVAS_DECAY_MIN_WEIGHT", "0.5")

	v := viper.New()
	used, err := Init(v, path)
	require.NoError(t, err)
	assert.Equal(t, path, used)

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:4000", cfg.Relay.Address)
	assert.Equal(t, 3, cfg.Planner.SimilarityThreshold)
	assert.Equal(t, 30*time.Second, cfg.Poller.Interval)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, filepath.Join(dir, "env.db"), cfg.Store.Path)
	assert.InDelta(t, 0.5, cfg.Decay.MinWeight, 1e-9)

	// Untouched settings keep their defaults.
	assert.Equal(t, types.DefaultConfig().Store.NotesKey, cfg.Store.NotesKey)
	assert.Equal(t, types.DefaultConfig().Planner.Gap, cfg.Planner.Gap)
}

func TestInit_NoFileIsNotAnError(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	used, err := Init(viper.New(), "")
	require.NoError(t, err)
	assert.Empty(t, used)
}

func TestInit_ExplicitMissingFile(t *testing.T) {
	_, err := Init(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.Config)
		errMsg string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*types.Config) {},
		},
		{
			name:   "address needs a port",
			mutate: func(c *types.Config) { c.Relay.Address = "localhost" },
			errMsg: "Config.Relay.Address",
		},
		{
			name:   "threshold must be positive",
			mutate: func(c *types.Config) { c.Planner.SimilarityThreshold = 0 },
			errMsg: "Config.Planner.SimilarityThreshold",
		},
		{
			name:   "poll interval must be positive",
			mutate: func(c *types.Config) { c.Poller.Interval = 0 },
			errMsg: "Config.Poller.Interval",
		},
		{
			name:   "blob keys must differ",
			mutate: func(c *types.Config) { c.Store.LinksKey = c.Store.NotesKey },
			errMsg: "Config.Store.LinksKey",
		},
		{
			name:   "weight floor within unit range",
			mutate: func(c *types.Config) { c.Decay.MinWeight = 1.5 },
			errMsg: "Config.Decay.MinWeight",
		},
		{
			name:   "unknown log level",
			mutate: func(c *types.Config) { c.Log.Level = "verbose" },
			errMsg: "Config.Log.Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := types.DefaultConfig()
			tt.mutate(&cfg)
			err := Validate(cfg)
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}
