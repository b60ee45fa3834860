package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LdDl/mot-assoc-go/internal/config"
	"github.com/LdDl/mot-assoc-go/mot"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assocsets.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadEmptyPathGivesDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, config.Default(), *cfg)
	assert.Equal(t, mot.DefaultTrainerConfig(), cfg.TrainerConfig())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
[trainer]
c = 10.5
learn_nonnegative_weights = true

[tracks]
kind = " Center "
`)
	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10.5, cfg.Trainer.C)
	assert.True(t, cfg.Trainer.LearnNonnegativeWeights)
	assert.Equal(t, 0.1, cfg.Trainer.Epsilon)
	assert.Equal(t, uint(2), cfg.Trainer.NumThreads)
	assert.Equal(t, config.TrackKindCenter, cfg.Tracks.Kind)
	assert.Equal(t, 1.0, cfg.Tracks.DT)
	assert.Equal(t, 1000, cfg.Build.MaxFrameGap)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"zero c":         "[trainer]\nc = 0\n",
		"negative eps":   "[trainer]\nepsilon = -1.0\n",
		"unknown kind":   "[tracks]\nkind = \"particle\"\n",
		"zero dt":        "[tracks]\ndt = 0.0\n",
		"frame gap":      "[build]\nmax_frame_gap = -3\n",
		"solver eps":     "[trainer.solver]\nsubproblem_epsilon = 0.0\n",
		"unknown field":  "[trainer]\nlearning_rate = 1.0\n",
		"malformed toml": "[trainer\n",
	}
	for name, body := range cases {
		body := body
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadInvalidCIsTrainerError(t *testing.T) {
	t.Parallel()
	_, err := config.Load(writeConfig(t, "[trainer]\nc = -2.0\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, mot.ErrInvalidC))
}

func TestLoadRejectsExtension(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "config.json"))
	assert.ErrorContains(t, err, ".toml")
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorContains(t, err, "open config")
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Trainer.C = 42
	cfg.Tracks.Kind = config.TrackKindCenter
	data, err := cfg.Encode()
	require.NoError(t, err)

	var decoded config.Config
	require.NoError(t, toml.Unmarshal(data, &decoded))
	assert.Equal(t, cfg, decoded)
}
