package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/LdDl/mot-assoc-go/mot"
)

// Solver contains cutting-plane optimizer options.
type Solver struct {
	SubproblemEpsilon       float64 `toml:"subproblem_epsilon"`
	SubproblemMaxIterations uint    `toml:"subproblem_max_iterations"`
	InactivePlaneThreshold  uint    `toml:"inactive_plane_threshold"`
}

// Trainer contains structural track association trainer parameters.
type Trainer struct {
	C                       float64 `toml:"c"`
	Epsilon                 float64 `toml:"epsilon"`
	MaxCacheSize            uint    `toml:"max_cache_size"`
	NumThreads              uint    `toml:"num_threads"`
	LearnNonnegativeWeights bool    `toml:"learn_nonnegative_weights"`
	Verbose                 bool    `toml:"verbose"`
	Solver                  Solver  `toml:"solver"`
}

// Tracks selects reference track implementation used to compute similarity features.
type Tracks struct {
	Kind string  `toml:"kind"`
	DT   float64 `toml:"dt"`
}

// Build contains input conversion options.
type Build struct {
	// Max number of empty frames allowed between two consecutive frames of a history
	MaxFrameGap int `toml:"max_frame_gap"`
}

// Config is the root assocsets configuration.
type Config struct {
	Trainer Trainer `toml:"trainer"`
	Tracks  Tracks  `toml:"tracks"`
	Build   Build   `toml:"build"`
}

// Load parses and validates configuration file. Empty path gives defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return &cfg, nil
	}
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".toml" {
		return nil, fmt.Errorf("config file must have .toml extension, got %q", ext)
	}
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.Tracks.Kind = strings.ToLower(strings.TrimSpace(c.Tracks.Kind))
	if c.Tracks.Kind == "" {
		c.Tracks.Kind = defaultTrackKind
	}
}

// TrainerConfig converts trainer section into mot.TrainerConfig.
func (c *Config) TrainerConfig() mot.TrainerConfig {
	return mot.TrainerConfig{
		C:                       c.Trainer.C,
		Epsilon:                 c.Trainer.Epsilon,
		MaxCacheSize:            c.Trainer.MaxCacheSize,
		NumThreads:              c.Trainer.NumThreads,
		LearnNonnegativeWeights: c.Trainer.LearnNonnegativeWeights,
		Verbose:                 c.Trainer.Verbose,
		Solver: mot.SolverOptions{
			SubproblemEpsilon:       c.Trainer.Solver.SubproblemEpsilon,
			SubproblemMaxIterations: c.Trainer.Solver.SubproblemMaxIterations,
			InactivePlaneThreshold:  c.Trainer.Solver.InactivePlaneThreshold,
		},
	}
}

// Encode renders configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(c); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return buf.Bytes(), nil
}
