package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTrainer(); err != nil {
		return err
	}
	if err := c.validateTracks(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTrainer() error {
	if err := c.TrainerConfig().Validate(); err != nil {
		return fmt.Errorf("trainer: %w", err)
	}
	if !(c.Trainer.Solver.SubproblemEpsilon > 0) {
		return errors.New("trainer.solver.subproblem_epsilon must be greater than 0")
	}
	if c.Trainer.Solver.SubproblemMaxIterations == 0 {
		return errors.New("trainer.solver.subproblem_max_iterations must be positive")
	}
	return nil
}

func (c *Config) validateTracks() error {
	switch c.Tracks.Kind {
	case TrackKindBBox, TrackKindCenter:
	default:
		return fmt.Errorf("tracks.kind must be %q or %q, got %q", TrackKindBBox, TrackKindCenter, c.Tracks.Kind)
	}
	if !(c.Tracks.DT > 0) {
		return errors.New("tracks.dt must be greater than 0")
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.MaxFrameGap < 0 {
		return errors.New("build.max_frame_gap must not be negative")
	}
	return nil
}
