package config

import "github.com/LdDl/mot-assoc-go/mot"

const (
	TrackKindBBox   = "bbox"
	TrackKindCenter = "center"

	defaultTrackKind = TrackKindBBox
	defaultTrackDT   = 1.0
	defaultMaxGap    = 1000
)

// Default returns configuration with every field set to its default value.
func Default() Config {
	trainer := mot.DefaultTrainerConfig()
	return Config{
		Trainer: Trainer{
			C:                       trainer.C,
			Epsilon:                 trainer.Epsilon,
			MaxCacheSize:            trainer.MaxCacheSize,
			NumThreads:              trainer.NumThreads,
			LearnNonnegativeWeights: trainer.LearnNonnegativeWeights,
			Verbose:                 trainer.Verbose,
			Solver: Solver{
				SubproblemEpsilon:       trainer.Solver.SubproblemEpsilon,
				SubproblemMaxIterations: trainer.Solver.SubproblemMaxIterations,
				InactivePlaneThreshold:  trainer.Solver.InactivePlaneThreshold,
			},
		},
		Tracks: Tracks{
			Kind: defaultTrackKind,
			DT:   defaultTrackDT,
		},
		Build: Build{
			MaxFrameGap: defaultMaxGap,
		},
	}
}
