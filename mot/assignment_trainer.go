package mot

import "context"

// SolverOptions configures the cutting-plane optimizer used by structured trainers.
// Values are passed through to AssignmentTrainer unchanged.
type SolverOptions struct {
	// Stopping tolerance of each quadratic subproblem. Default 1e-2
	SubproblemEpsilon float64
	// Max iterations of each quadratic subproblem. Default 50000
	SubproblemMaxIterations uint
	// Number of iterations a cutting plane may stay inactive before it is removed. Default 20
	InactivePlaneThreshold uint
}

// DefaultSolver returns default optimizer options
func DefaultSolver() SolverOptions {
	return SolverOptions{
		SubproblemEpsilon:       1e-2,
		SubproblemMaxIterations: 50000,
		InactivePlaneThreshold:  20,
	}
}

// TrackAssociationFeatures describes joint feature vector of track association problem
type TrackAssociationFeatures struct {
	// Length of Track.SimilarityFeatures() output
	NumDims int
	// Number of leading weights which must stay non-negative. Either 0 or NumDims
	NumNonnegative int
}

// AssignmentTrainerConfig is the configuration handed to AssignmentTrainer
type AssignmentTrainerConfig struct {
	C            float64
	Epsilon      float64
	MaxCacheSize uint
	NumThreads   uint
	Verbose      bool
	Solver       SolverOptions
	Features     TrackAssociationFeatures
}

// AssignmentTrainer is structured-output trainer for assignment problems.
//
// labels[i] has the same length as problems[i].Detections and every value is either
// index into problems[i].Tracks or NotMatched.
// Implementation must return weight vector of length cfg.Features.NumDims.
type AssignmentTrainer[D any, T Track[D, T]] interface {
	TrainAssignment(ctx context.Context, cfg AssignmentTrainerConfig, problems []AssignmentProblem[D, T], labels [][]int) ([]float64, error)
}

// AssignmentTrainerFunc is an adapter to allow the use of ordinary functions as AssignmentTrainer
type AssignmentTrainerFunc[D any, T Track[D, T]] func(ctx context.Context, cfg AssignmentTrainerConfig, problems []AssignmentProblem[D, T], labels [][]int) ([]float64, error)

// TrainAssignment calls f(ctx, cfg, problems, labels)
func (f AssignmentTrainerFunc[D, T]) TrainAssignment(ctx context.Context, cfg AssignmentTrainerConfig, problems []AssignmentProblem[D, T], labels [][]int) ([]float64, error) {
	return f(ctx, cfg, problems, labels)
}
