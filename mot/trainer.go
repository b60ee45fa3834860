package mot

import (
	"context"

	"github.com/pkg/errors"
)

// TrainerConfig is the snapshot of StructuralTrackAssociationTrainer parameters
type TrainerConfig struct {
	// Regularization constant. Must be > 0. Default 100
	C float64
	// Convergence tolerance. Must be > 0. Default 0.1
	Epsilon float64
	// Max number of cached separation oracle results per sample. Default 5
	MaxCacheSize uint
	// Threads used by the optimizer and by history conversion. Default 2
	NumThreads uint
	// Forces learned weights to be non-negative. Default false
	LearnNonnegativeWeights bool
	// Default false
	Verbose bool
	Solver  SolverOptions
}

// DefaultTrainerConfig returns default trainer parameters
func DefaultTrainerConfig() TrainerConfig {
	return TrainerConfig{
		C:                       100,
		Epsilon:                 0.1,
		MaxCacheSize:            5,
		NumThreads:              2,
		LearnNonnegativeWeights: false,
		Verbose:                 false,
		Solver:                  DefaultSolver(),
	}
}

// Validate checks parameters which have restricted domain
func (cfg TrainerConfig) Validate() error {
	if !(cfg.C > 0) {
		return errors.Wrapf(ErrInvalidC, "C: %f", cfg.C)
	}
	if !(cfg.Epsilon > 0) {
		return errors.Wrapf(ErrInvalidEpsilon, "epsilon: %f", cfg.Epsilon)
	}
	return nil
}

// StructuralTrackAssociationTrainer learns AssociationFunction from labeled track histories.
// D is the detection type, ID is the identity label type and T is the track type.
type StructuralTrackAssociationTrainer[D any, ID comparable, T Track[D, T]] struct {
	cfg      TrainerConfig
	newTrack NewTrackFunc[T]
	trainer  AssignmentTrainer[D, T]
}

// NewStructuralTrackAssociationTrainer creates trainer with default parameters.
// newTrack creates empty tracks, trainer solves the structured assignment learning problem.
func NewStructuralTrackAssociationTrainer[D any, ID comparable, T Track[D, T]](newTrack NewTrackFunc[T], trainer AssignmentTrainer[D, T]) *StructuralTrackAssociationTrainer[D, ID, T] {
	return &StructuralTrackAssociationTrainer[D, ID, T]{
		cfg:      DefaultTrainerConfig(),
		newTrack: newTrack,
		trainer:  trainer,
	}
}

// SetC sets regularization constant. Larger values fit training data better but may overfit.
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetC(c float64) error {
	if !(c > 0) {
		return errors.Wrapf(ErrInvalidC, "C: %f", c)
	}
	st.cfg.C = c
	return nil
}

// GetC returns regularization constant
func (st *StructuralTrackAssociationTrainer[D, ID, T]) GetC() float64 {
	return st.cfg.C
}

// SetEpsilon sets convergence tolerance
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetEpsilon(eps float64) error {
	if !(eps > 0) {
		return errors.Wrapf(ErrInvalidEpsilon, "epsilon: %f", eps)
	}
	st.cfg.Epsilon = eps
	return nil
}

// GetEpsilon returns convergence tolerance
func (st *StructuralTrackAssociationTrainer[D, ID, T]) GetEpsilon() float64 {
	return st.cfg.Epsilon
}

// SetMaxCacheSize sets max cache size
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetMaxCacheSize(maxSize uint) {
	st.cfg.MaxCacheSize = maxSize
}

// GetMaxCacheSize returns max cache size
func (st *StructuralTrackAssociationTrainer[D, ID, T]) GetMaxCacheSize() uint {
	return st.cfg.MaxCacheSize
}

// SetNumThreads sets number of threads
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetNumThreads(num uint) {
	st.cfg.NumThreads = num
}

// GetNumThreads returns number of threads
func (st *StructuralTrackAssociationTrainer[D, ID, T]) GetNumThreads() uint {
	return st.cfg.NumThreads
}

// SetLearnsNonnegativeWeights toggles non-negativity constraint on learned weights
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetLearnsNonnegativeWeights(value bool) {
	st.cfg.LearnNonnegativeWeights = value
}

// LearnsNonnegativeWeights returns true if learned weights are constrained to be non-negative
func (st *StructuralTrackAssociationTrainer[D, ID, T]) LearnsNonnegativeWeights() bool {
	return st.cfg.LearnNonnegativeWeights
}

// BeVerbose turns on progress logging
func (st *StructuralTrackAssociationTrainer[D, ID, T]) BeVerbose() {
	st.cfg.Verbose = true
}

// BeQuiet turns off progress logging
func (st *StructuralTrackAssociationTrainer[D, ID, T]) BeQuiet() {
	st.cfg.Verbose = false
}

// IsVerbose returns true if progress logging is on
func (st *StructuralTrackAssociationTrainer[D, ID, T]) IsVerbose() bool {
	return st.cfg.Verbose
}

// SetSolver sets optimizer options
func (st *StructuralTrackAssociationTrainer[D, ID, T]) SetSolver(solver SolverOptions) {
	st.cfg.Solver = solver
}

// GetSolver returns optimizer options
func (st *StructuralTrackAssociationTrainer[D, ID, T]) GetSolver() SolverOptions {
	return st.cfg.Solver
}

// Config returns snapshot of current parameters
func (st *StructuralTrackAssociationTrainer[D, ID, T]) Config() TrainerConfig {
	return st.cfg
}

// ApplyConfig validates and applies all parameters at once. Nothing is applied on error.
func (st *StructuralTrackAssociationTrainer[D, ID, T]) ApplyConfig(cfg TrainerConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}

// TrainHistory is Train for single track history
func (st *StructuralTrackAssociationTrainer[D, ID, T]) TrainHistory(ctx context.Context, history TrackHistory[D, ID]) (*AssociationFunction[D, T], error) {
	return st.Train(ctx, []TrackHistory[D, ID]{history})
}

// Train learns association function from track histories.
//
// Histories must form valid track association problem (see IsTrackAssociationProblem).
// Feature dimensionality is taken from the very first detection: every track must produce
// similarity features of the same length against every detection.
// Errors returned by AssignmentTrainer are passed through unchanged.
func (st *StructuralTrackAssociationTrainer[D, ID, T]) Train(ctx context.Context, histories []TrackHistory[D, ID]) (*AssociationFunction[D, T], error) {
	if st.newTrack == nil {
		return nil, ErrNoTrackFactory
	}
	if st.trainer == nil {
		return nil, ErrNoAssignmentTrainer
	}
	if err := ValidateTrackAssociationProblem(histories); err != nil {
		return nil, err
	}
	// Parameters snapshot for this call
	cfg := st.cfg

	numDims, err := FeatureDimensions(histories, st.newTrack)
	if err != nil {
		return nil, err
	}

	set, err := BuildTrainingSet(histories, st.newTrack, int(cfg.NumThreads))
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		Logf("track association: histories=%d assignment problems=%d dims=%d\n", len(histories), set.Len(), numDims)
	}

	features := TrackAssociationFeatures{
		NumDims:        numDims,
		NumNonnegative: 0,
	}
	if cfg.LearnNonnegativeWeights {
		features.NumNonnegative = numDims
	}
	trainerCfg := AssignmentTrainerConfig{
		C:            cfg.C,
		Epsilon:      cfg.Epsilon,
		MaxCacheSize: cfg.MaxCacheSize,
		NumThreads:   cfg.NumThreads,
		Verbose:      cfg.Verbose,
		Solver:       cfg.Solver,
		Features:     features,
	}

	weights, err := st.trainer.TrainAssignment(ctx, trainerCfg, set.Problems, set.Labels())
	if err != nil {
		return nil, err
	}
	if len(weights) != numDims {
		return nil, errors.Wrapf(ErrWeightDimension, "assignment trainer returned %d weights, expected %d", len(weights), numDims)
	}
	return NewAssociationFunction[D, T](weights), nil
}

// FeatureDimensions returns length of similarity features of a fresh track against the first detection found
// in histories. Returned error wraps ErrNoDetections when there are no detections at all and
// ErrZeroDimensions when features are empty.
func FeatureDimensions[D any, ID comparable, T Track[D, T]](histories []TrackHistory[D, ID], newTrack NewTrackFunc[T]) (int, error) {
	// For all detection histories
	for i := range histories {
		// For all time instances in the detection history
		for j := range histories[i] {
			if len(histories[i][j]) > 0 {
				feats := newTrack().SimilarityFeatures(histories[i][j][0].Detection)
				if len(feats) == 0 {
					return 0, errors.Wrapf(ErrZeroDimensions, "history %d, time step %d", i, j)
				}
				return len(feats), nil
			}
		}
	}
	return 0, errors.Wrapf(ErrNoDetections, "histories: %d", len(histories))
}
