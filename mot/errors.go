package mot

import "github.com/pkg/errors"

var (
	// ErrInvalidC is returned when regularization constant is not strictly positive
	ErrInvalidC = errors.New("C must be greater than 0")
	// ErrInvalidEpsilon is returned when convergence tolerance is not strictly positive
	ErrInvalidEpsilon = errors.New("epsilon must be greater than 0")
	// ErrMalformedProblem is returned when training input is not a valid track association problem
	ErrMalformedProblem = errors.New("invalid track association problem")
	// ErrNoDetections is returned when feature dimensionality can't be inferred since there are no detections at all
	ErrNoDetections = errors.New("no detection objects were given to train")
	// ErrZeroDimensions is returned when track produces empty similarity features
	ErrZeroDimensions = errors.New("similarity features must not be empty")
	// ErrWeightDimension is returned when weight vector and feature vector lengths differ
	ErrWeightDimension = errors.New("weights and features dimensions mismatch")
	// ErrNoTrackFactory is returned when trainer has been created without track constructor
	ErrNoTrackFactory = errors.New("track constructor is not set")
	// ErrNoAssignmentTrainer is returned when trainer has been created without assignment trainer
	ErrNoAssignmentTrainer = errors.New("assignment trainer is not set")
)
