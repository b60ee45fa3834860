package mot

import (
	"sort"

	"github.com/arthurkushman/go-hungarian"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// MatchingAlgorithm is for algorithm type for matching detections to tracks
type MatchingAlgorithm uint16

const (
	// MatchingAlgorithmHungarian uses the Hungarian algorithm (Kuhn-Munkres) for optimal assignment
	MatchingAlgorithmHungarian MatchingAlgorithm = iota
	// MatchingAlgorithmGreedy uses a greedy algorithm for faster but potentially suboptimal assignment
	MatchingAlgorithmGreedy
	// MatchingAlgorithmReduction uses row/column reduction of go-hungarian's SolveMax followed by greedy completion.
	// Heuristic: the result is deterministic and maximal, but not necessarily optimal
	MatchingAlgorithmReduction
)

// AssociationFunction scores track/detection compatibility with learned weights.
// Score is the dot product of weights and Track.SimilarityFeatures().
type AssociationFunction[D any, T Track[D, T]] struct {
	weights   []float64
	algorithm MatchingAlgorithm
}

// AssociationOption configures AssociationFunction
type AssociationOption func(*associationOptions)

type associationOptions struct {
	algorithm MatchingAlgorithm
}

// WithMatchingAlgorithm sets algorithm used by Assign. Default is MatchingAlgorithmHungarian
func WithMatchingAlgorithm(algorithm MatchingAlgorithm) AssociationOption {
	return func(opts *associationOptions) {
		opts.algorithm = algorithm
	}
}

// NewAssociationFunction creates association function from weight vector. Weights are copied.
func NewAssociationFunction[D any, T Track[D, T]](weights []float64, options ...AssociationOption) *AssociationFunction[D, T] {
	opts := associationOptions{algorithm: MatchingAlgorithmHungarian}
	for _, o := range options {
		o(&opts)
	}
	w := make([]float64, len(weights))
	copy(w, weights)
	return &AssociationFunction[D, T]{
		weights:   w,
		algorithm: opts.algorithm,
	}
}

// Weights returns copy of learned weight vector
func (af *AssociationFunction[D, T]) Weights() []float64 {
	w := make([]float64, len(af.weights))
	copy(w, af.weights)
	return w
}

// NumDims returns weight vector length
func (af *AssociationFunction[D, T]) NumDims() int {
	return len(af.weights)
}

// Score returns compatibility of track and detection. Higher is better, non-positive means "do not associate".
func (af *AssociationFunction[D, T]) Score(track T, det D) (float64, error) {
	feats := track.SimilarityFeatures(det)
	if len(feats) != len(af.weights) {
		return 0, errors.Wrapf(ErrWeightDimension, "features %d, weights %d", len(feats), len(af.weights))
	}
	return floats.Dot(af.weights, feats), nil
}

// Assign associates detections with tracks. Every detection gets at most one track and every track
// at most one detection. Pairs scoring <= 0 are never associated, so such detections are left unmatched.
func (af *AssociationFunction[D, T]) Assign(dets []D, tracks []T) ([]Correspondence, error) {
	result := make([]Correspondence, len(dets))
	if len(dets) == 0 || len(tracks) == 0 {
		return result, nil
	}
	scores := make([][]float64, len(dets))
	for i := range dets {
		row := make([]float64, len(tracks))
		for j := range tracks {
			s, err := af.Score(tracks[j], dets[i])
			if err != nil {
				return nil, errors.Wrapf(err, "Can't score detection %d against track %d", i, j)
			}
			row[j] = s
		}
		scores[i] = row
	}

	var assignment []int
	switch af.algorithm {
	case MatchingAlgorithmGreedy:
		assignment = greedyAssign(scores, len(tracks))
	case MatchingAlgorithmReduction:
		assignment = reductionAssign(scores, len(tracks))
	default:
		assignment = optimalAssign(scores, len(tracks))
	}
	for i, trackIdx := range assignment {
		if trackIdx != NotMatched {
			result[i] = Matched(trackIdx)
		}
	}
	return result, nil
}

// reductionAssign pads score matrix to square one and runs go-hungarian's SolveMax on it.
// Negative scores are clamped to zero (the padding value).
// SolveMax may report several columns per row, so rows are visited in ascending order and each takes
// its lowest free column with positive score. Pairs left over are completed greedily.
func reductionAssign(scores [][]float64, numTracks int) []int {
	numDets := len(scores)
	size := maxInt(numDets, numTracks)
	padded := make([][]float64, size)
	for i := 0; i < size; i++ {
		padded[i] = make([]float64, size)
		if i >= numDets {
			continue
		}
		for j := 0; j < numTracks; j++ {
			padded[i][j] = maxFloat64(0, scores[i][j])
		}
	}
	assignment := make([]int, numDets)
	for i := range assignment {
		assignment[i] = NotMatched
	}
	assignmentsMap := hungarian.SolveMax(padded)

	rows := make([]int, 0, len(assignmentsMap))
	for detIdx := range assignmentsMap {
		if detIdx < numDets {
			rows = append(rows, detIdx)
		}
	}
	sort.Ints(rows)
	reservedTracks := make(map[int]struct{}, numTracks)
	for _, detIdx := range rows {
		cols := make([]int, 0, len(assignmentsMap[detIdx]))
		for trackIdx := range assignmentsMap[detIdx] {
			cols = append(cols, trackIdx)
		}
		sort.Ints(cols)
		for _, trackIdx := range cols {
			if trackIdx >= numTracks || scores[detIdx][trackIdx] <= 0 {
				continue
			}
			if _, ok := reservedTracks[trackIdx]; ok {
				continue
			}
			assignment[detIdx] = trackIdx
			reservedTracks[trackIdx] = struct{}{}
			break
		}
	}
	greedyComplete(scores, numTracks, assignment)
	return assignment
}
