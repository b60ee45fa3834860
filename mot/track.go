package mot

// Track is the interface for caller-defined track state used while building
// association training data.
// D is the detection type the track consumes and Self is the concrete type
// implementing this interface (e.g., *BBoxTrack). This enables type-safe
// generic builders and trainers.
type Track[D any, Self any] interface {
	// UpdateTrack moves the track state forward with a matched detection
	UpdateTrack(det D) error
	// PropagateTrack moves the track state forward when no detection was matched
	PropagateTrack()
	// SimilarityFeatures returns the feature vector describing how well det fits this track.
	// The length must be the same for every track and every detection within one training run.
	SimilarityFeatures(det D) []float64
	// Clone returns an independent copy of the track state
	Clone() Self
}

// NewTrackFunc creates a default (empty) track.
type NewTrackFunc[T any] func() T
