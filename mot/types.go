package mot

// DefaultLabel is the identity label type most callers want: an unsigned integer
// assigned by the labeling tool.
type DefaultLabel = uint64

// LabeledDetection pairs a detection with its ground-truth identity label.
// Two detections with equal labels belong to the same physical object.
type LabeledDetection[D any, ID comparable] struct {
	Detection D
	Label     ID
}

// NewLabeledDetection creates new instance of LabeledDetection
func NewLabeledDetection[D any, ID comparable](det D, label ID) LabeledDetection[D, ID] {
	return LabeledDetection[D, ID]{
		Detection: det,
		Label:     label,
	}
}

// TimeStep is the ordered set of labeled detections observed at one time instant
type TimeStep[D any, ID comparable] []LabeledDetection[D, ID]

// Detections returns the detections of the time step without their labels
func (step TimeStep[D, ID]) Detections() []D {
	dets := make([]D, len(step))
	for i := range step {
		dets[i] = step[i].Detection
	}
	return dets
}

// TrackHistory describes one independent tracking scenario end-to-end.
// Histories never share track state.
type TrackHistory[D any, ID comparable] []TimeStep[D, ID]

// AssignmentProblem is a single time step matching task: detections observed at time t
// against the tracks as they were right before time t.
type AssignmentProblem[D any, T any] struct {
	Detections []D
	Tracks     []T
}
