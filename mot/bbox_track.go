package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// BBoxDetection is a single detected bounding box
type BBoxDetection struct {
	BBox       Rectangle
	Confidence float64
}

// NewBBoxDetection creates new instance of BBoxDetection
func NewBBoxDetection(bbox Rectangle, confidence float64) BBoxDetection {
	return BBoxDetection{
		BBox:       bbox,
		Confidence: confidence,
	}
}

// BBoxTrackFeatures is length of BBoxTrack.SimilarityFeatures() output:
// [bias, IoU with predicted bbox, center closeness, width ratio, height ratio, detection confidence]
const BBoxTrackFeatures = 6

// trackEvent is a single step applied to a track: either update with detection or propagation
type trackEvent[D any] struct {
	propagate bool
	det       D
}

// BBoxTrack is a track using 8-D Kalman filter for full bounding box dynamics.
// State vector: [cx, cy, w, h, vx, vy, vw, vh] - center position, size, and velocities.
// It implements Track[BBoxDetection, *BBoxTrack] interface.
type BBoxTrack struct {
	id            uuid.UUID
	dt            float64
	currentBBox   Rectangle
	predictedBBox Rectangle
	track         []Point
	maxTrackLen   int
	noMatchTimes  int
	// Nil for empty tracks and for clones which have not needed filter state yet
	tracker *kalman_filter.KalmanBBox
	// Applied steps. Append-only, so clones share its prefix
	events []trackEvent[BBoxDetection]
}

// NewBBoxTrackWithTime creates empty track with specified time step.
// Kalman filter is initialized by the first detection.
func NewBBoxTrackWithTime(dt float64) *BBoxTrack {
	return &BBoxTrack{
		id:          uuid.New(),
		dt:          dt,
		track:       make([]Point, 0, 150),
		maxTrackLen: 150,
		events:      make([]trackEvent[BBoxDetection], 0),
	}
}

// NewBBoxTrack creates empty track with default time step of 1.0.
func NewBBoxTrack() *BBoxTrack {
	return NewBBoxTrackWithTime(1.0)
}

// NewBBoxTrackFunc returns constructor of empty tracks with specified time step
func NewBBoxTrackFunc(dt float64) NewTrackFunc[*BBoxTrack] {
	return func() *BBoxTrack {
		return NewBBoxTrackWithTime(dt)
	}
}

// GetID returns track's identifier
func (bt *BBoxTrack) GetID() uuid.UUID {
	return bt.id
}

// GetBBox returns track's current bounding box
func (bt *BBoxTrack) GetBBox() Rectangle {
	return bt.currentBBox
}

// GetPredictedBBox returns bounding box expected at the next time step
func (bt *BBoxTrack) GetPredictedBBox() Rectangle {
	return bt.predictedBBox
}

// GetTrack returns track's center history. Be careful: this is not copy of track, but reference to it
func (bt *BBoxTrack) GetTrack() []Point {
	return bt.track
}

// GetNoMatchTimes returns number of consecutive propagations without detection
func (bt *BBoxTrack) GetNoMatchTimes() int {
	return bt.noMatchTimes
}

// IsEmpty returns true if track has never been updated
func (bt *BBoxTrack) IsEmpty() bool {
	return len(bt.events) == 0
}

// UpdateTrack executes Kalman filter prediction and update steps with detected bounding box
func (bt *BBoxTrack) UpdateTrack(det BBoxDetection) error {
	bt.ensureFilter()
	event := trackEvent[BBoxDetection]{det: det}
	if err := bt.applyEvent(event); err != nil {
		return err
	}
	if len(bt.events) == 0 {
		bt.currentBBox = det.BBox
	} else {
		cx, cy, w, h := bt.tracker.GetState()
		bt.currentBBox = NewRectCentered(Point{X: cx, Y: cy}, w, h)
	}
	bt.noMatchTimes = 0
	bt.events = append(bt.events, event)
	bt.appendCenter()
	bt.refreshPrediction()
	return nil
}

// PropagateTrack executes Kalman filter prediction step only
func (bt *BBoxTrack) PropagateTrack() {
	if bt.IsEmpty() {
		return
	}
	bt.ensureFilter()
	event := trackEvent[BBoxDetection]{propagate: true}
	// Prediction never fails
	_ = bt.applyEvent(event)
	cx, cy, w, h := bt.tracker.GetState()
	bt.currentBBox = NewRectCentered(Point{X: cx, Y: cy}, w, h)
	bt.noMatchTimes++
	bt.events = append(bt.events, event)
	bt.appendCenter()
	bt.refreshPrediction()
}

// SimilarityFeatures returns BBoxTrackFeatures-length vector describing how well detection fits predicted bounding box.
// Empty track gives zero similarity (bias and confidence only).
func (bt *BBoxTrack) SimilarityFeatures(det BBoxDetection) []float64 {
	feats := make([]float64, BBoxTrackFeatures)
	feats[0] = 1.0
	feats[5] = det.Confidence
	if bt.IsEmpty() {
		return feats
	}
	predicted := bt.predictedBBox
	feats[1] = IoU(predicted, det.BBox)
	feats[2] = closeness(euclideanDistance(predicted.Center(), det.BBox.Center()), predicted.Diagonal())
	feats[3] = sizeRatio(predicted.Width, det.BBox.Width)
	feats[4] = sizeRatio(predicted.Height, det.BBox.Height)
	return feats
}

// Clone returns independent copy of the track with the same identifier.
// Clone is O(1): step log and center history are shared up to their current length,
// Kalman filter state is rebuilt from the log only when the copy needs it.
func (bt *BBoxTrack) Clone() *BBoxTrack {
	clone := *bt
	clone.tracker = nil
	clone.events = bt.events[:len(bt.events):len(bt.events)]
	clone.track = bt.track[:len(bt.track):len(bt.track)]
	return &clone
}

// GetVelocity returns current velocity estimates (vx, vy, vw, vh) from Kalman filter
func (bt *BBoxTrack) GetVelocity() (float64, float64, float64, float64) {
	if bt.IsEmpty() {
		return 0, 0, 0, 0
	}
	bt.ensureFilter()
	return bt.tracker.GetVelocity()
}

// GetMahalanobisDistance returns the Mahalanobis distance to a detection
func (bt *BBoxTrack) GetMahalanobisDistance(det BBoxDetection) (float64, error) {
	if bt.IsEmpty() {
		return 0, errors.New("track has no state yet")
	}
	bt.ensureFilter()
	center := det.BBox.Center()
	return bt.tracker.MahalanobisDistance(center.X, center.Y, det.BBox.Width, det.BBox.Height)
}

// applyEvent runs single step on Kalman filter. The first update creates the filter
func (bt *BBoxTrack) applyEvent(event trackEvent[BBoxDetection]) error {
	if event.propagate {
		bt.tracker.Predict()
		return nil
	}
	center := event.det.BBox.Center()
	if bt.tracker == nil {
		// Kalman filter props
		uCx := 1.0
		uCy := 1.0
		uW := 0.0
		uH := 0.0
		stdDevA := 2.0
		stdDevMCx := 0.1
		stdDevMCy := 0.1
		stdDevMW := 0.1
		stdDevMH := 0.1
		bt.tracker = kalman_filter.NewKalmanBBox(
			bt.dt, uCx, uCy, uW, uH,
			stdDevA, stdDevMCx, stdDevMCy, stdDevMW, stdDevMH,
			kalman_filter.WithStateBBox(center.X, center.Y, event.det.BBox.Width, event.det.BBox.Height),
		)
		return nil
	}
	bt.tracker.Predict()
	err := bt.tracker.Update(center.X, center.Y, event.det.BBox.Width, event.det.BBox.Height)
	if err != nil {
		return errors.Wrap(err, "Can't update object tracker")
	}
	return nil
}

// ensureFilter rebuilds Kalman filter of a cloned track by replaying its step log.
// Every logged measurement has already been accepted by an identical filter, so a failing replay
// means the log is corrupted.
func (bt *BBoxTrack) ensureFilter() {
	if bt.tracker != nil || len(bt.events) == 0 {
		return
	}
	for i := range bt.events {
		if err := bt.applyEvent(bt.events[i]); err != nil {
			panic(errors.Wrapf(err, "track %s: replay of step %d failed", bt.id, i))
		}
	}
}

func (bt *BBoxTrack) appendCenter() {
	bt.track = append(bt.track, bt.currentBBox.Center())
	if len(bt.track) > bt.maxTrackLen {
		bt.track = bt.track[1:]
	}
}

// refreshPrediction extrapolates current state with constant velocity model
func (bt *BBoxTrack) refreshPrediction() {
	vx, vy, vw, vh := bt.tracker.GetVelocity()
	center := bt.currentBBox.Center()
	bt.predictedBBox = NewRectCentered(
		Point{X: center.X + vx*bt.dt, Y: center.Y + vy*bt.dt},
		maxFloat64(0, bt.currentBBox.Width+vw*bt.dt),
		maxFloat64(0, bt.currentBBox.Height+vh*bt.dt),
	)
}
