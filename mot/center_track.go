package mot

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// CenterTrackFeatures is length of CenterTrack.SimilarityFeatures() output:
// [bias, center closeness, detection confidence]
const CenterTrackFeatures = 3

// CenterTrack is a track using 2D Kalman filter for center position only.
// It implements Track[BBoxDetection, *CenterTrack] interface.
type CenterTrack struct {
	id            uuid.UUID
	dt            float64
	currentCenter Point
	diagonal      float64
	noMatchTimes  int
	// Nil for empty tracks and for clones which have not needed filter state yet
	tracker *kalman_filter.Kalman2D
	events  []trackEvent[BBoxDetection]
}

// NewCenterTrackWithTime creates empty track with specified time step.
// Kalman filter is initialized by the first detection.
func NewCenterTrackWithTime(dt float64) *CenterTrack {
	return &CenterTrack{
		id:     uuid.New(),
		dt:     dt,
		events: make([]trackEvent[BBoxDetection], 0),
	}
}

// NewCenterTrack creates empty track with default time step of 1.0.
func NewCenterTrack() *CenterTrack {
	return NewCenterTrackWithTime(1.0)
}

// NewCenterTrackFunc returns constructor of empty tracks with specified time step
func NewCenterTrackFunc(dt float64) NewTrackFunc[*CenterTrack] {
	return func() *CenterTrack {
		return NewCenterTrackWithTime(dt)
	}
}

// GetID returns track's identifier
func (ct *CenterTrack) GetID() uuid.UUID {
	return ct.id
}

// GetCenter returns track's current (smoothed) center
func (ct *CenterTrack) GetCenter() Point {
	return ct.currentCenter
}

// GetNoMatchTimes returns number of consecutive propagations without detection
func (ct *CenterTrack) GetNoMatchTimes() int {
	return ct.noMatchTimes
}

// IsEmpty returns true if track has never been updated
func (ct *CenterTrack) IsEmpty() bool {
	return len(ct.events) == 0
}

// UpdateTrack smooths detection center via Kalman filter
func (ct *CenterTrack) UpdateTrack(det BBoxDetection) error {
	ct.ensureFilter()
	event := trackEvent[BBoxDetection]{det: det}
	if err := ct.applyEvent(event); err != nil {
		return err
	}
	if len(ct.events) == 0 {
		ct.currentCenter = det.BBox.Center()
	} else {
		stateX, stateY := ct.tracker.GetState()
		ct.currentCenter = Point{X: stateX, Y: stateY}
	}
	ct.diagonal = det.BBox.Diagonal()
	ct.noMatchTimes = 0
	ct.events = append(ct.events, event)
	return nil
}

// PropagateTrack executes Kalman filter prediction step only
func (ct *CenterTrack) PropagateTrack() {
	if ct.IsEmpty() {
		return
	}
	ct.ensureFilter()
	event := trackEvent[BBoxDetection]{propagate: true}
	// Prediction never fails
	_ = ct.applyEvent(event)
	stateX, stateY := ct.tracker.GetState()
	ct.currentCenter = Point{X: stateX, Y: stateY}
	ct.noMatchTimes++
	ct.events = append(ct.events, event)
}

// SimilarityFeatures returns CenterTrackFeatures-length vector
func (ct *CenterTrack) SimilarityFeatures(det BBoxDetection) []float64 {
	feats := []float64{1.0, 0.0, det.Confidence}
	if ct.IsEmpty() {
		return feats
	}
	feats[1] = closeness(euclideanDistance(ct.currentCenter, det.BBox.Center()), ct.diagonal)
	return feats
}

// Clone returns independent copy of the track with the same identifier.
// The step log is shared, filter state is rebuilt lazily (see BBoxTrack.Clone).
func (ct *CenterTrack) Clone() *CenterTrack {
	clone := *ct
	clone.tracker = nil
	clone.events = ct.events[:len(ct.events):len(ct.events)]
	return &clone
}

func (ct *CenterTrack) applyEvent(event trackEvent[BBoxDetection]) error {
	if event.propagate {
		ct.tracker.Predict()
		return nil
	}
	center := event.det.BBox.Center()
	if ct.tracker == nil {
		/* Kalman filter props */
		ux := 1.0
		uy := 1.0
		stdDevA := 2.0
		stdDevMx := 0.1
		stdDevMy := 0.1
		ct.tracker = kalman_filter.NewKalman2D(ct.dt, ux, uy, stdDevA, stdDevMx, stdDevMy, kalman_filter.WithState2D(center.X, center.Y))
		return nil
	}
	ct.tracker.Predict()
	err := ct.tracker.Update(center.X, center.Y)
	if err != nil {
		return errors.Wrap(err, "Can't update object tracker")
	}
	return nil
}

// ensureFilter replays step log into a fresh filter. Logged measurements were accepted before
func (ct *CenterTrack) ensureFilter() {
	if ct.tracker != nil || len(ct.events) == 0 {
		return
	}
	for i := range ct.events {
		if err := ct.applyEvent(ct.events[i]); err != nil {
			panic(errors.Wrapf(err, "track %s: replay of step %d failed", ct.id, i))
		}
	}
}
