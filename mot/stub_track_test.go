package mot

import (
	"math"

	"github.com/pkg/errors"
)

// stubDet is a minimal detection: name for bookkeeping checks, x for similarity
type stubDet struct {
	name string
	x    float64
}

// stubTrack records every update/propagation it receives
type stubTrack struct {
	events []string
	lastX  float64
	// Fails UpdateTrack for detections with this name
	failOn string
}

func newStubTrack() *stubTrack {
	return &stubTrack{events: make([]string, 0)}
}

func (st *stubTrack) UpdateTrack(det stubDet) error {
	if st.failOn != "" && det.name == st.failOn {
		return errors.New("stub update failure")
	}
	st.events = append(st.events, "u:"+det.name)
	st.lastX = det.x
	return nil
}

func (st *stubTrack) PropagateTrack() {
	st.events = append(st.events, "p")
}

func (st *stubTrack) SimilarityFeatures(det stubDet) []float64 {
	return []float64{1.0, -math.Abs(st.lastX - det.x)}
}

func (st *stubTrack) Clone() *stubTrack {
	events := make([]string, len(st.events))
	copy(events, st.events)
	return &stubTrack{events: events, lastX: st.lastX, failOn: st.failOn}
}

func d(name string, label string) LabeledDetection[stubDet, string] {
	return NewLabeledDetection(stubDet{name: name}, label)
}

func dx(name string, x float64, label string) LabeledDetection[stubDet, string] {
	return NewLabeledDetection(stubDet{name: name, x: x}, label)
}
