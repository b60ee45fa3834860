package mot

import (
	"github.com/pkg/errors"
)

// trackSet holds tracks alive within a single history.
// labels maps identity label to index in tracks, so track with label X is tracks[labels[X]].
// Indices never change once assigned.
type trackSet[D any, ID comparable, T Track[D, T]] struct {
	tracks   []T
	labels   map[ID]int
	newTrack NewTrackFunc[T]
}

func newTrackSet[D any, ID comparable, T Track[D, T]](newTrack NewTrackFunc[T]) *trackSet[D, ID, T] {
	return &trackSet[D, ID, T]{
		tracks:   make([]T, 0),
		labels:   make(map[ID]int),
		newTrack: newTrack,
	}
}

// addDetections assigns detections of single time step to tracks (creating new tracks for unknown labels)
// and propagates every track which did not get a detection.
func (ts *trackSet[D, ID, T]) addDetections(step TimeStep[D, ID]) error {
	updated := make([]bool, len(ts.tracks))
	for i := range step {
		label := step[i].Label
		if trackIdx, ok := ts.labels[label]; ok {
			err := ts.tracks[trackIdx].UpdateTrack(step[i].Detection)
			if err != nil {
				return errors.Wrapf(err, "Can't update track %d with detection %d", trackIdx, i)
			}
			updated[trackIdx] = true
			continue
		}
		// This detection creates a new track
		track := ts.newTrack()
		err := track.UpdateTrack(step[i].Detection)
		if err != nil {
			return errors.Wrapf(err, "Can't start new track with detection %d", i)
		}
		ts.tracks = append(ts.tracks, track)
		ts.labels[label] = len(ts.tracks) - 1
	}
	// Tracks created in this step are not in updated and they must not be propagated
	for trackIdx, ok := range updated {
		if !ok {
			ts.tracks[trackIdx].PropagateTrack()
		}
	}
	return nil
}

// correspondences looks up every detection label in current label map
func (ts *trackSet[D, ID, T]) correspondences(step TimeStep[D, ID]) []Correspondence {
	assoc := make([]Correspondence, len(step))
	for i := range step {
		if trackIdx, ok := ts.labels[step[i].Label]; ok {
			assoc[i] = Matched(trackIdx)
		} else {
			assoc[i] = Unmatched()
		}
	}
	return assoc
}

// snapshot returns copy of current tracks
func (ts *trackSet[D, ID, T]) snapshot() []T {
	tracks := make([]T, len(ts.tracks))
	for i := range ts.tracks {
		tracks[i] = ts.tracks[i].Clone()
	}
	return tracks
}
