package mot

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrackSetAddDetections(t *testing.T) {
	ts := newTrackSet[stubDet, string, *stubTrack](newStubTrack)

	err := ts.addDetections(TimeStep[stubDet, string]{d("d0", "a"), d("d1", "b")})
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.tracks) != 2 {
		t.Fatalf("Expected 2 tracks, got %d", len(ts.tracks))
	}
	if ts.labels["a"] != 0 || ts.labels["b"] != 1 {
		t.Errorf("Wrong label map: %v", ts.labels)
	}

	// "b" gets nothing and must be propagated, "c" starts new track and must not be propagated
	err = ts.addDetections(TimeStep[stubDet, string]{d("d2", "a"), d("d3", "c")})
	if err != nil {
		t.Fatal(err)
	}
	if len(ts.tracks) != 3 {
		t.Fatalf("Expected 3 tracks, got %d", len(ts.tracks))
	}
	expected := [][]string{
		{"u:d0", "u:d2"},
		{"u:d1", "p"},
		{"u:d3"},
	}
	for i := range expected {
		if diff := cmp.Diff(expected[i], ts.tracks[i].events); diff != "" {
			t.Errorf("Track %d events mismatch (-want +got):\n%s", i, diff)
		}
	}
	if ts.labels["c"] != 2 {
		t.Errorf("Expected label 'c' at index 2, got %d", ts.labels["c"])
	}
}

func TestTrackSetEmptyStepPropagatesAll(t *testing.T) {
	ts := newTrackSet[stubDet, string, *stubTrack](newStubTrack)
	if err := ts.addDetections(TimeStep[stubDet, string]{d("d0", "a"), d("d1", "b")}); err != nil {
		t.Fatal(err)
	}
	if err := ts.addDetections(TimeStep[stubDet, string]{}); err != nil {
		t.Fatal(err)
	}
	for i, track := range ts.tracks {
		if track.events[len(track.events)-1] != "p" {
			t.Errorf("Track %d should be propagated, events: %v", i, track.events)
		}
	}
}

func TestTrackSetSnapshotIsIndependent(t *testing.T) {
	ts := newTrackSet[stubDet, string, *stubTrack](newStubTrack)
	if err := ts.addDetections(TimeStep[stubDet, string]{d("d0", "a")}); err != nil {
		t.Fatal(err)
	}
	snapshot := ts.snapshot()
	if err := ts.addDetections(TimeStep[stubDet, string]{d("d1", "a")}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"u:d0"}, snapshot[0].events); diff != "" {
		t.Errorf("Snapshot has been mutated (-want +got):\n%s", diff)
	}
}

func TestTrackSetUpdateError(t *testing.T) {
	ts := newTrackSet[stubDet, string, *stubTrack](func() *stubTrack {
		track := newStubTrack()
		track.failOn = "bad"
		return track
	})
	if err := ts.addDetections(TimeStep[stubDet, string]{d("d0", "a")}); err != nil {
		t.Fatal(err)
	}
	if err := ts.addDetections(TimeStep[stubDet, string]{d("bad", "a")}); err == nil {
		t.Error("Expected update error for existing track")
	}
	if err := ts.addDetections(TimeStep[stubDet, string]{d("bad", "z")}); err == nil {
		t.Error("Expected update error for new track")
	}
}
