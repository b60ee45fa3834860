package mot

import "fmt"

// NotMatched is the value expected by assignment trainers for a detection
// which does not belong to any existing track (it starts a new one).
const NotMatched = -1

// Correspondence is the ground-truth answer for one detection in an assignment problem:
// either the index of the matching track or "no match".
type Correspondence struct {
	index   int
	matched bool
}

// Matched creates a correspondence pointing to track with the given index
func Matched(trackIdx int) Correspondence {
	return Correspondence{index: trackIdx, matched: true}
}

// Unmatched creates a correspondence for a detection starting a new track
func Unmatched() Correspondence {
	return Correspondence{}
}

// TrackIndex returns index of the matched track. ok is false for unmatched detections.
func (c Correspondence) TrackIndex() (idx int, ok bool) {
	return c.index, c.matched
}

// IsMatched reports whether detection was associated with an existing track
func (c Correspondence) IsMatched() bool {
	return c.matched
}

// Int returns track index or NotMatched
func (c Correspondence) Int() int {
	if !c.matched {
		return NotMatched
	}
	return c.index
}

func (c Correspondence) String() string {
	if !c.matched {
		return "unmatched"
	}
	return fmt.Sprintf("matched(%d)", c.index)
}

// CorrespondenceInts converts correspondences to the integer form (track index or NotMatched)
func CorrespondenceInts(labels []Correspondence) []int {
	ints := make([]int, len(labels))
	for i, c := range labels {
		ints[i] = c.Int()
	}
	return ints
}
