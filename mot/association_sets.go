package mot

import (
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// BuildAssociationSets converts single track history into assignment problems.
// Step 0 only bootstraps tracks. For every next step t it emits detections at t paired with
// tracks as they were right before t, plus ground-truth correspondences, and only then
// feeds step t into the tracks.
// Empty history and history with single step produce no output.
func BuildAssociationSets[D any, ID comparable, T Track[D, T]](history TrackHistory[D, ID], newTrack NewTrackFunc[T]) ([]AssignmentProblem[D, T], [][]Correspondence, error) {
	problems := make([]AssignmentProblem[D, T], 0, max(len(history)-1, 0))
	labels := make([][]Correspondence, 0, max(len(history)-1, 0))
	if len(history) < 1 {
		return problems, labels, nil
	}
	tracks := newTrackSet[D, ID, T](newTrack)
	err := tracks.addDetections(history[0])
	if err != nil {
		return nil, nil, errors.Wrap(err, "Can't bootstrap tracks at time step 0")
	}
	for t := 1; t < len(history); t++ {
		problems = append(problems, AssignmentProblem[D, T]{
			Detections: history[t].Detections(),
			Tracks:     tracks.snapshot(),
		})
		labels = append(labels, tracks.correspondences(history[t]))
		err = tracks.addDetections(history[t])
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Can't add detections at time step %d", t)
		}
	}
	return problems, labels, nil
}

// TrainingSet is flattened collection of assignment problems built from several histories.
// Problems[i] is answered by Correspondences[i].
type TrainingSet[D any, T any] struct {
	Problems        []AssignmentProblem[D, T]
	Correspondences [][]Correspondence
}

// Len returns number of assignment problems
func (set *TrainingSet[D, T]) Len() int {
	return len(set.Problems)
}

// Labels returns correspondences in integer form: track index or NotMatched
func (set *TrainingSet[D, T]) Labels() [][]int {
	labels := make([][]int, len(set.Correspondences))
	for i := range set.Correspondences {
		labels[i] = CorrespondenceInts(set.Correspondences[i])
	}
	return labels
}

type historySets[D any, T any] struct {
	problems []AssignmentProblem[D, T]
	labels   [][]Correspondence
}

// BuildTrainingSet runs BuildAssociationSets over every history and concatenates results
// in history order, then time step order.
// Histories are converted concurrently with at most workers goroutines; workers <= 1 means sequential processing.
// The output does not depend on the number of workers.
func BuildTrainingSet[D any, ID comparable, T Track[D, T]](histories []TrackHistory[D, ID], newTrack NewTrackFunc[T], workers int) (*TrainingSet[D, T], error) {
	perHistory := make([]historySets[D, T], len(histories))
	if workers <= 1 {
		for i := range histories {
			problems, labels, err := BuildAssociationSets(histories[i], newTrack)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't convert history %d", i)
			}
			perHistory[i] = historySets[D, T]{problems: problems, labels: labels}
		}
	} else {
		var g errgroup.Group
		g.SetLimit(workers)
		for i := range histories {
			i := i
			g.Go(func() error {
				problems, labels, err := BuildAssociationSets(histories[i], newTrack)
				if err != nil {
					return errors.Wrapf(err, "Can't convert history %d", i)
				}
				// Each goroutine owns its own slot
				perHistory[i] = historySets[D, T]{problems: problems, labels: labels}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	total := 0
	for i := range perHistory {
		total += len(perHistory[i].problems)
	}
	set := &TrainingSet[D, T]{
		Problems:        make([]AssignmentProblem[D, T], 0, total),
		Correspondences: make([][]Correspondence, 0, total),
	}
	for i := range perHistory {
		set.Problems = append(set.Problems, perHistory[i].problems...)
		set.Correspondences = append(set.Correspondences, perHistory[i].labels...)
	}
	return set, nil
}
