package mot

import "github.com/pkg/errors"

// ValidateTrackAssociationProblem checks that histories form a track association problem:
// there is at least one history and no identity label repeats within a single time step.
// Returned error wraps ErrMalformedProblem.
func ValidateTrackAssociationProblem[D any, ID comparable](histories []TrackHistory[D, ID]) error {
	if len(histories) == 0 {
		return errors.Wrap(ErrMalformedProblem, "no track histories")
	}
	for i := range histories {
		for j := range histories[i] {
			seen := make(map[ID]struct{}, len(histories[i][j]))
			for k := range histories[i][j] {
				label := histories[i][j][k].Label
				if _, ok := seen[label]; ok {
					return errors.Wrapf(ErrMalformedProblem, "history %d, time step %d: label %v is used by more than one detection", i, j, label)
				}
				seen[label] = struct{}{}
			}
		}
	}
	return nil
}

// IsTrackAssociationProblem returns true if ValidateTrackAssociationProblem accepts histories
func IsTrackAssociationProblem[D any, ID comparable](histories []TrackHistory[D, ID]) bool {
	return ValidateTrackAssociationProblem(histories) == nil
}
