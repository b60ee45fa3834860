package mot

import "math"

// optimalAssign finds detection to track assignment with maximum total score using
// Kuhn-Munkres algorithm with row/column potentials. O(n^3) where n = max(detections, tracks).
// Non-positive scores are never assigned: they carry the same weight as leaving a detection unmatched.
// Returns track index for every detection or NotMatched.
func optimalAssign(scores [][]float64, numTracks int) []int {
	numDets := len(scores)
	assignment := make([]int, numDets)
	for i := range assignment {
		assignment[i] = NotMatched
	}
	if numDets == 0 || numTracks == 0 {
		return assignment
	}

	// Square cost matrix (minimization). Padding cells and non-positive scores cost 0
	n := maxInt(numDets, numTracks)
	cost := make([][]float64, n)
	for i := 0; i < n; i++ {
		cost[i] = make([]float64, n)
		if i >= numDets {
			continue
		}
		for j := 0; j < numTracks; j++ {
			cost[i][j] = -maxFloat64(0, scores[i][j])
		}
	}

	const inf = math.MaxFloat64 / 2
	// 1-indexed. Column 0 is virtual
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	rowOf := make([]int, n+1)
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for i := 1; i <= n; i++ {
		rowOf[0] = i
		j0 := 0
		for j := 1; j <= n; j++ {
			minv[j] = inf
			used[j] = false
		}
		for {
			used[j0] = true
			i0 := rowOf[j0]
			delta := inf
			j1 := -1
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			if j1 < 0 {
				break
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[rowOf[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOf[j0] == 0 {
				break
			}
		}
		// Augmenting path
		for j0 != 0 {
			rowOf[j0] = rowOf[way[j0]]
			j0 = way[j0]
		}
	}

	for j := 1; j <= n; j++ {
		detIdx, trackIdx := rowOf[j]-1, j-1
		if detIdx < 0 || detIdx >= numDets || trackIdx >= numTracks {
			continue
		}
		if scores[detIdx][trackIdx] > 0 {
			assignment[detIdx] = trackIdx
		}
	}
	return assignment
}
