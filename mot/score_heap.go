package mot

import "container/heap"

// scoredPair holds detection/track indices with their association score
type scoredPair struct {
	detIdx   int
	trackIdx int
	score    float64
}

// scoreHeap implements heap.Interface for max-heap by score
type scoreHeap []scoredPair

func (h scoreHeap) Len() int { return len(h) }

// Less returns true if i has higher score (max-heap). Ties are broken by indices to keep greedy matching deterministic
func (h scoreHeap) Less(i, j int) bool {
	if h[i].score != h[j].score {
		return h[i].score > h[j].score
	}
	if h[i].detIdx != h[j].detIdx {
		return h[i].detIdx < h[j].detIdx
	}
	return h[i].trackIdx < h[j].trackIdx
}

func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scoreHeap) Push(x any) {
	*h = append(*h, x.(scoredPair))
}

func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[0 : n-1]
	return item
}

// greedyAssign matches pairs from highest score to lowest. Only pairs with positive score are considered.
// Returns track index for every detection or NotMatched.
func greedyAssign(scores [][]float64, numTracks int) []int {
	assignment := make([]int, len(scores))
	for i := range assignment {
		assignment[i] = NotMatched
	}
	greedyComplete(scores, numTracks, assignment)
	return assignment
}

// greedyComplete extends partial assignment in place with positive pairs whose detection and track are both free
func greedyComplete(scores [][]float64, numTracks int, assignment []int) {
	reservedTracks := make(map[int]struct{})
	for _, trackIdx := range assignment {
		if trackIdx != NotMatched {
			reservedTracks[trackIdx] = struct{}{}
		}
	}
	pq := make(scoreHeap, 0)
	for i := range scores {
		if assignment[i] != NotMatched {
			continue
		}
		for j := 0; j < numTracks; j++ {
			if _, ok := reservedTracks[j]; ok {
				continue
			}
			if scores[i][j] > 0 {
				pq = append(pq, scoredPair{detIdx: i, trackIdx: j, score: scores[i][j]})
			}
		}
	}
	heap.Init(&pq)
	for pq.Len() > 0 {
		item := heap.Pop(&pq).(scoredPair)
		if assignment[item.detIdx] != NotMatched {
			continue
		}
		if _, ok := reservedTracks[item.trackIdx]; ok {
			continue
		}
		assignment[item.detIdx] = item.trackIdx
		reservedTracks[item.trackIdx] = struct{}{}
	}
}
