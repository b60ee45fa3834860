package mot

// IoU calculates Intersection over Union between two rectangles.
// Returns 0 for disjoint or degenerate rectangles.
func IoU(r1, r2 Rectangle) float64 {
	xA := maxFloat64(r1.X, r2.X)
	yA := maxFloat64(r1.Y, r2.Y)
	xB := minFloat64(r1.X+r1.Width, r2.X+r2.Width)
	yB := minFloat64(r1.Y+r1.Height, r2.Y+r2.Height)

	interArea := maxFloat64(0, xB-xA) * maxFloat64(0, yB-yA)
	if interArea == 0 {
		return 0.0
	}
	union := r1.Area() + r2.Area() - interArea
	if union <= 0 {
		return 0.0
	}
	return interArea / union
}

// sizeRatio returns min(a, b)/max(a, b) in [0, 1]
func sizeRatio(a, b float64) float64 {
	hi := maxFloat64(a, b)
	if hi <= 0 {
		return 0.0
	}
	return maxFloat64(0, minFloat64(a, b)) / hi
}

// closeness converts non-negative distance into (0, 1] similarity
func closeness(distance, scale float64) float64 {
	if scale > 0 {
		distance /= scale
	}
	return 1.0 / (1.0 + distance)
}

func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
