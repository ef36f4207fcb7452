package systems

import "math"

// Epsilon is the shortest separation treated as a real pair. Closer pairs
// are skipped since their direction is undefined.
const Epsilon = 1e-9

// epsilonSq is Epsilon squared, compared against squared distances.
const epsilonSq = Epsilon * Epsilon

// minFloat returns the smaller of a and b.
func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// distanceToEdge returns how far (x, y) is from the nearest edge of a w×h box.
func distanceToEdge(x, y, w, h float64) float64 {
	return minFloat(minFloat(x, w-x), minFloat(y, h-y))
}

// bucketCoord truncates a coordinate to its bucket index.
func bucketCoord(v, invCell float64) int32 {
	return int32(math.Floor(v * invCell))
}
