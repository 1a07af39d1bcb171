package loss

import "math"

// RelChange is the relative decrease from prev to curr, scaled by the larger
// magnitude of the two (at least 1). Fitting stops once it falls below a
// tolerance.
func RelChange(prev, curr float64) float64 {
	return (prev - curr) / math.Max(math.Max(math.Abs(prev), math.Abs(curr)), 1)
}
