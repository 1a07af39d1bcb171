package results

// Body pose ranges whose decoded values are unreliable (feet and hands).
// Each pair is [start, end); end < 0 means to the end of the pose.
var unreliableRanges = [][2]int{
	{18, 24},
	{27, 33},
	{57, -1},
}

// ZeroUnreliable zeroes the foot and hand ranges of bodyPose in place.
// Ranges past the end of the slice are clamped.
func ZeroUnreliable(bodyPose []float64) {
	n := len(bodyPose)
	for _, r := range unreliableRanges {
		start, end := r[0], r[1]
		if end < 0 || end > n {
			end = n
		}
		for i := start; i < end; i++ {
			bodyPose[i] = 0
		}
	}
}

// fullPose is globalOrient followed by bodyPose.
func fullPose(globalOrient, bodyPose []float64) []float64 {
	out := make([]float64, 0, len(globalOrient)+len(bodyPose))
	out = append(out, globalOrient...)
	return append(out, bodyPose...)
}
