package engine

import "math"

// meanStdDev returns the mean and population standard deviation (divisor n).
func meanStdDev(samples []int) (mean, std float64) {
	if len(samples) == 0 {
		return math.NaN(), math.NaN()
	}

	sum := 0.0
	for _, v := range samples {
		sum += float64(v)
	}
	mean = sum / float64(len(samples))

	sq := 0.0
	for _, v := range samples {
		d := float64(v) - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / float64(len(samples)))
}
