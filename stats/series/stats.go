// Package series provides statistics over sampled value series: moments,
// RMS, least-squares trends, and lag-domain autocorrelation. All functions
// resolve degenerate inputs (empty slices, zero variance, zero denominators)
// to zero values rather than returning errors, so they are safe to call from
// real-time analysis paths.
package series

import "math"

// Mean returns the arithmetic mean of the series.
// Uses Kahan summation for numerical stability.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum, c float64
	for _, x := range values {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(values))
}

// RMS returns the root-mean-square of the series.
func RMS(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range values {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(values)))
}

// StdDev returns the population standard deviation of the series.
func StdDev(values []float64) float64 {
	_, variance, _, _ := Moments(values)
	if variance <= 0 {
		return 0
	}

	return math.Sqrt(variance)
}

// Moments returns the mean, population variance, skewness, and excess
// kurtosis of the series using Welford's online algorithm for numerical
// stability on higher-order moments.
func Moments(values []float64) (mean, variance, skewness, kurtosis float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	var m2, m3, m4 float64

	for i, x := range values {
		ni := float64(i + 1)
		delta := x - mean
		deltaN := delta / ni
		deltaN2 := deltaN * deltaN
		term1 := delta * deltaN * float64(i)

		// M4 must be updated before M3, and M3 before M2.
		m4 += term1*deltaN2*(ni*ni-3*ni+3) + 6*deltaN2*m2 - 4*deltaN*m3
		m3 += term1*deltaN*(float64(i)-1) - 3*deltaN*m2
		m2 += term1
		mean += deltaN
	}

	nf := float64(n)

	variance = m2 / nf
	if variance > 0 {
		skewness = (m3 / nf) / (variance * math.Sqrt(variance))
		kurtosis = (m4/nf)/(variance*variance) - 3
	}

	return mean, variance, skewness, kurtosis
}
