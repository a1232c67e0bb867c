package series

import "math"

// LinearRegression fits y = slope*x + intercept by least squares.
// Returns (0, mean of y) when fewer than two points are given or when all
// x values coincide.
func LinearRegression(x, y []float64) (slope, intercept float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	if n == 0 {
		return 0, 0
	}

	if n < 2 {
		return 0, y[0]
	}

	meanX := Mean(x[:n])
	meanY := Mean(y[:n])

	var sxx, sxy float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		sxx += dx * dx
		sxy += dx * (y[i] - meanY)
	}

	if sxx == 0 {
		return 0, meanY
	}

	slope = sxy / sxx

	return slope, meanY - slope*meanX
}

// Detrend subtracts the least-squares line of y over x, returning the
// residuals as a new slice. The shorter of the two slices bounds the result.
func Detrend(x, y []float64) []float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}

	slope, intercept := LinearRegression(x[:n], y[:n])

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = y[i] - (slope*x[i] + intercept)
	}

	return out
}

// NormalizedAutocorrelation returns the normalized dot-product correlation
// between the series and itself shifted by lag samples. The result lies in
// [-1, 1]; degenerate inputs (lag out of range, too few overlapping points,
// zero energy) yield 0.
func NormalizedAutocorrelation(values []float64, lag int) float64 {
	if lag <= 0 || lag >= len(values) {
		return 0
	}

	n := len(values) - lag
	if n < 2 {
		return 0
	}

	var dot, energyA, energyB float64
	for i := 0; i < n; i++ {
		a := values[i]
		b := values[i+lag]
		dot += a * b
		energyA += a * a
		energyB += b * b
	}

	den := energyA * energyB
	if den <= 0 {
		return 0
	}

	return dot / math.Sqrt(den)
}
