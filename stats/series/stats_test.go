package series

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	if got := Mean(nil); got != 0 {
		t.Errorf("Mean(nil) = %v, want 0", got)
	}

	if got := Mean([]float64{1, 2, 3, 4}); got != 2.5 {
		t.Errorf("Mean = %v, want 2.5", got)
	}
}

func TestRMS(t *testing.T) {
	if got := RMS(nil); got != 0 {
		t.Errorf("RMS(nil) = %v, want 0", got)
	}

	if got := RMS([]float64{0, 0, 0}); got != 0 {
		t.Errorf("RMS(zeros) = %v, want 0", got)
	}

	if got := RMS([]float64{1, -1, 1, -1}); got != 1 {
		t.Errorf("RMS(±1) = %v, want 1", got)
	}

	// RMS of a full-cycle sine of amplitude A is A/sqrt(2).
	const amp = 0.5

	sig := make([]float64, 1000)
	for i := range sig {
		sig[i] = amp * math.Sin(2*math.Pi*float64(i)/float64(len(sig)))
	}

	want := amp / math.Sqrt2
	if got := RMS(sig); math.Abs(got-want) > 0.02*want {
		t.Errorf("RMS(sine) = %v, want %v ±2%%", got, want)
	}
}

func TestStdDev(t *testing.T) {
	if got := StdDev([]float64{5, 5, 5}); got != 0 {
		t.Errorf("StdDev(constant) = %v, want 0", got)
	}

	// Population stddev of {1, 3} is 1.
	if got := StdDev([]float64{1, 3}); math.Abs(got-1) > 1e-12 {
		t.Errorf("StdDev = %v, want 1", got)
	}
}

func TestMoments(t *testing.T) {
	mean, variance, skewness, kurtosis := Moments(nil)
	if mean != 0 || variance != 0 || skewness != 0 || kurtosis != 0 {
		t.Error("Moments(nil) should be all zero")
	}

	mean, variance, _, _ = Moments([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(mean-5) > 1e-12 {
		t.Errorf("mean = %v, want 5", mean)
	}

	if math.Abs(variance-4) > 1e-12 {
		t.Errorf("variance = %v, want 4", variance)
	}

	// A symmetric series has zero skewness.
	_, _, skewness, _ = Moments([]float64{-2, -1, 0, 1, 2})
	if math.Abs(skewness) > 1e-12 {
		t.Errorf("skewness = %v, want 0", skewness)
	}
}
