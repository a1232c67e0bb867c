package testutil

import (
	"math"
	"math/rand"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// VibratoSine generates a sine wave whose instantaneous frequency is
// modulated sinusoidally: carrier freqHz, modulation rate rateHz, and peak
// deviation depthHz. Phase is integrated per sample so the modulation is
// exact for any rate.
func VibratoSine(freqHz, rateHz, depthHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	var phase float64
	for i := range out {
		t := float64(i) / sampleRate
		inst := freqHz + depthHz*math.Sin(2*math.Pi*rateHz*t)
		phase += 2 * math.Pi * inst / sampleRate
		out[i] = amplitude * math.Sin(phase)
	}

	return out
}
