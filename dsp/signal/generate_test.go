package signal

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/internal/testutil"
)

func TestSine_KnownSamples(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))

	x, err := g.Sine(250, 1, 5)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	want := []float64{0, 1, 0, -1, 0}
	for i, w := range want {
		if math.Abs(x[i]-w) > 1e-12 {
			t.Errorf("x[%d] = %v, want %v", i, x[i], w)
		}
	}
}

func TestSine_Validation(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(1000))

	if _, err := g.Sine(100, 1, 0); err == nil {
		t.Error("zero samples should fail")
	}
}

func TestVibratoSine_ZeroDepthMatchesSine(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	plain, err := g.Sine(440, 0.5, 4800)
	if err != nil {
		t.Fatalf("Sine: %v", err)
	}

	modulated, err := g.VibratoSine(440, 6, 0, 0.5, 4800)
	if err != nil {
		t.Fatalf("VibratoSine: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, modulated, plain, 1e-9)
}

func TestVibratoSine_DepthValidation(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	if _, err := g.VibratoSine(440, 6, -1, 1, 100); err == nil {
		t.Error("negative depth should fail")
	}
}

func TestGlissando_EndsNearTargetFrequency(t *testing.T) {
	const sampleRate = 48000

	g := NewGenerator(core.WithSampleRate(sampleRate))

	x, err := g.Glissando(220, 440, 1, sampleRate) // one second
	if err != nil {
		t.Fatalf("Glissando: %v", err)
	}

	// Estimate the instantaneous frequency at both ends from zero
	// crossings over a short window.
	first := zeroCrossingFreq(x[:4800], sampleRate)
	last := zeroCrossingFreq(x[len(x)-4800:], sampleRate)

	if math.Abs(first-220)/220 > 0.1 {
		t.Errorf("start frequency ~%.1f Hz, want ~220", first)
	}

	if math.Abs(last-440)/440 > 0.1 {
		t.Errorf("end frequency ~%.1f Hz, want ~440", last)
	}

	if last <= first {
		t.Error("frequency should rise over the slide")
	}
}

func TestGlissando_Validation(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))

	if _, err := g.Glissando(0, 440, 1, 100); err == nil {
		t.Error("zero start frequency should fail")
	}
}

func TestWhiteNoise_DeterministicPerSeed(t *testing.T) {
	a := NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(48000)}, WithSeed(7))
	b := NewGeneratorWithOptions([]core.ProcessorOption{core.WithSampleRate(48000)}, WithSeed(7))

	xa, err := a.WhiteNoise(0.5, 256)
	if err != nil {
		t.Fatalf("WhiteNoise: %v", err)
	}

	xb, _ := b.WhiteNoise(0.5, 256)

	for i := range xa {
		if xa[i] != xb[i] {
			t.Fatalf("sample %d differs across identical seeds", i)
		}

		if math.Abs(xa[i]) > 0.5 {
			t.Fatalf("sample %d = %v exceeds amplitude", i, xa[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	out, err := Normalize([]float64{-0.5, 0.25, 1}, 0.8)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := []float64{-0.4, 0.2, 0.8}
	for i, w := range want {
		if math.Abs(out[i]-w) > 1e-12 {
			t.Errorf("out[%d] = %v, want %v", i, out[i], w)
		}
	}

	if _, err := Normalize(nil, 1); err == nil {
		t.Error("empty input should fail")
	}
}

// zeroCrossingFreq estimates frequency from positive-going zero crossings.
func zeroCrossingFreq(x []float64, sampleRate float64) float64 {
	crossings := 0
	firstIdx, lastIdx := -1, -1

	for i := 1; i < len(x); i++ {
		if x[i-1] < 0 && x[i] >= 0 {
			crossings++
			if firstIdx < 0 {
				firstIdx = i
			}
			lastIdx = i
		}
	}

	if crossings < 2 {
		return 0
	}

	return float64(crossings-1) * sampleRate / float64(lastIdx-firstIdx)
}
