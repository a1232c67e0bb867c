package pitch

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-pitch/internal/testutil"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New should fail for zero sample rate")
	}

	if _, err := New(-48000); err == nil {
		t.Error("New should fail for negative sample rate")
	}

	if _, err := New(math.NaN()); err == nil {
		t.Error("New should fail for NaN sample rate")
	}

	if _, err := New(48000, WithFrequencyBand(100, 30000)); err == nil {
		t.Error("New should fail for max frequency above Nyquist")
	}

	if _, err := New(48000); err != nil {
		t.Fatalf("New(48000): %v", err)
	}
}

func TestEstimate_SineAccuracy(t *testing.T) {
	sampleRate := 48000.0

	est, err := New(sampleRate)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, freq := range []float64{196, 293.66, 440, 880, 1760} {
		sig := testutil.DeterministicSine(freq, sampleRate, 0.5, 2048)
		res := est.Estimate(sig)

		if res.Frequency == 0 {
			t.Fatalf("freq %v: no pitch detected", freq)
		}

		if relErr := math.Abs(res.Frequency-freq) / freq; relErr > 0.01 {
			t.Errorf("freq %v: got %v (rel err %v > 1%%)", freq, res.Frequency, relErr)
		}

		if res.Confidence <= 0.9 {
			t.Errorf("freq %v: confidence %v, want > 0.9", freq, res.Confidence)
		}
	}
}

func TestEstimate_OutOfBand(t *testing.T) {
	sampleRate := 48000.0

	est, err := New(sampleRate, WithFrequencyBand(180, 3000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Clean sines outside the band must be rejected outright.
	for _, freq := range []float64{60, 100, 5000, 10000} {
		sig := testutil.DeterministicSine(freq, sampleRate, 0.5, 2048)

		res := est.Estimate(sig)
		if res.Frequency != 0 || res.Confidence != 0 {
			t.Errorf("freq %v: got %+v, want zero Result", freq, res)
		}
	}
}

func TestEstimate_DegenerateInput(t *testing.T) {
	est, _ := New(48000)

	if res := est.Estimate(nil); res != (Result{}) {
		t.Errorf("nil frame: got %+v, want zero Result", res)
	}

	if res := est.Estimate([]float64{1, -1, 1}); res != (Result{}) {
		t.Errorf("3-sample frame: got %+v, want zero Result", res)
	}

	if res := est.Estimate(make([]float64, 2048)); res != (Result{}) {
		t.Errorf("silent frame: got %+v, want zero Result", res)
	}
}

func TestEstimate_NoiseLowConfidence(t *testing.T) {
	est, _ := New(48000)

	noise := testutil.DeterministicNoise(1, 0.5, 2048)

	res := est.Estimate(noise)
	if res.Confidence > 0.5 {
		t.Errorf("white noise confidence %v, want <= 0.5", res.Confidence)
	}
}

func TestRMS(t *testing.T) {
	est, _ := New(48000)

	if got := est.RMS(make([]float64, 512)); got != 0 {
		t.Errorf("RMS(zeros) = %v, want exactly 0", got)
	}

	const amp = 0.25

	sig := testutil.DeterministicSine(440, 48000, amp, 2048)
	want := amp / math.Sqrt2

	if got := est.RMS(sig); math.Abs(got-want) > 0.02*want {
		t.Errorf("RMS(sine) = %v, want %v ±2%%", got, want)
	}
}

func TestEstimateAudible(t *testing.T) {
	est, _ := New(48000)

	sig := testutil.DeterministicSine(440, 48000, 0.5, 2048)

	res, rms := est.EstimateAudible(sig, 0.01)
	if res.Frequency == 0 {
		t.Error("audible frame should be estimated")
	}

	if rms <= 0.01 {
		t.Errorf("rms = %v, want > 0.01", rms)
	}

	// Below the gate, estimation is skipped entirely.
	quiet := testutil.DeterministicSine(440, 48000, 0.001, 2048)

	res, rms = est.EstimateAudible(quiet, 0.01)
	if res != (Result{}) {
		t.Errorf("quiet frame: got %+v, want zero Result", res)
	}

	if rms >= 0.01 {
		t.Errorf("quiet rms = %v, want < 0.01", rms)
	}
}

func TestSetFrequencyBand(t *testing.T) {
	est, _ := New(48000)

	if err := est.SetFrequencyBand(200, 1000); err != nil {
		t.Fatalf("SetFrequencyBand: %v", err)
	}

	if est.MinFrequency() != 200 || est.MaxFrequency() != 1000 {
		t.Errorf("band = [%v, %v], want [200, 1000]",
			est.MinFrequency(), est.MaxFrequency())
	}

	// 1760 Hz is now out of band.
	sig := testutil.DeterministicSine(1760, 48000, 0.5, 2048)
	if res := est.Estimate(sig); res.Frequency != 0 {
		t.Errorf("out-of-band after SetFrequencyBand: got %+v", res)
	}

	if err := est.SetFrequencyBand(1000, 500); err == nil {
		t.Error("SetFrequencyBand should fail for inverted band")
	}

	if err := est.SetFrequencyBand(0, 500); err == nil {
		t.Error("SetFrequencyBand should fail for zero min")
	}

	if err := est.SetFrequencyBand(100, 48000); err == nil {
		t.Error("SetFrequencyBand should fail above Nyquist")
	}
}

func TestSetThreshold(t *testing.T) {
	est, _ := New(48000)

	if err := est.SetThreshold(0.15); err != nil {
		t.Fatalf("SetThreshold: %v", err)
	}

	if est.Threshold() != 0.15 {
		t.Errorf("Threshold = %v, want 0.15", est.Threshold())
	}

	for _, bad := range []float64{0, 1, -0.1, math.NaN()} {
		if err := est.SetThreshold(bad); err == nil {
			t.Errorf("SetThreshold(%v) should fail", bad)
		}
	}
}

func TestEstimate_VaryingFrameLength(t *testing.T) {
	est, _ := New(48000)

	// Scratch buffers must re-size cleanly between calls.
	for _, n := range []int{1024, 2048, 1024, 4096} {
		sig := testutil.DeterministicSine(440, 48000, 0.5, n)

		res := est.Estimate(sig)
		if res.Frequency == 0 {
			t.Fatalf("length %d: no pitch detected", n)
		}

		if relErr := math.Abs(res.Frequency-440) / 440; relErr > 0.01 {
			t.Errorf("length %d: got %v", n, res.Frequency)
		}
	}
}

func TestEstimate_TracksVibrato(t *testing.T) {
	const (
		sampleRate = 48000.0
		carrier    = 440.0
		depth      = 4.0 // Hz
		frameLen   = 2048
	)

	est, _ := New(sampleRate)

	sig := testutil.VibratoSine(carrier, 5.5, depth, sampleRate, 0.5, 10*frameLen)
	testutil.RequireFinite(t, sig)

	var freqs []float64

	for off := 0; off+frameLen <= len(sig); off += frameLen {
		res := est.Estimate(sig[off : off+frameLen])
		if res.Frequency == 0 {
			t.Fatalf("frame at %d: no pitch detected", off)
		}

		freqs = append(freqs, res.Frequency)
	}

	sum := 0.0
	for _, f := range freqs {
		sum += f
	}

	// Per-frame estimates wander with the modulation but must average out
	// to the carrier, and never stray beyond the peak deviation by much.
	testutil.RequireRelNear(t, sum/float64(len(freqs)), carrier, 0.01)

	for i, f := range freqs {
		if math.Abs(f-carrier) > 2*depth {
			t.Errorf("frame %d: frequency %v strays beyond the modulation depth", i, f)
		}
	}
}

func BenchmarkEstimate(b *testing.B) {
	est, _ := New(48000)
	sig := testutil.DeterministicSine(440, 48000, 0.5, 2048)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		est.Estimate(sig)
	}
}
