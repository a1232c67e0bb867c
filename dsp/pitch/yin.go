package pitch

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/stats/series"
)

// minFrameLen is the shortest frame the estimator will analyze.
const minFrameLen = 4

// Result holds one fundamental-frequency estimate.
//
// A zero Result means no pitch was detected; Confidence is 0 whenever
// Frequency is 0.
type Result struct {
	Frequency  float64 // Hz, 0 when undetected
	Confidence float64 // 0..1, aperiodicity-based
}

// Estimator is a YIN fundamental-frequency estimator.
//
// The estimator is stateless with respect to the audio stream: each call to
// Estimate analyzes one frame in isolation. Internal FFT scratch buffers are
// reused across calls, so a single Estimator must not be shared between
// concurrent frame streams; independent instances are fully independent.
type Estimator struct {
	sampleRate float64
	minFreq    float64
	maxFreq    float64
	threshold  float64

	// FFT scratch, sized lazily from the first frame length seen.
	frameLen int
	fftSize  int
	plan     *algofft.Plan[complex128]
	timeBuf  []complex128
	freqBuf  []complex128
	specRe   []float64
	specIm   []float64
	power    []float64

	// Difference-function scratch.
	diff   []float64
	cmnd   []float64
	prefix []float64
}

// New creates a YIN estimator for the given sample rate.
func New(sampleRate float64, opts ...EstimatorOption) (*Estimator, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("pitch: sample rate must be positive and finite: %v", sampleRate)
	}

	cfg := ApplyEstimatorOptions(opts...)
	if cfg.MinFrequency <= 0 {
		return nil, fmt.Errorf("pitch: min frequency must be > 0: %v", cfg.MinFrequency)
	}

	if cfg.MaxFrequency <= cfg.MinFrequency {
		return nil, fmt.Errorf("pitch: max frequency must exceed min frequency: %v <= %v",
			cfg.MaxFrequency, cfg.MinFrequency)
	}

	if cfg.MaxFrequency > sampleRate/2 {
		return nil, fmt.Errorf("pitch: max frequency must not exceed Nyquist: %v > %v",
			cfg.MaxFrequency, sampleRate/2)
	}

	return &Estimator{
		sampleRate: sampleRate,
		minFreq:    cfg.MinFrequency,
		maxFreq:    cfg.MaxFrequency,
		threshold:  cfg.Threshold,
	}, nil
}

// SampleRate returns the configured sample rate in Hz.
func (e *Estimator) SampleRate() float64 { return e.sampleRate }

// MinFrequency returns the lower edge of the detection band in Hz.
func (e *Estimator) MinFrequency() float64 { return e.minFreq }

// MaxFrequency returns the upper edge of the detection band in Hz.
func (e *Estimator) MaxFrequency() float64 { return e.maxFreq }

// Threshold returns the YIN absolute threshold.
func (e *Estimator) Threshold() float64 { return e.threshold }

// SetFrequencyBand updates the accepted fundamental range at runtime.
func (e *Estimator) SetFrequencyBand(minHz, maxHz float64) error {
	if minHz <= 0 || math.IsNaN(minHz) || math.IsInf(minHz, 0) {
		return fmt.Errorf("pitch: min frequency must be > 0: %v", minHz)
	}

	if maxHz <= minHz || math.IsNaN(maxHz) || math.IsInf(maxHz, 0) {
		return fmt.Errorf("pitch: max frequency must exceed min frequency: %v <= %v", maxHz, minHz)
	}

	if maxHz > e.sampleRate/2 {
		return fmt.Errorf("pitch: max frequency must not exceed Nyquist: %v > %v", maxHz, e.sampleRate/2)
	}

	e.minFreq = minHz
	e.maxFreq = maxHz

	return nil
}

// SetThreshold updates the YIN absolute threshold.
func (e *Estimator) SetThreshold(threshold float64) error {
	if threshold < minThreshold || threshold > maxThreshold ||
		math.IsNaN(threshold) || math.IsInf(threshold, 0) {
		return fmt.Errorf("pitch: threshold must be in [%v, %v]: %v",
			minThreshold, maxThreshold, threshold)
	}

	e.threshold = threshold

	return nil
}

// RMS returns the root-mean-square amplitude of the frame.
func (e *Estimator) RMS(frame []float64) float64 {
	return series.RMS(frame)
}

// EstimateAudible runs Estimate only when the frame's RMS exceeds minRMS,
// skipping the FFT work on silence. It returns the estimate together with
// the measured RMS.
func (e *Estimator) EstimateAudible(frame []float64, minRMS float64) (Result, float64) {
	rms := series.RMS(frame)
	if rms < minRMS {
		return Result{}, rms
	}

	return e.Estimate(frame), rms
}

// Estimate returns the fundamental frequency and detection confidence for
// one frame of samples. It never fails: frames that are too short, silent,
// aperiodic, or whose detected frequency falls outside the configured band
// yield the zero Result.
func (e *Estimator) Estimate(frame []float64) Result {
	n := len(frame)
	if n < minFrameLen {
		return Result{}
	}

	maxLag := int(e.sampleRate / e.minFreq)
	if maxLag > n/2 {
		maxLag = n / 2
	}

	if maxLag < 2 {
		return Result{}
	}

	if !e.ensureScratch(n) {
		return Result{}
	}

	e.differenceFunction(frame, maxLag)
	e.normalizeDifference(maxLag)

	tau := e.pickLag(maxLag)
	if tau <= 0 {
		return Result{}
	}

	refined := e.refineLag(tau, maxLag)

	freq := e.sampleRate / refined
	if freq < e.minFreq || freq > e.maxFreq {
		return Result{}
	}

	return Result{
		Frequency:  freq,
		Confidence: core.Clamp(1-e.cmnd[tau], 0, 1),
	}
}

// ensureScratch sizes the FFT plan and scratch buffers for frames of length
// n. Returns false if a plan cannot be created.
func (e *Estimator) ensureScratch(n int) bool {
	if n == e.frameLen && e.plan != nil {
		return true
	}

	fftSize := nextPowerOf2(2 * n)
	if fftSize != e.fftSize || e.plan == nil {
		plan, err := algofft.NewPlan64(fftSize)
		if err != nil {
			return false
		}

		e.plan = plan
		e.fftSize = fftSize
		e.timeBuf = make([]complex128, fftSize)
		e.freqBuf = make([]complex128, fftSize)
		e.specRe = make([]float64, fftSize)
		e.specIm = make([]float64, fftSize)
		e.power = make([]float64, fftSize)
	}

	e.frameLen = n
	e.diff = core.EnsureLen(e.diff, n)
	e.cmnd = core.EnsureLen(e.cmnd, n)
	e.prefix = core.EnsureLen(e.prefix, n+1)

	return true
}

// differenceFunction fills e.diff[0..maxLag] with the YIN difference
// d(tau) = sum (x[i] - x[i+tau])^2, computed via the autocorrelation
// identity d(tau) = E(0, n-tau) + E(tau, n) - 2*acf(tau).
func (e *Estimator) differenceFunction(frame []float64, maxLag int) {
	n := len(frame)

	// Zero-pad and FFT the frame.
	for i, v := range frame {
		e.timeBuf[i] = complex(v, 0)
	}

	for i := n; i < e.fftSize; i++ {
		e.timeBuf[i] = 0
	}

	if err := e.plan.Forward(e.freqBuf, e.timeBuf); err != nil {
		core.Zero(e.diff)
		return
	}

	// Power spectrum |X[k]|^2 via SIMD kernels.
	for i, c := range e.freqBuf {
		e.specRe[i] = real(c)
		e.specIm[i] = imag(c)
	}

	vecmath.Power(e.power, e.specRe, e.specIm)

	for i, p := range e.power {
		e.timeBuf[i] = complex(p, 0)
	}

	if err := e.plan.Inverse(e.freqBuf, e.timeBuf); err != nil {
		core.Zero(e.diff)
		return
	}

	// Prefix energies for the windowed-energy terms.
	e.prefix[0] = 0
	for i, v := range frame {
		e.prefix[i+1] = e.prefix[i] + v*v
	}

	total := e.prefix[n]

	e.diff[0] = 0
	for tau := 1; tau <= maxLag && tau < n; tau++ {
		acf := real(e.freqBuf[tau])
		d := e.prefix[n-tau] + (total - e.prefix[tau]) - 2*acf
		if d < 0 {
			d = 0
		}

		e.diff[tau] = d
	}
}

// normalizeDifference fills e.cmnd with the cumulative-mean-normalized
// difference d'(tau) = d(tau)*tau / sum_{j<=tau} d(j), with d'(0) = 1.
func (e *Estimator) normalizeDifference(maxLag int) {
	e.cmnd[0] = 1

	var sum float64
	for tau := 1; tau <= maxLag && tau < len(e.cmnd); tau++ {
		sum += e.diff[tau]
		if sum == 0 {
			e.cmnd[tau] = 1
			continue
		}

		e.cmnd[tau] = e.diff[tau] * float64(tau) / sum
	}
}

// pickLag scans for the first local minimum of the normalized difference
// below the threshold and falls back to the global minimum when none
// qualifies. Returns 0 when no usable lag exists.
func (e *Estimator) pickLag(maxLag int) int {
	best := 0
	bestVal := math.Inf(1)

	for tau := 2; tau <= maxLag && tau < len(e.cmnd); tau++ {
		v := e.cmnd[tau]

		if v < e.threshold {
			// Descend to the bottom of this dip before accepting.
			for tau+1 <= maxLag && tau+1 < len(e.cmnd) && e.cmnd[tau+1] < v {
				tau++
				v = e.cmnd[tau]
			}

			return tau
		}

		if v < bestVal {
			bestVal = v
			best = tau
		}
	}

	return best
}

// refineLag applies parabolic interpolation around tau for sub-sample lag
// precision, clamped to half a sample in either direction.
func (e *Estimator) refineLag(tau, maxLag int) float64 {
	if tau <= 0 {
		return float64(tau)
	}

	prev := tau - 1
	next := tau + 1

	if prev < 1 || next > maxLag || next >= len(e.cmnd) {
		return float64(tau)
	}

	s0 := e.cmnd[prev]
	s1 := e.cmnd[tau]
	s2 := e.cmnd[next]

	den := s0 - 2*s1 + s2
	if den == 0 {
		return float64(tau)
	}

	shift := (s0 - s2) / (2 * den)
	shift = core.Clamp(shift, -0.5, 0.5)

	return float64(tau) + shift
}

// nextPowerOf2 returns the smallest power of two >= n.
func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
