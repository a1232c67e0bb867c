// Package signal generates deterministic test signals for the analysis
// pipeline: steady and frequency-modulated sines, glissandi, and seeded
// white noise.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pitch/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{
		cfg:  core.ApplyProcessorOptions(opts...),
		seed: 1,
	}
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// VibratoSine generates a sine whose instantaneous frequency oscillates
// around freqHz at rateHz with the given peak deviation depthHz. The phase
// is integrated per sample so the modulation stays continuous.
func (g *Generator) VibratoSine(freqHz, rateHz, depthHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("vibrato samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("vibrato sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if depthHz < 0 {
		return nil, fmt.Errorf("vibrato depth must be >= 0: %f", depthHz)
	}

	out := make([]float64, samples)
	phase := 0.0
	for i := range out {
		t := float64(i) / g.cfg.SampleRate
		inst := freqHz + depthHz*math.Sin(2*math.Pi*rateHz*t)
		out[i] = amplitude * math.Sin(phase)
		phase += 2 * math.Pi * inst / g.cfg.SampleRate
	}
	return out, nil
}

// Glissando generates a sine sliding exponentially from startHz to endHz
// over the buffer, the way a finger slide moves through pitch space.
func (g *Generator) Glissando(startHz, endHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("glissando samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("glissando sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	if startHz <= 0 || endHz <= 0 {
		return nil, fmt.Errorf("glissando frequencies must be > 0: %f to %f", startHz, endHz)
	}

	out := make([]float64, samples)
	ratio := endHz / startHz
	phase := 0.0
	for i := range out {
		frac := float64(i) / float64(samples)
		inst := startHz * math.Pow(ratio, frac)
		out[i] = amplitude * math.Sin(phase)
		phase += 2 * math.Pi * inst / g.cfg.SampleRate
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		av := math.Abs(v)
		if av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
