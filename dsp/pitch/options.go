package pitch

const (
	// Default detection band, tuned for bowed strings (violin G3 up to the
	// practical top of the fingerboard). Adjustable at runtime.
	defaultMinFrequency = 180.0
	defaultMaxFrequency = 3000.0

	// defaultThreshold is the YIN absolute threshold on the normalized
	// difference function.
	defaultThreshold = 0.1

	minThreshold = 0.01
	maxThreshold = 0.99
)

// EstimatorConfig defines the tunable parameters of the YIN estimator.
type EstimatorConfig struct {
	MinFrequency float64
	MaxFrequency float64
	Threshold    float64
}

// EstimatorOption mutates an EstimatorConfig.
type EstimatorOption func(*EstimatorConfig)

// DefaultEstimatorConfig returns the default detection band and threshold.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		MinFrequency: defaultMinFrequency,
		MaxFrequency: defaultMaxFrequency,
		Threshold:    defaultThreshold,
	}
}

// WithFrequencyBand sets the accepted fundamental-frequency range in Hz.
func WithFrequencyBand(minHz, maxHz float64) EstimatorOption {
	return func(cfg *EstimatorConfig) {
		if minHz > 0 && maxHz > minHz {
			cfg.MinFrequency = minHz
			cfg.MaxFrequency = maxHz
		}
	}
}

// WithThreshold sets the YIN absolute threshold. Lower values demand a
// cleaner periodicity before a candidate is accepted.
func WithThreshold(threshold float64) EstimatorOption {
	return func(cfg *EstimatorConfig) {
		if threshold >= minThreshold && threshold <= maxThreshold {
			cfg.Threshold = threshold
		}
	}
}

// ApplyEstimatorOptions applies zero or more options to the default config.
func ApplyEstimatorOptions(opts ...EstimatorOption) EstimatorConfig {
	cfg := DefaultEstimatorConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
