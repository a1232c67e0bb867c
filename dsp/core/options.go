package core

// ProcessorConfig defines common analysis settings shared across packages.
type ProcessorConfig struct {
	SampleRate float64
	FrameSize  int
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns sensible defaults for real-time analysis.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 48000,
		FrameSize:  2048,
	}
}

// WithSampleRate sets the analysis sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSize sets the number of samples per analysis frame.
func WithFrameSize(frameSize int) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if frameSize > 0 {
			cfg.FrameSize = frameSize
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
