package segment

const (
	defaultMinRMS        = 0.02
	defaultMaxSilenceRMS = 0.01
	defaultMinConfidence = 0.6

	defaultOnsetDebounceMs      = 50
	defaultOffsetDebounceMs     = 150
	defaultNoteChangeDebounceMs = 30
	defaultDropoutToleranceMs   = 100

	defaultMaxGapFrames  = 64
	defaultMaxNoteFrames = 2048
)

// SegmenterConfig defines the thresholds and hold windows of the state
// machine. MinRMS and MaxSilenceRMS form a hysteresis band: a frame louder
// than MinRMS (with sufficient confidence) is clearly sounding, one quieter
// than MaxSilenceRMS is clearly silent, and levels in between extend the
// current state.
type SegmenterConfig struct {
	MinRMS        float64
	MaxSilenceRMS float64
	MinConfidence float64

	OnsetDebounceMs      int64
	OffsetDebounceMs     int64
	NoteChangeDebounceMs int64
	DropoutToleranceMs   int64

	MaxGapFrames  int
	MaxNoteFrames int
}

// SegmenterOption mutates a SegmenterConfig.
type SegmenterOption func(*SegmenterConfig)

// DefaultSegmenterConfig returns defaults suited to bowed-string practice
// at typical microphone levels.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		MinRMS:               defaultMinRMS,
		MaxSilenceRMS:        defaultMaxSilenceRMS,
		MinConfidence:        defaultMinConfidence,
		OnsetDebounceMs:      defaultOnsetDebounceMs,
		OffsetDebounceMs:     defaultOffsetDebounceMs,
		NoteChangeDebounceMs: defaultNoteChangeDebounceMs,
		DropoutToleranceMs:   defaultDropoutToleranceMs,
		MaxGapFrames:         defaultMaxGapFrames,
		MaxNoteFrames:        defaultMaxNoteFrames,
	}
}

// WithVolumeThresholds sets the sounding/silent hysteresis band.
func WithVolumeThresholds(minRMS, maxSilenceRMS float64) SegmenterOption {
	return func(cfg *SegmenterConfig) {
		if minRMS > 0 && maxSilenceRMS >= 0 {
			cfg.MinRMS = minRMS
			cfg.MaxSilenceRMS = maxSilenceRMS
		}
	}
}

// WithMinConfidence sets the minimum detection confidence for a frame to
// count as clearly sounding.
func WithMinConfidence(confidence float64) SegmenterOption {
	return func(cfg *SegmenterConfig) {
		if confidence >= 0 && confidence <= 1 {
			cfg.MinConfidence = confidence
		}
	}
}

// WithDebounce sets the onset, offset, and note-change hold windows in ms.
func WithDebounce(onsetMs, offsetMs, noteChangeMs int64) SegmenterOption {
	return func(cfg *SegmenterConfig) {
		if onsetMs > 0 {
			cfg.OnsetDebounceMs = onsetMs
		}
		if offsetMs > 0 {
			cfg.OffsetDebounceMs = offsetMs
		}
		if noteChangeMs > 0 {
			cfg.NoteChangeDebounceMs = noteChangeMs
		}
	}
}

// WithDropoutTolerance sets how long a pitch dropout may last before the
// offset timer is allowed to start.
func WithDropoutTolerance(ms int64) SegmenterOption {
	return func(cfg *SegmenterConfig) {
		if ms >= 0 {
			cfg.DropoutToleranceMs = ms
		}
	}
}

// WithFrameCaps bounds the gap and in-note frame buffers. Oldest frames
// are evicted first once a cap is reached.
func WithFrameCaps(gapFrames, noteFrames int) SegmenterOption {
	return func(cfg *SegmenterConfig) {
		if gapFrames > 0 {
			cfg.MaxGapFrames = gapFrames
		}
		if noteFrames > 0 {
			cfg.MaxNoteFrames = noteFrames
		}
	}
}

// ApplySegmenterOptions applies zero or more options to the default config.
func ApplySegmenterOptions(opts ...SegmenterOption) SegmenterConfig {
	cfg := DefaultSegmenterConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
