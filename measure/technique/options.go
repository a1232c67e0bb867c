package technique

const (
	defaultSettlingDelayMs = 150
	defaultInTuneCents     = 25.0

	defaultVibratoMinFrames     = 10
	defaultVibratoMinDurationMs = 500
	defaultVibratoGateCents     = 40.0
	defaultVibratoMinPeriodMs   = 100
	defaultVibratoMaxPeriodMs   = 250
	defaultVibratoMinWidth      = 10.0
	defaultVibratoMinRegularity = 0.5

	defaultAttackTargetRatio = 0.85
	defaultScoopWindowMs     = 150
	defaultReleaseWindowMs   = 100

	defaultWolfVolumeRMS     = 0.05
	defaultWolfConfidence    = 0.5
	defaultWolfLowConfRatio  = 0.3
	defaultWolfBeatingScore  = 0.4
	defaultWolfStrongBeating = 0.6
	defaultWolfChaosCents    = 20.0

	defaultLandingWindowMs    = 200
	defaultCorrectionWindowMs = 300

	defaultDriftAlertCents    = 15.0
	defaultSettledAlertCents  = 18.0
	defaultInTuneAlertRatio   = 0.5
	defaultAttackAlertMs      = 120.0
	defaultScoopAlertCents    = 30.0
	defaultReleaseAlertCents  = 20.0
	defaultRegularityAlert    = 0.7
	defaultOnsetErrorAlertMs  = 80.0
	defaultCorrectionAlert    = 3
	defaultGlissandoAlertCents = 60.0
)

// AnalyzerConfig defines the tunable constants of the technique analysis.
// The vibrato gate and wolf-tone thresholds are empirically tuned; they are
// exposed here because they may need recalibration per instrument or
// microphone.
type AnalyzerConfig struct {
	// SettlingDelayMs excludes the attack transient from the settled
	// stability window. Valid range roughly 50-500 ms.
	SettlingDelayMs int64

	// InTuneCents is the half-width of the in-tune band around the target.
	// Valid range roughly 5-50 cents.
	InTuneCents float64

	// Vibrato detection. A note shorter than VibratoMinDurationMs or with
	// fewer than VibratoMinFrames pitched frames is never scored, and a raw
	// cents deviation above VibratoGateCents disables vibrato analysis
	// entirely (chaotic pitch is not vibrato). Candidate oscillation
	// periods span [VibratoMinPeriodMs, VibratoMaxPeriodMs].
	VibratoMinFrames     int
	VibratoMinDurationMs int64
	VibratoGateCents     float64
	VibratoMinPeriodMs   int64
	VibratoMaxPeriodMs   int64
	VibratoMinWidthCents float64
	VibratoMinRegularity float64

	// Attack/release shape.
	AttackTargetRatio float64
	ScoopWindowMs     int64
	ReleaseWindowMs   int64

	// Wolf-tone heuristic. A frame counts as high-volume-low-confidence
	// when its volume exceeds WolfVolumeRMS while its confidence stays
	// below WolfConfidence.
	WolfVolumeRMS     float64
	WolfConfidence    float64
	WolfLowConfRatio  float64
	WolfBeatingScore  float64
	WolfStrongBeating float64
	WolfChaosCents    float64

	// Transition analysis windows at the start of a new note.
	LandingWindowMs    int64
	CorrectionWindowMs int64

	// Observation rule thresholds.
	DriftAlertCentsPerSec float64
	SettledAlertCents     float64
	InTuneAlertRatio      float64
	AttackAlertMs         float64
	ScoopAlertCents       float64
	ReleaseAlertCents     float64
	RegularityAlert       float64
	OnsetErrorAlertMs     float64
	CorrectionAlert       int
	GlissandoAlertCents   float64
}

// AnalyzerOption mutates an AnalyzerConfig.
type AnalyzerOption func(*AnalyzerConfig)

// DefaultAnalyzerConfig returns sensible defaults for a bowed-string
// instrument at typical practice-room microphone levels.
func DefaultAnalyzerConfig() AnalyzerConfig {
	return AnalyzerConfig{
		SettlingDelayMs: defaultSettlingDelayMs,
		InTuneCents:     defaultInTuneCents,

		VibratoMinFrames:     defaultVibratoMinFrames,
		VibratoMinDurationMs: defaultVibratoMinDurationMs,
		VibratoGateCents:     defaultVibratoGateCents,
		VibratoMinPeriodMs:   defaultVibratoMinPeriodMs,
		VibratoMaxPeriodMs:   defaultVibratoMaxPeriodMs,
		VibratoMinWidthCents: defaultVibratoMinWidth,
		VibratoMinRegularity: defaultVibratoMinRegularity,

		AttackTargetRatio: defaultAttackTargetRatio,
		ScoopWindowMs:     defaultScoopWindowMs,
		ReleaseWindowMs:   defaultReleaseWindowMs,

		WolfVolumeRMS:     defaultWolfVolumeRMS,
		WolfConfidence:    defaultWolfConfidence,
		WolfLowConfRatio:  defaultWolfLowConfRatio,
		WolfBeatingScore:  defaultWolfBeatingScore,
		WolfStrongBeating: defaultWolfStrongBeating,
		WolfChaosCents:    defaultWolfChaosCents,

		LandingWindowMs:    defaultLandingWindowMs,
		CorrectionWindowMs: defaultCorrectionWindowMs,

		DriftAlertCentsPerSec: defaultDriftAlertCents,
		SettledAlertCents:     defaultSettledAlertCents,
		InTuneAlertRatio:      defaultInTuneAlertRatio,
		AttackAlertMs:         defaultAttackAlertMs,
		ScoopAlertCents:       defaultScoopAlertCents,
		ReleaseAlertCents:     defaultReleaseAlertCents,
		RegularityAlert:       defaultRegularityAlert,
		OnsetErrorAlertMs:     defaultOnsetErrorAlertMs,
		CorrectionAlert:       defaultCorrectionAlert,
		GlissandoAlertCents:   defaultGlissandoAlertCents,
	}
}

// WithSettlingDelay sets the attack-transient exclusion window in
// milliseconds.
func WithSettlingDelay(ms int64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if ms > 0 {
			cfg.SettlingDelayMs = ms
		}
	}
}

// WithInTuneCents sets the in-tune band half-width in cents.
func WithInTuneCents(cents float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if cents > 0 {
			cfg.InTuneCents = cents
		}
	}
}

// WithVibratoPeriodBand sets the candidate oscillation period range in
// milliseconds. 100-250 ms corresponds to 4-10 Hz.
func WithVibratoPeriodBand(minMs, maxMs int64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if minMs > 0 && maxMs > minMs {
			cfg.VibratoMinPeriodMs = minMs
			cfg.VibratoMaxPeriodMs = maxMs
		}
	}
}

// WithVibratoGates sets the chaos gate and the minimum width/regularity a
// detected oscillation must clear to count as vibrato.
func WithVibratoGates(gateCents, minWidthCents, minRegularity float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if gateCents > 0 {
			cfg.VibratoGateCents = gateCents
		}
		if minWidthCents > 0 {
			cfg.VibratoMinWidthCents = minWidthCents
		}
		if minRegularity > 0 && minRegularity <= 1 {
			cfg.VibratoMinRegularity = minRegularity
		}
	}
}

// WithWolfThresholds sets the wolf-tone evidence thresholds.
func WithWolfThresholds(lowConfRatio, beatingScore, strongBeating, chaosCents float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if lowConfRatio > 0 && lowConfRatio <= 1 {
			cfg.WolfLowConfRatio = lowConfRatio
		}
		if beatingScore > 0 && beatingScore <= 1 {
			cfg.WolfBeatingScore = beatingScore
		}
		if strongBeating > 0 && strongBeating <= 1 {
			cfg.WolfStrongBeating = strongBeating
		}
		if chaosCents > 0 {
			cfg.WolfChaosCents = chaosCents
		}
	}
}

// WithAttackTargetRatio sets the fraction of stable volume a note must
// reach to end its attack phase.
func WithAttackTargetRatio(ratio float64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if ratio > 0 && ratio <= 1 {
			cfg.AttackTargetRatio = ratio
		}
	}
}

// WithTransitionWindows sets the landing and correction analysis windows in
// milliseconds.
func WithTransitionWindows(landingMs, correctionMs int64) AnalyzerOption {
	return func(cfg *AnalyzerConfig) {
		if landingMs > 0 {
			cfg.LandingWindowMs = landingMs
		}
		if correctionMs > 0 {
			cfg.CorrectionWindowMs = correctionMs
		}
	}
}

// ApplyAnalyzerOptions applies zero or more options to the default config.
func ApplyAnalyzerOptions(opts ...AnalyzerOption) AnalyzerConfig {
	cfg := DefaultAnalyzerConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
