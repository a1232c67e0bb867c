package technique

// Vibrato describes a detected pitch oscillation.
type Vibrato struct {
	// Present is true only when rate, width, and regularity all clear
	// their configured minimums.
	Present    bool
	RateHz     float64
	WidthCents float64
	// Regularity is the peak normalized autocorrelation of the detrended
	// cents series, 1.0 for a pure sinusoid.
	Regularity float64
}

// Stability describes intonation steadiness over the note.
type Stability struct {
	// GlobalStdDevCents covers every pitched frame; SettledStdDevCents
	// excludes the attack transient.
	GlobalStdDevCents  float64
	SettledStdDevCents float64
	// DriftCentsPerSec is the least-squares slope of cents over time.
	DriftCentsPerSec float64
	// InTuneRatio is the fraction of pitched frames within the in-tune
	// band of the target.
	InTuneRatio float64
}

// Attack describes the onset and release shape of the note.
type Attack struct {
	// AttackMs is the time from note start until volume first reaches the
	// configured fraction of stable volume.
	AttackMs float64
	// ScoopCents is the mean deviation during the scoop window minus the
	// settled mean; negative values mean the note was approached from
	// below.
	ScoopCents float64
	// ReleaseStdDevCents covers the final release window.
	ReleaseStdDevCents float64
}

// Resonance describes tonal instability evidence.
type Resonance struct {
	SuspectedWolf bool
	// BeatingScore is the peak autocorrelation of the detrended volume
	// series over the vibrato period band.
	BeatingScore float64
	// ChaosCents is the detrended cents standard deviation.
	ChaosCents float64
	// LowConfidenceRatio is the fraction of frames that were loud yet
	// poorly pitched.
	LowConfidenceRatio float64
}

// Rhythm describes timing accuracy against an expected schedule. The
// validity flags are false when the segment carried no expectations.
type Rhythm struct {
	OnsetErrorMs    float64
	HasOnsetError   bool
	DurationErrorMs float64
	HasDurationErr  bool
}

// Transition describes the approach into the note through the preceding
// gap frames.
type Transition struct {
	// TransitionMs is the timestamp span of the gap buffer.
	TransitionMs float64
	// GlissandoCents is the pitch range slid through during the gap.
	GlissandoCents float64
	// LandingErrorCents is the mean deviation over the landing window at
	// the start of the note.
	LandingErrorCents float64
	// Corrections counts cents sign changes in the correction window;
	// oscillation around the target indicates active pitch-hunting.
	Corrections int
}

// Metrics is the full technique bundle computed once per completed note.
type Metrics struct {
	Note       string
	DurationMs int64

	Vibrato    Vibrato
	Stability  Stability
	Attack     Attack
	Resonance  Resonance
	Rhythm     Rhythm
	Transition Transition
}
