package technique

import (
	"math"

	"github.com/cwbudde/algo-pitch/dsp/segment"
	"github.com/cwbudde/algo-pitch/stats/series"
)

// Analyzer computes technique metrics for completed note segments.
//
// Analyze and Observe are pure given their inputs; one Analyzer may serve
// any number of segments, but must not be reconfigured while in use.
type Analyzer struct {
	cfg AnalyzerConfig
}

// NewAnalyzer creates an analyzer with the given options.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	return &Analyzer{cfg: ApplyAnalyzerOptions(opts...)}
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() AnalyzerConfig { return a.cfg }

// Analyze computes the metrics bundle for a completed segment and the gap
// frames that preceded it. Degenerate inputs (no frames, no pitched frames)
// resolve to zero-valued metrics rather than errors; a single bad segment
// must never halt the pipeline.
func (a *Analyzer) Analyze(seg segment.Segment, gap []segment.Frame) Metrics {
	m := Metrics{
		Note:       seg.Note,
		DurationMs: seg.DurationMs(),
	}

	if len(seg.Frames) == 0 {
		m.Rhythm = a.analyzeRhythm(seg)
		m.Transition = a.analyzeTransition(seg, gap)

		return m
	}

	pitched := pitchedFrames(seg.Frames)
	times, cents := centsSeries(pitched, seg.StartMs)
	detrended := series.Detrend(times, cents)

	m.Stability = a.analyzeStability(pitched, times, cents, seg.StartMs)
	m.Vibrato = a.analyzeVibrato(pitched, detrended, m.Stability.GlobalStdDevCents)
	m.Attack = a.analyzeAttack(seg, pitched)
	m.Resonance = a.analyzeResonance(seg.Frames, detrended)
	m.Rhythm = a.analyzeRhythm(seg)
	m.Transition = a.analyzeTransition(seg, gap)

	return m
}

func (a *Analyzer) analyzeStability(pitched []segment.Frame, times, cents []float64, startMs int64) Stability {
	if len(pitched) == 0 {
		return Stability{}
	}

	slope, _ := series.LinearRegression(times, cents)

	settleAt := startMs + a.cfg.SettlingDelayMs

	var settled []float64

	inTune := 0

	for i, f := range pitched {
		if f.TimestampMs >= settleAt {
			settled = append(settled, cents[i])
		}

		if math.Abs(cents[i]) <= a.cfg.InTuneCents {
			inTune++
		}
	}

	return Stability{
		GlobalStdDevCents:  series.StdDev(cents),
		SettledStdDevCents: series.StdDev(settled),
		DriftCentsPerSec:   slope,
		InTuneRatio:        float64(inTune) / float64(len(pitched)),
	}
}

func (a *Analyzer) analyzeVibrato(pitched []segment.Frame, detrended []float64, globalStdDev float64) Vibrato {
	if len(pitched) < a.cfg.VibratoMinFrames {
		return Vibrato{}
	}

	spanMs := pitched[len(pitched)-1].TimestampMs - pitched[0].TimestampMs
	if spanMs < a.cfg.VibratoMinDurationMs {
		return Vibrato{}
	}

	// Chaotic pitch is not vibrato.
	if globalStdDev > a.cfg.VibratoGateCents {
		return Vibrato{}
	}

	frameMs := float64(spanMs) / float64(len(pitched)-1)
	if frameMs <= 0 {
		return Vibrato{}
	}

	lag, regularity := bestPeriod(detrended, frameMs,
		a.cfg.VibratoMinPeriodMs, a.cfg.VibratoMaxPeriodMs)
	if lag == 0 {
		return Vibrato{}
	}

	periodMs := float64(lag) * frameMs

	v := Vibrato{
		RateHz: 1000 / periodMs,
		// sqrt(2)*2: stddev-to-peak-to-peak for a pure sinusoid.
		WidthCents: series.StdDev(detrended) * 2 * math.Sqrt2,
		Regularity: regularity,
	}

	minRate := 1000 / float64(a.cfg.VibratoMaxPeriodMs)
	maxRate := 1000 / float64(a.cfg.VibratoMinPeriodMs)

	v.Present = v.RateHz >= minRate && v.RateHz <= maxRate &&
		v.WidthCents >= a.cfg.VibratoMinWidthCents &&
		v.Regularity >= a.cfg.VibratoMinRegularity

	return v
}

func (a *Analyzer) analyzeAttack(seg segment.Segment, pitched []segment.Frame) Attack {
	frames := seg.Frames

	var att Attack

	// Stable volume: mean RMS over the middle half of the note.
	lo, hi := len(frames)/4, 3*len(frames)/4
	if hi <= lo {
		hi = len(frames)
	}

	volumes := make([]float64, 0, hi-lo)
	for _, f := range frames[lo:hi] {
		volumes = append(volumes, f.Volume)
	}

	stable := series.Mean(volumes)
	if stable > 0 {
		target := a.cfg.AttackTargetRatio * stable

		for _, f := range frames {
			if f.Volume >= target {
				att.AttackMs = float64(f.TimestampMs - seg.StartMs)
				break
			}
		}
	}

	if len(pitched) == 0 {
		return att
	}

	// Scoop: early mean cents relative to the settled mean.
	scoopUntil := seg.StartMs + a.cfg.ScoopWindowMs
	settleAt := seg.StartMs + a.cfg.SettlingDelayMs

	var early, late []float64

	for _, f := range pitched {
		if f.TimestampMs < scoopUntil {
			early = append(early, f.Cents)
		}

		if f.TimestampMs >= settleAt {
			late = append(late, f.Cents)
		}
	}

	if len(early) > 0 && len(late) > 0 {
		att.ScoopCents = series.Mean(early) - series.Mean(late)
	}

	releaseFrom := seg.EndMs - a.cfg.ReleaseWindowMs

	var release []float64

	for _, f := range pitched {
		if f.TimestampMs >= releaseFrom {
			release = append(release, f.Cents)
		}
	}

	att.ReleaseStdDevCents = series.StdDev(release)

	return att
}

func (a *Analyzer) analyzeResonance(frames []segment.Frame, detrendedCents []float64) Resonance {
	res := Resonance{
		ChaosCents: series.StdDev(detrendedCents),
	}

	lowConf := 0

	times := make([]float64, len(frames))
	volumes := make([]float64, len(frames))

	for i, f := range frames {
		if f.Volume > a.cfg.WolfVolumeRMS && f.Confidence < a.cfg.WolfConfidence {
			lowConf++
		}

		times[i] = float64(f.TimestampMs-frames[0].TimestampMs) / 1000
		volumes[i] = f.Volume
	}

	res.LowConfidenceRatio = float64(lowConf) / float64(len(frames))

	// Periodic RMS beating: the vibrato autocorrelation applied to the
	// detrended volume envelope.
	if len(frames) > 1 {
		spanMs := frames[len(frames)-1].TimestampMs - frames[0].TimestampMs

		frameMs := float64(spanMs) / float64(len(frames)-1)
		if frameMs > 0 {
			detVol := series.Detrend(times, volumes)

			_, res.BeatingScore = bestPeriod(detVol, frameMs,
				a.cfg.VibratoMinPeriodMs, a.cfg.VibratoMaxPeriodMs)
		}
	}

	res.SuspectedWolf = (res.LowConfidenceRatio > a.cfg.WolfLowConfRatio && res.BeatingScore > a.cfg.WolfBeatingScore) ||
		(res.BeatingScore > a.cfg.WolfStrongBeating && res.ChaosCents > a.cfg.WolfChaosCents)

	return res
}

func (a *Analyzer) analyzeRhythm(seg segment.Segment) Rhythm {
	var r Rhythm

	if seg.HasExpectedStart {
		r.OnsetErrorMs = float64(seg.StartMs - seg.ExpectedStartMs)
		r.HasOnsetError = true
	}

	if seg.HasExpectedDuration {
		r.DurationErrorMs = float64(seg.DurationMs() - seg.ExpectedDurationMs)
		r.HasDurationErr = true
	}

	return r
}

func (a *Analyzer) analyzeTransition(seg segment.Segment, gap []segment.Frame) Transition {
	var tr Transition

	if len(gap) > 1 {
		tr.TransitionMs = float64(gap[len(gap)-1].TimestampMs - gap[0].TimestampMs)

		minC, maxC := math.Inf(1), math.Inf(-1)
		pitchedCount := 0

		for _, f := range gap {
			if !f.Pitched {
				continue
			}

			pitchedCount++
			minC = math.Min(minC, f.Cents)
			maxC = math.Max(maxC, f.Cents)
		}

		if pitchedCount > 1 {
			tr.GlissandoCents = maxC - minC
		}
	}

	landUntil := seg.StartMs + a.cfg.LandingWindowMs
	correctUntil := seg.StartMs + a.cfg.CorrectionWindowMs

	var landing []float64

	prevSign := 0

	for _, f := range seg.Frames {
		if !f.Pitched {
			continue
		}

		if f.TimestampMs < landUntil {
			landing = append(landing, f.Cents)
		}

		if f.TimestampMs < correctUntil {
			sign := 0
			if f.Cents > 0 {
				sign = 1
			} else if f.Cents < 0 {
				sign = -1
			}

			if sign != 0 && prevSign != 0 && sign != prevSign {
				tr.Corrections++
			}

			if sign != 0 {
				prevSign = sign
			}
		}
	}

	tr.LandingErrorCents = series.Mean(landing)

	return tr
}

// pitchedFrames filters the frames carrying a pitch reading.
func pitchedFrames(frames []segment.Frame) []segment.Frame {
	out := make([]segment.Frame, 0, len(frames))

	for _, f := range frames {
		if f.Pitched {
			out = append(out, f)
		}
	}

	return out
}

// centsSeries extracts parallel time (seconds from note start) and cents
// slices from pitched frames.
func centsSeries(pitched []segment.Frame, startMs int64) (times, cents []float64) {
	times = make([]float64, len(pitched))
	cents = make([]float64, len(pitched))

	for i, f := range pitched {
		times[i] = float64(f.TimestampMs-startMs) / 1000
		cents[i] = f.Cents
	}

	return times, cents
}

// bestPeriod scans candidate lags whose period falls inside
// [minPeriodMs, maxPeriodMs] and returns the lag with the highest
// normalized autocorrelation, along with that correlation. A zero lag
// means no candidate fit the series.
func bestPeriod(values []float64, frameMs float64, minPeriodMs, maxPeriodMs int64) (int, float64) {
	if frameMs <= 0 {
		return 0, 0
	}

	minLag := int(math.Ceil(float64(minPeriodMs) / frameMs))
	if minLag < 1 {
		minLag = 1
	}

	maxLag := int(math.Floor(float64(maxPeriodMs) / frameMs))
	if maxLag >= len(values) {
		maxLag = len(values) - 1
	}

	bestLag, bestCorr := 0, 0.0

	for lag := minLag; lag <= maxLag; lag++ {
		corr := series.NormalizedAutocorrelation(values, lag)
		if corr > bestCorr {
			bestLag, bestCorr = lag, corr
		}
	}

	return bestLag, bestCorr
}
