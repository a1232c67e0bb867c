package technique

import (
	"fmt"
	"math"
	"sort"
)

// maxObservations caps the feedback surfaced per note; weaker signals are
// suppressed rather than overwhelming the player.
const maxObservations = 3

// Category tags an observation with the technique area it concerns.
type Category string

// Observation categories.
const (
	CategoryIntonation Category = "intonation"
	CategoryVibrato    Category = "vibrato"
	CategoryAttack     Category = "attack"
	CategoryResonance  Category = "resonance"
	CategoryRhythm     Category = "rhythm"
	CategoryTransition Category = "transition"
)

// Observation is one ranked pedagogical finding derived from a metrics
// bundle.
type Observation struct {
	Category   Category
	Severity   int // 1 (minor) to 3 (serious)
	Confidence float64
	Message    string
	Tip        string
}

// rule is one row of the observation table: a predicate over the metrics
// with a fixed severity and confidence.
type rule struct {
	category   Category
	severity   int
	confidence float64
	when       func(cfg AnalyzerConfig, m Metrics) bool
	message    func(m Metrics) string
	tip        string
}

var rules = []rule{
	{
		category:   CategoryIntonation,
		severity:   3,
		confidence: 0.85,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Stability.InTuneRatio < cfg.InTuneAlertRatio
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("only %.0f%% of the note was in tune", m.Stability.InTuneRatio*100)
		},
		tip: "check the finger placement before starting the bow stroke",
	},
	{
		category:   CategoryIntonation,
		severity:   2,
		confidence: 0.9,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return math.Abs(m.Stability.DriftCentsPerSec) > cfg.DriftAlertCentsPerSec
		},
		message: func(m Metrics) string {
			dir := "sharp"
			if m.Stability.DriftCentsPerSec < 0 {
				dir = "flat"
			}

			return fmt.Sprintf("pitch drifts %s by %.0f cents/s over the note",
				dir, math.Abs(m.Stability.DriftCentsPerSec))
		},
		tip: "sustain the note against a drone and hold the pitch steady",
	},
	{
		category:   CategoryIntonation,
		severity:   2,
		confidence: 0.8,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Stability.SettledStdDevCents > cfg.SettledAlertCents
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("pitch wavers %.0f cents even after settling", m.Stability.SettledStdDevCents)
		},
		tip: "slow practice with a tuner helps stabilize the sustained pitch",
	},
	{
		category:   CategoryResonance,
		severity:   3,
		confidence: 0.7,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Resonance.SuspectedWolf
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("unstable, beating tone (beating %.2f, chaos %.0f cents)",
				m.Resonance.BeatingScore, m.Resonance.ChaosCents)
		},
		tip: "try more bow weight closer to the bridge, or adjust the wolf eliminator",
	},
	{
		category:   CategoryAttack,
		severity:   1,
		confidence: 0.7,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Attack.AttackMs > cfg.AttackAlertMs
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("the note took %.0f ms to speak", m.Attack.AttackMs)
		},
		tip: "a slightly faster initial bow speed makes the string speak sooner",
	},
	{
		category:   CategoryAttack,
		severity:   1,
		confidence: 0.75,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return math.Abs(m.Attack.ScoopCents) > cfg.ScoopAlertCents
		},
		message: func(m Metrics) string {
			from := "below"
			if m.Attack.ScoopCents > 0 {
				from = "above"
			}

			return fmt.Sprintf("the note scoops in from %s by %.0f cents",
				from, math.Abs(m.Attack.ScoopCents))
		},
		tip: "place the finger on the target pitch before the bow moves",
	},
	{
		category:   CategoryAttack,
		severity:   1,
		confidence: 0.6,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Attack.ReleaseStdDevCents > cfg.ReleaseAlertCents
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("the release wobbles by %.0f cents", m.Attack.ReleaseStdDevCents)
		},
		tip: "keep the finger down until the bow has fully stopped",
	},
	{
		category:   CategoryVibrato,
		severity:   1,
		confidence: 0.6,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Vibrato.Present && m.Vibrato.Regularity < cfg.RegularityAlert
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("vibrato is uneven (regularity %.2f)", m.Vibrato.Regularity)
		},
		tip: "practice slow, metronome-paced vibrato pulses to even out the motion",
	},
	{
		category:   CategoryRhythm,
		severity:   2,
		confidence: 0.85,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Rhythm.HasOnsetError && math.Abs(m.Rhythm.OnsetErrorMs) > cfg.OnsetErrorAlertMs
		},
		message: func(m Metrics) string {
			when := "late"
			if m.Rhythm.OnsetErrorMs < 0 {
				when = "early"
			}

			return fmt.Sprintf("the note started %.0f ms %s", math.Abs(m.Rhythm.OnsetErrorMs), when)
		},
		tip: "subdivide the beat out loud before the entrance",
	},
	{
		category:   CategoryTransition,
		severity:   2,
		confidence: 0.7,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Transition.Corrections >= cfg.CorrectionAlert
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("pitch hunted around the target %d times after landing", m.Transition.Corrections)
		},
		tip: "practice the shift silently first, then confirm the arrival note",
	},
	{
		category:   CategoryTransition,
		severity:   1,
		confidence: 0.65,
		when: func(cfg AnalyzerConfig, m Metrics) bool {
			return m.Transition.GlissandoCents > cfg.GlissandoAlertCents
		},
		message: func(m Metrics) string {
			return fmt.Sprintf("audible slide of %.0f cents into the note", m.Transition.GlissandoCents)
		},
		tip: "lighten the finger pressure during the shift to hide the slide",
	},
}

// Observe evaluates the rule table against a metrics bundle and returns at
// most three observations, the most serious and most certain first.
func (a *Analyzer) Observe(m Metrics) []Observation {
	var out []Observation

	for _, r := range rules {
		if !r.when(a.cfg, m) {
			continue
		}

		out = append(out, Observation{
			Category:   r.category,
			Severity:   r.severity,
			Confidence: r.confidence,
			Message:    r.message(m),
			Tip:        r.tip,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return float64(out[i].Severity)*out[i].Confidence > float64(out[j].Severity)*out[j].Confidence
	})

	if len(out) > maxObservations {
		out = out[:maxObservations]
	}

	return out
}
