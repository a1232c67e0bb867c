package technique

import "testing"

// goodMetrics returns a bundle that triggers no rules.
func goodMetrics() Metrics {
	return Metrics{
		Note: "A4",
		Stability: Stability{
			InTuneRatio: 0.95,
		},
	}
}

func TestObserve_CleanNoteIsSilent(t *testing.T) {
	a := NewAnalyzer()

	if obs := a.Observe(goodMetrics()); len(obs) != 0 {
		t.Fatalf("got %d observations for a clean note: %+v", len(obs), obs)
	}
}

func TestObserve_RanksBySeverityTimesConfidence(t *testing.T) {
	a := NewAnalyzer()

	m := goodMetrics()
	m.Resonance.SuspectedWolf = true  // severity 3, confidence 0.7 -> 2.1
	m.Stability.DriftCentsPerSec = 20 // severity 2, confidence 0.9 -> 1.8
	m.Rhythm.HasOnsetError = true     // severity 2, confidence 0.85 -> 1.7
	m.Rhythm.OnsetErrorMs = 120
	m.Attack.AttackMs = 250   // severity 1, confidence 0.7
	m.Attack.ScoopCents = -45 // severity 1, confidence 0.75

	obs := a.Observe(m)

	if len(obs) != maxObservations {
		t.Fatalf("got %d observations, want capped at %d", len(obs), maxObservations)
	}

	if obs[0].Category != CategoryResonance || obs[0].Severity != 3 {
		t.Errorf("first observation = %+v, want the severity-3 wolf finding", obs[0])
	}

	if obs[1].Category != CategoryIntonation {
		t.Errorf("second observation = %+v, want the drift finding", obs[1])
	}

	if obs[2].Category != CategoryRhythm {
		t.Errorf("third observation = %+v, want the onset-error finding", obs[2])
	}

	for i := 1; i < len(obs); i++ {
		prev := float64(obs[i-1].Severity) * obs[i-1].Confidence
		cur := float64(obs[i].Severity) * obs[i].Confidence

		if cur > prev {
			t.Errorf("observation %d outranks its predecessor (%.2f > %.2f)", i, cur, prev)
		}
	}
}

func TestObserve_HigherSeverityBeatsHigherConfidence(t *testing.T) {
	a := NewAnalyzer()

	// Wolf: severity 3 x 0.7 = 2.1. Drift: severity 2 x 0.9 = 1.8. The
	// severity-3 finding must come first despite its lower confidence.
	m := goodMetrics()
	m.Resonance.SuspectedWolf = true
	m.Stability.DriftCentsPerSec = -25

	obs := a.Observe(m)

	if len(obs) != 2 {
		t.Fatalf("got %d observations, want 2", len(obs))
	}

	if obs[0].Severity != 3 {
		t.Errorf("first severity = %d, want 3", obs[0].Severity)
	}
}

func TestObserve_MessagesNameDirections(t *testing.T) {
	a := NewAnalyzer()

	m := goodMetrics()
	m.Stability.DriftCentsPerSec = -20

	obs := a.Observe(m)
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}

	if want := "pitch drifts flat by 20 cents/s over the note"; obs[0].Message != want {
		t.Errorf("message = %q, want %q", obs[0].Message, want)
	}

	if obs[0].Tip == "" {
		t.Error("observation should carry a tip")
	}
}

func TestObserve_VibratoRuleRequiresPresence(t *testing.T) {
	a := NewAnalyzer()

	// Irregular oscillation that was never confirmed as vibrato must not
	// produce vibrato feedback.
	m := goodMetrics()
	m.Vibrato.Regularity = 0.3

	if obs := a.Observe(m); len(obs) != 0 {
		t.Fatalf("got %+v, want none without Present", obs)
	}

	m.Vibrato.Present = true

	obs := a.Observe(m)
	if len(obs) != 1 || obs[0].Category != CategoryVibrato {
		t.Fatalf("got %+v, want the vibrato finding", obs)
	}
}

func TestObserve_ThresholdsAreConfigurable(t *testing.T) {
	m := goodMetrics()
	m.Stability.DriftCentsPerSec = 10

	if obs := NewAnalyzer().Observe(m); len(obs) != 0 {
		t.Fatalf("10 cents/s should not trigger the default threshold: %+v", obs)
	}

	strict := NewAnalyzer(func(cfg *AnalyzerConfig) {
		cfg.DriftAlertCentsPerSec = 5
	})

	if obs := strict.Observe(m); len(obs) != 1 {
		t.Fatalf("got %d observations with a 5 cents/s threshold, want 1", len(obs))
	}
}
