// Command techniquecheck runs the full analysis pipeline over a synthesized
// test signal and prints the detected note events, technique metrics, and
// ranked observations.
//
// Usage:
//
//	techniquecheck [flags]
//
// Examples:
//
//	techniquecheck -signal sine -freq 440
//	techniquecheck -signal vibrato -freq 293.66 -vibrato-rate 5.5 -vibrato-depth 4
//	techniquecheck -signal glissando -freq 220 -freq-end 440
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-pitch/dsp/core"
	"github.com/cwbudde/algo-pitch/dsp/note"
	"github.com/cwbudde/algo-pitch/dsp/pitch"
	"github.com/cwbudde/algo-pitch/dsp/segment"
	"github.com/cwbudde/algo-pitch/dsp/signal"
	"github.com/cwbudde/algo-pitch/measure/technique"
)

func main() {
	sampleRate := flag.Float64("rate", 48000, "sample rate in Hz")
	frameSize := flag.Int("frame", 2048, "analysis frame length in samples")
	kind := flag.String("signal", "sine", "test signal: sine, vibrato, glissando, noise")
	freq := flag.Float64("freq", 440, "signal frequency in Hz")
	freqEnd := flag.Float64("freq-end", 880, "glissando end frequency in Hz")
	durSec := flag.Float64("dur", 1.5, "sounding duration in seconds")
	vibRate := flag.Float64("vibrato-rate", 5.5, "vibrato rate in Hz")
	vibDepth := flag.Float64("vibrato-depth", 4, "vibrato depth in Hz")
	a4 := flag.Float64("a4", note.DefaultA4, "A4 reference frequency in Hz")
	minRMS := flag.Float64("min-rms", 0.02, "estimation RMS gate")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: techniquecheck [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Synthesizes a test tone, runs the pitch -> segment -> technique pipeline,\n")
		fmt.Fprintf(os.Stderr, "and prints events, metrics, and observations.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(*sampleRate, *frameSize, *kind, *freq, *freqEnd, *durSec,
		*vibRate, *vibDepth, *a4, *minRMS); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(sampleRate float64, frameSize int, kind string, freq, freqEnd, durSec,
	vibRate, vibDepth, a4, minRMS float64) error {
	samples, err := synthesize(sampleRate, kind, freq, freqEnd, durSec, vibRate, vibDepth)
	if err != nil {
		return err
	}

	estimator, err := pitch.New(sampleRate)
	if err != nil {
		return fmt.Errorf("estimator: %v", err)
	}

	scale, err := note.NewScale(a4)
	if err != nil {
		return fmt.Errorf("scale: %v", err)
	}

	segmenter, err := segment.NewSegmenter()
	if err != nil {
		return fmt.Errorf("segmenter: %v", err)
	}

	analyzer := technique.NewAnalyzer()

	frameMs := int64(1000 * float64(frameSize) / sampleRate)
	if frameMs <= 0 {
		frameMs = 1
	}

	// Pad with silence so the segmenter sees a clean onset and offset.
	pad := make([]float64, 8*frameSize)
	stream := make([]float64, 0, len(samples)+2*len(pad))
	stream = append(stream, pad...)
	stream = append(stream, samples...)
	stream = append(stream, pad...)

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Time [ms]\tEvent\tNote\tDetail\n")
	fmt.Fprintf(tw, "---------\t-----\t----\t------\n")

	var (
		ts        int64
		completed int
		lastGap   []segment.Frame
	)

	for off := 0; off+frameSize <= len(stream); off += frameSize {
		frame := stream[off : off+frameSize]

		result, rms := estimator.EstimateAudible(frame, minRMS)

		f := segment.Frame{
			TimestampMs: ts,
			Volume:      rms,
			Confidence:  result.Confidence,
		}

		if result.Frequency > 0 {
			if nearest, ok := scale.Nearest(result.Frequency); ok {
				f.Pitched = true
				f.Frequency = result.Frequency
				f.Cents = nearest.Cents
				f.Note = nearest.Name
			}
		}

		ev, ok := segmenter.Process(f)
		ts += frameMs

		if !ok {
			continue
		}

		switch ev.Type {
		case segment.EventOnset:
			lastGap = ev.GapFrames
			fmt.Fprintf(tw, "%d\t%s\t%s\tgap %d frames\n",
				ev.TimestampMs, ev.Type, ev.Note, len(ev.GapFrames))

		case segment.EventOffset, segment.EventNoteChange:
			fmt.Fprintf(tw, "%d\t%s\t%s\t%d ms, %d frames\n",
				ev.TimestampMs, ev.Type, ev.Segment.Note,
				ev.Segment.DurationMs(), len(ev.Segment.Frames))

			if err := tw.Flush(); err != nil {
				return err
			}

			m := analyzer.Analyze(ev.Segment, lastGap)
			printMetrics(m)
			printObservations(analyzer.Observe(m))
			completed++
			lastGap = nil

			fmt.Fprintf(tw, "Time [ms]\tEvent\tNote\tDetail\n")
		}
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	if completed == 0 {
		fmt.Println("no completed notes detected")
	}

	return nil
}

func synthesize(sampleRate float64, kind string, freq, freqEnd, durSec, vibRate, vibDepth float64) ([]float64, error) {
	g := signal.NewGenerator(core.WithSampleRate(sampleRate))
	n := int(durSec * sampleRate)

	switch kind {
	case "sine":
		return g.Sine(freq, 0.5, n)
	case "vibrato":
		return g.VibratoSine(freq, vibRate, vibDepth, 0.5, n)
	case "glissando":
		return g.Glissando(freq, freqEnd, 0.5, n)
	case "noise":
		return g.WhiteNoise(0.5, n)
	default:
		return nil, fmt.Errorf("unknown signal %q (use sine, vibrato, glissando, noise)", kind)
	}
}

func printMetrics(m technique.Metrics) {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "\nMetric\tValue\n")
	fmt.Fprintf(tw, "------\t-----\n")
	fmt.Fprintf(tw, "note\t%s (%d ms)\n", m.Note, m.DurationMs)
	fmt.Fprintf(tw, "in-tune ratio\t%.2f\n", m.Stability.InTuneRatio)
	fmt.Fprintf(tw, "stddev global/settled\t%.1f / %.1f cents\n",
		m.Stability.GlobalStdDevCents, m.Stability.SettledStdDevCents)
	fmt.Fprintf(tw, "drift\t%.1f cents/s\n", m.Stability.DriftCentsPerSec)

	if m.Vibrato.Present {
		fmt.Fprintf(tw, "vibrato\t%.1f Hz, %.0f cents, regularity %.2f\n",
			m.Vibrato.RateHz, m.Vibrato.WidthCents, m.Vibrato.Regularity)
	} else {
		fmt.Fprintf(tw, "vibrato\tnone\n")
	}

	fmt.Fprintf(tw, "attack\t%.0f ms, scoop %.1f cents\n", m.Attack.AttackMs, m.Attack.ScoopCents)
	fmt.Fprintf(tw, "release stddev\t%.1f cents\n", m.Attack.ReleaseStdDevCents)
	fmt.Fprintf(tw, "wolf suspected\t%v (beating %.2f, chaos %.1f cents)\n",
		m.Resonance.SuspectedWolf, m.Resonance.BeatingScore, m.Resonance.ChaosCents)

	if m.Rhythm.HasOnsetError {
		fmt.Fprintf(tw, "onset error\t%.0f ms\n", m.Rhythm.OnsetErrorMs)
	}

	fmt.Fprintf(tw, "transition\t%.0f ms, glissando %.0f cents, landing %.1f cents, %d corrections\n",
		m.Transition.TransitionMs, m.Transition.GlissandoCents,
		m.Transition.LandingErrorCents, m.Transition.Corrections)

	_ = tw.Flush()
}

func printObservations(obs []technique.Observation) {
	if len(obs) == 0 {
		fmt.Println("\nno observations: clean note")
		fmt.Println()
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "\nSeverity\tCategory\tObservation\tTip\n")
	fmt.Fprintf(tw, "--------\t--------\t-----------\t---\n")

	for _, o := range obs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", o.Severity, o.Category, o.Message, o.Tip)
	}

	_ = tw.Flush()
	fmt.Println()
}
