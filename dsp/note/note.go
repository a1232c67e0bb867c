package note

import (
	"fmt"
	"math"
)

// DefaultA4 is the conventional concert pitch reference in Hz.
const DefaultA4 = 440.0

// midiA4 is the MIDI note number of A4.
const midiA4 = 69

var names = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Nearest describes the closest equal-tempered note to a frequency.
type Nearest struct {
	Name  string
	MIDI  int
	Cents float64 // signed deviation from the note, in [-50, 50]
}

// Scale maps between frequencies and equal-tempered notes for a given
// A4 reference.
type Scale struct {
	a4 float64
}

// NewScale creates a Scale tuned to the given A4 reference frequency.
func NewScale(a4Hz float64) (*Scale, error) {
	if a4Hz <= 0 || math.IsNaN(a4Hz) || math.IsInf(a4Hz, 0) {
		return nil, fmt.Errorf("note: A4 reference must be positive and finite: %v", a4Hz)
	}

	return &Scale{a4: a4Hz}, nil
}

// A4 returns the reference frequency of the scale.
func (s *Scale) A4() float64 { return s.a4 }

// Frequency returns the frequency of a MIDI note number.
func (s *Scale) Frequency(midi int) float64 {
	return s.a4 * math.Pow(2, float64(midi-midiA4)/12)
}

// Nearest returns the closest note to freqHz. The second return value is
// false for non-positive or non-finite frequencies.
func (s *Scale) Nearest(freqHz float64) (Nearest, bool) {
	if freqHz <= 0 || math.IsNaN(freqHz) || math.IsInf(freqHz, 0) {
		return Nearest{}, false
	}

	semis := 12*math.Log2(freqHz/s.a4) + midiA4
	midi := int(math.Round(semis))
	cents := CentsBetween(freqHz, s.Frequency(midi))

	return Nearest{
		Name:  Name(midi),
		MIDI:  midi,
		Cents: cents,
	}, true
}

// Name returns the conventional name of a MIDI note number, e.g. 69 -> "A4".
// Sharps are used for accidentals.
func Name(midi int) string {
	idx := midi % 12
	if idx < 0 {
		idx += 12
	}

	octave := midi/12 - 1
	if midi < 0 && midi%12 != 0 {
		octave--
	}

	return fmt.Sprintf("%s%d", names[idx], octave)
}

// CentsBetween returns the signed interval from ref to freq in cents.
// Returns 0 if either frequency is non-positive.
func CentsBetween(freq, ref float64) float64 {
	if freq <= 0 || ref <= 0 {
		return 0
	}

	return 1200 * math.Log2(freq/ref)
}
